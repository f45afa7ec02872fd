package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const goodSrc = "package q\n\nconst QOne = `--sql 0b8f3c2e-4d1a-4f6b-9a7e-2c5d8e1f3a90\nselect 1;\n`\n"

func TestLintAcceptsMarkedQueries(t *testing.T) {
	l := newLinter()
	require.NoError(t, l.lintFile("good.go", goodSrc))
	require.Empty(t, l.violations)
}

func TestLintFlagsMissingMarker(t *testing.T) {
	l := newLinter()
	src := "package q\n\nconst QBad = `\nselect * from users;\n`\nconst Greeting = \"hello with friends\"\n"
	require.NoError(t, l.lintFile("bad.go", src))
	require.Len(t, l.violations, 1)
	require.Equal(t, "QBad", l.violations[0].name)
	require.Equal(t, 3, l.violations[0].line)
}

func TestLintFlagsDuplicateMarkersAcrossFiles(t *testing.T) {
	l := newLinter()
	require.NoError(t, l.lintFile("a.go", goodSrc))
	dup := "package q\n\nconst QTwo = `--sql 0b8f3c2e-4d1a-4f6b-9a7e-2c5d8e1f3a90\nupdate users set name = '';\n`\n"
	require.NoError(t, l.lintFile("b.go", dup))
	require.Len(t, l.violations, 1)
	require.Equal(t, "QTwo", l.violations[0].name)
	require.Contains(t, l.violations[0].message, "QOne")
}

func TestLintRejectsMalformedUUID(t *testing.T) {
	l := newLinter()
	src := "package q\n\nconst QX = `--sql not-a-uuid\nselect 1;\n`\n"
	require.NoError(t, l.lintFile("x.go", src))
	require.Len(t, l.violations, 1)
}
