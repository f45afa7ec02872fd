package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaDeclaresTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"users", "consultations", "chat_messages", "integration_tokens"} {
		require.Contains(t, schema, "create table if not exists "+table+" (")
	}
	require.Contains(t, schema, "on consultations (user_id, created_at desc, seq desc)")
	require.Contains(t, schema, "alter table consultations add column if not exists seq bigserial")
}

func TestSchemaIsRerunnable(t *testing.T) {
	for _, line := range strings.Split(Schema(), "\n") {
		if strings.HasPrefix(line, "create ") {
			require.Contains(t, line, "if not exists", line)
		}
	}
}
