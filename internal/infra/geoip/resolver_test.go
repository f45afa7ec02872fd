package geoip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIP(t *testing.T) {
	require.Equal(t, "200.160.2.3", ParseIP("200.160.2.3:443").String())
	require.Equal(t, "200.160.2.3", ParseIP(" 200.160.2.3 ").String())
	require.Equal(t, "2001:db8::1", ParseIP("[2001:db8::1]:8080").String())
	require.Nil(t, ParseIP("not-an-ip"))
}

func TestNilResolver(t *testing.T) {
	r, err := NewResolver("  ")
	require.NoError(t, err)
	require.Nil(t, r)

	_, err = r.CountryCode("200.160.2.3")
	require.ErrorIs(t, err, ErrUnavailable)
	require.NoError(t, r.Close())
}
