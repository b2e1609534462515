package remote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseServerAddress(t *testing.T) {
	addr, err := ParseServerAddress("db1.internal")
	require.NoError(t, err)
	require.Equal(t, "db1.internal", addr.Host())
	require.Equal(t, DefaultPort, addr.Port())

	addr, err = ParseServerAddress("db1.internal:27018")
	require.NoError(t, err)
	require.Equal(t, "db1.internal", addr.Host())
	require.Equal(t, 27018, addr.Port())

	addr, err = ParseServerAddress("[::1]:27017")
	require.NoError(t, err)
	require.Equal(t, "::1", addr.Host())
	require.Equal(t, 27017, addr.Port())
}

func TestParseServerAddressRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "   ", ":27017", "host:notaport", "host:0", "host:99999"} {
		_, err := ParseServerAddress(input)
		require.Error(t, err, "input %q", input)
	}
}

func TestServerAddressString(t *testing.T) {
	require.Equal(t, "db1:27017", NewServerAddress("db1", 27017).String())
	require.Equal(t, "[::1]:27018", NewServerAddress("::1", 27018).String())
}

func TestResolveAddresses(t *testing.T) {
	require.NoError(t, resolveAddresses([]ServerAddress{NewServerAddress("127.0.0.1", 27017)}))
}
