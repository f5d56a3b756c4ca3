package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/internal/config"
)

func TestDefaultPassesCheck(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Check())
}

func TestCheckRejectsBadProxyProtocol(t *testing.T) {
	cfg := config.Default()
	cfg.ProxyProtocol = "v2"
	require.Error(t, cfg.Check())
}

func TestCheckRejectsTinyBuffer(t *testing.T) {
	cfg := config.Default()
	cfg.ConnBufferSize = 16
	require.Error(t, cfg.Check())
}

func TestLoadRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.ProxyProtocol = "v1"
	data, err := cfg.ToBytes()
	require.NoError(t, err)

	loaded, err := config.Load(data)
	require.NoError(t, err)
	require.Equal(t, "v1", loaded.ProxyProtocol)
	require.Equal(t, cfg.ConnBufferSize, loaded.ConnBufferSize)
}
