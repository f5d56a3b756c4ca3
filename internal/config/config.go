// Package config holds the wire engine's own tunables. Router policy,
// namespace/admin configuration and monitor settings are the surrounding
// proxy's concern and are not modeled here.
package config

import (
	"bytes"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dbgateway/mysqlwire/internal/errors"
)

var (
	ErrUnsupportedProxyProtocolVersion = errors.New("unsupported proxy protocol version")
	ErrInvalidConfigValue              = errors.New("invalid config value")
)

// KeepAlive mirrors the TCP keepalive knobs the engine applies to backend
// connections. Idle/Cnt/Intvl only matter while the connection is quiet;
// application traffic resets the clock.
type KeepAlive struct {
	Enabled bool          `toml:"enabled,omitempty"`
	Idle    time.Duration `toml:"idle,omitempty"`
	Cnt     int           `toml:"cnt,omitempty"`
	Intvl   time.Duration `toml:"intvl,omitempty"`
	Timeout time.Duration `toml:"timeout,omitempty"`
}

// Config is the engine-level configuration: buffer sizes, timeouts,
// keepalive policy and the PROXY protocol toggle. Everything about which
// backend to route to, TLS material, or admin surfaces lives one layer up.
type Config struct {
	ConnBufferSize      int           `toml:"conn-buffer-size,omitempty"`
	ConnectTimeout      time.Duration `toml:"connect-timeout,omitempty"`
	IdlePingInterval    time.Duration `toml:"idle-ping-interval,omitempty"`
	ProxyProtocol       string        `toml:"proxy-protocol,omitempty"`
	BackendHealthy      KeepAlive     `toml:"backend-healthy-keepalive"`
	BackendUnhealthy    KeepAlive     `toml:"backend-unhealthy-keepalive"`
	LogLevel            string        `toml:"log-level,omitempty"`
	TrackSessionState   bool          `toml:"track-session-state"`
}

// Default returns the engine's default configuration.
func Default() *Config {
	return &Config{
		ConnBufferSize:   16 * 1024,
		ConnectTimeout:   15 * time.Second,
		IdlePingInterval: 30 * time.Second,
		LogLevel:         "info",
		BackendHealthy: KeepAlive{
			Enabled: true, Idle: 60 * time.Second, Cnt: 5, Intvl: 3 * time.Second, Timeout: 15 * time.Second,
		},
		BackendUnhealthy: KeepAlive{
			Enabled: true, Idle: 10 * time.Second, Cnt: 5, Intvl: 1 * time.Second, Timeout: 5 * time.Second,
		},
		TrackSessionState: true,
	}
}

// Check validates the config, filling in any remaining defaults.
func (c *Config) Check() error {
	switch c.ProxyProtocol {
	case "", "v1":
	default:
		return errors.Wrapf(ErrUnsupportedProxyProtocolVersion, "%s", c.ProxyProtocol)
	}
	if c.ConnBufferSize != 0 && (c.ConnBufferSize < 1024 || c.ConnBufferSize > 16*1024*1024) {
		return errors.Wrapf(ErrInvalidConfigValue, "conn-buffer-size must be between 1K and 16M")
	}
	if c.ConnBufferSize == 0 {
		c.ConnBufferSize = Default().ConnBufferSize
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = Default().ConnectTimeout
	}
	return nil
}

// Load decodes a TOML document into a Config seeded with defaults.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToBytes encodes the config back to TOML, e.g. for `wiredump config-dump`.
func (c *Config) ToBytes() ([]byte, error) {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return nil, errors.WithStack(err)
	}
	return b.Bytes(), nil
}
