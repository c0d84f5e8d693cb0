package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_FileAndDefaults(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, "mode: debug\nport: 9000\nsecret: s3cret\nping_period: 10s\nvote_visibility: identified\n")

	cfg, err := LoadFile(path)

	req.NoError(err)
	req.Equal("debug", cfg.Mode)
	req.Equal(9000, cfg.Port)
	req.Equal(10*time.Second, cfg.PingPeriod)
	req.Equal(5*time.Second, cfg.WriteTimeout)
	req.Zero(cfg.HistoryLimit)
	req.Equal("ignore", cfg.Backpressure)
	req.False(cfg.AnonymousVotes())
}

func TestLoadFile_HistoryLimitIsOptIn(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadFile(writeConfig(t, "secret: s3cret\n"))
	req.NoError(err)
	req.Zero(cfg.HistoryLimit)

	cfg, err = LoadFile(writeConfig(t, "secret: s3cret\nhistory_limit: 50\n"))
	req.NoError(err)
	req.Equal(50, cfg.HistoryLimit)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, "secret: s3cret\nport: 9000\n")
	t.Setenv("POKER_PORT", "9100")
	t.Setenv("POKER_BACKPRESSURE", "kick")

	cfg, err := LoadFile(path)

	req.NoError(err)
	req.Equal(9100, cfg.Port)
	req.Equal("kick", cfg.Backpressure)
	req.True(cfg.AnonymousVotes())
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "port: 9000\n"},
		{"bad visibility", "secret: s\nvote_visibility: loud\n"},
		{"bad backpressure", "secret: s\nbackpressure: drop\n"},
		{"bad port", "secret: s\nport: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}
