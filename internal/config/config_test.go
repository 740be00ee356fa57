package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ServerAddress)
	assert.Empty(t, cfg.GRPCAddress)
	assert.Equal(t, 70, cfg.MaxConcurrency)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "URLProbe/1.0", cfg.UserAgent)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("MAX_CONCURRENCY", "12")
	t.Setenv("PROBE_TIMEOUT", "750ms")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 12, cfg.MaxConcurrency)
	assert.Equal(t, 750*time.Millisecond, cfg.ProbeTimeout)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "12")

	cfg, err := Load([]string{"-w", "3", "-t", "2s", "-g", ":3200", "-a", ":8081"})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, ":3200", cfg.GRPCAddress)
	assert.Equal(t, ":8081", cfg.ServerAddress)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server_address": ":7070", "max_concurrency": 5, "probe_timeout": "1500ms"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ServerAddress)
	assert.Equal(t, 5, cfg.MaxConcurrency)
	assert.Equal(t, 1500*time.Millisecond, cfg.ProbeTimeout)
}

func TestLoad_JSONFileLosesToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_concurrency": 5}`), 0644))
	t.Setenv("MAX_CONCURRENCY", "9")

	cfg, err := Load([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.MaxConcurrency)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load([]string{"-w", "-1"})
	assert.Error(t, err)

	_, err = Load([]string{"-unknown"})
	assert.Error(t, err)
}

func TestLoad_BadFlags(t *testing.T) {
	cfg, err := Load([]string{"-bogus"})
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.False(t, errors.Is(err, flag.ErrHelp))

	cfg, err = Load([]string{"-h"})
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestNewConfig(t *testing.T) {
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	os.Args = []string{"urlprobe", "-bogus"}
	cfg, err := NewConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)

	os.Args = []string{"urlprobe", "-h"}
	_, err = NewConfig()
	assert.ErrorIs(t, err, flag.ErrHelp)

	os.Args = []string{"urlprobe", "-w", "4"}
	cfg, err = NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxConcurrency)
}

func TestValidate(t *testing.T) {
	cfg := &Config{ServerAddress: ":8080", MaxConcurrency: 1, ProbeTimeout: time.Second, MaxUploadBytes: 1}
	assert.NoError(t, cfg.Validate())

	cfg.ProbeTimeout = 0
	assert.Error(t, cfg.Validate())
}
