package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_isValid(t *testing.T) {
	cfg := Default()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{".pdf", ".doc", ".docx"}, cfg.Attachments.AllowedExtensions)
}

func TestLoad_overridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
attachments:
  max_files: 5
dispatcher:
  drain_interval: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Attachments.MaxFiles)
	assert.Equal(t, time.Second, cfg.Dispatcher.DrainInterval)
	// Untouched sections keep their defaults.
	assert.Equal(t, int64(5), cfg.Attachments.MaxFileSizeMB)
	assert.Equal(t, 50, cfg.Dispatcher.BatchSize)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_malformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_rejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"no extensions", func(c *Config) { c.Attachments.AllowedExtensions = nil }},
		{"zero file size", func(c *Config) { c.Attachments.MaxFileSizeMB = 0 }},
		{"zero max files", func(c *Config) { c.Attachments.MaxFiles = 0 }},
		{"zero drain interval", func(c *Config) { c.Dispatcher.DrainInterval = 0 }},
		{"zero batch size", func(c *Config) { c.Dispatcher.BatchSize = 0 }},
		{"amqp url without exchange", func(c *Config) { c.AMQP.URL = "amqp://localhost" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
