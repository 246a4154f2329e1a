// Package testutil provides shared test helpers for creating config files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ConfigOption appends extra YAML to a generated config file.
type ConfigOption func(content string) string

// WithConfigSection appends a raw YAML section to the config.
func WithConfigSection(section string) ConfigOption {
	return func(content string) string {
		return content + section
	}
}

// SetupTestConfig creates a minimal config file for testing and returns
// its path.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	content := `database:
  host: 127.0.0.1
  port: 3306
  username: retentio
  database: retentio_test
server:
  address: ":0"
  cors_origin: http://localhost:3000
worker:
  batch_size: 10
`
	for _, opt := range opts {
		content = opt(content)
	}

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}
