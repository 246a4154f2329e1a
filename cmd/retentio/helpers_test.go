package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaito/retentio/internal/testutil"
)

func TestLoadConfig(t *testing.T) {
	t.Run("loads the file named by the config flag", func(t *testing.T) {
		original := configFile
		t.Cleanup(func() { configFile = original })
		configFile = testutil.SetupTestConfig(t, t.TempDir())

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "retentio_test", cfg.Database.Database)
		assert.Equal(t, 10, cfg.Worker.BatchSize)
	})

	t.Run("invalid scheduler params are rejected", func(t *testing.T) {
		original := configFile
		t.Cleanup(func() { configFile = original })
		configFile = testutil.SetupTestConfig(t, t.TempDir(),
			testutil.WithConfigSection("scheduler:\n  params:\n    desired_retention: 1.5\n"))

		_, err := loadConfig()
		assert.Error(t, err)
	})
}
