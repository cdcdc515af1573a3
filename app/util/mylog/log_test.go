package mylog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"learnassist/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := &config.Config{}
	cfg.Log.File = filepath.Join(t.TempDir(), "session.log")

	closer, err := Init(cfg)
	require.NoError(t, err)

	slog.Info("Node added", "id", 7)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Node added")
	assert.Contains(t, string(data), "id=7")
}

func TestInitFailsOnUnwritablePath(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.File = filepath.Join(t.TempDir(), "missing", "dir", "session.log")

	_, err := Init(cfg)
	assert.Error(t, err)
}
