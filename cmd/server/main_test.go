package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// syncCore records whether the logger was flushed.
type syncCore struct {
	zapcore.Core
	synced bool
}

func (c *syncCore) Sync() error {
	c.synced = true
	return c.Core.Sync()
}

func TestServe_FlushesLoggerOnFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WELFARELENS_PATTERNS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	observed, logs := observer.New(zapcore.InfoLevel)
	core := &syncCore{Core: observed}
	newLogger := func(level, format string) (*zap.Logger, error) {
		return zap.New(core), nil
	}

	assert.Equal(t, 1, serve(newLogger))
	assert.True(t, core.synced, "logger is flushed before exit")

	stopped := logs.FilterMessage("server stopped").All()
	require.Len(t, stopped, 1)
	assert.Equal(t, zapcore.ErrorLevel, stopped[0].Level)
	assert.Contains(t, stopped[0].ContextMap()["error"], "load pattern table")
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WELFARELENS_CACHE_TYPE", "memcached")

	called := false
	newLogger := func(level, format string) (*zap.Logger, error) {
		called = true
		return zap.NewNop(), nil
	}

	assert.Equal(t, 1, serve(newLogger))
	assert.False(t, called, "no logger is built from an invalid configuration")
}
