package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dsn string) *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ShutdownTimeout: time.Second,
		},
		Database: DatabaseConfig{DSN: dsn, ConnectTimeout: 5 * time.Second},
	}
}

func TestNewServer_StartAndShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(filepath.Join(t.TempDir(), "inventory.db"))

	server, err := NewServer(cfg, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, server.Start(ctx))
}

func TestNewServer_DatabaseError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg := testConfig(filepath.Join(blocker, "inventory.db"))

	_, err := NewServer(cfg, logger)
	require.Error(t, err)

	var sErr *ServerError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, ExitDatabaseError, sErr.ExitCode)
	assert.Equal(t, "NewServer", sErr.Op)
}

func TestServerError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ServerError{Op: "Start", Err: inner, ExitCode: ExitHTTPServerError}

	assert.Equal(t, "Start: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
