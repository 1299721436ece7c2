package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piexl/CAD-MCP/internal/config"
	"github.com/piexl/CAD-MCP/internal/fsutil"
	"github.com/piexl/CAD-MCP/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, ModeMCP, opts.Mode)
	assert.Equal(t, "127.0.0.1:8080", opts.Addr)

	opts, err = parseFlags([]string{"-mode", "http", "-addr", ":9000", "-backend", "live"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, options{Mode: ModeHTTP, Addr: ":9000", Backend: "live"}, opts)

	_, err = parseFlags([]string{"-mode", "grpc"}, io.Discard)
	assert.ErrorContains(t, err, `unknown mode "grpc"`)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvOutputDir, "")

	path := writeConfig(t, `{"cad":{"type":"ZWCAD"},"drawing":{"colors":{"teal":4}}}`)

	cfg, err := loadConfig(options{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "ZWCAD", cfg.CAD.Type)
	assert.Equal(t, config.BackendOffline, cfg.CAD.Backend)

	cfg, err = loadConfig(options{ConfigPath: path, Backend: "LIVE"})
	require.NoError(t, err)
	assert.Equal(t, config.BackendLive, cfg.CAD.Backend)

	_, err = loadConfig(options{ConfigPath: path, Backend: "remote"})
	assert.Error(t, err)

	_, err = loadConfig(options{ConfigPath: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestCreateBackend(t *testing.T) {
	fs := fsutil.NewOSFileSystem()

	cfg := config.DefaultConfig()
	assert.Equal(t, "offline", createBackend(cfg, fs, logging.Discard()).Name())

	cfg.CAD.Backend = config.BackendLive
	assert.Equal(t, "live", createBackend(cfg, fs, logging.Discard()).Name())
}

func TestOfflineDrawingFlow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Directory = t.TempDir()
	cfg.Drawing.Colors = map[string]int{"teal": 4}

	fs := fsutil.NewOSFileSystem()
	deps, err := createDependencies(cfg, createBackend(cfg, fs, logging.Discard()), fs, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "cad_drawing.dxf"), deps.Session.DefaultPath())
	assert.Len(t, deps.Registry.List(), 14)

	ctx := context.Background()
	_, err = deps.Service.Connect(ctx)
	require.NoError(t, err)

	_, err = deps.Service.InterpretAndDispatch(ctx, "draw a teal line from (0,0) to (10,10)")
	require.NoError(t, err)
	_, err = deps.Service.InterpretAndDispatch(ctx, "create a circle at (5,5) with radius 3 on layer walls")
	require.NoError(t, err)

	msg, err := deps.Service.InterpretAndDispatch(ctx, "save as plan.dxf")
	require.NoError(t, err)
	assert.Contains(t, msg, "plan.dxf")

	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "plan.dxf"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "LINE")
	assert.Contains(t, content, "CIRCLE")
	assert.Contains(t, content, "walls")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(content), "EOF"))
}

func TestCreateLogger_REPLWritesFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "out")

	logger, closer, err := createLogger(cfg, ModeREPL, fsutil.NewOSFileSystem(), io.Discard)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, replLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestRun_InvalidFlags(t *testing.T) {
	err := run(context.Background(), []string{"-mode", "grpc"}, strings.NewReader(""), io.Discard, io.Discard)
	assert.Error(t, err)
}
