package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
	Env         map[string]string
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *MockFileSystem) Getenv(key string) string {
	return m.Env[key]
}

const dotfile = "/home/user/.config/cadmcp/config.json"

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, BackendOffline, cfg.CAD.Backend)
	assert.Equal(t, 500, cfg.CAD.CommandDelayMs)
	assert.Equal(t, "cad_drawing.dxf", cfg.Output.DefaultFilename)
	assert.Equal(t, 7, cfg.Drawing.DefaultColor)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	configJSON := `{"cad": {"backend": "live", "command_delay_ms": 250}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{dotfile: []byte(configJSON)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, BackendLive, cfg.CAD.Backend)                   // Overridden
	assert.Equal(t, 250, cfg.CAD.CommandDelayMs)                    // Overridden
	assert.Equal(t, 20000, cfg.CAD.StartupWaitTimeMs)               // Default
	assert.Equal(t, "ws://127.0.0.1:8765/automation", cfg.CAD.BridgeURL) // Default
	assert.Equal(t, 2.5, cfg.Drawing.TextHeight)                    // Default
}

func TestLoad_ExplicitPath(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/etc/cad.json": []byte(`{"output": {"directory": "/srv/drawings"}}`),
		},
	}

	cfg, err := NewLoaderWithFS(fs).WithPath("/etc/cad.json").Load()

	require.NoError(t, err)
	assert.Equal(t, "/srv/drawings", cfg.Output.Directory)
}

func TestLoad_ExplicitPathMissing_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}

	cfg, err := NewLoaderWithFS(fs).WithPath("/etc/missing.json").Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_ZeroCommandDelay_Overrides(t *testing.T) {
	// Explicit zero values in the file replace defaults
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{dotfile: []byte(`{"cad": {"command_delay_ms": 0}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.CAD.CommandDelayMs)
}

func TestLoad_ColorOverrides(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{dotfile: []byte(`{"drawing": {"colors": {"orange": 30}}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"orange": 30}, cfg.Drawing.Colors)
}

// --- ENVIRONMENT OVERRIDES ---

func TestLoad_DotenvOverridesFile(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			dotfile: []byte(`{"output": {"directory": "./from-file"}}`),
			EnvFile: []byte("CAD_OUTPUT_DIR=./from-dotenv\nCAD_BACKEND=LIVE\n"),
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "./from-dotenv", cfg.Output.Directory)
	assert.Equal(t, BackendLive, cfg.CAD.Backend)
}

func TestLoad_ProcessEnvBeatsDotenv(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			EnvFile: []byte("CAD_DEFAULT_FILENAME=dotenv.dxf\n"),
		},
		Env: map[string]string{
			EnvDefaultFilename: "env.dxf",
			EnvCommandDelayMs:  "100",
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "env.dxf", cfg.Output.DefaultFilename)
	assert.Equal(t, 100, cfg.CAD.CommandDelayMs)
}

func TestLoad_NonNumericDelayEnv_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Env:     map[string]string{EnvCommandDelayMs: "fast"},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), EnvCommandDelayMs)
}

// --- UNHAPPY PATH TESTS ---

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{dotfile: []byte(`{invalid json`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoad_PermissionDenied_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDirErr: errors.New("homeless"),
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "./output", cfg.Output.Directory)
}

func TestLoad_InvalidBackend_Rejected(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{dotfile: []byte(`{"cad": {"backend": "plotter"}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_UnknownFields_Ignored(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{dotfile: []byte(`{"cad": {"type": "ZWCAD"}, "unknown_field": "ignored"}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "ZWCAD", cfg.CAD.Type)
}

// --- DEFAULT CONFIG TESTS ---

func TestDefaultConfig_AllFieldsInitialized(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg.CAD.LaunchCommand)
	assert.NotNil(t, cfg.Drawing.Colors)
	assert.Greater(t, cfg.CAD.StartupWaitTimeMs, 0)
	assert.Greater(t, cfg.Drawing.TextHeight, 0.0)
}
