package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile and environment.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Server  ServerConfig  `json:"server"`
	CAD     CADConfig     `json:"cad"`
	Output  OutputConfig  `json:"output"`
	Drawing DrawingConfig `json:"drawing"`
	Log     LogConfig     `json:"log"`
}

type ServerConfig struct {
	Name    string `json:"name"`    // Default: "CAD MCP Server"
	Version string `json:"version"` // Default: "1.0.0"
}

// Backend variants.
const (
	BackendLive    = "live"
	BackendOffline = "offline"
)

type CADConfig struct {
	Backend string `json:"backend"` // Default: "offline"
	Type    string `json:"type"`    // Default: "AutoCAD"

	// Live backend connection
	BridgeURL         string   `json:"bridge_url"`           // Default: "ws://127.0.0.1:8765/automation"
	LaunchCommand     []string `json:"launch_command"`       // Default: empty (attach only)
	StartupWaitTimeMs int      `json:"startup_wait_time_ms"` // Default: 20000
	PollIntervalMs    int      `json:"poll_interval_ms"`     // Default: 1000
	CommandDelayMs    int      `json:"command_delay_ms"`     // Default: 500

	// Connect the session at process start instead of waiting for an explicit connect request.
	AutoConnect bool `json:"auto_connect"` // Default: false
}

type OutputConfig struct {
	Directory       string `json:"directory"`        // Default: "./output"
	DefaultFilename string `json:"default_filename"` // Default: "cad_drawing.dxf"
}

type DrawingConfig struct {
	DefaultColor        int            `json:"default_color"`         // Default: 7 (white)
	DefaultLayer        string         `json:"default_layer"`         // Default: "0"
	TextHeight          float64        `json:"text_height"`           // Default: 2.5
	DimensionTextHeight float64        `json:"dimension_text_height"` // Default: 5
	HatchPattern        string         `json:"hatch_pattern"`         // Default: "ANSI31"
	HatchScale          float64        `json:"hatch_scale"`           // Default: 1.0
	Colors              map[string]int `json:"colors"`                // Merged over the built-in color table
}

type LogConfig struct {
	Level  string `json:"level"`  // Default: "info"
	Format string `json:"format"` // Default: "text"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "CAD MCP Server",
			Version: "1.0.0",
		},
		CAD: CADConfig{
			Backend:           BackendOffline,
			Type:              "AutoCAD",
			BridgeURL:         "ws://127.0.0.1:8765/automation",
			LaunchCommand:     []string{},
			StartupWaitTimeMs: 20000,
			PollIntervalMs:    1000,
			CommandDelayMs:    500,
		},
		Output: OutputConfig{
			Directory:       "./output",
			DefaultFilename: "cad_drawing.dxf",
		},
		Drawing: DrawingConfig{
			DefaultColor:        7,
			DefaultLayer:        "0",
			TextHeight:          2.5,
			DimensionTextHeight: 5,
			HatchPattern:        "ANSI31",
			HatchScale:          1.0,
			Colors:              map[string]int{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
