package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_CAD(t *testing.T) {
	t.Run("Unknown Backend Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.Backend = "plotter"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cad.backend")
	})

	t.Run("Unknown CAD Type Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.Type = "SketchPad"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cad.type")
	})

	t.Run("CAD Type Is Case Insensitive", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.Type = "zwcad"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Negative Command Delay Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.CommandDelayMs = -1
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "command_delay_ms")
	})

	t.Run("Zero Command Delay Pass", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.CommandDelayMs = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Live Without Bridge Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.Backend = BackendLive
		cfg.CAD.BridgeURL = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bridge_url")
	})
}

func TestValidate_MultipleErrors_ReportsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CAD.StartupWaitTimeMs = 0
	cfg.Drawing.TextHeight = 0
	cfg.Log.Level = "verbose"

	err := cfg.Validate()
	assert.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "startup_wait_time_ms")
	assert.Contains(t, msg, "text_height")
	assert.Contains(t, msg, "log.level")
}

func TestValidate_Drawing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Negative_DefaultColor_Fails", func(c *Config) { c.Drawing.DefaultColor = -1 }},
		{"Huge_DefaultColor_Fails", func(c *Config) { c.Drawing.DefaultColor = 300 }},
		{"Empty_DefaultLayer_Fails", func(c *Config) { c.Drawing.DefaultLayer = "" }},
		{"Zero_DimensionTextHeight_Fails", func(c *Config) { c.Drawing.DimensionTextHeight = 0 }},
		{"Empty_HatchPattern_Fails", func(c *Config) { c.Drawing.HatchPattern = "" }},
		{"Zero_HatchScale_Fails", func(c *Config) { c.Drawing.HatchScale = 0 }},
		{"Bad_ColorOverride_Fails", func(c *Config) { c.Drawing.Colors = map[string]int{"orange": 999} }},
		{"Empty_ColorName_Fails", func(c *Config) { c.Drawing.Colors = map[string]int{"": 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_SemanticConstraints(t *testing.T) {
	t.Run("PollInterval_ExceedsStartupWait_Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.PollIntervalMs = 5000
		cfg.CAD.StartupWaitTimeMs = 1000
		if err := cfg.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("PollInterval_Equals_StartupWait_ShouldPass", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CAD.PollIntervalMs = 1000
		cfg.CAD.StartupWaitTimeMs = 1000
		if err := cfg.Validate(); err != nil {
			t.Errorf("poll == wait should pass: %v", err)
		}
	})
}

func TestValidate_Output(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Directory = ""
	cfg.Output.DefaultFilename = ""
	err := cfg.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "output.directory")
		assert.Contains(t, err.Error(), "output.default_filename")
	}
}
