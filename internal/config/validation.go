package config

import (
	"fmt"
	"slices"
	"strings"
)

// SupportedCADTypes lists the drafting applications the live backend can attach to.
var SupportedCADTypes = []string{"AutoCAD", "GstarCAD", "GCAD", "ZWCAD"}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks config values for life correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// CAD validation
	if c.CAD.Backend != BackendLive && c.CAD.Backend != BackendOffline {
		errs = append(errs, fmt.Sprintf("cad.backend must be %q or %q", BackendLive, BackendOffline))
	}
	if !slices.ContainsFunc(SupportedCADTypes, func(t string) bool { return strings.EqualFold(t, c.CAD.Type) }) {
		errs = append(errs, fmt.Sprintf("cad.type must be one of %v", SupportedCADTypes))
	}
	if c.CAD.StartupWaitTimeMs < 1 {
		errs = append(errs, "cad.startup_wait_time_ms must be >= 1")
	}
	if c.CAD.PollIntervalMs < 1 {
		errs = append(errs, "cad.poll_interval_ms must be >= 1")
	}
	if c.CAD.CommandDelayMs < 0 {
		errs = append(errs, "cad.command_delay_ms must be >= 0")
	}
	if c.CAD.PollIntervalMs > c.CAD.StartupWaitTimeMs {
		errs = append(errs, "cad.poll_interval_ms must be <= cad.startup_wait_time_ms")
	}
	if c.CAD.Backend == BackendLive && c.CAD.BridgeURL == "" {
		errs = append(errs, "cad.bridge_url is required for the live backend")
	}

	// Output validation
	if c.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	if c.Output.DefaultFilename == "" {
		errs = append(errs, "output.default_filename must not be empty")
	}

	// Drawing validation
	if c.Drawing.DefaultColor < 0 || c.Drawing.DefaultColor > 256 {
		errs = append(errs, "drawing.default_color must be between 0 and 256")
	}
	if c.Drawing.DefaultLayer == "" {
		errs = append(errs, "drawing.default_layer must not be empty")
	}
	if c.Drawing.TextHeight <= 0 {
		errs = append(errs, "drawing.text_height must be > 0")
	}
	if c.Drawing.DimensionTextHeight <= 0 {
		errs = append(errs, "drawing.dimension_text_height must be > 0")
	}
	if c.Drawing.HatchPattern == "" {
		errs = append(errs, "drawing.hatch_pattern must not be empty")
	}
	if c.Drawing.HatchScale <= 0 {
		errs = append(errs, "drawing.hatch_scale must be > 0")
	}
	for name, idx := range c.Drawing.Colors {
		if name == "" {
			errs = append(errs, "drawing.colors cannot contain empty names")
		}
		if idx < 0 || idx > 256 {
			errs = append(errs, fmt.Sprintf("drawing.colors[%s] must be between 0 and 256", name))
		}
	}

	// Log validation
	if !slices.Contains(validLogLevels, c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %v", validLogLevels))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, "log.format must be \"text\" or \"json\"")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
