package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Direction:       "TD",
			NodeSpacing:     300,
			LevelIterations: 10,
			EdgeLabelLimit:  30,
		},
		Output: OutputConfig{
			Format: "mermaid",
			Pretty: false,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Render = mergeRenderConfig(loaded.Render, defaults.Render)
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)

	return result
}

func mergeRenderConfig(loaded, defaults RenderConfig) RenderConfig {
	result := RenderConfig{}

	// Direction: use loaded if non-empty
	if loaded.Direction != "" {
		result.Direction = loaded.Direction
	} else {
		result.Direction = defaults.Direction
	}

	// NodeSpacing: use loaded if non-zero
	if loaded.NodeSpacing != 0 {
		result.NodeSpacing = loaded.NodeSpacing
	} else {
		result.NodeSpacing = defaults.NodeSpacing
	}

	// LevelIterations: use loaded if non-zero
	if loaded.LevelIterations != 0 {
		result.LevelIterations = loaded.LevelIterations
	} else {
		result.LevelIterations = defaults.LevelIterations
	}

	// EdgeLabelLimit: use loaded if non-zero
	if loaded.EdgeLabelLimit != 0 {
		result.EdgeLabelLimit = loaded.EdgeLabelLimit
	} else {
		result.EdgeLabelLimit = defaults.EdgeLabelLimit
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	// Format: use loaded if non-empty
	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	// Pretty: use loaded value (YAML unmarshals missing as false; users
	// who want it set it explicitly)
	result.Pretty = loaded.Pretty

	return result
}

// ValidFormats lists the valid values for output format
var ValidFormats = []string{"mermaid", "visjs"}

// IsValidFormat checks if the given format value is valid
func IsValidFormat(format string) bool {
	for _, valid := range ValidFormats {
		if format == valid {
			return true
		}
	}
	return false
}
