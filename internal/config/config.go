// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ViewerConfig holds rendering and interaction settings.
type ViewerConfig struct {
	// Texel density of generated texture projections. Up/Down adjust it
	// at runtime by ScaleStep within [ScaleMin, ScaleMax].
	ProjectionScale float32 `yaml:"projection_scale"`
	ScaleStep       float32 `yaml:"scale_step"`
	ScaleMin        float32 `yaml:"scale_min"`
	ScaleMax        float32 `yaml:"scale_max"`

	// Units per second the texture blend factor moves when toggled.
	BlendSpeed float32 `yaml:"blend_speed"`

	// Model spin speed, degrees per second around Y.
	SpinSpeed float32 `yaml:"spin_speed"`

	// Background color channels in [0,1].
	Background [3]float32 `yaml:"background"`

	// Rasterizer worker goroutines; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
		},
		Viewer: ViewerConfig{
			ProjectionScale: 2.0,
			ScaleStep:       0.25,
			ScaleMin:        0.25,
			ScaleMax:        16.0,
			BlendSpeed:      1.5,
			SpinSpeed:       50.0,
			Background:      [3]float32{0.1, 0.1, 0.1},
			Workers:         0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
