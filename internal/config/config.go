// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Overlay OverlayConfig `yaml:"overlay"`
	Window  WindowConfig  `yaml:"window"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds the texture and the tree scanned for .sub files.
type DataConfig struct {
	ImagePath   string `yaml:"image_path"`   // Base texture file
	ScanRoot    string `yaml:"scan_root"`    // Directory scanned recursively for .sub files
	SubEncoding string `yaml:"sub_encoding"` // Text encoding of .sub files (utf-8, euc-kr)
}

// OverlayConfig holds the rectangle stroke.
type OverlayConfig struct {
	Color string `yaml:"color"` // Hex colour, e.g. "#ff0000"
	Width int    `yaml:"width"` // Stroke width in pixels
}

// WindowConfig holds viewer window settings.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ExportConfig holds PNG output settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Prefix    string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			ImagePath:   "",
			ScanRoot:    "",
			SubEncoding: "utf-8",
		},
		Overlay: OverlayConfig{
			Color: "#ff0000",
			Width: 2,
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
		},
		Export: ExportConfig{
			OutputDir: "screenshots",
			Prefix:    "sub",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
