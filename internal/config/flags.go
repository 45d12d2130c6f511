package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagImage    = flag.String("image", "", "Base texture file")
	flagRoot     = flag.String("root", "", "Directory scanned for .sub files")
	flagEncoding = flag.String("encoding", "", "Text encoding of .sub files (utf-8, euc-kr)")
	flagColor    = flag.String("color", "", "Overlay colour (#rrggbb)")
	flagStroke   = flag.Int("stroke", 0, "Overlay stroke width")
	flagWidth    = flag.Int("width", 0, "Window width")
	flagHeight   = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagImage != "" {
		cfg.Data.ImagePath = *flagImage
	}
	if *flagRoot != "" {
		cfg.Data.ScanRoot = *flagRoot
	}
	if *flagEncoding != "" {
		cfg.Data.SubEncoding = *flagEncoding
	}
	if *flagColor != "" {
		cfg.Overlay.Color = *flagColor
	}
	if *flagStroke > 0 {
		cfg.Overlay.Width = *flagStroke
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
