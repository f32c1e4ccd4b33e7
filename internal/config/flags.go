package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagBrush    = flag.String("brush", "", "Initial brush: inflate, deflate, grab, smooth, pinch, flatten")
	flagRadius   = flag.Float64("radius", 0, "Initial brush radius")
	flagStrength = flag.Float64("strength", -1, "Initial brush strength")
	flagLogFile  = flag.String("log-file", "", "Rotating log file path")
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
	if *flagBrush != "" {
		cfg.Sculpt.Brush = *flagBrush
	}
	if *flagRadius > 0 {
		cfg.Sculpt.Radius = float32(*flagRadius)
	}
	if *flagStrength >= 0 {
		cfg.Sculpt.Strength = float32(*flagStrength)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
