// Package config handles editor configuration loading and management.
package config

import "time"

// Config holds all sculpting and history settings.
type Config struct {
	Sculpt  SculptConfig  `yaml:"sculpt"`
	History HistoryConfig `yaml:"history"`
	Spatial SpatialConfig `yaml:"spatial"`
	Logging LoggingConfig `yaml:"logging"`
}

// SculptConfig holds the brush used when a sculpt session starts.
type SculptConfig struct {
	Brush     string     `yaml:"brush"` // inflate, deflate, grab, smooth, pinch, flatten
	Radius    float32    `yaml:"radius"`
	Strength  float32    `yaml:"strength"`
	Direction [3]float32 `yaml:"direction"` // grab drag direction or flatten plane normal
	SymmetryX bool       `yaml:"symmetry_x"`
	SymmetryY bool       `yaml:"symmetry_y"`
	SymmetryZ bool       `yaml:"symmetry_z"`
}

// HistoryConfig holds undo/redo bounds and debounce windows.
type HistoryConfig struct {
	CommandCapacity   int           `yaml:"command_capacity"`
	SnapshotCapacity  int           `yaml:"snapshot_capacity"`
	SnapshotDebounce  time.Duration `yaml:"snapshot_debounce"`
	TransformDebounce time.Duration `yaml:"transform_debounce"`
}

// SpatialConfig holds picking index maintenance settings.
type SpatialConfig struct {
	SliceBudget   time.Duration `yaml:"slice_budget"`
	FallbackDelay time.Duration `yaml:"fallback_delay"`
	LeafSize      int           `yaml:"leaf_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sculpt: SculptConfig{
			Brush:     "inflate",
			Radius:    0.25,
			Strength:  0.6,
			Direction: [3]float32{0, 1, 0},
		},
		History: HistoryConfig{
			CommandCapacity:   200,
			SnapshotCapacity:  200,
			SnapshotDebounce:  600 * time.Millisecond,
			TransformDebounce: 90 * time.Millisecond,
		},
		Spatial: SpatialConfig{
			SliceBudget:   8 * time.Millisecond,
			FallbackDelay: 16 * time.Millisecond,
			LeafSize:      4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
