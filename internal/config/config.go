// Package config loads atomctl settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/internal/memory"
	"github.com/joshuapare/atomkit/segment"
)

// maxConfigSize bounds the config file read.
const maxConfigSize = 1 << 20

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds everything atomctl reads from its config file.
type Config struct {
	Table   TableConfig   `yaml:"table"`
	Segment SegmentConfig `yaml:"segment"`
	Log     LogConfig     `yaml:"log"`
}

// TableConfig sizes new atom tables.
type TableConfig struct {
	Buckets uint16 `yaml:"buckets"`
}

// SegmentConfig maps onto segment.Options.
type SegmentConfig struct {
	InitialSize        int    `yaml:"initial_size"`
	MaxSize            int    `yaml:"max_size"`
	Backing            string `yaml:"backing"`
	RelocateEveryAlloc bool   `yaml:"relocate_every_alloc"`
}

// LogConfig maps onto logger.Options.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Table: TableConfig{Buckets: format.DefaultTableSize},
		Segment: SegmentConfig{
			InitialSize: format.DefaultSegmentSize,
			MaxSize:     format.MaxSegmentSize,
			Backing:     memory.KindHeap.String(),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over Default. An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("%w: %s is %d bytes", ErrInvalid, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("loaded config", "path", path, "size", info.Size())
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result. Fields absent from
// data keep their current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	if c.Table.Buckets == 0 {
		return fmt.Errorf("%w: table.buckets must be positive", ErrInvalid)
	}
	if c.Segment.InitialSize < 0 || c.Segment.InitialSize > format.MaxSegmentSize {
		return fmt.Errorf("%w: segment.initial_size %d out of range", ErrInvalid, c.Segment.InitialSize)
	}
	if c.Segment.MaxSize < 0 || c.Segment.MaxSize > format.MaxSegmentSize {
		return fmt.Errorf("%w: segment.max_size %d out of range", ErrInvalid, c.Segment.MaxSize)
	}
	if _, err := memory.ParseKind(c.Segment.Backing); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SegmentOptions converts the segment section. Validate must have passed.
func (c Config) SegmentOptions() segment.Options {
	kind, _ := memory.ParseKind(c.Segment.Backing)
	return segment.Options{
		Backing:            kind,
		InitialSize:        c.Segment.InitialSize,
		MaxSize:            c.Segment.MaxSize,
		RelocateEveryAlloc: c.Segment.RelocateEveryAlloc,
	}
}

// LoggerOptions converts the log section. enabled comes from the command line.
func (c Config) LoggerOptions(enabled bool) logger.Options {
	return logger.Options{
		Enabled: enabled,
		JSON:    c.Log.JSON,
		Level:   logger.ParseLevel(c.Log.Level),
		LogDir:  c.Log.Dir,
	}
}
