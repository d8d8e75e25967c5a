package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// FileConfig is the content of a log config file.
//
// Example:
//
//	level: debug
//	filter: "info+:* debug:rsim.interpolate"
type FileConfig struct {
	Level  string `yaml:"level"`
	Filter string `yaml:"filter"`
}

func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse log config: %w", err)
	}
	if cfg.Filter != "" {
		if _, err := zapfilter.ParseRules(cfg.Filter); err != nil {
			return nil, fmt.Errorf("invalid filter rules %q: %w", cfg.Filter, err)
		}
	}
	return &cfg, nil
}

// WithFilter restricts the log output to entries matching the zapfilter
// rules (e.g. "info+:* debug:rsim.interpolate").
func WithFilter(rules string) (Option, error) {
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, err
	}
	return zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapfilter.NewFilteringCore(c, filter)
	}), nil
}

// Options converts the file config into logger options.
// The level from the file is returned when set, fallback otherwise.
func (c *FileConfig) Options(fallback Level) (Level, []Option, error) {
	level := fallback
	if c.Level != "" {
		var err error
		if level, err = ParseLevel(c.Level); err != nil {
			return fallback, nil, err
		}
	}
	if c.Filter == "" {
		return level, nil, nil
	}
	opt, err := WithFilter(c.Filter)
	if err != nil {
		return fallback, nil, err
	}
	return level, []Option{opt}, nil
}
