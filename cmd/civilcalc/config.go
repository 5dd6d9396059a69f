package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rabitt1ove/civiltime"
)

// envPrefix prefixes every environment override, e.g. CIVILCALC_TIME_ZONE.
const envPrefix = "CIVILCALC_"

// Config holds the defaults applied to every command.
type Config struct {
	Calendar       string `toml:"calendar" yaml:"calendar"`
	TimeZone       string `toml:"time_zone" yaml:"time_zone"`
	Overflow       string `toml:"overflow" yaml:"overflow"`
	Disambiguation string `toml:"disambiguation" yaml:"disambiguation"`
	Offset         string `toml:"offset" yaml:"offset"`
	RoundingMode   string `toml:"rounding_mode" yaml:"rounding_mode"`
	LogLevel       string `toml:"log_level" yaml:"log_level"`
	// TimeZones maps alias names to fixed UTC offsets such as "+09:00".
	TimeZones map[string]string `toml:"time_zones" yaml:"time_zones"`
}

// settings are the parsed form of a Config.
type settings struct {
	calendar       string
	timeZone       string
	overflow       civiltime.Overflow
	disambiguation civiltime.Disambiguation
	offset         civiltime.OffsetPolicy
	roundingMode   civiltime.RoundingMode
	logLevel       slog.Level
}

// loadConfig reads path, or $CIVILCALC_CONFIG when path is empty. The
// format follows the extension: .yaml and .yml are YAML, anything else
// TOML. No file at all yields the built-in defaults.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	cfg := &Config{}
	if path != "" {
		content, err := os.ReadFile(os.ExpandEnv(path))
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(content, cfg); err != nil {
				return nil, fmt.Errorf("parsing YAML config %s: %w", path, err)
			}
		default:
			if err := toml.Unmarshal(content, cfg); err != nil {
				return nil, fmt.Errorf("parsing TOML config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overrides fields from CIVILCALC_* variables.
func (c *Config) applyEnv() {
	for key, field := range map[string]*string{
		"CALENDAR":       &c.Calendar,
		"TIME_ZONE":      &c.TimeZone,
		"OVERFLOW":       &c.Overflow,
		"DISAMBIGUATION": &c.Disambiguation,
		"OFFSET":         &c.Offset,
		"ROUNDING_MODE":  &c.RoundingMode,
		"LOG_LEVEL":      &c.LogLevel,
	} {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*field = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Calendar == "" {
		c.Calendar = civiltime.ISO8601
	}
	if c.TimeZone == "" {
		c.TimeZone = civiltime.UTC
	}
	if c.Overflow == "" {
		c.Overflow = "constrain"
	}
	if c.Disambiguation == "" {
		c.Disambiguation = "compatible"
	}
	if c.Offset == "" {
		c.Offset = "reject"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// settings parses the textual options.
func (c *Config) settings() (settings, error) {
	s := settings{calendar: c.Calendar, timeZone: c.TimeZone}
	var err error
	if s.overflow, err = civiltime.ParseOverflow(c.Overflow); err != nil {
		return settings{}, err
	}
	if s.disambiguation, err = civiltime.ParseDisambiguation(c.Disambiguation); err != nil {
		return settings{}, err
	}
	if s.offset, err = civiltime.ParseOffsetPolicy(c.Offset); err != nil {
		return settings{}, err
	}
	if s.roundingMode, err = civiltime.ParseRoundingMode(c.RoundingMode); err != nil {
		return settings{}, err
	}
	if err := s.logLevel.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return settings{}, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return s, nil
}

// aliasZone is a time zone registered under a configured alias.
type aliasZone struct {
	civiltime.TimeZone
	id string
}

func (z aliasZone) ID() string { return z.id }

// registerAliases adds the configured time zone aliases to e.
func (c *Config) registerAliases(e *civiltime.Engine) error {
	for alias, target := range c.TimeZones {
		tz, err := e.LookupTimeZone(target)
		if err != nil {
			return fmt.Errorf("time zone alias %s: %w", alias, err)
		}
		e.RegisterTimeZone(aliasZone{TimeZone: tz, id: alias})
	}
	return nil
}
