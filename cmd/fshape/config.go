package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/sheetlab/formulatree/biff"
)

// Config is the TOML run configuration.
type Config struct {
	// Corpus is the path to the JSON-lines corpus file.
	Corpus string `toml:"corpus"`

	// Mode selects the rendering mode: verbatim, generalized or relative.
	Mode string `toml:"mode"`

	// Top limits the report to the N most frequent shapes; 0 means all.
	Top int `toml:"top"`

	// Sheets lists sheet display names, indexed by the sheet numbers that
	// 3D reference tokens carry.
	Sheets []string `toml:"sheets"`

	// Names holds the workbook's defined names and their compiled
	// definitions.
	Names []NameConfig `toml:"names"`
}

// NameConfig is one defined name, its RPN definition hex-encoded.
type NameConfig struct {
	Name string `toml:"name"`
	RPN  string `toml:"rpn"`
}

// LoadConfig reads and parses the TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{Mode: "generalized"}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Decoder builds the BIFF token decoder described by the configuration.
func (c *Config) Decoder(log *zap.Logger) (*biff.Decoder, error) {
	names := make([]biff.NameDef, 0, len(c.Names))
	for _, n := range c.Names {
		rpn, err := hex.DecodeString(n.RPN)
		if err != nil {
			return nil, fmt.Errorf("defined name %q: bad rpn encoding: %w", n.Name, err)
		}
		names = append(names, biff.NameDef{Name: n.Name, RPN: rpn})
	}
	return &biff.Decoder{Sheets: c.Sheets, Names: names, Log: log}, nil
}
