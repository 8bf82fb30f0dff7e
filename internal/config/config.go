// Package config loads blackjack table and UI configuration from HCL
// files, filling in sensible defaults for anything left unset.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete game configuration
type Config struct {
	Table TableSettings `hcl:"table,block"`
	UI    UISettings    `hcl:"ui,block"`
}

// TableSettings contains table rule settings
type TableSettings struct {
	StartingBankroll int     `hcl:"starting_bankroll,optional"`
	Decks            int     `hcl:"decks,optional"`
	CutFraction      float64 `hcl:"cut_fraction,optional"`
	DealerStand      int     `hcl:"dealer_stand,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	PaceMS   int    `hcl:"pace_ms,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			StartingBankroll: 1000,
			Decks:            0, // 0 means size to the player count
			CutFraction:      0.8,
			DealerStand:      17,
		},
		UI: UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack.log",
			PaceMS:   500,
		},
	}
}

// Load reads configuration from an HCL file. A missing file is not an
// error; defaults are returned instead.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := Default()

	if config.Table.StartingBankroll == 0 {
		config.Table.StartingBankroll = defaults.Table.StartingBankroll
	}
	if config.Table.CutFraction == 0 {
		config.Table.CutFraction = defaults.Table.CutFraction
	}
	if config.Table.DealerStand == 0 {
		config.Table.DealerStand = defaults.Table.DealerStand
	}

	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}
	if config.UI.PaceMS == 0 {
		config.UI.PaceMS = defaults.UI.PaceMS
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for out-of-range values
func (c *Config) Validate() error {
	if c.Table.StartingBankroll < 1 {
		return fmt.Errorf("starting_bankroll must be positive, got %d", c.Table.StartingBankroll)
	}
	if c.Table.Decks < 0 || c.Table.Decks > 8 {
		return fmt.Errorf("decks must be between 0 and 8, got %d", c.Table.Decks)
	}
	if c.Table.CutFraction <= 0 || c.Table.CutFraction > 1 {
		return fmt.Errorf("cut_fraction must be in (0, 1], got %g", c.Table.CutFraction)
	}
	if c.Table.DealerStand < 12 || c.Table.DealerStand > 21 {
		return fmt.Errorf("dealer_stand must be between 12 and 21, got %d", c.Table.DealerStand)
	}
	if c.UI.PaceMS < 0 {
		return fmt.Errorf("pace_ms must not be negative, got %d", c.UI.PaceMS)
	}
	return nil
}

// DecksForPlayers picks the shoe size for an explicit deck setting of
// zero: a single deck suits small tables, a six-deck shoe larger ones.
func DecksForPlayers(configured, players int) int {
	if configured > 0 {
		return configured
	}
	if players < 4 {
		return 1
	}
	return 6
}
