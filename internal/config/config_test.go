package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
table {
  starting_bankroll = 500
  decks             = 2
}

ui {
  log_level = "debug"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Table.StartingBankroll)
	assert.Equal(t, 2, cfg.Table.Decks)
	assert.Equal(t, 0.8, cfg.Table.CutFraction, "unset values fall back to defaults")
	assert.Equal(t, 17, cfg.Table.DealerStand)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.Equal(t, "blackjack.log", cfg.UI.LogFile)
	assert.Equal(t, 500, cfg.UI.PaceMS)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `table { starting_bankroll = `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "too many decks",
			contents: "table {\n  decks = 12\n}\nui {}\n",
			want:     "decks",
		},
		{
			name:     "cut fraction above one",
			contents: "table {\n  cut_fraction = 1.5\n}\nui {}\n",
			want:     "cut_fraction",
		},
		{
			name:     "dealer stand below range",
			contents: "table {\n  dealer_stand = 5\n}\nui {}\n",
			want:     "dealer_stand",
		},
		{
			name:     "negative pace",
			contents: "table {}\nui {\n  pace_ms = -10\n}\n",
			want:     "pace_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecksForPlayers(t *testing.T) {
	tests := []struct {
		configured int
		players    int
		want       int
	}{
		{0, 1, 1},
		{0, 3, 1},
		{0, 4, 6},
		{0, 5, 6},
		{2, 5, 2}, // explicit setting wins
		{8, 1, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecksForPlayers(tt.configured, tt.players),
			"configured=%d players=%d", tt.configured, tt.players)
	}
}
