package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the playfield dimensions, the palette size, and every timing
// and scoring knob. All durations are in ticks. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Colors restricts dealing and validation to the first N palette colors.
	Colors int `yaml:"colors"`

	SpawnTicks  int `yaml:"spawn_ticks"`
	FloatTicks  int `yaml:"float_ticks"`
	FallTicks   int `yaml:"fall_ticks"`
	SettleTicks int `yaml:"settle_ticks"`
	SwapTicks   int `yaml:"swap_ticks"`
	MatchTicks  int `yaml:"match_ticks"`

	// DespawnTicks is the base clear duration; DespawnTicksPerBlock extends
	// it for large groups so big clears linger on screen longer.
	DespawnTicks         int `yaml:"despawn_ticks"`
	DespawnTicksPerBlock int `yaml:"despawn_ticks_per_block"`

	BaseScore  int   `yaml:"base_score"`
	ChainBonus []int `yaml:"chain_bonus"`
}

// DefaultConfig returns the standard 6x13 playfield tuning.
func DefaultConfig() Config {
	return Config{
		Width:        6,
		Height:       13,
		Colors:       5,
		SpawnTicks:   1,
		FloatTicks:   4,
		FallTicks:    2,
		SettleTicks:  2,
		SwapTicks:    3,
		MatchTicks:   6,
		DespawnTicks: 10,
		BaseScore:    10,
		ChainBonus:   []int{1, 2, 4, 8, 16, 32},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig, so partial files
// only override the keys they name.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for values the simulation cannot run with.
func (c Config) Validate() error {
	if c.Width < 3 {
		return fmt.Errorf("config: width %d, need at least 3 for a horizontal run", c.Width)
	}
	if c.Height < 2 {
		return fmt.Errorf("config: height %d, need at least 2", c.Height)
	}
	if c.Colors < 2 || c.Colors > NumColors {
		return fmt.Errorf("config: colors %d outside [2,%d]", c.Colors, NumColors)
	}
	if c.FallTicks < 1 {
		return fmt.Errorf("config: fall_ticks %d, need at least 1", c.FallTicks)
	}
	for name, v := range map[string]int{
		"spawn_ticks":             c.SpawnTicks,
		"float_ticks":             c.FloatTicks,
		"settle_ticks":            c.SettleTicks,
		"swap_ticks":              c.SwapTicks,
		"match_ticks":             c.MatchTicks,
		"despawn_ticks":           c.DespawnTicks,
		"despawn_ticks_per_block": c.DespawnTicksPerBlock,
	} {
		if v < 0 {
			return fmt.Errorf("config: %s %d is negative", name, v)
		}
	}
	if c.BaseScore < 1 {
		return fmt.Errorf("config: base_score %d, need at least 1", c.BaseScore)
	}
	if len(c.ChainBonus) == 0 {
		return fmt.Errorf("config: chain_bonus is empty")
	}
	for i, b := range c.ChainBonus {
		if b < 1 {
			return fmt.Errorf("config: chain_bonus[%d] = %d, need at least 1", i, b)
		}
	}
	return nil
}

// bonusFor returns the score multiplier for the given chain depth. Depths past
// the end of the table reuse the last entry.
func (c Config) bonusFor(chain int) int {
	if chain < 0 {
		chain = 0
	}
	if chain >= len(c.ChainBonus) {
		return c.ChainBonus[len(c.ChainBonus)-1]
	}
	return c.ChainBonus[chain]
}
