// Package config holds the deploy-time knobs for a table: rule options and
// bot pacing. Values come from an optional JSON file with environment
// overrides layered on top, which is how the Nakama runtime passes settings
// through.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Environment keys recognized by FromEnv.
const (
	EnvWinThreshold        = "liap_win_threshold"
	EnvForbidExactTotal    = "liap_forbid_exact_total"
	EnvBotsEnabled         = "liap_bots_enabled"
	EnvBotLevel            = "liap_bot_level"
	EnvBotMinDelaySec      = "liap_bot_min_delay_sec"
	EnvBotMaxDelaySec      = "liap_bot_max_delay_sec"
	EnvBotAutoFillDelaySec = "liap_bot_auto_fill_delay_sec"
)

// GameConfig is the full table configuration.
type GameConfig struct {
	WinThreshold     int  `json:"win_threshold"`
	ForbidExactTotal bool `json:"forbid_exact_total"`

	BotsEnabled bool   `json:"bots_enabled"`
	BotLevel    string `json:"bot_level"`
	// Bot think delays in seconds; a decision lands at a uniform random
	// point inside the window.
	BotMinDelaySec int `json:"bot_min_delay_sec"`
	BotMaxDelaySec int `json:"bot_max_delay_sec"`
	// BotAutoFillDelaySec is how long a solo human lobby waits before bots
	// fill the remaining seats.
	BotAutoFillDelaySec int `json:"bot_auto_fill_delay_sec"`
}

// Default returns the configuration used when nothing is provided.
func Default() GameConfig {
	return GameConfig{
		WinThreshold:        50,
		ForbidExactTotal:    true,
		BotsEnabled:         true,
		BotLevel:            "planner",
		BotMinDelaySec:      1,
		BotMaxDelaySec:      3,
		BotAutoFillDelaySec: 5,
	}
}

// Load reads a JSON config file over the defaults.
func Load(path string) (GameConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read game config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal game config: %w", err)
	}
	return cfg.normalized(), nil
}

// FromEnv layers recognized keys from a runtime environment map onto base.
// Unparseable values are ignored in favor of the base value.
func FromEnv(env map[string]string, base GameConfig) GameConfig {
	cfg := base
	if v, ok := env[EnvWinThreshold]; ok {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.WinThreshold = i
		}
	}
	if v, ok := env[EnvForbidExactTotal]; ok {
		cfg.ForbidExactTotal = v == "true"
	}
	if v, ok := env[EnvBotsEnabled]; ok {
		cfg.BotsEnabled = v == "true"
	}
	if v, ok := env[EnvBotLevel]; ok && v != "" {
		cfg.BotLevel = v
	}
	if v, ok := env[EnvBotMinDelaySec]; ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BotMinDelaySec = i
		}
	}
	if v, ok := env[EnvBotMaxDelaySec]; ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BotMaxDelaySec = i
		}
	}
	if v, ok := env[EnvBotAutoFillDelaySec]; ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BotAutoFillDelaySec = i
		}
	}
	return cfg.normalized()
}

// normalized repairs inconsistent values instead of failing.
func (c GameConfig) normalized() GameConfig {
	if c.WinThreshold <= 0 {
		c.WinThreshold = Default().WinThreshold
	}
	if c.BotMaxDelaySec < c.BotMinDelaySec {
		c.BotMaxDelaySec = c.BotMinDelaySec
	}
	return c
}
