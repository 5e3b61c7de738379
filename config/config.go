// Package config loads the sizing parameters the matching engine and
// pipeline are constructed with. It follows the same viper-backed,
// env-override load pattern as 0xtitan6-polymarket-mm's
// internal/config/config.go: a YAML file read via viper, an env prefix
// for overrides, Unmarshal into a plain struct, and a Validate pass.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EngineConfig sizes an engine, its books, and its two rings.
type EngineConfig struct {
	NumSymbols       int32 `mapstructure:"num_symbols"`
	NLevels          int32 `mapstructure:"n_levels"`
	OrderIDCapacity  int   `mapstructure:"order_id_capacity"`
	NodePoolCapacity int   `mapstructure:"node_pool_capacity"`
	InputRingSize    int   `mapstructure:"input_ring_size"`
	OutputRingSize   int   `mapstructure:"output_ring_size"`
}

// Default returns the reference production sizing: 50 symbols, 1,000,001
// ticks per side (ticks of 0.01 from 0 to 10,000), per spec.md §9.
func Default() EngineConfig {
	return EngineConfig{
		NumSymbols:       50,
		NLevels:          1_000_001,
		OrderIDCapacity:  1 << 20,
		NodePoolCapacity: 1 << 20,
		InputRingSize:    1 << 16,
		OutputRingSize:   1 << 16,
	}
}

// Load reads an EngineConfig from a YAML file at path, with LIMITBOOK_*
// environment variables overriding individual fields.
func Load(path string) (EngineConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("LIMITBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		return EngineConfig{}, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Validate checks that every size is in range for the types that consume
// it (ring sizes must be powers of 2, per ring.New's precondition).
func (c EngineConfig) Validate() error {
	if c.NumSymbols <= 0 {
		return fmt.Errorf("num_symbols must be > 0")
	}
	if c.NLevels <= 0 {
		return fmt.Errorf("n_levels must be > 0")
	}
	if c.OrderIDCapacity <= 0 {
		return fmt.Errorf("order_id_capacity must be > 0")
	}
	if c.NodePoolCapacity <= 0 {
		return fmt.Errorf("node_pool_capacity must be > 0")
	}
	if !isPowerOfTwo(c.InputRingSize) {
		return fmt.Errorf("input_ring_size must be a power of 2")
	}
	if !isPowerOfTwo(c.OutputRingSize) {
		return fmt.Errorf("output_ring_size must be a power of 2")
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
