package cache

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Config sizes the slot store.
type Config struct {
	Capacity  int
	NumShards int
	// TTL expires a loaded slot. Expired slots read as not loaded.
	TTL                time.Duration
	EvictionPercentage int
	// EvictionInterval is how often expired slots are swept. Zero keeps the
	// sturdyc default.
	EvictionInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Capacity:           64,
		NumShards:          4,
		TTL:                30 * time.Minute,
		EvictionPercentage: 10,
	}
}

// WithCapacity sets Capacity, lowering NumShards when it would exceed it.
func (c Config) WithCapacity(n int) Config {
	c.Capacity = n
	if n > 0 && c.NumShards > n {
		c.NumShards = n
	}
	return c
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config: " + e.Field + " " + e.Message
}

func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 || c.NumShards > c.Capacity {
		return &ConfigError{Field: "NumShards", Message: "must be between 1 and Capacity"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

func (c Config) options() []sturdyc.Option {
	var opts []sturdyc.Option
	if c.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return opts
}
