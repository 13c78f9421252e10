// internal/conversation/resolve-intent/config.go
package resolveintent

import "time"

type Config struct {
	ExtractTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ExtractTimeout: 2 * time.Second,
	}
}
