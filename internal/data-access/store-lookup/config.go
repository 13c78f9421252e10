// internal/data-access/store-lookup/config.go
package storelookup

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 3 * time.Second,
	}
}
