// internal/conversation/extract-entities/config.go
package extractentities

import "time"

type Config struct {
	Provider   string // prose, remote, gazetteer, none
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int

	Organizations []string
	Locations     []string
	People        []string
}

func LoadConfig() *Config {
	return &Config{
		Provider:   "prose",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}
}
