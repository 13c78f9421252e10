// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NLP       NLPConfig       `mapstructure:"nlp"`
	Lookup    LookupConfig    `mapstructure:"lookup"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig is optional; an empty address disables the lookup cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// --- Question Resolution Config ---

// NLPConfig selects and tunes the entity extractor.
type NLPConfig struct {
	Entity EntityConfig `mapstructure:"entity"`
}

type EntityConfig struct {
	Provider   string          `mapstructure:"provider"` // prose, remote, gazetteer, none
	Timeout    int             `mapstructure:"timeout"`  // milliseconds
	Remote     RemoteNERConfig `mapstructure:"remote"`
	Gazetteer  GazetteerConfig `mapstructure:"gazetteer"`
	MaxRetries int             `mapstructure:"max_retries"`
}

type RemoteNERConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type GazetteerConfig struct {
	Organizations []string `mapstructure:"organizations"`
	Locations     []string `mapstructure:"locations"`
	People        []string `mapstructure:"people"`
}

// LookupConfig tunes the store lookup adapters.
type LookupConfig struct {
	Timeout  int `mapstructure:"timeout"`   // milliseconds
	CacheTTL int `mapstructure:"cache_ttl"` // seconds, 0 disables caching
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelemetryConfig selects where resolver spans are exported.
type TelemetryConfig struct {
	Traces string `mapstructure:"traces"` // none, stdout
}
