// Package config loads service settings from the environment.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds the API service settings. Every field can be overridden with
// an ORDERETL_-prefixed environment variable.
type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	DBPath      string `envconfig:"DB_PATH" default:"orderetl.db"`
	SampleSize  int    `envconfig:"SAMPLE_SIZE" default:"1000"`
	RecordLimit int    `envconfig:"RECORD_LIMIT" default:"1000"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("orderetl", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
