// Package config loads typed configuration from the environment and from
// YAML files.
//
// Load parses environment variables into a struct using
// github.com/caarlos0/env/v11 tags. Before parsing it loads the .env file (or
// the files given with WithEnvFiles) through github.com/joho/godotenv;
// missing files are skipped and variables already present in the process
// environment win.
//
//	type ServerConfig struct {
//		Host    string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
//		Port    int    `env:"HTTP_PORT" envDefault:"3001"`
//		Workers int    `env:"WORKER_COUNT" envDefault:"20"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// LoadYAML reads a YAML document into a struct with gopkg.in/yaml.v3, rejecting
// unknown fields so typos in hand-written files surface at startup.
//
// All errors wrap the sentinel values in errors.go and can be checked with
// errors.Is.
package config
