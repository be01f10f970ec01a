// Package config defines the application configuration structure and loads
// it from environment variables and optional config files via viper.
// Loaded values are validated with go-playground/validator before use.
package config
