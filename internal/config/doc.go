// Package config defines the application configuration and its loading
// from defaults, the optional YAML config file, environment variables,
// and CLI flags.
package config
