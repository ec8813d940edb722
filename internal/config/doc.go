// Package config loads and validates the YAML application configuration.
package config
