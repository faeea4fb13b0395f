// Package config loads minelog settings.
//
// Precedence, lowest to highest: built-in defaults, the config file
// (YAML, TOML or JSON by extension), MINELOG_* environment variables,
// command-line flags. Values of the form ${VAR} inside the file are expanded
// from the environment before parsing.
package config
