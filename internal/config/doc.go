// Package config defines the settings used by the feyn binaries and provides
// helpers to load, validate and save them in YAML format.
//
// Validate fills defaults in place, so a zero Config becomes a usable one.
// Command-line flags override whatever the file provides.
package config
