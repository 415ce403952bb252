// Package config defines the settings shared by the sleep-watch binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Environment references such as ${NATURE_REMO_TOKEN} are expanded before the
// YAML is decoded, so secrets can stay out of the file.
package config
