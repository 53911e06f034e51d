// Package config loads and validates the YAML simulation configuration
// described in spec.md §6, surfacing every configuration error from §7 at
// construction time.
package config
