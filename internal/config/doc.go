// Package config builds the effective configuration by merging, in order:
// built-in defaults, the YAML config file, CRITIC_* environment variables,
// and CLI flag overrides. A separate rules overlay file enables or disables
// individual detectors and category checks.
package config
