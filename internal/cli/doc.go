// Package cli wires together the Cobra command tree for the critic binary.
//
// It defines the root command and all subcommands (review, rules, cache,
// version), binds flags, reads configuration, invokes the review pipeline,
// and returns deterministic exit codes for CI gating.
package cli
