// Package rules is the heuristic rule engine: a fixed registry of pure
// detectors that walk a parsed Python syntax tree and emit issues. Detectors
// are syntactic and conservative; a rule that cannot decide stays silent.
package rules
