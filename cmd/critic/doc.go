// Critic is a CLI for reviewing Python source files with a tree-sitter rule
// engine, external analyzer output, and an optional LLM pass.
//
// It aggregates, deduplicates, scores, and ranks findings from all sources,
// emitting structured reports with deterministic exit codes suitable for CI
// gating.
//
// Usage:
//
//	critic review app.py                      # rules + tools + model
//	critic review --no-model app.py lib.py    # static stages only
//	critic review --strict --format json app.py   # strict scoring, JSON report
//	critic rules                              # list detectors
//	critic cache clear                        # drop cached model responses
//
// See https://github.com/critic-dev/critic for full documentation.
package main
