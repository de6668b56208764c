// Package pipeline orchestrates a review: preprocess, rule engine, external
// tool adapters, the optional model stage, then dedupe, category filtering,
// scoring, and ranking. Model-stage failures become diagnostics; they never
// enter the issue list.
package pipeline
