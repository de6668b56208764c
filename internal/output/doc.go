// Package output renders review reports. Formats: text (terminal), json
// (machine-readable), markdown (PR-comment friendly).
package output
