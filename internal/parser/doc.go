// Package parser wraps tree-sitter's Python grammar behind the small surface
// the rule engine needs: parse-or-ErrSyntax, node content lookup, traversal
// helpers, and a deterministic structural serialization used for exact
// subtree equality.
package parser
