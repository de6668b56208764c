package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/critic-dev/critic/internal/parser"
)

// operatorToken returns the anonymous operator token text of a
// boolean_operator or binary_operator node.
func operatorToken(t *parser.Tree, n *sitter.Node) string {
	return t.Content(n.ChildByFieldName("operator"))
}

// comparisonParts splits a comparison_operator node into its operands
// (named children) and operator token types (anonymous children).
func comparisonParts(n *sitter.Node) (operands []*sitter.Node, ops []string) {
	for _, c := range parser.Children(n) {
		if c.IsNamed() {
			operands = append(operands, c)
		} else {
			ops = append(ops, c.Type())
		}
	}
	return operands, ops
}

// isValueLiteral reports whether n is a literal other than the
// None/True/False singletons. The string node covers bytes and f-string
// literals; a sign-prefixed number is a unary_operator wrapping one.
func isValueLiteral(n *sitter.Node) bool {
	switch n.Type() {
	case "integer", "float", "string", "concatenated_string":
		return true
	case "unary_operator":
		if arg := n.ChildByFieldName("argument"); arg != nil {
			switch arg.Type() {
			case "integer", "float":
				return true
			}
		}
		return false
	default:
		return false
	}
}

// isConstantKey reports whether a dict key node is a constant literal.
func isConstantKey(n *sitter.Node) bool {
	switch n.Type() {
	case "integer", "float", "string", "true", "false", "none":
		return true
	default:
		return false
	}
}

// isIntLiteral reports whether n is the integer literal text.
func isIntLiteral(t *parser.Tree, n *sitter.Node, text string) bool {
	return n != nil && n.Type() == "integer" && t.Content(n) == text
}

// isMod2 reports whether n is `<expr> % 2`.
func isMod2(t *parser.Tree, n *sitter.Node) bool {
	return n != nil &&
		n.Type() == "binary_operator" &&
		operatorToken(t, n) == "%" &&
		isIntLiteral(t, n.ChildByFieldName("right"), "2")
}

// parityTest classifies a condition node as an odd test (`x % 2 == 1`), an
// even test (`x % 2 == 0`), or neither.
func parityTest(t *parser.Tree, cond *sitter.Node) (odd, even bool) {
	if cond == nil || cond.Type() != "comparison_operator" {
		return false, false
	}
	operands, ops := comparisonParts(cond)
	if len(operands) != 2 || len(ops) != 1 || ops[0] != "==" {
		return false, false
	}
	left, right := operands[0], operands[1]

	check := func(mod, lit *sitter.Node) (bool, bool) {
		if !isMod2(t, mod) {
			return false, false
		}
		return isIntLiteral(t, lit, "1"), isIntLiteral(t, lit, "0")
	}

	if odd, even = check(left, right); odd || even {
		return odd, even
	}
	return check(right, left)
}

// boolReturn returns the bool literal of a block consisting of exactly
// `return True` or `return False`, and whether the block has that shape.
func boolReturn(block *sitter.Node) (value, ok bool) {
	stmts := parser.NamedChildren(block)
	if len(stmts) != 1 || stmts[0].Type() != "return_statement" {
		return false, false
	}
	vals := parser.NamedChildren(stmts[0])
	if len(vals) != 1 {
		return false, false
	}
	switch vals[0].Type() {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// lenCallTarget returns the identifier name X when n is `len(X)`.
func lenCallTarget(t *parser.Tree, n *sitter.Node) (string, bool) {
	if n == nil || n.Type() != "call" {
		return "", false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || t.Content(fn) != "len" {
		return "", false
	}
	args := parser.NamedChildren(n.ChildByFieldName("arguments"))
	if len(args) != 1 || args[0].Type() != "identifier" {
		return "", false
	}
	return t.Content(args[0]), true
}

// guardTarget extracts the collection name guarded by an if condition:
// `if x:`, `if not x:`, `if len(x):`, or a comparison with len(x) on the left.
func guardTarget(t *parser.Tree, cond *sitter.Node) (string, bool) {
	if cond == nil {
		return "", false
	}
	switch cond.Type() {
	case "identifier":
		return t.Content(cond), true
	case "not_operator":
		arg := cond.ChildByFieldName("argument")
		if arg != nil && arg.Type() == "identifier" {
			return t.Content(arg), true
		}
	case "call":
		return lenCallTarget(t, cond)
	case "comparison_operator":
		operands, _ := comparisonParts(cond)
		if len(operands) > 0 {
			return lenCallTarget(t, operands[0])
		}
	}
	return "", false
}

// elifClauses returns the elif_clause children of an if_statement.
func elifClauses(n *sitter.Node) []*sitter.Node {
	return parser.ChildrenOfType(n, "elif_clause")
}

// callTarget returns the plain identifier a call dispatches to, if any.
func callTarget(t *parser.Tree, call *sitter.Node) (string, bool) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		return "", false
	}
	return t.Content(fn), true
}
