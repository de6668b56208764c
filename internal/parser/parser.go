package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax marks source text that does not parse. Callers treat it as a
// structured parse failure, not an operational error.
var ErrSyntax = errors.New("syntax error")

// Tree is a parsed Python syntax tree together with the source it was
// parsed from. Node content lookups need the original bytes.
type Tree struct {
	Source []byte

	tree *sitter.Tree
}

// Parse parses Python source text. A tree containing ERROR or MISSING nodes
// is reported as ErrSyntax; detectors depend on a well-formed tree.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: source is not valid UTF-8", ErrSyntax)
	}

	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	t, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	root := t.RootNode()
	if root == nil || root.HasError() {
		t.Close()
		return nil, ErrSyntax
	}

	return &Tree{Source: source, tree: t}, nil
}

// Root returns the module node.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Content returns the source text of a node.
func (t *Tree) Content(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(t.Source)
}

// Line returns the 1-based start line of a node.
func Line(n *sitter.Node) int {
	if n == nil {
		return 1
	}
	return int(n.StartPoint().Row) + 1
}

// NamedChildren returns all named children of a node.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Children returns all children of a node, anonymous tokens included.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// ChildrenOfType returns the direct children of a node with the given type.
func ChildrenOfType(n *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range Children(n) {
		if c.Type() == nodeType {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and every node beneath it in document order. Returning false
// from fn prunes the subtree.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), fn)
	}
}

// Serialize renders a node subtree as a deterministic structural string:
// named node kinds with leaf token text, whitespace-independent. Two nodes
// serialize equally exactly when they are structurally identical.
func (t *Tree) Serialize(n *sitter.Node) string {
	var b strings.Builder
	t.serialize(n, &b)
	return b.String()
}

func (t *Tree) serialize(n *sitter.Node, b *strings.Builder) {
	if n == nil {
		return
	}
	if n.ChildCount() == 0 {
		b.WriteByte('(')
		b.WriteString(n.Type())
		if n.IsNamed() || n.Type() != t.Content(n) {
			b.WriteByte(' ')
			b.WriteString(t.Content(n))
		}
		b.WriteByte(')')
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Type())
	for i := 0; i < int(n.ChildCount()); i++ {
		t.serialize(n.Child(i), b)
	}
	b.WriteByte(')')
}
