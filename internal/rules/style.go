package rules

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/critic-dev/critic/internal/parser"
	"github.com/critic-dev/critic/internal/review"
)

// Style and hygiene detectors.
var styleRules = []Rule{
	{
		ID:             "R100-debug-print",
		Description:    "print() calls that look like debug output",
		DefaultEnabled: true,
		Run:            checkDebugPrint,
	},
	{
		ID:             "R200-dangerous-call",
		Description:    "eval/exec/os.system usage",
		DefaultEnabled: true,
		Run:            checkDangerousCall,
	},
	{
		ID:             "R300-mutable-default",
		Description:    "Mutable default arguments in function definitions",
		DefaultEnabled: true,
		Run:            checkMutableDefault,
	},
	{
		ID:             "R400-deep-nesting",
		Description:    "Nesting deep enough to hurt readability",
		DefaultEnabled: true,
		Run:            checkDeepNesting,
	},
	{
		ID:             "R500-unused-variable",
		Description:    "Local variables assigned but never used",
		DefaultEnabled: true,
		Run:            checkUnusedVariable,
	},
}

func checkDebugPrint(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "call" {
			return true
		}
		if name, ok := callTarget(t, n); ok && name == "print" {
			out = append(out, mkIssue(ctx, parser.Line(n),
				review.CategoryStyle, escalate(ctx.Strict, review.SeverityLow),
				"Debug print() left in code.",
				"Replace with structured logging or remove before merge.",
				"R100-debug-print"))
		}
		return true
	})
	return out
}

func checkDangerousCall(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "call" {
			return true
		}
		if name, ok := callTarget(t, n); ok && (name == "eval" || name == "exec") {
			out = append(out, mkIssue(ctx, parser.Line(n),
				review.CategorySecurity, review.SeverityCritical,
				fmt.Sprintf("Use of %s() is dangerous.", name),
				"Avoid dynamic code execution. Use safe parsers/dispatch tables.",
				"R200-dangerous-call"))
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "attribute" {
			obj := fn.ChildByFieldName("object")
			attr := fn.ChildByFieldName("attribute")
			if obj != nil && attr != nil &&
				obj.Type() == "identifier" && t.Content(obj) == "os" && t.Content(attr) == "system" {
				out = append(out, mkIssue(ctx, parser.Line(n),
					review.CategorySecurity, review.SeverityHigh,
					"Use of os.system() is risky (shell injection).",
					"Prefer subprocess.run([...], check=True) without shell=True.",
					"R200-dangerous-call"))
			}
		}
		return true
	})
	return out
}

func checkMutableDefault(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "function_definition" {
			return true
		}
		params := n.ChildByFieldName("parameters")
		for _, p := range parser.NamedChildren(params) {
			switch p.Type() {
			case "default_parameter", "typed_default_parameter":
			default:
				continue
			}
			v := p.ChildByFieldName("value")
			if v == nil {
				continue
			}
			switch v.Type() {
			case "list", "dictionary", "set":
				out = append(out, mkIssue(ctx, parser.Line(v),
					review.CategoryBug, review.SeverityHigh,
					"Mutable default argument can leak state between calls.",
					"Use None as default and create a new list/dict inside the function.",
					"R300-mutable-default"))
			}
		}
		return true
	})
	return out
}

const maxNestingDepth = 4

func nestingNode(nodeType string) bool {
	switch nodeType {
	case "if_statement", "for_statement", "while_statement", "try_statement", "with_statement":
		return true
	default:
		return false
	}
}

func checkDeepNesting(ctx Context) []review.Issue {
	var out []review.Issue

	var visit func(n *sitter.Node, depth int)
	visit = func(n *sitter.Node, depth int) {
		if nestingNode(n.Type()) {
			depth++
			if depth > maxNestingDepth {
				out = append(out, mkIssue(ctx, parser.Line(n),
					review.CategoryStyle, escalate(ctx.Strict, review.SeverityLow),
					fmt.Sprintf("Deep nesting (depth=%d) reduces readability.", depth),
					"Refactor with early returns, helper functions, or guard clauses.",
					"R400-deep-nesting"))
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i), depth)
		}
	}

	visit(ctx.Tree.Root(), 0)
	return out
}

func checkUnusedVariable(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "function_definition" {
			return true
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			return true
		}

		assigned := make(map[string]bool)
		used := make(map[string]bool)
		// Target positions keyed by byte offset; node handles are not
		// stable across traversals.
		targets := make(map[uint32]bool)

		// First pass: collect assignment targets.
		parser.Walk(body, func(c *sitter.Node) bool {
			var left *sitter.Node
			switch c.Type() {
			case "assignment", "augmented_assignment":
				left = c.ChildByFieldName("left")
			}
			if left == nil {
				return true
			}
			parser.Walk(left, func(id *sitter.Node) bool {
				if id.Type() == "identifier" {
					assigned[t.Content(id)] = true
					targets[id.StartByte()] = true
				}
				return true
			})
			return true
		})

		// Second pass: any identifier read outside a target position.
		parser.Walk(body, func(id *sitter.Node) bool {
			if id.Type() == "identifier" && !targets[id.StartByte()] {
				used[t.Content(id)] = true
			}
			return true
		})

		var names []string
		for name := range assigned {
			if !used[name] && !strings.HasPrefix(name, "_") {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, mkIssue(ctx, parser.Line(n),
				review.CategoryStyle, review.SeverityInfo,
				fmt.Sprintf("Variable '%s' assigned but never used.", name),
				"Remove it or use it; prefix with '_' if intentionally unused.",
				"R500-unused-variable"))
		}
		return true
	})
	return out
}
