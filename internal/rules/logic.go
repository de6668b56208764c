package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/critic-dev/critic/internal/parser"
	"github.com/critic-dev/critic/internal/review"
)

// Logical correctness detectors. High precision over exhaustiveness: these
// are syntactic, single-pass checks, not symbolic execution.
var logicalRules = []Rule{
	{
		ID:             "L100-unreachable",
		Description:    "Statements after return/raise in the same block never run",
		DefaultEnabled: true,
		Run:            checkUnreachable,
	},
	{
		ID:             "L200-bool-precedence",
		Description:    "Mixed and/or without parentheses relies on implicit precedence",
		DefaultEnabled: true,
		Run:            checkBoolPrecedence,
	},
	{
		ID:             "L300-is-literal",
		Description:    "'is' compared against a literal checks identity, not equality",
		DefaultEnabled: true,
		Run:            checkIsLiteral,
	},
	{
		ID:             "L400-range-div",
		Description:    "True division passed where an integer is required",
		DefaultEnabled: true,
		Run:            checkDivInIntContext,
	},
	{
		ID:             "L500-duplicate-dict-key",
		Description:    "Duplicate key in a dict literal; the later value wins silently",
		DefaultEnabled: true,
		Run:            checkDuplicateDictKey,
	},
	{
		ID:             "L600-self-compare",
		Description:    "Comparing a variable against itself",
		DefaultEnabled: true,
		Run:            checkSelfCompare,
	},
	{
		ID:             "L700-duplicate-if-condition",
		Description:    "Duplicate condition in an if/elif chain",
		DefaultEnabled: true,
		Run:            checkDuplicateIfCondition,
	},
	{
		ID:             "L800-inverted-predicate",
		Description:    "Parity predicate whose name and condition disagree",
		DefaultEnabled: true,
		Run:            checkInvertedPredicate,
	},
	{
		ID:             "L900-div-by-len",
		Description:    "Division by len() of an unguarded collection",
		DefaultEnabled: true,
		Run:            checkDivByLen,
	},
}

func checkUnreachable(ctx Context) []review.Issue {
	var out []review.Issue

	scanBlock := func(stmts []*sitter.Node) {
		terminated := false
		for _, stmt := range stmts {
			// Comments are named children of a block but not statements.
			if stmt.Type() == "comment" {
				continue
			}
			if terminated {
				out = append(out, mkIssue(ctx, parser.Line(stmt),
					review.CategoryBug, escalate(ctx.Strict, review.SeverityLow),
					"Unreachable code: statements after return/raise in the same block won't run.",
					"Remove dead code or move it before the return/raise.",
					"L100-unreachable"))
				break
			}
			switch stmt.Type() {
			case "return_statement", "raise_statement":
				terminated = true
			}
		}
	}

	root := ctx.Tree.Root()
	scanBlock(parser.NamedChildren(root))
	parser.Walk(root, func(n *sitter.Node) bool {
		if n.Type() == "block" {
			scanBlock(parser.NamedChildren(n))
		}
		return true
	})
	return out
}

func checkBoolPrecedence(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "boolean_operator" || operatorToken(t, n) != "or" {
			return true
		}
		for _, side := range []*sitter.Node{n.ChildByFieldName("left"), n.ChildByFieldName("right")} {
			if side != nil && side.Type() == "boolean_operator" && operatorToken(t, side) == "and" {
				out = append(out, mkIssue(ctx, parser.Line(n),
					review.CategoryBug, review.SeverityMedium,
					"Mixed boolean operators without parentheses can be a logic bug (and/or precedence).",
					"Add parentheses to make intended precedence explicit.",
					"L200-bool-precedence"))
				break
			}
		}
		return true
	})
	return out
}

func checkIsLiteral(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "comparison_operator" {
			return true
		}
		operands, ops := comparisonParts(n)
		identity := false
		for _, op := range ops {
			if op == "is" || op == "is not" {
				identity = true
				break
			}
		}
		if !identity {
			return true
		}
		for _, o := range operands {
			if isValueLiteral(o) {
				out = append(out, mkIssue(ctx, parser.Line(n),
					review.CategoryBug, escalate(ctx.Strict, review.SeverityMedium),
					"Using 'is' to compare to a literal is usually wrong; 'is' checks identity, not equality.",
					"Use '==' / '!=' for value comparison; keep 'is' for None/True/False singletons.",
					"L300-is-literal"))
				break
			}
		}
		return true
	})
	return out
}

func checkDivInIntContext(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree

	flag := func(n *sitter.Node, where string) {
		out = append(out, mkIssue(ctx, parser.Line(n),
			review.CategoryBug, review.SeverityMedium,
			fmt.Sprintf("%s uses '/', which produces float; this context requires an integer.", where),
			"Use '//' for integer division or wrap with int(...).",
			"L400-range-div"))
	}

	isTrueDiv := func(n *sitter.Node) bool {
		return n != nil && n.Type() == "binary_operator" && operatorToken(t, n) == "/"
	}

	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "call":
			if name, ok := callTarget(t, n); ok && name == "range" {
				for _, a := range parser.NamedChildren(n.ChildByFieldName("arguments")) {
					if isTrueDiv(a) {
						flag(n, "range() argument")
						break
					}
				}
			}
		case "subscript":
			value := n.ChildByFieldName("value")
			for _, c := range parser.NamedChildren(n) {
				if value != nil && c.StartByte() == value.StartByte() {
					continue
				}
				if isTrueDiv(c) {
					flag(n, "Subscript index")
					break
				}
			}
		}
		return true
	})
	return out
}

func checkDuplicateDictKey(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "dictionary" {
			return true
		}
		seen := make(map[string]bool)
		for _, pair := range parser.ChildrenOfType(n, "pair") {
			key := pair.ChildByFieldName("key")
			if key == nil || !isConstantKey(key) {
				continue
			}
			// Type-qualified so 1 and "1" stay distinct.
			k := key.Type() + "|" + normalizeKeyText(t.Content(key))
			if seen[k] {
				out = append(out, mkIssue(ctx, parser.Line(key),
					review.CategoryBug, escalate(ctx.Strict, review.SeverityLow),
					fmt.Sprintf("Duplicate dict key %s; earlier value will be overwritten.", t.Content(key)),
					"Remove the duplicate key or merge values intentionally.",
					"L500-duplicate-dict-key"))
				break
			}
			seen[k] = true
		}
		return true
	})
	return out
}

// normalizeKeyText strips quotes so 'a' and "a" compare equal.
func normalizeKeyText(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			s = s[1 : len(s)-1]
			continue
		}
		break
	}
	return s
}

func checkSelfCompare(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "comparison_operator" {
			return true
		}
		operands, ops := comparisonParts(n)
		if len(operands) != 2 || len(ops) != 1 {
			return true
		}
		if operands[0].Type() != "identifier" || operands[1].Type() != "identifier" {
			return true
		}
		name := t.Content(operands[0])
		if name != t.Content(operands[1]) {
			return true
		}
		switch ops[0] {
		case "==":
			out = append(out, mkIssue(ctx, parser.Line(n),
				review.CategoryBug, review.SeverityLow,
				fmt.Sprintf("Self-comparison '%s == %s' is almost always true and may be a logic bug.", name, name),
				"Check the intended variable; this can happen due to copy/paste mistakes.",
				"L600-self-compare"))
		case "!=":
			// A never-true branch silently disables code, so this ranks higher.
			out = append(out, mkIssue(ctx, parser.Line(n),
				review.CategoryBug, review.SeverityMedium,
				fmt.Sprintf("Self-comparison '%s != %s' is almost always false and may be a logic bug.", name, name),
				"Check the intended variable; this can happen due to copy/paste mistakes.",
				"L600-self-compare"))
		}
		return true
	})
	return out
}

func checkDuplicateIfCondition(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "if_statement" {
			return true
		}
		conds := []*sitter.Node{n.ChildByFieldName("condition")}
		for _, clause := range elifClauses(n) {
			conds = append(conds, clause.ChildByFieldName("condition"))
		}
		if len(conds) < 2 {
			return true
		}
		seen := make(map[string]bool)
		for _, c := range conds {
			key := t.Serialize(c)
			if seen[key] {
				out = append(out, mkIssue(ctx, parser.Line(n),
					review.CategoryBug, escalate(ctx.Strict, review.SeverityLow),
					"Duplicate condition in if/elif chain; one branch may be dead or incorrect.",
					"Fix the duplicated condition; consider consolidating or correcting the intended logic.",
					"L700-duplicate-if-condition"))
				break
			}
			seen[key] = true
		}
		return true
	})
	return out
}

func checkInvertedPredicate(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree
	parser.Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "function_definition" {
			return true
		}
		body := parser.NamedChildren(n.ChildByFieldName("body"))
		if len(body) != 1 || body[0].Type() != "if_statement" {
			return true
		}
		stmt := body[0]
		if len(elifClauses(stmt)) > 0 {
			return true
		}
		elseClauses := parser.ChildrenOfType(stmt, "else_clause")
		if len(elseClauses) != 1 {
			return true
		}

		thenRet, thenOK := boolReturn(stmt.ChildByFieldName("consequence"))
		elseRet, elseOK := boolReturn(elseClauses[0].ChildByFieldName("body"))
		if !thenOK || !elseOK || thenRet == elseRet {
			return true
		}

		name := strings.ToLower(t.Content(n.ChildByFieldName("name")))
		intentEven := strings.Contains(name, "even")
		intentOdd := strings.Contains(name, "odd")
		if !intentEven && !intentOdd {
			return true
		}

		testOdd, testEven := parityTest(t, stmt.ChildByFieldName("condition"))
		if !testOdd && !testEven {
			return true
		}

		if intentEven && testOdd && thenRet && !elseRet {
			out = append(out, mkIssue(ctx, parser.Line(stmt),
				review.CategoryBug, escalate(ctx.Strict, review.SeverityMedium),
				"Likely inverted predicate: function name suggests 'even' but condition checks for odd and returns True.",
				"Swap the True/False returns or change the condition to (n % 2 == 0); simplest: `return n % 2 == 0`.",
				"L800-inverted-predicate"))
		} else if intentOdd && testEven && thenRet && !elseRet {
			out = append(out, mkIssue(ctx, parser.Line(stmt),
				review.CategoryBug, escalate(ctx.Strict, review.SeverityMedium),
				"Likely inverted predicate: function name suggests 'odd' but condition checks for even and returns True.",
				"Swap the True/False returns or change the condition to (n % 2 == 1); simplest: `return n % 2 == 1`.",
				"L800-inverted-predicate"))
		}
		return true
	})
	return out
}

func checkDivByLen(ctx Context) []review.Issue {
	var out []review.Issue
	t := ctx.Tree

	var scan func(n *sitter.Node, guarded map[string]bool)
	scan = func(n *sitter.Node, guarded map[string]bool) {
		switch n.Type() {
		case "function_definition":
			// New scope: guards from enclosing code don't carry in.
			inner := make(map[string]bool)
			if body := n.ChildByFieldName("body"); body != nil {
				scan(body, inner)
			}
			return
		case "if_statement":
			if name, ok := guardTarget(t, n.ChildByFieldName("condition")); ok {
				guarded[name] = true
			}
		case "binary_operator":
			op := operatorToken(t, n)
			if op == "/" || op == "//" {
				if name, ok := lenCallTarget(t, n.ChildByFieldName("right")); ok && !guarded[name] {
					out = append(out, mkIssue(ctx, parser.Line(n),
						review.CategoryBug, escalate(ctx.Strict, review.SeverityMedium),
						fmt.Sprintf("Potential ZeroDivisionError: dividing by len(%s) without handling empty input.", name),
						fmt.Sprintf("Validate input before dividing (e.g., `if not %s: ...`) or raise a clear exception.", name),
						"L900-div-by-len"))
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			scan(n.Child(i), guarded)
		}
	}

	scan(t.Root(), make(map[string]bool))
	return out
}
