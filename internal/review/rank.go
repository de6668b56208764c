package review

import "sort"

// Rank imposes the presentation order: most severe first, then category
// (security, bug, performance, maintainability, style), then location, then
// description. The order is total, so ranking is stable and idempotent.
func Rank(issues []Issue) []Issue {
	out := make([]Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(a, b int) bool {
		ia, ib := out[a], out[b]
		if ra, rb := SeverityRank(ia.Severity), SeverityRank(ib.Severity); ra != rb {
			return ra < rb
		}
		if ra, rb := CategoryRank(ia.Category), CategoryRank(ib.Category); ra != rb {
			return ra < rb
		}
		if la, lb := ia.Location(), ib.Location(); la != lb {
			return la < lb
		}
		return ia.Description < ib.Description
	})
	return out
}
