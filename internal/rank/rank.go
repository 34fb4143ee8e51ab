// Package rank orders a candidate set against a typed query.
package rank

import (
	"cmp"
	"slices"
	"strings"

	"appdeck/internal/app"

	"golang.org/x/text/cases"
)

// scored pairs a record with the keys it is sorted by.
type scored struct {
	rec    app.Record
	folded string
	prefix bool
}

// Rank returns candidates filtered and ordered for query. An empty or
// whitespace-only query keeps every candidate in browse order: most recently
// launched first, then by case-folded display name. Otherwise only records
// whose display name contains the query (case-insensitively) are kept, prefix
// matches ahead of the rest, each group by recency then name. Remaining ties
// fall back to the path. Rank does not modify candidates.
func Rank(candidates []app.Record, query string) []app.Record {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	items := make([]scored, 0, len(candidates))
	for _, rec := range candidates {
		name := fold.String(rec.DisplayName)
		if q != "" && !strings.Contains(name, q) {
			continue
		}
		items = append(items, scored{
			rec:    rec,
			folded: name,
			prefix: q != "" && strings.HasPrefix(name, q),
		})
	}

	slices.SortStableFunc(items, compare)

	out := make([]app.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

func compare(a, b scored) int {
	if a.prefix != b.prefix {
		if a.prefix {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.rec.LastLaunched, a.rec.LastLaunched); c != 0 {
		return c
	}
	if c := strings.Compare(a.folded, b.folded); c != 0 {
		return c
	}
	return strings.Compare(a.rec.Path, b.rec.Path)
}

// Limit returns at most n records. n <= 0 means no limit.
func Limit(records []app.Record, n int) []app.Record {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[:n]
}
