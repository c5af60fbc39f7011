package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stockroom/internal/model"
)

// SortKey selects the view ordering attribute.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

// SortOrder selects ascending or descending presentation.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// nameCollator compares names locale-aware and case-insensitively, so "bolt"
// and "Bolt" sort together. Collators are not safe for concurrent use; Derive
// builds the comparator per call and is itself safe.
func nameCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

// Derive computes the presented sequence: filter by case-insensitive
// substring over name or description, then sort by the chosen key.
// Pure: no side effects, no memory between calls, input slice untouched.
// Descending order negates the comparator rather than reversing the
// filtered sequence.
func Derive(items []model.Item, search string, key SortKey, order SortOrder) []model.Item {
	out := make([]model.Item, 0, len(items))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, it := range items {
		if needle == "" || matchesSearch(it, needle) {
			out = append(out, it)
		}
	}

	var less func(a, b model.Item) bool
	switch key {
	case SortByPrice:
		less = func(a, b model.Item) bool { return a.Price < b.Price }
	default:
		c := nameCollator()
		less = func(a, b model.Item) bool {
			return c.CompareString(a.Name, b.Name) < 0
		}
	}
	if order == Descending {
		asc := less
		less = func(a, b model.Item) bool { return asc(b, a) }
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func matchesSearch(it model.Item, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(it.Name), lowerNeedle) ||
		strings.Contains(strings.ToLower(it.Description), lowerNeedle)
}
