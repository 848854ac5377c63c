package catalog

import "strings"

// Uncategorized is the sentinel returned for items that match no keyword.
const Uncategorized = "Uncategorized"

// Category is one entry of the classification table: a name and its ordered
// list of lowercase keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Table is the ordered category/keyword table used for classification. It is
// an explicit value passed to callers rather than shared global state; the
// CategoryStore produces a fresh Table per use, so mutations are visible on
// the next call without a staleness window.
type Table []Category

// Normalize lowercases and trims a keyword or item name for matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Categorize maps free-text item input to a category name.
//
// Matching is case-insensitive and runs in two passes over the table in
// order: first exact keyword equality, then substring containment. Substring
// matching is deliberately not word-boundary aware ("tea" matches "steak"),
// matching the behavior staff already rely on. An exact match anywhere in the
// table always beats a substring match, even one in an earlier category.
// Empty or whitespace-only input returns Uncategorized.
func (t Table) Categorize(raw string) string {
	name := Normalize(raw)
	if name == "" {
		return Uncategorized
	}

	for _, c := range t {
		for _, kw := range c.Keywords {
			if name == kw {
				return c.Name
			}
		}
	}

	for _, c := range t {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(name, kw) {
				return c.Name
			}
		}
	}

	return Uncategorized
}

// Has reports whether the table contains a category with the given name.
func (t Table) Has(name string) bool {
	for _, c := range t {
		if c.Name == name {
			return true
		}
	}
	return false
}
