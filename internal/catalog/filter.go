package catalog

import "strings"

// Filter returns the items visible for a category and free-text query. An item is kept
// when the category is CategoryAll or equal to the item's category, and the item's name
// contains the query, compared case-insensitively. The result preserves catalog order
// and never aliases items.
func Filter(items []Item, category Category, query string) []Item {
	needle := strings.ToLower(query)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if category != CategoryAll && item.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (f FilterState) Apply(items []Item) []Item {
	return Filter(items, f.Category, f.Query)
}
