package catalog

import "strings"

// Category partitions catalog items. CategoryAll is the filter sentinel and is never
// carried by an item.
type Category string

const (
	CategoryAll        Category = "all"
	CategoryEndangered Category = "endangered"
	CategoryReserves   Category = "reserves"
	CategoryHotels     Category = "hotels"
)

var categoryOrder = []Category{CategoryAll, CategoryEndangered, CategoryReserves, CategoryHotels}

var categoryLabels = map[Category]string{
	CategoryAll:        "All NFTs",
	CategoryEndangered: "Endangered",
	CategoryReserves:   "Reserves",
	CategoryHotels:     "Eco Hotels",
}

// ParseCategory normalizes raw input. The boolean is false for values outside the
// enumeration; the returned Category still carries the normalized value so callers
// can pass it to Filter, where it matches nothing.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := categoryLabels[c]
	return c, ok
}

// IsItemCategory reports whether c may be carried by an item.
func (c Category) IsItemCategory() bool {
	_, ok := categoryLabels[c]
	return ok && c != CategoryAll
}

func (c Category) Label() string {
	return categoryLabels[c]
}

type Item struct {
	ID           int      `bson:"_id" json:"id" yaml:"id"`
	Slug         string   `bson:"slug" json:"slug" yaml:"slug"`
	Name         string   `bson:"name" json:"name" yaml:"name"`
	Category     Category `bson:"category" json:"category" yaml:"category"`
	Price        int      `bson:"price" json:"price" yaml:"price"`
	Currency     string   `bson:"currency" json:"currency" yaml:"currency"`
	Image        string   `bson:"image" json:"image" yaml:"image"`
	Rarity       string   `bson:"rarity" json:"rarity" yaml:"rarity"`
	Conservation string   `bson:"conservation" json:"conservation" yaml:"conservation"`
	Location     string   `bson:"location" json:"location" yaml:"location"`
	SortOrder    int      `bson:"sort_order" json:"-" yaml:"-"`
}

type FilterState struct {
	Category Category
	Query    string
}

// CategoryOption is a selectable filter button.
type CategoryOption struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Count int      `json:"count"`
}
