package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scenarioCatalog() []Item {
	return []Item{
		{ID: 1, Name: "Majestic Lion Pride", Category: CategoryEndangered, Price: 250},
		{ID: 2, Name: "Rainforest Reserve", Category: CategoryReserves, Price: 500},
	}
}

func sampleCatalog() []Item {
	return []Item{
		{ID: 1, Name: "Majestic Lion Pride", Category: CategoryEndangered},
		{ID: 2, Name: "Rainforest Reserve", Category: CategoryReserves},
		{ID: 3, Name: "Snow Leopard Ridge", Category: CategoryEndangered},
		{ID: 4, Name: "Lion Lodge", Category: CategoryHotels},
		{ID: 5, Name: "Sea Lion Cove", Category: CategoryReserves},
	}
}

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestFilterByCategory(t *testing.T) {
	got := Filter(scenarioCatalog(), CategoryEndangered, "")
	if diff := cmp.Diff([]string{"Majestic Lion Pride"}, names(got)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestFilterByQuery(t *testing.T) {
	got := Filter(scenarioCatalog(), CategoryAll, "rain")
	if diff := cmp.Diff([]string{"Rainforest Reserve"}, names(got)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestFilterAllEmptyIsIdentity(t *testing.T) {
	items := sampleCatalog()
	got := Filter(items, CategoryAll, "")
	if diff := cmp.Diff(items, got); diff != "" {
		t.Fatalf("expected identity (-want +got):\n%s", diff)
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	items := sampleCatalog()
	upper := Filter(items, CategoryAll, "LION")
	lower := Filter(items, CategoryAll, "lion")
	if diff := cmp.Diff(lower, upper); diff != "" {
		t.Fatalf("case changed the result (-lower +upper):\n%s", diff)
	}
	if len(lower) != 3 {
		t.Fatalf("expected 3 lion matches, got %d", len(lower))
	}
}

func TestFilterMatchesSubstringNotTokens(t *testing.T) {
	got := Filter(sampleCatalog(), CategoryAll, "n lod")
	if diff := cmp.Diff([]string{"Lion Lodge"}, names(got)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestFilterPreservesOrderAndIsSubsequence(t *testing.T) {
	items := sampleCatalog()
	categories := []Category{CategoryAll, CategoryEndangered, CategoryReserves, CategoryHotels, Category("unknown")}
	queries := []string{"", "l", "LION", "o", "zzz", " "}

	for _, c := range categories {
		for _, q := range queries {
			got := Filter(items, c, q)
			next := 0
			for _, g := range got {
				for next < len(items) && items[next].ID != g.ID {
					next++
				}
				if next == len(items) {
					t.Fatalf("Filter(%q, %q) is not an ordered subsequence: %v", c, q, names(got))
				}
				next++
				if c != CategoryAll && g.Category != c {
					t.Fatalf("Filter(%q, %q) returned item of category %q", c, q, g.Category)
				}
			}
		}
	}
}

func TestFilterUnknownCategoryMatchesNothing(t *testing.T) {
	if got := Filter(sampleCatalog(), Category("volcanoes"), ""); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", names(got))
	}
}

func TestFilterIsPureAndDeterministic(t *testing.T) {
	items := sampleCatalog()
	before := sampleCatalog()

	first := Filter(items, CategoryReserves, "e")
	second := Filter(items, CategoryReserves, "e")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("filter is not deterministic:\n%s", diff)
	}
	if diff := cmp.Diff(before, items); diff != "" {
		t.Fatalf("filter mutated its input:\n%s", diff)
	}

	if len(first) > 0 {
		first[0].Name = "mutated"
		if items[1].Name == "mutated" {
			t.Fatalf("result aliases the input")
		}
	}
}

func TestFilterStateApply(t *testing.T) {
	f := FilterState{Category: CategoryReserves, Query: "cove"}
	if diff := cmp.Diff([]string{"Sea Lion Cove"}, names(f.Apply(sampleCatalog()))); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in    string
		want  Category
		known bool
	}{
		{"endangered", CategoryEndangered, true},
		{"  Hotels ", CategoryHotels, true},
		{"ALL", CategoryAll, true},
		{"volcanoes", Category("volcanoes"), false},
		{"", Category(""), false},
	}
	for _, tc := range cases {
		got, known := ParseCategory(tc.in)
		if got != tc.want || known != tc.known {
			t.Fatalf("ParseCategory(%q) = %q,%v want %q,%v", tc.in, got, known, tc.want, tc.known)
		}
	}
	if CategoryAll.IsItemCategory() {
		t.Fatalf("the all sentinel must not be an item category")
	}
}
