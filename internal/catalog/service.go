package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"terrapulse/internal/utils"
)

var (
	ErrNotFound     = errors.New("nft not found")
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// Service serves a catalog that is fixed for the life of the process.
type Service struct {
	items  []Item
	bySlug map[string]int
}

// NewService validates and freezes items. Missing slugs are derived from names.
func NewService(items []Item) (*Service, error) {
	frozen := make([]Item, len(items))
	copy(frozen, items)

	seenIDs := make(map[int]struct{}, len(frozen))
	bySlug := make(map[string]int, len(frozen))
	for i := range frozen {
		item := &frozen[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, fmt.Errorf("catalog: item %d has no name", item.ID)
		}
		if !item.Category.IsItemCategory() {
			return nil, fmt.Errorf("catalog: item %d has invalid category %q", item.ID, item.Category)
		}
		if _, dup := seenIDs[item.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate id %d", item.ID)
		}
		seenIDs[item.ID] = struct{}{}

		if item.Slug == "" {
			item.Slug = item.Name
		}
		item.Slug = utils.Slugify(item.Slug)
		if _, dup := bySlug[item.Slug]; dup {
			return nil, fmt.Errorf("catalog: duplicate slug %q", item.Slug)
		}
		bySlug[item.Slug] = i
		item.SortOrder = i
	}

	return &Service{items: frozen, bySlug: bySlug}, nil
}

// LoadService reads src once and builds a Service from it.
func LoadService(ctx context.Context, src Source) (*Service, error) {
	items, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return NewService(items)
}

// Items returns a copy of the catalog in display order.
func (s *Service) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) List(filter FilterState) []Item {
	return filter.Apply(s.items)
}

func (s *Service) GetBySlug(slug string) (Item, error) {
	idx, ok := s.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Item{}, ErrNotFound
	}
	return s.items[idx], nil
}

// Categories lists the filter options in display order with the number of items each selects.
func (s *Service) Categories() []CategoryOption {
	counts := make(map[Category]int, len(categoryOrder))
	for _, item := range s.items {
		counts[item.Category]++
	}
	out := make([]CategoryOption, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		count := counts[c]
		if c == CategoryAll {
			count = len(s.items)
		}
		out = append(out, CategoryOption{ID: c, Name: c.Label(), Count: count})
	}
	return out
}
