package domain

import (
	"fmt"
	"strings"
)

// Category is a recipe-type label assigned per document.
// Only the six values below are valid; anything else is rejected.
type Category string

// The fixed recipe categories.
const (
	CategorySnacks     Category = "Snacks"
	CategorySalads     Category = "Salads"
	CategoryMainCourse Category = "MainCourse"
	CategoryJuices     Category = "Juices"
	CategoryDesserts   Category = "Desserts"
	CategoryAppetizers Category = "Appetizers"
)

// CategoryAll is the filter value meaning "no category restriction".
const CategoryAll = "ALL"

// AllCategories returns the six categories in display order.
func AllCategories() []Category {
	return []Category{
		CategorySnacks,
		CategorySalads,
		CategoryMainCourse,
		CategoryJuices,
		CategoryDesserts,
		CategoryAppetizers,
	}
}

// IsValid returns true if the category is one of the six labels.
func (c Category) IsValid() bool {
	switch c {
	case CategorySnacks, CategorySalads, CategoryMainCourse,
		CategoryJuices, CategoryDesserts, CategoryAppetizers:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Label returns a display label, using "All" for the empty filter.
func (c Category) Label() string {
	if c == "" {
		return "All"
	}
	return string(c)
}

// ParseCategory converts a raw completion label into a Category.
// Surrounding whitespace, quotes, backticks and a trailing full stop are
// stripped and the comparison ignores case. Any other deviation returns
// ErrUnknownCategory.
func ParseCategory(raw string) (Category, error) {
	label := strings.TrimSpace(raw)
	label = strings.Trim(label, "\"'`")
	label = strings.TrimSuffix(label, ".")
	label = strings.TrimSpace(label)

	for _, c := range AllCategories() {
		if strings.EqualFold(label, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// ParseCategoryFilter parses a user-supplied category filter.
// Empty input and "ALL" (any case) mean no filter and return "".
func ParseCategoryFilter(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, CategoryAll) {
		return "", nil
	}
	return ParseCategory(trimmed)
}
