package model

import "strings"

// CategoryEquality decides whether two categories are the same category for
// containment and per-category totals.
type CategoryEquality func(a, b *Category) bool

// EntryEquality decides whether two entries are duplicates of each other.
type EntryEquality func(a, b Entry) bool

// SameCategory matches categories by case-insensitive trimmed name and kind.
// Two categories with different identifiers can therefore be the same category.
func SameCategory(a, b *Category) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.kind == b.kind && strings.EqualFold(a.name, b.name)
}

// SameCategoryID matches categories by identifier only.
func SameCategoryID(a, b *Category) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.id == b.id
}

// SameEntry matches entries by identifier, or by date plus case-insensitive
// description. The second path deduplicates natural repeats: two unrelated
// same-day entries with the same description collide.
func SameEntry(a, b Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID() == b.ID() {
		return true
	}
	return a.Date().Equal(b.Date()) && strings.EqualFold(a.Description(), b.Description())
}

// SameEntryID matches entries by identifier only.
func SameEntryID(a, b Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}
