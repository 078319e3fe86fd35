package domain

import (
	"strings"
)

// Custom category limits.
const (
	MinCategoryNameLength = 4
	MaxCategoryNameLength = 80
	MaxCustomCategories   = 5
)

// BuiltInCategories cannot be added, renamed or deleted.
var BuiltInCategories = []string{
	"Programming Languages",
	"Data Structures",
	"Algorithms",
	"Database Systems",
	"Web Development",
	"Software Engineering",
	"Computer Networks",
	"Operating Systems",
	"Computer Architecture",
	"Cybersecurity",
}

// IsBuiltInCategory reports whether name is one of the fixed categories.
func IsBuiltInCategory(name string) bool {
	for _, c := range BuiltInCategories {
		if c == name {
			return true
		}
	}
	return false
}

// CustomCategories is the persisted per-user slice of added category names.
type CustomCategories []string

// All returns built-in categories followed by the custom ones.
func (c CustomCategories) All() []string {
	all := make([]string, 0, len(BuiltInCategories)+len(c))
	all = append(all, BuiltInCategories...)
	return append(all, c...)
}

func (c CustomCategories) contains(name string) bool {
	for _, existing := range c {
		if existing == name {
			return true
		}
	}
	return false
}

// AddCustomCategory validates name against the combined set and appends it trimmed.
func AddCustomCategory(c CustomCategories, name string) (CustomCategories, error) {
	trimmed := strings.TrimSpace(name)
	if n := len([]rune(trimmed)); n < MinCategoryNameLength || n > MaxCategoryNameLength {
		return c, NewValidationError("category", "Category name must be between 4 and 80 characters.", trimmed)
	}
	if len(c) >= MaxCustomCategories {
		return c, NewValidationError("category", "You can only add a maximum of 5 custom categories.", len(c))
	}
	if IsBuiltInCategory(trimmed) || c.contains(trimmed) {
		return c, NewValidationError("category", "This category already exists.", trimmed)
	}
	next := make(CustomCategories, len(c), len(c)+1)
	copy(next, c)
	return append(next, trimmed), nil
}

// RemoveCustomCategory drops name. Built-in names and unknown names leave c unchanged.
func RemoveCustomCategory(c CustomCategories, name string) (CustomCategories, bool) {
	if IsBuiltInCategory(name) {
		return c, false
	}
	next := make(CustomCategories, 0, len(c))
	removed := false
	for _, existing := range c {
		if existing == name {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if !removed {
		return c, false
	}
	return next, true
}
