// Package cancellation validates the category/reason pair required when an
// appointment is cancelled or rejected.
package cancellation

import (
	"errors"
	"os"
	"strings"
)

var (
	ErrInvalidCategory = errors.New("cancellation category is not in the configured set")
	ErrMissingReason   = errors.New("cancellation reason is required")
)

// DefaultCategories is used when CANCEL_CATEGORIES is not configured
var DefaultCategories = []string{
	"Schedule conflict",
	"Emergency",
	"Customer Request",
	"Other",
}

// Taxonomy holds the configured cancellation categories
type Taxonomy struct {
	categories map[string]bool
	ordered    []string
}

// NewTaxonomy builds a taxonomy from an explicit category list
func NewTaxonomy(categories []string) *Taxonomy {
	t := &Taxonomy{categories: make(map[string]bool)}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || t.categories[c] {
			continue
		}
		t.categories[c] = true
		t.ordered = append(t.ordered, c)
	}
	return t
}

// NewTaxonomyFromEnv reads CANCEL_CATEGORIES (comma separated) and falls
// back to DefaultCategories when unset.
func NewTaxonomyFromEnv() *Taxonomy {
	raw := os.Getenv("CANCEL_CATEGORIES")
	if raw == "" {
		return NewTaxonomy(DefaultCategories)
	}
	return NewTaxonomy(strings.Split(raw, ","))
}

// Categories returns the configured categories in declaration order
func (t *Taxonomy) Categories() []string {
	out := make([]string, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Validate checks that the category belongs to the configured set and that
// a reason was given. Both are required for every role; the legacy client
// skipped the reason on technician-initiated cancels, which is deliberately
// not carried over.
func (t *Taxonomy) Validate(category, reason string) error {
	if !t.categories[category] {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	return nil
}
