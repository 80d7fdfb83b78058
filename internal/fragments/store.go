// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fragments holds the in-memory Fragment Store: a read-only mapping
// from category name to the ordered list of text templates drawn by the
// resolver and assembler.
package fragments

import (
	"errors"
	"fmt"
	"sort"
)

// Category names the fragment lists the generator draws from.
const (
	Verb             = "verb"
	Noun             = "noun"
	Sentence         = "sentence"
	ParallelSentence = "parallel_sentence"
	Phrase           = "phrase"
	Title            = "title"
	Beginning        = "beginning"
	Body             = "body"
	Ending           = "ending"
)

// RequiredCategories lists every category the generator may look up.
var RequiredCategories = []string{
	Verb, Noun, Sentence, ParallelSentence, Phrase,
	Title, Beginning, Body, Ending,
}

var (
	// ErrCategoryNotFound is returned when a category key is absent.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrEmptyCategory is returned when a category has no entries to draw from.
	ErrEmptyCategory = errors.New("category is empty")
)

// Rand is the source of randomness for Pick. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Store maps category names to template lists. A Store is immutable after
// construction and safe for concurrent reads.
type Store struct {
	data map[string][]string
}

// New builds a Store from a loaded mapping. The mapping is copied, so later
// changes by the caller are not visible.
func New(data map[string][]string) *Store {
	cp := make(map[string][]string, len(data))
	for k, v := range data {
		cp[k] = append([]string(nil), v...)
	}
	return &Store{data: cp}
}

// Lookup returns the templates for category. The returned slice must not
// be modified.
func (s *Store) Lookup(category string) ([]string, error) {
	entries, ok := s.data[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	return entries, nil
}

// Pick draws one template from category uniformly at random.
func (s *Store) Pick(rng Rand, category string) (string, error) {
	entries, err := s.Lookup(category)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %q", ErrEmptyCategory, category)
	}
	return entries[rng.IntN(len(entries))], nil
}

// Categories returns the category names in sorted order.
func (s *Store) Categories() []string {
	names := make([]string, 0, len(s.data))
	for k := range s.data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every required category exists and is non-empty.
// All problems are reported together.
func (s *Store) Validate() error {
	var errs []error
	for _, c := range RequiredCategories {
		entries, ok := s.data[c]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %q", ErrCategoryNotFound, c))
		case len(entries) == 0:
			errs = append(errs, fmt.Errorf("%w: %q", ErrEmptyCategory, c))
		}
	}
	return errors.Join(errs...)
}
