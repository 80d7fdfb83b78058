// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose assembles essays from resolved fragment templates.
// Each section is built by drawing whole-section templates until it
// reaches its minimum length; the title is a single draw.
package compose

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/shenlun/internal/fragments"
	"github.com/pdiddy/shenlun/internal/resolve"
	"github.com/pdiddy/shenlun/pkg/types"
)

// ErrNegativeLength is returned when the requested essay length is below zero.
var ErrNegativeLength = errors.New("essay length must not be negative")

// sectionCategories maps each section to the category its templates come from.
var sectionCategories = map[types.SectionKind]string{
	types.SectionTitle:   fragments.Title,
	types.SectionOpening: fragments.Beginning,
	types.SectionBody:    fragments.Body,
	types.SectionClosing: fragments.Ending,
}

// Thresholds holds the minimum character length of each looped section.
type Thresholds struct {
	Opening int
	Body    int
	Closing int
}

// ThresholdsFor splits a requested total length: 15% each for opening and
// closing, 70% for the body, each floored. The sections do not share a
// budget, so overshoot in one never shrinks another.
func ThresholdsFor(length int) Thresholds {
	edge := length * 15 / 100
	return Thresholds{
		Opening: edge,
		Body:    length * 70 / 100,
		Closing: edge,
	}
}

// Generator builds essays from a fragment store.
// It is stateless; concurrent callers must pass separate random sources.
type Generator struct {
	store    *fragments.Store
	resolver *resolve.Resolver
}

// New returns a Generator drawing from store.
func New(store *fragments.Store) *Generator {
	return &Generator{store: store, resolver: resolve.New(store)}
}

// Title draws and resolves a single title template.
func (g *Generator) Title(rng fragments.Rand, theme string) (string, error) {
	return g.draw(rng, types.SectionTitle, theme)
}

// Section appends resolved templates of the given kind until the text is at
// least minLen characters long. At least one template is always drawn, even
// when minLen is zero. The result is never truncated.
func (g *Generator) Section(rng fragments.Rand, kind types.SectionKind, theme string, minLen int) (string, error) {
	var (
		b strings.Builder
		n int
	)
	for {
		s, err := g.draw(rng, kind, theme)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		n += utf8.RuneCountInString(s)
		if n >= minLen {
			return b.String(), nil
		}
	}
}

func (g *Generator) draw(rng fragments.Rand, kind types.SectionKind, theme string) (string, error) {
	category, ok := sectionCategories[kind]
	if !ok {
		return "", fmt.Errorf("unknown section %q", kind)
	}
	tmpl, err := g.store.Pick(rng, category)
	if err != nil {
		return "", fmt.Errorf("%s: %w", kind, err)
	}
	out, err := g.resolver.Resolve(rng, tmpl, theme)
	if err != nil {
		return "", fmt.Errorf("%s: %w", kind, err)
	}
	return out, nil
}

// Compose generates a full essay on theme sized from the requested length.
func (g *Generator) Compose(rng fragments.Rand, theme string, length int) (types.Essay, error) {
	if length < 0 {
		return types.Essay{}, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}
	th := ThresholdsFor(length)

	essay := types.Essay{Theme: theme, RequestedLength: length}
	var err error
	if essay.Title, err = g.Title(rng, theme); err != nil {
		return types.Essay{}, err
	}
	if essay.Opening, err = g.Section(rng, types.SectionOpening, theme, th.Opening); err != nil {
		return types.Essay{}, err
	}
	if essay.Body, err = g.Section(rng, types.SectionBody, theme, th.Body); err != nil {
		return types.Essay{}, err
	}
	if essay.Closing, err = g.Section(rng, types.SectionClosing, theme, th.Closing); err != nil {
		return types.Essay{}, err
	}
	return essay, nil
}
