// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve rewrites template strings by substituting placeholder
// tokens with fragments drawn from a fragments.Store.
//
// Tokens are plain substrings, not delimited. A template is rewritten in a
// single sweep of ordered passes; each pass scans the output of the
// previous one, so text inserted early can be matched by a later, shorter
// token. Multi-letter tokens run before the single letters they contain.
// Text drawn from leaf categories is never swept again from the first pass,
// and resolving already resolved text is not idempotent.
package resolve

import (
	"fmt"
	"strings"

	"github.com/pdiddy/shenlun/internal/fragments"
)

// pairSeparator joins the verb+noun pairs produced by the vn token.
const pairSeparator = "，"

// maxPairs is the upper bound on verb+noun pairs for one vn occurrence.
const maxPairs = 4

// Kind selects how a rule produces its replacement text.
type Kind int

const (
	// KindPairs draws 1..maxPairs independent verb+noun pairs.
	KindPairs Kind = iota
	// KindFragment draws one entry from the rule's category.
	KindFragment
	// KindTheme inserts the caller's theme verbatim.
	KindTheme
)

// Rule binds a placeholder token to its resolution.
type Rule struct {
	Token    string
	Kind     Kind
	Category string
}

// rules is the fixed resolution order. Reordering changes output.
var rules = []Rule{
	{Token: "vn", Kind: KindPairs},
	{Token: "v", Kind: KindFragment, Category: fragments.Verb},
	{Token: "n", Kind: KindFragment, Category: fragments.Noun},
	{Token: "ss", Kind: KindFragment, Category: fragments.Sentence},
	{Token: "sp", Kind: KindFragment, Category: fragments.ParallelSentence},
	{Token: "p", Kind: KindFragment, Category: fragments.Phrase},
	{Token: "xx", Kind: KindTheme},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Resolver substitutes placeholders using a fragment store. It holds no
// mutable state; randomness is supplied per call.
type Resolver struct {
	store *fragments.Store
}

// New returns a Resolver drawing from store.
func New(store *fragments.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve applies every rule to template in order and returns the result.
// A failed lookup aborts resolution and is returned wrapped.
func (r *Resolver) Resolve(rng fragments.Rand, template, theme string) (string, error) {
	out := template
	for _, rule := range rules {
		var err error
		out, err = replaceEach(out, rule.Token, func() (string, error) {
			return r.expand(rng, rule, theme)
		})
		if err != nil {
			return "", fmt.Errorf("resolving %q: %w", rule.Token, err)
		}
	}
	return out, nil
}

func (r *Resolver) expand(rng fragments.Rand, rule Rule, theme string) (string, error) {
	switch rule.Kind {
	case KindTheme:
		return theme, nil
	case KindFragment:
		return r.store.Pick(rng, rule.Category)
	case KindPairs:
		return r.pairs(rng)
	}
	return "", fmt.Errorf("unknown rule kind %d", rule.Kind)
}

// pairs draws between 1 and maxPairs verb+noun pairs.
func (r *Resolver) pairs(rng fragments.Rand) (string, error) {
	n := 1 + rng.IntN(maxPairs)
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		verb, err := r.store.Pick(rng, fragments.Verb)
		if err != nil {
			return "", err
		}
		noun, err := r.store.Pick(rng, fragments.Noun)
		if err != nil {
			return "", err
		}
		parts = append(parts, verb+noun)
	}
	return strings.Join(parts, pairSeparator), nil
}

// replaceEach replaces every non-overlapping occurrence of token in s,
// scanning left to right. next is called once per occurrence. Replacement
// text is not rescanned for token.
func replaceEach(s, token string, next func() (string, error)) (string, error) {
	i := strings.Index(s, token)
	if i < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i >= 0 {
		b.WriteString(s[:i])
		repl, err := next()
		if err != nil {
			return "", err
		}
		b.WriteString(repl)
		s = s[i+len(token):]
		i = strings.Index(s, token)
	}
	b.WriteString(s)
	return b.String(), nil
}
