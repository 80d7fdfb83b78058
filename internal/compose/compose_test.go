// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/shenlun/internal/fragments"
	"github.com/pdiddy/shenlun/pkg/types"
)

// firstRand always draws index 0.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

// scenarioStore is the one-verb, one-noun store whose output is fully
// predictable apart from the vn pair count.
func scenarioStore() *fragments.Store {
	return fragments.New(map[string][]string{
		fragments.Verb:             {"买"},
		fragments.Noun:             {"房"},
		fragments.Sentence:         {"句子。"},
		fragments.ParallelSentence: {"并列"},
		fragments.Phrase:           {"短语"},
		fragments.Title:            {"xx的故事"},
		fragments.Beginning:        {"vn。"},
		fragments.Body:             {"vn。"},
		fragments.Ending:           {"vn。"},
	})
}

func richStore(t *testing.T) *fragments.Store {
	t.Helper()
	s, err := fragments.LoadFile("../fragments/testdata/data.json")
	require.NoError(t, err)
	return s
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func TestThresholdsFor(t *testing.T) {
	tests := []struct {
		length int
		want   Thresholds
	}{
		{length: 0, want: Thresholds{}},
		{length: 1, want: Thresholds{Opening: 0, Body: 0, Closing: 0}},
		{length: 7, want: Thresholds{Opening: 1, Body: 4, Closing: 1}},
		{length: 10, want: Thresholds{Opening: 1, Body: 7, Closing: 1}},
		{length: 500, want: Thresholds{Opening: 75, Body: 350, Closing: 75}},
		{length: 1001, want: Thresholds{Opening: 150, Body: 700, Closing: 150}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThresholdsFor(tt.length), "length %d", tt.length)
	}
}

func TestComposeScenario(t *testing.T) {
	sectionPattern := regexp.MustCompile(`^(买房(，买房){0,3}。)+$`)
	g := New(scenarioStore())
	rng := rand.New(rand.NewPCG(1, 1))

	for i := 0; i < 50; i++ {
		essay, err := g.Compose(rng, "买房", 10)
		require.NoError(t, err)

		assert.Equal(t, "买房的故事", essay.Title)
		assert.Equal(t, "买房", essay.Theme)
		assert.Equal(t, 10, essay.RequestedLength)
		for _, s := range []string{essay.Opening, essay.Body, essay.Closing} {
			assert.Regexp(t, sectionPattern, s)
		}
		assert.GreaterOrEqual(t, runeLen(essay.Opening), 1)
		assert.GreaterOrEqual(t, runeLen(essay.Body), 7)
		assert.GreaterOrEqual(t, runeLen(essay.Closing), 1)
	}
}

func TestComposeZeroLengthDrawsOnce(t *testing.T) {
	essay, err := New(scenarioStore()).Compose(firstRand{}, "买房", 0)
	require.NoError(t, err)

	assert.Equal(t, "买房的故事", essay.Title)
	assert.Equal(t, "买房。", essay.Opening)
	assert.Equal(t, "买房。", essay.Body)
	assert.Equal(t, "买房。", essay.Closing)
}

func TestComposeMeetsMinimums(t *testing.T) {
	g := New(richStore(t))
	rng := rand.New(rand.NewPCG(99, 3))

	for _, length := range []int{1, 2, 9, 50, 137, 500, 2000} {
		th := ThresholdsFor(length)
		essay, err := g.Compose(rng, "就业", length)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, runeLen(essay.Opening), th.Opening, "opening, length %d", length)
		assert.GreaterOrEqual(t, runeLen(essay.Body), th.Body, "body, length %d", length)
		assert.GreaterOrEqual(t, runeLen(essay.Closing), th.Closing, "closing, length %d", length)
		assert.NotContains(t, essay.Text(), "xx")
	}
}

func TestComposeNegativeLength(t *testing.T) {
	_, err := New(scenarioStore()).Compose(firstRand{}, "买房", -1)
	assert.ErrorIs(t, err, ErrNegativeLength)
}

func TestSectionStopsAtFirstDrawReachingMinimum(t *testing.T) {
	store := fragments.New(map[string][]string{fragments.Body: {"ab"}})
	g := New(store)

	tests := []struct {
		minLen int
		want   string
	}{
		{minLen: 0, want: "ab"},
		{minLen: 2, want: "ab"},
		{minLen: 3, want: "abab"},
		{minLen: 5, want: "ababab"},
	}
	for _, tt := range tests {
		got, err := g.Section(firstRand{}, types.SectionBody, "", tt.minLen)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "minLen %d", tt.minLen)
	}
}

func TestSectionCountsCharactersNotBytes(t *testing.T) {
	store := fragments.New(map[string][]string{fragments.Ending: {"总之。"}})
	got, err := New(store).Section(firstRand{}, types.SectionClosing, "", 4)
	require.NoError(t, err)
	assert.Equal(t, "总之。总之。", got)
}

func TestSectionUnknownKind(t *testing.T) {
	_, err := New(scenarioStore()).Section(firstRand{}, types.SectionKind("preface"), "", 1)
	assert.ErrorContains(t, err, "unknown section")
}

func TestComposePropagatesStoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		empty   string
		wantErr error
	}{
		{name: "missing title", drop: fragments.Title, wantErr: fragments.ErrCategoryNotFound},
		{name: "missing ending", drop: fragments.Ending, wantErr: fragments.ErrCategoryNotFound},
		{name: "missing noun", drop: fragments.Noun, wantErr: fragments.ErrCategoryNotFound},
		{name: "empty body", empty: fragments.Body, wantErr: fragments.ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := map[string][]string{
				fragments.Verb:      {"买"},
				fragments.Noun:      {"房"},
				fragments.Title:     {"xx"},
				fragments.Beginning: {"vn。"},
				fragments.Body:      {"vn。"},
				fragments.Ending:    {"vn。"},
			}
			if tt.drop != "" {
				delete(data, tt.drop)
			}
			if tt.empty != "" {
				data[tt.empty] = []string{}
			}

			essay, err := New(fragments.New(data)).Compose(firstRand{}, "买房", 10)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, types.Essay{}, essay)
		})
	}
}
