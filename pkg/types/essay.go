// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"unicode/utf8"
)

// SectionKind names one of the four parts of an essay.
type SectionKind string

const (
	SectionTitle   SectionKind = "title"
	SectionOpening SectionKind = "opening"
	SectionBody    SectionKind = "body"
	SectionClosing SectionKind = "closing"
)

// sectionIndent prefixes the opening, body, and closing lines of the
// formatted document.
const sectionIndent = "    "

// Essay holds the four independently generated sections of a filler essay.
type Essay struct {
	// Theme is the topic substituted for every xx token.
	Theme string `json:"theme" yaml:"theme"`

	// RequestedLength is the target total length L the sections were sized from.
	RequestedLength int `json:"requested_length" yaml:"requested_length"`

	Title   string `json:"title" yaml:"title"`
	Opening string `json:"opening" yaml:"opening"`
	Body    string `json:"body" yaml:"body"`
	Closing string `json:"closing" yaml:"closing"`
}

// Text returns the formatted document: the title on its own line followed
// by the opening, body, and closing, each on an indented line.
func (e Essay) Text() string {
	var b strings.Builder
	b.WriteString(e.Title)
	for _, s := range []string{e.Opening, e.Body, e.Closing} {
		b.WriteString("\n")
		b.WriteString(sectionIndent)
		b.WriteString(s)
	}
	return b.String()
}

// Length returns the character count of Text, separators included.
func (e Essay) Length() int {
	return utf8.RuneCountInString(e.Text())
}

// Section returns the text of the named section.
func (e Essay) Section(kind SectionKind) string {
	switch kind {
	case SectionTitle:
		return e.Title
	case SectionOpening:
		return e.Opening
	case SectionBody:
		return e.Body
	case SectionClosing:
		return e.Closing
	}
	return ""
}
