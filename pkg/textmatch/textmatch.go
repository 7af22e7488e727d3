// Copyright (c) 2026 Parsight. All rights reserved.

// Package textmatch implements the case-insensitive substring matching used
// by listing free-text search.
//
// # Usage
//
// [Contains] decides whether a row matches the current search term, and
// [Spans] locates the matched byte ranges so the rendering layer can
// highlight them. Matching is pure string work with no I/O.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Fold returns s with full Unicode case folding applied, suitable for
// caseless comparison (e.g. "Straße" folds equal to "STRASSE").
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether text contains term under case folding.
// An empty term matches everything.
func Contains(text, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(Fold(text), Fold(term))
}

// Span is a half-open byte range [Start, End) into the original text.
type Span struct {
	Start int
	End   int
}

// Spans returns the non-overlapping matches of term in text, caseless,
// in left-to-right order. The ranges index the original text.
//
// Matching here lowers rune by rune rather than full-folding, so that byte
// offsets can be mapped back onto the input. Multi-rune expansions under
// full folding are not matched; for the ASCII-dominated label data this
// renders identically to [Contains].
func Spans(text, term string) []Span {
	if term == "" || text == "" {
		return nil
	}

	textRunes := []rune(text)
	termRunes := []rune(term)
	if len(termRunes) > len(textRunes) {
		return nil
	}

	// Byte offset of each rune, plus the terminating offset.
	offsets := make([]int, len(textRunes)+1)
	pos := 0
	for i, r := range textRunes {
		offsets[i] = pos
		pos += len(string(r))
	}
	offsets[len(textRunes)] = pos

	loweredText := lowerRunes(textRunes)
	loweredTerm := lowerRunes(termRunes)

	var spans []Span
	for i := 0; i+len(loweredTerm) <= len(loweredText); {
		if !runesEqual(loweredText[i:i+len(loweredTerm)], loweredTerm) {
			i++
			continue
		}
		spans = append(spans, Span{Start: offsets[i], End: offsets[i+len(loweredTerm)]})
		i += len(loweredTerm)
	}
	return spans
}

func lowerRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
