package ident

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotWikidata is returned when a textual identifier does not follow the
// Wikidata Q/P/L/F/S grammar and therefore has no numeric form.
var ErrNotWikidata = errors.New("ident: not a wikidata identifier")

// Numeric packing layout. Entities occupy [0, propertyOffset), properties
// [propertyOffset, lexemeOffset), lexemes [lexemeOffset, subMultiplier).
// Forms and senses of lexeme L are packed above subMultiplier as
// (L + lexemeOffset) + sub*subMultiplier, with senses additionally biased
// by senseBias to keep the two sub-identifier kinds apart.
const (
	propertyOffset = 1_000_000_000
	lexemeOffset   = 2_000_000_000
	senseBias      = 10_000_000_000
	subMultiplier  = 100_000_000_000
)

// Parse validates that s follows the Wikidata grammar ("Qn", "Pn", "Ln",
// "Fl-Fs", "Sl-Ss") and returns it as an identifier.
func Parse(s string) (ID, error) {
	id := ID(s)
	if _, err := ToNumeric(id); err != nil {
		return "", err
	}
	return id, nil
}

// Q returns the entity identifier "Qn".
func Q(n uint64) ID { return ID("Q" + strconv.FormatUint(n, 10)) }

// P returns the property identifier "Pn".
func P(n uint64) ID { return ID("P" + strconv.FormatUint(n, 10)) }

// L returns the lexeme identifier "Ln".
func L(n uint64) ID { return ID("L" + strconv.FormatUint(n, 10)) }

// ToNumeric packs a textual Wikidata identifier into the single unsigned
// integer space used by columnar graph dumps. Accepted forms are "Qn",
// "Pn", "Ln", "Fl-Fs" (form s of lexeme l), and "Sl-Ss" (sense s of
// lexeme l); form and sense numbers start at 1. Anything else yields
// ErrNotWikidata.
func ToNumeric(id ID) (uint64, error) {
	s := string(id)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
	}
	switch s[0] {
	case 'Q':
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
		}
		return n, nil
	case 'P':
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
		}
		return n + propertyOffset, nil
	case 'L':
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
		}
		return n + lexemeOffset, nil
	case 'F', 'S':
		lex, sub, err := parseSub(s)
		if err != nil {
			return 0, err
		}
		n := lex + lexemeOffset + sub*subMultiplier
		if s[0] == 'S' {
			n += senseBias
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
	}
}

// parseSub splits "Fl-Fs" or "Sl-Ss" into its lexeme and sub numbers.
// Both halves must carry the same kind letter. Sub numbers start at 1:
// a zero sub would pack into the plain-lexeme range and alias "Ln".
func parseSub(s string) (lex, sub uint64, err error) {
	head, tail, ok := strings.Cut(s[1:], "-")
	if !ok || len(tail) < 2 || tail[0] != s[0] {
		return 0, 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
	}
	lex, err = strconv.ParseUint(head, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
	}
	sub, err = strconv.ParseUint(tail[1:], 10, 64)
	if err != nil || sub == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrNotWikidata, s)
	}
	return lex, sub, nil
}

// FromNumeric decodes a packed numeric identifier back to its textual
// form. Decoding is total and inverts ToNumeric for every identifier
// whose numbers fit the packing windows above; real Wikidata numbering
// sits far below every window boundary.
func FromNumeric(n uint64) ID {
	switch {
	case n < propertyOffset:
		return Q(n)
	case n < lexemeOffset:
		return P(n - propertyOffset)
	case n < subMultiplier:
		return L(n - lexemeOffset)
	}
	sub := n / subMultiplier
	rem := n % subMultiplier
	kind := byte('F')
	if rem >= senseBias {
		kind = 'S'
		rem -= senseBias
	}
	if rem >= lexemeOffset {
		rem -= lexemeOffset
	}
	return ID(fmt.Sprintf("%c%d-%c%d", kind, rem, kind, sub))
}
