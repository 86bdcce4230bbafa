package parser

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrMissingSeparator   = errors.New("entry has no key/value separator")
	ErrEmptyKey           = errors.New("entry has an empty key")
	ErrUnterminatedQuote  = errors.New("quoted value is not terminated")
	ErrTrailingCharacters = errors.New("characters following a quoted value were discarded")
)

type lexerState int

const (
	stateEntryStart lexerState = iota
	stateKey
	stateValueStart
	stateUnquotedValue
	stateQuotedValue
	stateClosedQuote
)

type lexer struct {
	input  []byte
	offset int
	buf    bytes.Buffer

	// Lexer state
	state      lexerState
	quote      byte // quote character of the current value when state == stateQuotedValue
	key        string
	entryStart int  // offset of the first non-whitespace character of the current entry
	trailing   bool // non-whitespace seen after the closing quote

	issues []Issue
}

func newLexer(input []byte) *lexer {
	return &lexer{input: input}
}

// Parse splits a connection string into its key/value pairs in source order.
// Duplicate keys are preserved. Malformed entries never cause an error, see
// ParseWithIssues for a description of what was tolerated.
func Parse(text string) []Pair {
	pairs, _ := ParseWithIssues(text)
	return pairs
}

// ParseWithIssues is Parse, but also returns an Issue for every entry that
// had to be skipped or repaired.
//
//   - An entry without a single '=' is skipped (ErrMissingSeparator).
//     Note that "==" is always a literal '=' in the key, so "key==value" is skipped too.
//   - An entry with a blank key is skipped (ErrEmptyKey).
//   - A quoted value that is never closed extends to the end of the input (ErrUnterminatedQuote).
//   - Anything between a closing quote and the next ';' is dropped (ErrTrailingCharacters).
func ParseWithIssues(text string) ([]Pair, []Issue) {
	l := newLexer([]byte(text))

	var pairs []Pair
	for {
		pair, ok := l.NextPair()
		if !ok {
			break
		}
		pairs = append(pairs, *pair)
	}
	return pairs, l.issues
}

// NextPair reads from the input until the next pair has been decoded.
// It returns false once the input has been consumed.
func (l *lexer) NextPair() (*Pair, bool) {
	for l.offset < len(l.input) {
		b := l.input[l.offset]
		l.offset++

		// Maintain one-char lookahead
		var lookahead byte
		if l.offset < len(l.input) {
			lookahead = l.input[l.offset]
		}

		if pair := l.matchChar(b, lookahead); pair != nil {
			return pair, true
		}
	}
	return l.finish()
}

func (l *lexer) matchChar(b, lookahead byte) *Pair {
	switch l.state {
	case stateEntryStart:
		if isSpace(b) || b == ';' {
			return nil // empty entries produce nothing
		}
		l.entryStart = l.offset - 1
		l.state = stateKey
		return l.matchKey(b, lookahead)

	case stateKey:
		return l.matchKey(b, lookahead)

	case stateValueStart:
		if isSpace(b) {
			return nil
		}
		if b == ';' {
			return l.buildPair("")
		}
		if b == '"' || b == '\'' {
			l.quote = b
			l.state = stateQuotedValue
			return nil
		}
		l.state = stateUnquotedValue
		l.buf.WriteByte(b)
		return nil

	case stateUnquotedValue:
		if b == ';' {
			return l.buildPair(trimSpace(l.buf.String()))
		}
		l.buf.WriteByte(b)
		return nil

	case stateQuotedValue:
		if b != l.quote {
			l.buf.WriteByte(b)
			return nil
		}
		if lookahead == l.quote {
			l.offset++ // doubled quotes are a single literal quote
			l.buf.WriteByte(b)
			return nil
		}
		l.state = stateClosedQuote
		return nil

	case stateClosedQuote:
		if b == ';' {
			return l.buildPair(l.buf.String())
		}
		if !isSpace(b) {
			l.trailing = true
		}
		return nil
	}
	return nil
}

func (l *lexer) matchKey(b, lookahead byte) *Pair {
	switch b {
	case '=':
		if lookahead == '=' {
			l.offset++
			l.buf.WriteByte(b)
			return nil
		}
		l.key = trimSpace(l.buf.String())
		l.buf.Reset()
		l.state = stateValueStart
		return nil

	case ';':
		l.report(ErrMissingSeparator)
		l.reset()
		return nil
	}

	l.buf.WriteByte(b)
	return nil
}

// finish flushes whatever entry is in progress once the end of the input has been reached.
func (l *lexer) finish() (*Pair, bool) {
	switch l.state {
	case stateKey:
		l.report(ErrMissingSeparator)
		l.reset()

	case stateValueStart:
		if pair := l.buildPair(""); pair != nil {
			return pair, true
		}

	case stateUnquotedValue:
		if pair := l.buildPair(trimSpace(l.buf.String())); pair != nil {
			return pair, true
		}

	case stateQuotedValue:
		l.report(ErrUnterminatedQuote)
		if pair := l.buildPair(l.buf.String()); pair != nil {
			return pair, true
		}

	case stateClosedQuote:
		if pair := l.buildPair(l.buf.String()); pair != nil {
			return pair, true
		}
	}
	return nil, false
}

// buildPair returns the pair for the current entry and resets the lexer for the next one.
// Nil is returned when the entry is not usable.
func (l *lexer) buildPair(value string) *Pair {
	defer l.reset()

	if l.trailing {
		l.report(ErrTrailingCharacters)
	}
	if l.key == "" {
		l.report(ErrEmptyKey)
		return nil
	}
	return &Pair{Key: l.key, Value: value}
}

func (l *lexer) report(err error) {
	l.issues = append(l.issues, Issue{Offset: l.entryStart, Err: err})
}

func (l *lexer) reset() {
	l.buf.Reset()
	l.state = stateEntryStart
	l.quote = 0
	l.key = ""
	l.trailing = false
}

// trimSpace trims the same ASCII whitespace isSpace skips, leaving other Unicode spaces in place.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r < utf8.RuneSelf && isSpace(byte(r))
	})
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
