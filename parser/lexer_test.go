package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Pairs  []Pair
		Issues []error
	}{
		{
			Name:  "empty",
			Input: "",
		},
		{
			Name:  "only-whitespace",
			Input: "  \t ",
		},
		{
			Name:  "only-separators",
			Input: ";; ;",
		},
		{
			Name:  "basic",
			Input: "Provider=someone;User=bartolo;",
			Pairs: []Pair{
				{Key: "Provider", Value: "someone"},
				{Key: "User", Value: "bartolo"},
			},
		},
		{
			Name:  "no-trailing-separator",
			Input: "huehue=troll",
			Pairs: []Pair{{Key: "huehue", Value: "troll"}},
		},
		{
			Name:  "whitespace-trimmed",
			Input: "    Key   =   value   ;",
			Pairs: []Pair{{Key: "Key", Value: "value"}},
		},
		{
			Name:  "whitespace-inside-key-and-value",
			Input: "cool key  = some value ;",
			Pairs: []Pair{{Key: "cool key", Value: "some value"}},
		},
		{
			Name:  "empty-value",
			Input: "a=;b=  ;c=",
			Pairs: []Pair{
				{Key: "a", Value: ""},
				{Key: "b", Value: ""},
				{Key: "c", Value: ""},
			},
		},
		{
			Name:  "duplicates-kept-in-order",
			Input: "a=1;b=2;a=3",
			Pairs: []Pair{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2"},
				{Key: "a", Value: "3"},
			},
		},
		{
			Name:  "doubled-equals-in-key",
			Input: "Key==2=value;",
			Pairs: []Pair{{Key: "Key=2", Value: "value"}},
		},
		{
			Name:  "leading-doubled-equals-in-key",
			Input: "  ==Key=value",
			Pairs: []Pair{{Key: "=Key", Value: "value"}},
		},
		{
			Name:  "tripled-equals",
			Input: "key===value;",
			Pairs: []Pair{{Key: "key=", Value: "value"}},
		},
		{
			Name:   "doubled-equals-never-separates",
			Input:  "key==value;other=1",
			Pairs:  []Pair{{Key: "other", Value: "1"}},
			Issues: []error{ErrMissingSeparator},
		},
		{
			Name:  "equals-in-unquoted-value",
			Input: "key=a=b==c;",
			Pairs: []Pair{{Key: "key", Value: "a=b==c"}},
		},
		{
			Name:  "double-quoted",
			Input: `Key1="==hu'ehue  ;==";`,
			Pairs: []Pair{{Key: "Key1", Value: "==hu'ehue  ;=="}},
		},
		{
			Name:  "single-quoted",
			Input: `Key1='==hu"ehue  ;==';`,
			Pairs: []Pair{{Key: "Key1", Value: `==hu"ehue  ;==`}},
		},
		{
			Name:  "whitespace-around-quotes",
			Input: `Key1 =   "  padded  "   ; Key2=x`,
			Pairs: []Pair{
				{Key: "Key1", Value: "  padded  "},
				{Key: "Key2", Value: "x"},
			},
		},
		{
			Name:  "only-ascii-whitespace-trimmed",
			Input: "k=\u00a0\"v\";other= \u00a0x\u00a0 ",
			Pairs: []Pair{
				{Key: "k", Value: "\u00a0\"v\""},
				{Key: "other", Value: "\u00a0x\u00a0"},
			},
		},
		{
			Name:  "escaped-double-quotes",
			Input: `huehue="troll's friend name is ""johnny""";`,
			Pairs: []Pair{{Key: "huehue", Value: `troll's friend name is "johnny"`}},
		},
		{
			Name:  "escaped-single-quotes",
			Input: `a='it''s'`,
			Pairs: []Pair{{Key: "a", Value: "it's"}},
		},
		{
			Name:  "empty-quoted",
			Input: `a="";b=''`,
			Pairs: []Pair{
				{Key: "a", Value: ""},
				{Key: "b", Value: ""},
			},
		},
		{
			Name:  "only-escaped-quote",
			Input: `a="""";`,
			Pairs: []Pair{{Key: "a", Value: `"`}},
		},
		{
			Name:  "quote-inside-unquoted-value",
			Input: `a=it's;b=2`,
			Pairs: []Pair{
				{Key: "a", Value: "it's"},
				{Key: "b", Value: "2"},
			},
		},
		{
			Name:  "quotes-in-key-are-literal",
			Input: `"a"=1`,
			Pairs: []Pair{{Key: `"a"`, Value: "1"}},
		},
		{
			Name:   "missing-separator",
			Input:  "stray;a=1;trailing",
			Pairs:  []Pair{{Key: "a", Value: "1"}},
			Issues: []error{ErrMissingSeparator, ErrMissingSeparator},
		},
		{
			Name:   "empty-key",
			Input:  "=1; =2;a=3",
			Pairs:  []Pair{{Key: "a", Value: "3"}},
			Issues: []error{ErrEmptyKey, ErrEmptyKey},
		},
		{
			Name:   "unterminated-quote",
			Input:  `a=1;b="two;c=3`,
			Pairs:  []Pair{{Key: "a", Value: "1"}, {Key: "b", Value: "two;c=3"}},
			Issues: []error{ErrUnterminatedQuote},
		},
		{
			Name:   "unterminated-quote-with-escapes",
			Input:  `b='it''s`,
			Pairs:  []Pair{{Key: "b", Value: "it's"}},
			Issues: []error{ErrUnterminatedQuote},
		},
		{
			Name:   "trailing-characters",
			Input:  `a="x" y ;b=2`,
			Pairs:  []Pair{{Key: "a", Value: "x"}, {Key: "b", Value: "2"}},
			Issues: []error{ErrTrailingCharacters},
		},
		{
			Name:   "trailing-characters-at-end",
			Input:  `a='x'y`,
			Pairs:  []Pair{{Key: "a", Value: "x"}},
			Issues: []error{ErrTrailingCharacters},
		},
		{
			Name:  "multibyte",
			Input: "Пароль = секрет ;ключ='значение'",
			Pairs: []Pair{
				{Key: "Пароль", Value: "секрет"},
				{Key: "ключ", Value: "значение"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			pairs, issues := ParseWithIssues(tc.Input)
			assert.Equal(t, tc.Pairs, pairs)

			actualIssues := make([]error, len(issues))
			for i, issue := range issues {
				actualIssues[i] = issue.Err
			}
			if len(tc.Issues) == 0 {
				assert.Empty(t, actualIssues)
			} else {
				assert.Equal(t, tc.Issues, actualIssues)
			}

			assert.Equal(t, pairs, Parse(tc.Input))
		})
	}
}

func TestIssueOffset(t *testing.T) {
	_, issues := ParseWithIssues(`a=1;  bogus ;c="x`)
	require.Len(t, issues, 2)

	assert.Equal(t, 6, issues[0].Offset)
	assert.ErrorIs(t, issues[0].Err, ErrMissingSeparator)

	assert.Equal(t, 13, issues[1].Offset)
	assert.True(t, errors.Is(issues[1], ErrUnterminatedQuote))
	assert.Equal(t, ErrUnterminatedQuote.Error(), issues[1].Error())
}

func TestNextPair(t *testing.T) {
	lex := newLexer([]byte("a=1;;b='2'"))

	pair, ok := lex.NextPair()
	require.True(t, ok)
	assert.Equal(t, Pair{Key: "a", Value: "1"}, *pair)

	pair, ok = lex.NextPair()
	require.True(t, ok)
	assert.Equal(t, Pair{Key: "b", Value: "2"}, *pair)

	_, ok = lex.NextPair()
	assert.False(t, ok)

	// Exhausted lexers stay exhausted
	_, ok = lex.NextPair()
	assert.False(t, ok)
}
