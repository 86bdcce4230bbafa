package constring

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	intcel "github.com/Azure/constring/internal/cel"
)

// KeyFormatter normalizes a key. Keys that are equal after formatting refer to the same entry.
// Formatters must be pure functions.
type KeyFormatter func(key string) string

// TitleCase is the default formatter. It trims surrounding whitespace and
// capitalizes every word while lower-casing the rest, e.g. "user ID" becomes "User Id".
// Lookups are therefore case-insensitive.
func TitleCase(key string) string {
	// Casers hold state so they can't be shared between goroutines
	return cases.Title(language.Und).String(strings.TrimSpace(key))
}

// Identity leaves keys untouched, making lookups exact.
func Identity(key string) string { return key }

// UpperCase trims and upper-cases keys.
func UpperCase(key string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(key))
}

// LowerCase trims and lower-cases keys.
func LowerCase(key string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(key))
}

// CELFormatter compiles a CEL expression into a KeyFormatter. The key is bound to
// the variable "key" and the CEL strings extension is available:
//
//	f, err := constring.CELFormatter("key.trim().lowerAscii().replace(' ', '_')")
//
// The expression must evaluate to a string. Keys for which evaluation fails at
// runtime are returned unchanged.
func CELFormatter(expr string) (KeyFormatter, error) {
	prgm, err := intcel.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling key formatter: %w", err)
	}
	return func(key string) string {
		out, err := intcel.Eval(prgm, key)
		if err != nil {
			return key
		}
		return out
	}, nil
}
