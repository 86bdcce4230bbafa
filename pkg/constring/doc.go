// Package constring parses and serializes connection strings: semicolon separated
// key=value entries such as "Provider=someone;User=bartolo;".
//
// # Basic Usage
//
//	cs := constring.Parse("Data Source=db.local; user id=sa; Password='p;ss'")
//	pw, err := cs.Get("password") // "p;ss"
//	cs.Set("Timeout", "30")
//	cs.String() // Data Source=db.local;User Id=sa;Password="p;ss";Timeout=30;
//
// # Syntax
//
// Entries are separated by ';', the final one doesn't need a terminator. The first
// single '=' of an entry separates the key from the value, a doubled "==" is a
// literal '=' inside the key. Keys and unquoted values are trimmed.
//
// Values may be quoted with either '"' or '\''. Quoted values keep their whitespace
// and may contain ';' and '='. The quote character itself is written twice:
//
//	Name="troll's friend name is ""johnny"""
//
// Malformed entries are never fatal. See parser.ParseWithIssues for how each case is handled.
//
// # Keys
//
// Keys are normalized by a KeyFormatter before every store and lookup. The default,
// TitleCase, makes lookups case-insensitive. Identity disables normalization and
// CELFormatter accepts a CEL expression:
//
//	cs := constring.Parse(text, constring.WithKeyFormatter(constring.Identity))
//
// When a key is repeated the last value wins, unless it was listed with WithPriorityKeys:
//
//	cs := constring.Parse("Provider=a;Provider=b", constring.WithPriorityKeys("provider"))
//	cs.Get("Provider") // "a"
package constring
