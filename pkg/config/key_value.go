package config

import (
	"strings"

	"github.com/Azure/constring/parser"
)

// ParseKeyValue parses a single key=value flag argument and returns the key and value.
// If no value is provided, the value will be empty.
func ParseKeyValue(input string) (key, val string) {
	chunks := strings.SplitN(input, "=", 2)
	key = chunks[0]
	if len(chunks) > 1 {
		val = chunks[1]
	}
	return
}

// ParseKeyValuePairs parses a comma-separated string of key=value pairs
// and returns them in the order given. Empty pairs and empty keys are ignored,
// and whitespace around pairs is trimmed.
//
// This is the flag syntax, not the connection string syntax: values cannot contain commas.
func ParseKeyValuePairs(input string) []parser.Pair {
	var result []parser.Pair
	for _, pair := range ParseList(input) {
		key, val := ParseKeyValue(pair)
		if key != "" {
			result = append(result, parser.Pair{Key: key, Value: val})
		}
	}
	return result
}

// ParseList splits a comma-separated flag value, dropping empty items.
func ParseList(input string) []string {
	var result []string
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		result = append(result, item)
	}
	return result
}
