package constring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/Azure/constring/parser"
)

// String serializes the entries in insertion order as "Key=Value;" pairs.
//
// '=' in keys is doubled. Values containing ';', '=', a quote, or surrounding
// whitespace are wrapped in double quotes with embedded double quotes doubled,
// so parsing the output yields the same entries. Keys containing ';', keys with
// surrounding whitespace and empty keys can't be represented and won't survive
// a round trip.
func (c *ConnectionString) String() string {
	var b strings.Builder
	c.Each(func(key, value string) {
		b.WriteString(strings.ReplaceAll(key, "=", "=="))
		b.WriteByte('=')
		b.WriteString(quoteValue(value))
		b.WriteByte(';')
	})
	return b.String()
}

func quoteValue(value string) string {
	if !strings.ContainsAny(value, `;="'`) && strings.TrimSpace(value) == value {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func (c *ConnectionString) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText replaces all entries with the ones parsed from text.
func (c *ConnectionString) UnmarshalText(text []byte) error {
	c.init()
	c.entries.Clear()
	c.build(string(text))
	return nil
}

// MarshalJSON encodes the entries as a JSON object of strings, in insertion order.
func (c *ConnectionString) MarshalJSON() ([]byte, error) {
	c.init()
	return c.entries.ToJSON()
}

// UnmarshalJSON replaces all entries with the members of a JSON object of strings.
// Members are inserted in document order and their keys are formatted.
func (c *ConnectionString) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	pairs, err := decodeObject(data)
	if err != nil {
		return err
	}

	c.init()
	c.entries.Clear()
	for _, pair := range pairs {
		c.Set(pair.Key, pair.Value)
	}
	return nil
}

// decodeObject reads the members of a JSON object of strings in document order.
func decodeObject(data []byte) ([]parser.Pair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding connection string: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decoding connection string: expected a JSON object")
	}

	var pairs []parser.Pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding connection string: %w", err)
		}
		key := tok.(string) // object keys are always strings

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding value of %q: %w", key, err)
		}
		pairs = append(pairs, parser.Pair{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding connection string: %w", err)
	}
	return pairs, nil
}

// MarshalYAML encodes the entries as a YAML mapping, in insertion order.
func (c *ConnectionString) MarshalYAML() (interface{}, error) {
	ms := make(yaml.MapSlice, 0, c.Len())
	c.Each(func(key, value string) {
		ms = append(ms, yaml.MapItem{Key: key, Value: value})
	})
	return ms, nil
}

// UnmarshalYAML replaces all entries with the members of a YAML mapping.
// Scalar values are converted to strings, null becomes the empty string.
func (c *ConnectionString) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var ms yaml.MapSlice
	if err := unmarshal(&ms); err != nil {
		return err
	}

	pairs := make([]parser.Pair, 0, len(ms))
	for _, item := range ms {
		key := fmt.Sprint(item.Key)
		switch val := item.Value.(type) {
		case nil:
			pairs = append(pairs, parser.Pair{Key: key})
		case string:
			pairs = append(pairs, parser.Pair{Key: key, Value: val})
		case int, int64, uint64, float64, bool:
			pairs = append(pairs, parser.Pair{Key: key, Value: fmt.Sprint(val)})
		default:
			return fmt.Errorf("value of %q must be a scalar, got %T", key, val)
		}
	}

	c.init()
	c.entries.Clear()
	for _, pair := range pairs {
		c.Set(pair.Key, pair.Value)
	}
	return nil
}
