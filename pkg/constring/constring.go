package constring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"github.com/Azure/constring/parser"
)

// ErrKeyNotFound is returned by Get when no entry matches the formatted key.
var ErrKeyNotFound = errors.New("key not found")

// ConnectionString is an ordered mapping of formatted keys to values.
//
// Every key passed in is formatted with the configured KeyFormatter before it touches
// the underlying map, so two keys that format identically refer to the same entry.
// Entries keep the position they were first inserted at.
//
// The zero value is an empty ConnectionString using the TitleCase formatter.
// A ConnectionString is not safe for concurrent use, callers must serialize access.
type ConnectionString struct {
	entries *linkedhashmap.Map[string, string]
	cfg     *config
}

// New returns an empty ConnectionString.
func New(opts ...Option) *ConnectionString {
	return &ConnectionString{
		entries: linkedhashmap.New[string, string](),
		cfg:     newConfig(opts),
	}
}

// Parse builds a ConnectionString from text. It never fails: malformed entries are
// skipped or repaired as described by parser.ParseWithIssues, and reported to the
// configured logger.
//
// Duplicate keys resolve to the last value, except for priority keys which keep the first.
func Parse(text string, opts ...Option) *ConnectionString {
	c := New(opts...)
	c.build(text)
	return c
}

func (c *ConnectionString) init() {
	if c.cfg == nil {
		c.cfg = newConfig(nil)
	}
	if c.entries == nil {
		c.entries = linkedhashmap.New[string, string]()
	}
}

func (c *ConnectionString) build(text string) {
	pairs, issues := parser.ParseWithIssues(text)
	c.report(issues)

	priority := make(map[string]struct{}, len(c.cfg.priorityKeys))
	for _, key := range c.cfg.priorityKeys {
		priority[c.format(strings.TrimSpace(key))] = struct{}{}
	}

	for _, pair := range pairs {
		key := c.format(strings.TrimSpace(pair.Key))
		if _, ok := priority[key]; ok && c.has(key) {
			continue // first value is locked in
		}
		c.entries.Put(key, pair.Value)
	}
}

func (c *ConnectionString) report(issues []parser.Issue) {
	for _, issue := range issues {
		reason := issueReason(issue.Err)
		parseIssues.WithLabelValues(reason).Inc()
		c.cfg.logger.Log("tolerated malformed connection string entry",
			"offset", issue.Offset,
			"reason", reason)
	}
}

func (c *ConnectionString) format(key string) string {
	return c.cfg.formatter(key)
}

func (c *ConnectionString) has(formatted string) bool {
	_, found := c.entries.Get(formatted)
	return found
}

// Get returns the value of key. ErrKeyNotFound is returned if there is no such entry.
func (c *ConnectionString) Get(key string) (string, error) {
	c.init()
	formatted := c.format(key)
	val, found := c.entries.Get(formatted)
	if !found {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, formatted)
	}
	return val, nil
}

// Lookup is like Get but reports a missing key with a boolean.
func (c *ConnectionString) Lookup(key string) (string, bool) {
	c.init()
	return c.entries.Get(c.format(key))
}

// Set adds or overwrites an entry. Priority keys only apply while parsing,
// so Set can always change their value.
func (c *ConnectionString) Set(key, value string) {
	c.init()
	c.entries.Put(c.format(key), value)
}

// Contains reports whether an entry exists for key. Like Get, it formats key first.
func (c *ConnectionString) Contains(key string) bool {
	c.init()
	return c.has(c.format(key))
}

// HasKey reports whether an entry is stored under exactly formatted, without applying the formatter.
func (c *ConnectionString) HasKey(formatted string) bool {
	c.init()
	return c.has(formatted)
}

// Delete removes the entry for key and reports whether there was one.
// Deleting a missing key is a no-op.
func (c *ConnectionString) Delete(key string) bool {
	c.init()
	formatted := c.format(key)
	if !c.has(formatted) {
		return false
	}
	c.entries.Remove(formatted)
	return true
}

// Len returns the number of entries.
func (c *ConnectionString) Len() int {
	c.init()
	return c.entries.Size()
}

// Keys returns the formatted keys in insertion order.
func (c *ConnectionString) Keys() []string {
	c.init()
	return c.entries.Keys()
}

// Each calls fn for every entry in insertion order.
func (c *ConnectionString) Each(fn func(key, value string)) {
	c.init()
	it := c.entries.Iterator()
	for it.Next() {
		fn(it.Key(), it.Value())
	}
}

// Map returns the entries as a plain map.
func (c *ConnectionString) Map() map[string]string {
	m := make(map[string]string, c.Len())
	c.Each(func(key, value string) {
		m[key] = value
	})
	return m
}

// Clear removes every entry.
func (c *ConnectionString) Clear() {
	c.init()
	c.entries.Clear()
}

// Clone returns an independent copy sharing the same options.
func (c *ConnectionString) Clone() *ConnectionString {
	c.init()
	clone := &ConnectionString{
		entries: linkedhashmap.New[string, string](),
		cfg:     c.cfg,
	}
	c.Each(func(key, value string) {
		clone.entries.Put(key, value)
	})
	return clone
}

// Merge sets every entry of other, in order. Keys are formatted with c's formatter.
func (c *ConnectionString) Merge(other *ConnectionString) {
	other.Each(func(key, value string) {
		c.Set(key, value)
	})
}

// Equal reports whether both contain the same keys and values, regardless of order.
func (c *ConnectionString) Equal(other *ConnectionString) bool {
	if c.Len() != other.Len() {
		return false
	}
	equal := true
	c.Each(func(key, value string) {
		if v, found := other.entries.Get(key); !found || v != value {
			equal = false
		}
	})
	return equal
}
