package constring

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyMergePatch applies an RFC 7396 JSON merge patch to the JSON object form
// of the connection string. Patch keys are formatted before merging, a null
// member removes the entry. Surviving entries keep their position and new
// entries are appended in patch order.
func (c *ConnectionString) ApplyMergePatch(patch []byte) error {
	c.init()
	normalized, order, err := c.normalizeMergePatch(patch)
	if err != nil {
		return err
	}

	doc, err := c.MarshalJSON()
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(doc, normalized)
	if err != nil {
		return fmt.Errorf("applying merge patch: %w", err)
	}
	return c.replace(merged, order)
}

// ApplyPatch applies an RFC 6902 JSON patch to the JSON object form of the
// connection string. Paths address formatted keys, e.g. "/User Id".
// Surviving entries keep their position and new entries are appended.
func (c *ConnectionString) ApplyPatch(patch jsonpatch.Patch) error {
	c.init()
	doc, err := c.MarshalJSON()
	if err != nil {
		return err
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return fmt.Errorf("applying patch: %w", err)
	}
	return c.replace(patched, nil)
}

// normalizeMergePatch formats the top-level keys of a merge patch and returns them in document order.
func (c *ConnectionString) normalizeMergePatch(patch []byte) ([]byte, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(patch))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("decoding merge patch: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("decoding merge patch: expected a JSON object")
	}

	members := linkedhashmap.New[string, json.RawMessage]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("decoding merge patch: %w", err)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("decoding merge patch: %w", err)
		}
		members.Put(c.format(tok.(string)), raw)
	}

	normalized, err := members.ToJSON()
	if err != nil {
		return nil, nil, err
	}
	return normalized, members.Keys(), nil
}

// replace swaps the entries for the members of a JSON object of strings.
// Existing keys keep their position. New keys listed in order (already formatted) come next,
// followed by any remaining members in document order.
func (c *ConnectionString) replace(doc []byte, order []string) error {
	pairs, err := decodeObject(doc)
	if err != nil {
		return err
	}
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		values[pair.Key] = pair.Value
	}

	next := linkedhashmap.New[string, string]()
	for _, key := range append(c.entries.Keys(), order...) {
		if val, ok := values[key]; ok {
			next.Put(key, val)
			delete(values, key)
		}
	}
	for _, pair := range pairs {
		if val, ok := values[pair.Key]; ok {
			next.Put(c.format(pair.Key), val)
			delete(values, pair.Key)
		}
	}

	c.entries = next
	return nil
}
