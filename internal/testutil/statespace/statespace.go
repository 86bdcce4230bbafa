package statespace

import (
	"math/rand/v2"
	"strings"
	"testing"
)

// Model implements a simple fuzz-style test framework for connection string parsers.
// Rather than generating random bytes, it enumerates every subset of a bounded set of known fragments
// (entries that each exercise one syntax rule), joins them into a connection string and asserts on each invariant.
// Fragment order is randomized for every subset to avoid order-dependence without fully permuting the space.
type Model[Result any] struct {
	base       []Fragment
	subject    func(text string) Result
	fragments  []Fragment
	invariants []*invariant[Result]
}

// Fragment is a piece of connection string text.
// Key and Value are what the fragment should decode to, Key is empty for fragments that decode to nothing.
type Fragment struct {
	Name  string
	Text  string
	Key   string
	Value string
}

// State holds the fragments of one test case in the order they were joined.
type State struct {
	Fragments []Fragment
}

// Text joins the fragments.
func (s State) Text() string {
	var b strings.Builder
	for _, f := range s.Fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// First returns the first fragment that decodes to key, if any.
func (s State) First(key string) (Fragment, bool) {
	for _, f := range s.Fragments {
		if f.Key == key {
			return f, true
		}
	}
	return Fragment{}, false
}

// Last returns the last fragment that decodes to key, if any.
func (s State) Last(key string) (Fragment, bool) {
	for i := len(s.Fragments) - 1; i >= 0; i-- {
		if s.Fragments[i].Key == key {
			return s.Fragments[i], true
		}
	}
	return Fragment{}, false
}

// Keys returns the distinct keys the fragments decode to, in order of first appearance.
func (s State) Keys() []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, f := range s.Fragments {
		if _, ok := seen[f.Key]; ok || f.Key == "" {
			continue
		}
		seen[f.Key] = struct{}{}
		keys = append(keys, f.Key)
	}
	return keys
}

type invariant[Result any] struct {
	Name   string
	Assert func(State, Result) bool
}

// Test creates a new model for testing the given subject.
func Test[Result any](fn func(text string) Result) *Model[Result] {
	return &Model[Result]{subject: fn}
}

// WithBase adds a fragment that is present in every test case, ahead of the enumerated ones.
func (m *Model[Result]) WithBase(f Fragment) *Model[Result] {
	m.base = append(m.base, f)
	return m
}

// WithFragment adds a fragment to the enumerated set.
func (m *Model[Result]) WithFragment(f Fragment) *Model[Result] {
	m.fragments = append(m.fragments, f)
	return m
}

// WithInvariant appends a function that will be used to assert on the behavior of the subject for every subset of fragments.
func (m *Model[Result]) WithInvariant(name string, fn func(state State, result Result) bool) *Model[Result] {
	m.invariants = append(m.invariants, &invariant[Result]{Name: name, Assert: fn})
	return m
}

// Evaluate executes the test.
func (m *Model[Result]) Evaluate(t *testing.T) {
	m.evaluate(t.Errorf)
}

func (m *Model[Result]) evaluate(fail func(msg string, args ...any)) {
	var testCases [][]bool
	for i := range 1 << len(m.fragments) {
		stack := make([]bool, len(m.fragments))
		for j := range m.fragments {
			stack[j] = (i>>j)&1 == 1
		}
		testCases = append(testCases, stack)
	}
	rand.Shuffle(len(testCases), func(i, j int) { testCases[i], testCases[j] = testCases[j], testCases[i] })

	for _, bitmap := range testCases {
		state := State{Fragments: append([]Fragment{}, m.base...)}
		for _, i := range rand.Perm(len(bitmap)) {
			if bitmap[i] {
				state.Fragments = append(state.Fragments, m.fragments[i])
			}
		}

		text := state.Text()
		result := m.subject(text)

		rand.Shuffle(len(m.invariants), func(i, j int) { m.invariants[i], m.invariants[j] = m.invariants[j], m.invariants[i] })
		for _, inv := range m.invariants {
			if inv.Assert(state, result) {
				continue
			}

			names := make([]string, len(state.Fragments))
			for i, f := range state.Fragments {
				names[i] = f.Name
			}
			fail("invariant '%s' failed for %q with fragments: [%s]", inv.Name, text, strings.Join(names, ", "))
		}
	}
}
