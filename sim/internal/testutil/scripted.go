// Package testutil provides shared test infrastructure for the simulator
// packages: scripted random sources and series assertions.
package testutil

import (
	"testing"
)

// ScriptedSource replays a fixed sequence of draws. Each Intn call returns the
// next scripted value reduced modulo n, so scripts stay valid for any bound.
// Once the script is exhausted it keeps returning the last value.
type ScriptedSource struct {
	Values []int
	next   int
}

// Intn returns the next scripted draw in [0, n).
func (s *ScriptedSource) Intn(n int) int {
	if len(s.Values) == 0 || n <= 0 {
		return 0
	}
	idx := s.next
	if idx >= len(s.Values) {
		idx = len(s.Values) - 1
	} else {
		s.next++
	}
	v := s.Values[idx] % n
	if v < 0 {
		v += n
	}
	return v
}

// Calls returns how many scripted values have been consumed.
func (s *ScriptedSource) Calls() int {
	return s.next
}

// AssertPrefix fails the test when got does not start with want.
func AssertPrefix(t *testing.T, name string, want, got []int) {
	t.Helper()
	if len(got) < len(want) {
		t.Fatalf("%s: got %d samples %v, want at least %d starting with %v", name, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: got %d, want %d (series %v)", name, i, got[i], want[i], got[:len(want)])
		}
	}
}
