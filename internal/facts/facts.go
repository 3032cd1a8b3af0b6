// Package facts holds the canonical entity-key to value mapping for one
// conversation or case. Keys are dynamic: the analyzer may introduce new
// entity types at any time, so validation of required keys happens at the
// point of consumption, never at storage time.
package facts

import "github.com/lexassist/lexassist/internal/utils"

type Fact struct {
	Value      string
	Confirmed  bool
	Source     string
	Confidence *float64
}

// Set is the in-memory fact store. Confirmation is sticky: once a key is
// confirmed, no later upsert resets it.
type Set struct {
	m map[string]Fact
}

func NewSet() *Set {
	return &Set{m: make(map[string]Fact)}
}

// Upsert overwrites value/confidence for key. Confirmed starts false for
// new keys and is never moved back from true.
func (s *Set) Upsert(key, value, source string, confidence *float64) {
	f, ok := s.m[key]
	if !ok {
		s.m[key] = Fact{Value: value, Source: source, Confidence: confidence}
		return
	}
	f.Value = value
	f.Source = source
	f.Confidence = confidence
	s.m[key] = f
}

func (s *Set) Confirm(key string) error {
	f, ok := s.m[key]
	if !ok {
		return utils.ErrNotFound
	}
	f.Confirmed = true
	s.m[key] = f
	return nil
}

func (s *Set) Get(key string) (Fact, bool) {
	f, ok := s.m[key]
	return f, ok
}

// Snapshot returns a copy of the full mapping.
func (s *Set) Snapshot() map[string]Fact {
	out := make(map[string]Fact, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}

// Values flattens the set to key -> value, the shape template rendering
// consumes.
func (s *Set) Values() map[string]string {
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v.Value
	}
	return out
}

// Completeness is confirmed-count / total-count, 0 when empty.
func (s *Set) Completeness() float64 {
	if len(s.m) == 0 {
		return 0
	}
	confirmed := 0
	for _, f := range s.m {
		if f.Confirmed {
			confirmed++
		}
	}
	return float64(confirmed) / float64(len(s.m))
}

func (s *Set) Len() int { return len(s.m) }
