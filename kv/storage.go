package kv

import (
	"iter"

	"github.com/indigo-web/tinyserve/internal/strutil"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for storing (string, string) pairs. It acts as a map but
// uses linear search instead, which proves to be more efficient on relatively low amount of
// entries, which often enough is the case for request headers.
//
// Keys are compared case-insensitively. A key is stored only once: Set on an existing key
// overrides its value.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Set stores the value by the key, replacing the previous one, if any.
func (s *Storage) Set(key, value string) *Storage {
	for i, pair := range s.pairs {
		if strutil.CmpFold(pair.Key, key) {
			s.pairs[i].Value = value
			return s
		}
	}

	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})

	return s
}

// Value returns the value corresponding to the key. Otherwise, empty string is returned
func (s *Storage) Value(key string) string {
	value, _ := s.Get(key)
	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strutil.CmpFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Pairs returns an iterator over all the stored pairs in insertion order.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}
