// Package bloom provides URL sets fronted by Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact set of strings fronted by a Bloom filter. Lookups for
// strings that were never added are usually answered by the filter alone;
// the backing map guarantees there are no false positives.
// A Set is not safe for concurrent use.
type Set struct {
	filter *bloom.BloomFilter
	items  map[string]struct{}
}

// NewSet creates a Set whose filter is sized for n expected items with the
// given false positive rate. The set grows past n; only the filter's hit
// rate degrades.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: bloom.NewWithEstimates(n, fpRate),
		items:  make(map[string]struct{}),
	}
}

// Add inserts key into the set.
// Returns false if key was already present.
func (s *Set) Add(key string) bool {
	if s.Contains(key) {
		return false
	}
	s.filter.AddString(key)
	s.items[key] = struct{}{}
	return true
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key string) bool {
	if !s.filter.TestString(key) {
		return false
	}
	_, ok := s.items[key]
	return ok
}

// Len returns the number of items in the set.
func (s *Set) Len() int {
	return len(s.items)
}
