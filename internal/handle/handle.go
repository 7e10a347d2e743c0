// Package handle maps opaque int64 tokens to values owned by the host.
//
// A token packs a slot index with the slot's generation. Taking a token
// frees the slot and bumps its generation, so a token that was already taken,
// or one the table never issued, is rejected instead of aliasing a newer value.
package handle

import (
	"errors"
	"sync"
)

// ErrInvalidToken is returned for tokens that are unknown, stale or already taken
var ErrInvalidToken = errors.New("invalid handle token")

const (
	indexBits     = 32
	maxGeneration = 1<<31 - 1
)

type slot[T any] struct {
	value      T
	generation uint32
	used       bool
}

// Table is a concurrency-safe token table. The zero value is ready to use.
type Table[T any] struct {
	mu    sync.Mutex
	slots []slot[T]
	free  []uint32
}

// Insert stores value and returns its token. Tokens are always positive.
func (t *Table[T]) Insert(value T) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{generation: 1})
	}

	s := &t.slots[index]
	s.value = value
	s.used = true
	return encode(index, s.generation)
}

// Take removes and returns the value for token. Each token can be taken once.
func (t *Table[T]) Take(token int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	s, ok := t.lookup(token)
	if !ok {
		return zero, ErrInvalidToken
	}

	value := s.value
	s.value = zero
	s.used = false
	s.generation = s.generation%maxGeneration + 1
	t.free = append(t.free, uint32(token))
	return value, nil
}

// Get returns the value for token without removing it
func (t *Table[T]) Get(token int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.lookup(token)
	if !ok {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Len returns the number of live tokens
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots) - len(t.free)
}

func (t *Table[T]) lookup(token int64) (*slot[T], bool) {
	if token <= 0 {
		return nil, false
	}
	index := uint32(token)
	generation := uint32(token >> indexBits)
	if int(index) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[index]
	if !s.used || s.generation != generation {
		return nil, false
	}
	return s, true
}

// encode keeps the generation in the high half. Generations stay within
// [1, maxGeneration], so tokens are always positive.
func encode(index, generation uint32) int64 {
	return int64(generation)<<indexBits | int64(index)
}
