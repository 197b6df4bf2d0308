// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import "iter"

// Keyed is an insertion-ordered collection of records indexed by key.
// Putting an existing key replaces the record but keeps its original
// position. The zero value is ready to use.
type Keyed[T any] struct {
	keys  []string
	items map[string]T
}

// NewKeyed returns an empty collection sized for n records.
func NewKeyed[T any](n int) *Keyed[T] {
	return &Keyed[T]{
		keys:  make([]string, 0, n),
		items: make(map[string]T, n),
	}
}

// Put stores v under key. It reports whether an earlier record was replaced.
func (c *Keyed[T]) Put(key string, v T) bool {
	if c.items == nil {
		c.items = make(map[string]T)
	}

	_, replaced := c.items[key]
	if !replaced {
		c.keys = append(c.keys, key)
	}

	c.items[key] = v

	return replaced
}

// Get returns the record stored under key.
func (c *Keyed[T]) Get(key string) (T, bool) {
	v, ok := c.items[key]

	return v, ok
}

// Len returns the number of distinct keys.
func (c *Keyed[T]) Len() int {
	return len(c.keys)
}

// Keys returns the keys in insertion order.
func (c *Keyed[T]) Keys() []string {
	return append([]string(nil), c.keys...)
}

// All iterates the records in insertion order.
func (c *Keyed[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, k := range c.keys {
			if !yield(k, c.items[k]) {
				return
			}
		}
	}
}

// Values returns the records in insertion order.
func (c *Keyed[T]) Values() []T {
	ret := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		ret = append(ret, c.items[k])
	}

	return ret
}
