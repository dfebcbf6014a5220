// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rankmap provides Map, an ordered multimap from a numeric score to
// the set of items currently holding that score. Items move between score
// buckets in place; empty buckets are left behind and removed in bulk once
// enough removals have accumulated. Scores are indexed by a B-tree, so
// opening a new bucket costs O(log n).
package rankmap

import (
	"cmp"
	"iter"
	"slices"

	"github.com/google/btree"
)

// CompactThreshold is the number of removals (including relocations) after
// which empty buckets are discarded.
const CompactThreshold = 100

const btreeDegree = 32

// Map maps scores to sets of items and items back to their score.
//
// The zero value is not usable; call New. A Map is not safe for concurrent use.
type Map[S cmp.Ordered, V comparable] struct {
	keys     *btree.BTreeG[S] // may hold empty buckets until Compact
	buckets  map[S]*bucket[V]
	scores   map[V]S
	removals int
	emptied  []S // every empty bucket's score, possibly with repeats
}

// bucket is an insertion-ordered set. Removal swaps the last element into the
// vacated slot, so iteration order is deterministic for a given history.
type bucket[V comparable] struct {
	items []V
	pos   map[V]int
}

func newBucket[V comparable]() *bucket[V] {
	return &bucket[V]{pos: make(map[V]int)}
}

func (b *bucket[V]) add(v V) {
	if _, ok := b.pos[v]; ok {
		return
	}
	b.pos[v] = len(b.items)
	b.items = append(b.items, v)
}

func (b *bucket[V]) remove(v V) {
	i, ok := b.pos[v]
	if !ok {
		return
	}
	last := len(b.items) - 1
	if i != last {
		moved := b.items[last]
		b.items[i] = moved
		b.pos[moved] = i
	}
	var zero V
	b.items[last] = zero
	b.items = b.items[:last]
	delete(b.pos, v)
}

// New returns an empty Map.
func New[S cmp.Ordered, V comparable]() *Map[S, V] {
	return &Map[S, V]{
		keys:    btree.NewG[S](btreeDegree, cmp.Less[S]),
		buckets: make(map[S]*bucket[V]),
		scores:  make(map[V]S),
	}
}

// Put records item at score. An item that is already tracked is moved out of
// its previous bucket, so no item is ever live in two buckets. Put panics if
// score is NaN.
func (m *Map[S, V]) Put(score S, item V) {
	if score != score {
		panic("rankmap: NaN score")
	}
	if old, ok := m.scores[item]; ok {
		if old == score {
			return
		}
		m.unlink(old, item)
	}
	m.scores[item] = score
	m.bucketFor(score).add(item)
	m.maybeCompact()
}

// Remove stops tracking item and returns the score it held. ok is false if
// the item was not tracked.
func (m *Map[S, V]) Remove(item V) (score S, ok bool) {
	score, ok = m.scores[item]
	if !ok {
		return score, false
	}
	m.unlink(score, item)
	delete(m.scores, item)
	m.maybeCompact()
	return score, true
}

// Score returns the score recorded for item.
func (m *Map[S, V]) Score(item V) (S, bool) {
	s, ok := m.scores[item]
	return s, ok
}

// Contains reports whether item is tracked.
func (m *Map[S, V]) Contains(item V) bool {
	_, ok := m.scores[item]
	return ok
}

// ValuesAt returns a copy of the items holding exactly score.
func (m *Map[S, V]) ValuesAt(score S) []V {
	b, ok := m.buckets[score]
	if !ok || len(b.items) == 0 {
		return nil
	}
	return slices.Clone(b.items)
}

// Max returns the highest score held by any live item. ok is false when the
// map is empty.
func (m *Map[S, V]) Max() (score S, ok bool) {
	m.keys.Descend(func(s S) bool {
		if len(m.buckets[s].items) == 0 {
			return true
		}
		score, ok = s, true
		return false
	})
	return score, ok
}

// Len returns the number of live items.
func (m *Map[S, V]) Len() int {
	return len(m.scores)
}

// Clear removes every item and bucket.
func (m *Map[S, V]) Clear() {
	m.keys.Clear(false)
	clear(m.buckets)
	clear(m.scores)
	m.removals = 0
	m.emptied = m.emptied[:0]
}

// All yields every live item with its score, highest score first. The
// sequence is captured when iteration begins, so the map may be modified
// while ranging over it. Each call starts a fresh walk.
func (m *Map[S, V]) All() iter.Seq2[V, S] {
	return func(yield func(V, S) bool) {
		type entry struct {
			item  V
			score S
		}
		entries := make([]entry, 0, len(m.scores))
		m.keys.Descend(func(s S) bool {
			for _, v := range m.buckets[s].items {
				entries = append(entries, entry{v, s})
			}
			return true
		})
		for _, e := range entries {
			if !yield(e.item, e.score) {
				return
			}
		}
	}
}

// Descending yields live items from highest to lowest score. Items sharing a
// score come out in no particular order. The walk reads the map as it goes
// and copies nothing; the map must not be modified until it ends. Use All to
// modify the map while ranging.
func (m *Map[S, V]) Descending() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.keys.Descend(func(s S) bool {
			for _, v := range m.buckets[s].items {
				if !yield(v) {
					return false
				}
			}
			return true
		})
	}
}

// Compact discards empty buckets and resets the removal counter. Only
// buckets emptied since the last compaction are visited.
func (m *Map[S, V]) Compact() {
	for _, s := range m.emptied {
		if b, ok := m.buckets[s]; ok && len(b.items) == 0 {
			m.keys.Delete(s)
			delete(m.buckets, s)
		}
	}
	m.emptied = m.emptied[:0]
	m.removals = 0
}

func (m *Map[S, V]) unlink(score S, item V) {
	b := m.buckets[score]
	b.remove(item)
	if len(b.items) == 0 {
		m.emptied = append(m.emptied, score)
	}
	m.removals++
}

func (m *Map[S, V]) bucketFor(score S) *bucket[V] {
	if b, ok := m.buckets[score]; ok {
		return b
	}
	m.keys.ReplaceOrInsert(score)
	b := newBucket[V]()
	m.buckets[score] = b
	return b
}

func (m *Map[S, V]) maybeCompact() {
	if m.removals >= CompactThreshold {
		m.Compact()
	}
}
