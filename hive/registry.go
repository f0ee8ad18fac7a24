package hive

import (
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/fwelsch-hortonworks/hive/internal/cursor"
)

// registry is the Merger's ordered set of cursors awaiting their turn,
// keyed by each cursor's current head key. It supports insert, extract-min,
// and peek-min -- exactly what the merge loop needs and nothing more.
//
// Adapted from pebble's mergingIterHeap (merging_iter.go): a plain binary
// min-heap over (key, cursor) pairs. up/down/swap below are the same
// shape as the stdlib container/heap algorithm pebble's heap itself copies
// a comment to that effect.
type registry struct {
	items []registryItem
}

type registryItem struct {
	key base.ReaderKey
	cur cursor.Cursor
}

func (r *registry) len() int { return len(r.items) }

func (r *registry) less(i, j int) bool {
	return r.items[i].key.Compare(r.items[j].key) < 0
}

func (r *registry) swap(i, j int) {
	r.items[i], r.items[j] = r.items[j], r.items[i]
}

// insert adds (key, c) to the registry.
func (r *registry) insert(key base.ReaderKey, c cursor.Cursor) {
	r.items = append(r.items, registryItem{key: key, cur: c})
	r.up(len(r.items) - 1)
}

// peekMin reports the least key currently registered, without removing it.
func (r *registry) peekMin() (base.ReaderKey, bool) {
	if len(r.items) == 0 {
		return base.ReaderKey{}, false
	}
	return r.items[0].key, true
}

// extractMin removes and returns the cursor with the least key.
func (r *registry) extractMin() (cursor.Cursor, bool) {
	n := len(r.items)
	if n == 0 {
		return nil, false
	}
	n--
	r.swap(0, n)
	r.down(0, n)
	item := r.items[n]
	r.items = r.items[:n]
	return item.cur, true
}

func (r *registry) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !r.less(j, i) {
			break
		}
		r.swap(i, j)
		j = i
	}
}

func (r *registry) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && r.less(j2, j1) {
			j = j2
		}
		if !r.less(j, i) {
			break
		}
		r.swap(i, j)
		i = j
	}
	return i > i0
}
