// Package ordering maintains dense, zero-based order indices within groups of
// sibling items. A group is every item sharing the same GroupKey; within a
// group the Position values must be exactly {0, ..., n-1}.
//
// All functions mutate positions in place through SetPosition and never touch
// items outside the affected group.
package ordering

import (
	"cmp"
	"slices"
	"time"
)

// Item is anything that occupies a slot in an ordered sibling group.
type Item interface {
	ItemID() string
	GroupKey() string
	Position() int
	SetPosition(int)
	Created() time.Time
}

// NextOrder returns the position to assign to an item appended to group.
func NextOrder[T Item](group []T) int {
	return len(group)
}

// Group returns the members of items whose GroupKey equals key, preserving
// slice order.
func Group[T Item](items []T, key string) []T {
	var out []T
	for _, it := range items {
		if it.GroupKey() == key {
			out = append(out, it)
		}
	}
	return out
}

// CountGroup returns the number of items in the group identified by key.
func CountGroup[T Item](items []T, key string) int {
	n := 0
	for _, it := range items {
		if it.GroupKey() == key {
			n++
		}
	}
	return n
}

// Clamp bounds target to [0, size].
func Clamp(target, size int) int {
	if target < 0 {
		return 0
	}
	if target > size {
		return size
	}
	return target
}

// RemoveAndCompact removes the item with removedID and closes the gap it
// leaves in its group. An unknown id returns items unchanged.
func RemoveAndCompact[T Item](items []T, removedID string) []T {
	idx := slices.IndexFunc(items, func(it T) bool { return it.ItemID() == removedID })
	if idx < 0 {
		return items
	}
	removed := items[idx]
	group, pos := removed.GroupKey(), removed.Position()

	out := make([]T, 0, len(items)-1)
	for i, it := range items {
		if i == idx {
			continue
		}
		if it.GroupKey() == group && it.Position() > pos {
			it.SetPosition(it.Position() - 1)
		}
		out = append(out, it)
	}
	return out
}

// InsertAtOrder opens a slot at targetOrder in the group identified by
// groupKey and places newItem there. newItem must already report groupKey
// and must not be present in items. targetOrder is clamped to the group's
// current size.
func InsertAtOrder[T Item](items []T, newItem T, groupKey string, targetOrder int) []T {
	target := Clamp(targetOrder, CountGroup(items, groupKey))
	for _, it := range items {
		if it.GroupKey() == groupKey && it.Position() >= target {
			it.SetPosition(it.Position() + 1)
		}
	}
	newItem.SetPosition(target)
	return append(items, newItem)
}

// Sort orders items by group, then position, then creation time (oldest
// first). groupRank ranks group keys; when nil, keys compare lexically.
func Sort[T Item](items []T, groupRank func(key string) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		if a.GroupKey() != b.GroupKey() {
			if groupRank != nil {
				if c := cmp.Compare(groupRank(a.GroupKey()), groupRank(b.GroupKey())); c != 0 {
					return c
				}
			}
			return cmp.Compare(a.GroupKey(), b.GroupKey())
		}
		if c := cmp.Compare(a.Position(), b.Position()); c != 0 {
			return c
		}
		return a.Created().Compare(b.Created())
	})
}

// Densify renumbers every group to {0, ..., n-1}, keeping the relative
// order given by Sort. It repairs duplicates and gaps alike.
func Densify[T Item](items []T) {
	sorted := slices.Clone(items)
	Sort(sorted, nil)
	next := make(map[string]int)
	for _, it := range sorted {
		key := it.GroupKey()
		it.SetPosition(next[key])
		next[key]++
	}
}

// IsDense reports whether every group in items holds exactly the positions
// {0, ..., n-1}.
func IsDense[T Item](items []T) bool {
	seen := make(map[string]map[int]bool)
	for _, it := range items {
		key := it.GroupKey()
		if seen[key] == nil {
			seen[key] = make(map[int]bool)
		}
		if it.Position() < 0 || seen[key][it.Position()] {
			return false
		}
		seen[key][it.Position()] = true
	}
	for _, positions := range seen {
		for i := 0; i < len(positions); i++ {
			if !positions[i] {
				return false
			}
		}
	}
	return true
}
