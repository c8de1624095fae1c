// Package table provides the relational primitives the reconciliation stages are built on.
// Every function is pure: inputs are never mutated and results are fresh slices.
package table

import (
	"slices"
	"sort"
	"time"
)

// Joined is one output row of a join. Right is nil when the left row found no match.
type Joined[L, R any] struct {
	Left  L
	Right *R
}

// Matched reports whether the left row found a right row
func (j Joined[L, R]) Matched() bool {
	return j.Right != nil
}

// SortStable returns a copy of rows sorted by cmp. Equal rows keep their input order.
func SortStable[T any](rows []T, cmp func(a, b T) int) []T {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, cmp)
	return out
}

// UniqueKeepLast keeps the last row of every key, in the order the kept rows appear in the input
func UniqueKeepLast[T any, K comparable](rows []T, key func(T) K) []T {
	last := make(map[K]int, len(rows))
	for i, row := range rows {
		last[key(row)] = i
	}

	out := make([]T, 0, len(last))
	for i, row := range rows {
		if last[key(row)] == i {
			out = append(out, row)
		}
	}
	return out
}

// SemiJoin keeps the left rows whose key exists on the right side
func SemiJoin[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K) []L {
	index := keySet(right, rightKey)
	out := make([]L, 0, len(left))
	for _, row := range left {
		if _, ok := index[leftKey(row)]; ok {
			out = append(out, row)
		}
	}
	return out
}

// AntiJoin keeps the left rows whose key does not exist on the right side
func AntiJoin[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K) []L {
	index := keySet(right, rightKey)
	out := make([]L, 0, len(left))
	for _, row := range left {
		if _, ok := index[leftKey(row)]; !ok {
			out = append(out, row)
		}
	}
	return out
}

// LeftJoin emits one row per matching (left, right) pair in right order, and one unmatched row
// for every left row without a match
func LeftJoin[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K) []Joined[L, R] {
	index := make(map[K][]int, len(right))
	for i, row := range right {
		k := rightKey(row)
		index[k] = append(index[k], i)
	}

	out := make([]Joined[L, R], 0, len(left))
	for _, row := range left {
		matches := index[leftKey(row)]
		if len(matches) == 0 {
			out = append(out, Joined[L, R]{Left: row})
			continue
		}
		for _, i := range matches {
			match := right[i]
			out = append(out, Joined[L, R]{Left: row, Right: &match})
		}
	}
	return out
}

// AsofOptions configures a forward ASOF join
type AsofOptions struct {
	// Tolerance is the largest allowed distance between the left and right timestamps
	Tolerance time.Duration
	// Strict excludes right rows whose timestamp equals the left timestamp
	Strict bool
}

// AsofForward matches every left row to the first right row of the same group whose timestamp is at
// or after the left timestamp, within the tolerance. Left order is preserved.
func AsofForward[L, R any, G comparable](
	left []L,
	right []R,
	leftGroup func(L) G,
	rightGroup func(R) G,
	leftTime func(L) time.Time,
	rightTime func(R) time.Time,
	opts AsofOptions,
) []Joined[L, R] {
	groups := make(map[G][]R)
	for _, row := range right {
		g := rightGroup(row)
		groups[g] = append(groups[g], row)
	}
	for g, rows := range groups {
		groups[g] = SortStable(rows, func(a, b R) int {
			return rightTime(a).Compare(rightTime(b))
		})
	}

	out := make([]Joined[L, R], 0, len(left))
	for _, row := range left {
		candidates := groups[leftGroup(row)]
		at := leftTime(row)
		i := sort.Search(len(candidates), func(i int) bool {
			t := rightTime(candidates[i])
			if opts.Strict {
				return t.After(at)
			}
			return !t.Before(at)
		})

		joined := Joined[L, R]{Left: row}
		if i < len(candidates) && rightTime(candidates[i]).Sub(at) <= opts.Tolerance {
			match := candidates[i]
			joined.Right = &match
		}
		out = append(out, joined)
	}
	return out
}

// GroupBy partitions rows by key. Keys are returned in first-seen order and every group keeps input order.
func GroupBy[T any, K comparable](rows []T, key func(T) K) ([]K, map[K][]T) {
	var keys []K
	groups := make(map[K][]T)
	for _, row := range rows {
		k := key(row)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], row)
	}
	return keys, groups
}

// Filter keeps the rows for which keep returns true
func Filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func keySet[R any, K comparable](rows []R, key func(R) K) map[K]struct{} {
	set := make(map[K]struct{}, len(rows))
	for _, row := range rows {
		set[key(row)] = struct{}{}
	}
	return set
}
