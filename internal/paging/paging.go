// Package paging provides a bounded, single-pass view over one page of a
// larger collection.
package paging

import (
	"iter"
	"math"
	"slices"
	"sync/atomic"
)

// Result couples a requested page index to the items of that page. It does
// not know the total item or page count. A Result may be consumed once; later
// calls to All yield nothing.
type Result[T any] struct {
	page int
	size int
	seq  iter.Seq[T]
	used atomic.Bool
}

// New wraps seq as page number page. At most size items are yielded from seq.
func New[T any](page, size int, seq iter.Seq[T]) *Result[T] {
	return &Result[T]{page: page, size: size, seq: seq}
}

// FromSlice returns a Result over items.
func FromSlice[T any](page, size int, items []T) *Result[T] {
	return New(page, size, slices.Values(items))
}

// Page returns the requested page index.
func (r *Result[T]) Page() int { return r.page }

// Size returns the requested page size, the upper bound on items yielded.
func (r *Result[T]) Size() int { return r.size }

// All returns the page items in order.
func (r *Result[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if !r.used.CompareAndSwap(false, true) || r.size <= 0 {
			return
		}
		n := 0
		for v := range r.seq {
			if !yield(v) {
				return
			}
			n++
			if n >= r.size {
				return
			}
		}
	}
}

// Collect drains the page into a slice.
func (r *Result[T]) Collect() []T {
	return slices.Collect(r.All())
}

// Map returns a lazy Result applying fn to each item of r. Consuming the
// returned Result consumes r.
func Map[T, U any](r *Result[T], fn func(T) U) *Result[U] {
	return New(r.page, r.size, func(yield func(U) bool) {
		for v := range r.All() {
			if !yield(fn(v)) {
				return
			}
		}
	})
}

// Offset returns the index of the first item of page. ok is false when
// page or size are out of range or the offset would overflow.
func Offset(page, size int) (offset int, ok bool) {
	if page < 0 || size <= 0 {
		return 0, false
	}
	if page > math.MaxInt/size {
		return 0, false
	}
	return page * size, true
}

// Bounds returns the half-open slice range [lo, hi) that page covers in a
// collection of n items.
func Bounds(page, size, n int) (lo, hi int, ok bool) {
	off, ok := Offset(page, size)
	if !ok {
		return 0, 0, false
	}
	if off >= n {
		return n, n, true
	}
	return off, min(off+size, n), true
}
