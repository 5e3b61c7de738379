// Package pool implements a fixed-capacity slot arena: a preallocated slice
// of T addressed by int32 handle, backed by a free-list stack. It replaces
// the teacher's sync.Pool-based node allocation
// (domain/order.go's NewLimitOrder/Destroy) with a design that never calls
// into the runtime allocator on the hot path. At hands out a pointer only
// for in-place access to a slot; handles, not pointers, are what callers
// keep across accesses.
//
// The free list reuses github.com/emirpasic/gods/v2, the teacher's one real
// third-party dependency, repurposed from its original role backing
// orderbook's ShardedPriceTree buckets (github.com/emirpasic/gods/v2/trees/redblacktree)
// to stacks/arraystack here: an arena's free list is a LIFO of reclaimed
// slots, which is exactly what arraystack is for.
package pool

import (
	"github.com/emirpasic/gods/v2/stacks/arraystack"
)

// NoHandle is returned by Allocate when the arena is exhausted.
const NoHandle int32 = -1

// Arena is a fixed-capacity, slice-backed pool of T values addressed by
// int32 handle. It is not safe for concurrent use by more than one
// goroutine unless that goroutine is the sole owner of the book the arena
// belongs to, matching the rest of the matching package's single-writer
// design.
type Arena[T any] struct {
	slots []T
	free  *arraystack.Stack[int32]
}

// NewArena preallocates capacity slots, all initially free.
func NewArena[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots: make([]T, capacity),
		free:  arraystack.New[int32](),
	}
	for i := capacity - 1; i >= 0; i-- {
		a.free.Push(int32(i))
	}
	return a
}

// Cap returns the arena's total slot count.
func (a *Arena[T]) Cap() int {
	return len(a.slots)
}

// Allocate pops a free slot and returns its handle, or NoHandle if the
// arena is exhausted. The slot's contents are whatever was left by its
// previous occupant; callers must overwrite every field they care about.
func (a *Arena[T]) Allocate() int32 {
	handle, ok := a.free.Pop()
	if !ok {
		return NoHandle
	}
	return handle
}

// Deallocate returns handle to the free list. It does not zero the slot;
// the next Allocate of that handle will overwrite it.
func (a *Arena[T]) Deallocate(handle int32) {
	a.free.Push(handle)
}

// At returns a pointer to the slot addressed by handle, for in-place
// mutation. Callers must only dereference handles they currently own
// (returned by Allocate and not yet passed to Deallocate).
func (a *Arena[T]) At(handle int32) *T {
	return &a.slots[handle]
}

// Available is the number of slots not currently allocated.
func (a *Arena[T]) Available() int {
	return a.free.Size()
}
