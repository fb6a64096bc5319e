// Package buffer implements the single-owner storage handle behind vector.Vector.
//
// A Buffer is one contiguous allocation of Cap() slots.
// The slots in [0, Len()) are live elements,
// the slots in [Len(), Cap()) are allocated storage that holds the zero value of T.
// Allocation and construction are separate steps:
// Allocate only reserves storage, Push constructs a live element in the next free slot.
//
// A nil *Buffer is a valid, empty buffer with zero capacity.
package buffer

import (
	"unsafe"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/mathkit"
)

const (
	ErrNegativeCapacity errorkit.Error = "ErrNegativeCapacity"
	ErrCapacityOverflow errorkit.Error = "ErrCapacityOverflow"
	ErrAllocation       errorkit.Error = "ErrAllocation"
)

type Buffer[T any] struct {
	slots []T
	live  int
}

// Allocate reserves capacity slots without constructing any element.
// Allocating zero slots returns a nil buffer.
//
// Allocation failures reported by the runtime as recoverable panics are returned as ErrAllocation.
// A genuine out-of-memory condition is fatal in Go and cannot be reported.
func Allocate[T any](capacity int) (_ *Buffer[T], rErr error) {
	if capacity < 0 {
		return nil, ErrNegativeCapacity.F("capacity: %d", capacity)
	}
	if capacity == 0 {
		return nil, nil
	}
	if err := checkByteSize[T](capacity); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			rErr = ErrAllocation.F("%d slots: %v", capacity, r)
		}
	}()
	return &Buffer[T]{slots: make([]T, capacity)}, nil
}

func checkByteSize[T any](capacity int) error {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil
	}
	if mathkit.CanIntMulOverflow(capacity, size) {
		return ErrCapacityOverflow.F("%d slots of %d bytes", capacity, size)
	}
	return nil
}

// Build allocates capacity slots and hands the new buffer to construct.
// When construct returns an error or panics,
// every element it already constructed is destroyed and the storage is released
// before the failure propagates to the caller.
func Build[T any](capacity int, construct func(b *Buffer[T]) error) (_ *Buffer[T], rErr error) {
	b, err := Allocate[T](capacity)
	if err != nil {
		return nil, err
	}
	var ok bool
	defer func() {
		if !ok {
			b.Release()
		}
	}()
	if construct != nil {
		if err := construct(b); err != nil {
			return nil, err
		}
	}
	ok = true
	return b, nil
}

func (b *Buffer[T]) Len() int {
	if b == nil {
		return 0
	}
	return b.live
}

func (b *Buffer[T]) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.slots)
}

// Live returns the live elements.
// The returned slice aliases the buffer and cannot be appended into its spare capacity.
func (b *Buffer[T]) Live() []T {
	if b == nil {
		return nil
	}
	return b.slots[:b.live:b.live]
}

// Slots returns every allocated slot, live or not.
func (b *Buffer[T]) Slots() []T {
	if b == nil {
		return nil
	}
	return b.slots
}

// Push constructs v in the first free slot.
func (b *Buffer[T]) Push(v T) {
	if b.Len() == b.Cap() {
		panic("buffer: construct past capacity")
	}
	b.slots[b.live] = v
	b.live++
}

// Truncate destroys the live elements from index n onwards.
func (b *Buffer[T]) Truncate(n int) {
	if n < 0 || b.Len() < n {
		panic("buffer: truncate out of range")
	}
	if b == nil {
		return
	}
	clear(b.slots[n:b.live])
	b.live = n
}

// OpenGap shifts the live elements in [at, Len()) right by n slots
// and returns the n-slot window at index "at" for the caller to fill.
// The window still holds the shifted-out values until it is overwritten.
func (b *Buffer[T]) OpenGap(at, n int) []T {
	if at < 0 || b.Len() < at || n < 0 || b.Cap()-b.Len() < n {
		panic("buffer: gap out of range")
	}
	if n == 0 {
		return nil
	}
	copy(b.slots[at+n:b.live+n], b.slots[at:b.live])
	b.live += n
	return b.slots[at : at+n]
}

// CloseGap destroys the n live elements starting at index "at"
// and shifts the remaining tail left to keep the live range contiguous.
func (b *Buffer[T]) CloseGap(at, n int) {
	if at < 0 || n < 0 || b.Len() < at+n {
		panic("buffer: gap out of range")
	}
	if n == 0 {
		return
	}
	copy(b.slots[at:], b.slots[at+n:b.live])
	clear(b.slots[b.live-n : b.live])
	b.live -= n
}

// Relocate moves the live elements into a new allocation of the given capacity
// and releases the current one.
// On failure the current buffer is returned untouched along with the error.
func (b *Buffer[T]) Relocate(capacity int) (*Buffer[T], error) {
	if capacity < b.Len() {
		panic("buffer: relocate below live length")
	}
	nb, err := Allocate[T](capacity)
	if err != nil {
		return b, err
	}
	if nb != nil {
		nb.live = copy(nb.slots, b.Live())
	}
	b.Release()
	return nb, nil
}

// Release destroys every live element and gives up the storage.
// Releasing a nil or already released buffer is a no-op.
func (b *Buffer[T]) Release() {
	if b == nil {
		return
	}
	clear(b.slots[:b.live])
	b.slots = nil
	b.live = 0
}
