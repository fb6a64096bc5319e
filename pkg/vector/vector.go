// Package vector implements Vector, a growable contiguous sequence that owns its storage,
// and Iterator, a random-access cursor over that storage.
//
// A Vector exclusively owns a single buffer.
// Copies are explicit (Clone, Assign), ownership transfer is explicit (Move, MoveFrom),
// and a non-zero Vector must not be copied by value.
//
// Vector is not safe for concurrent use.
// Callers that share a Vector between goroutines must synchronise access themselves.
package vector

import (
	"iter"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/mathkit"
	"go.llib.dev/frameless/pkg/slicekit"
	"go.llib.dev/frameless/port/ds"
	"go.llib.dev/frameless/port/option"

	"go.llib.dev/tinystl/internal/buffer"
)

const (
	ErrNegativeSize     errorkit.Error = "ErrNegativeSize"
	ErrIndexOutOfRange  errorkit.Error = "ErrIndexOutOfRange"
	ErrCapacityOverflow errorkit.Error = buffer.ErrCapacityOverflow
	ErrCopiedByValue    errorkit.Error = "ErrCopiedByValue"
)

// Vector is a growable contiguous sequence of T.
//
// The zero value is an empty Vector ready to use, it allocates nothing until the first insertion.
// Slots between Len and Cap are allocated storage holding the zero value of T;
// they become live elements only through an insertion.
type Vector[T any] struct {
	addr   *Vector[T]
	buf    *buffer.Buffer[T]
	growth GrowthPolicy
}

var (
	_ ds.Sequence[int]         = (*Vector[int])(nil)
	_ ds.Len                   = (*Vector[int])(nil)
	_ ds.SliceConveratble[int] = (*Vector[int])(nil)
	_ Range[int]               = (*Vector[int])(nil)
)

// Cloner is implemented by element types which need more than a Go value copy
// when a Vector copies them from a source that keeps its own elements,
// such as Clone, Assign, Filled, FromRange, From and Collect.
type Cloner[T any] interface {
	Clone() T
}

func copyOf[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// New makes an empty Vector.
func New[T any](opts ...Option) *Vector[T] {
	v := &Vector[T]{growth: option.ToConfig(opts).growth()}
	v.addr = v
	return v
}

// Make makes a Vector with size zero value elements and a capacity of exactly size.
func Make[T any](size int, opts ...Option) (*Vector[T], error) {
	if size < 0 {
		return nil, ErrNegativeSize.F("size: %d", size)
	}
	var zero T
	return build(size, opts, func(b *buffer.Buffer[T]) error {
		for i := 0; i < size; i++ {
			b.Push(zero)
		}
		return nil
	})
}

// Filled makes a Vector with size copies of value.
func Filled[T any](size int, value T, opts ...Option) (*Vector[T], error) {
	if size < 0 {
		return nil, ErrNegativeSize.F("size: %d", size)
	}
	return build(size, opts, func(b *buffer.Buffer[T]) error {
		for i := 0; i < size; i++ {
			b.Push(copyOf(value))
		}
		return nil
	})
}

// FromRange makes a Vector from copies of the elements in [first, last).
//
// first and last must come from the same buffer, and first must not be after last.
// This precondition is not verified;
// a negative distance is reported as ErrNegativeSize by the allocation.
func FromRange[T any](first, last Iterator[T], opts ...Option) (*Vector[T], error) {
	n := Distance(first, last)
	if n < 0 {
		return nil, ErrNegativeSize.F("iterator range distance: %d", n)
	}
	return build(n, opts, func(b *buffer.Buffer[T]) error {
		for it := first; it.Less(last); it.Incr() {
			b.Push(copyOf(it.Value()))
		}
		return nil
	})
}

// From makes a Vector from copies of the elements of any Range.
func From[T any](r Range[T], opts ...Option) (*Vector[T], error) {
	return FromRange(r.Begin(), r.End(), opts...)
}

// Collect makes a Vector from the values of a Go iterator.
// The final size is not known upfront, so the Vector grows with its growth policy.
func Collect[T any](seq iter.Seq[T], opts ...Option) *Vector[T] {
	v := New[T](opts...)
	for e := range seq {
		v.PushBack(copyOf(e))
	}
	return v
}

// Of makes a Vector holding exactly the given values, with a capacity of len(vs).
func Of[T any](vs ...T) *Vector[T] {
	v, err := build(len(vs), nil, pushAll(vs))
	if err != nil {
		panic(err)
	}
	return v
}

// Move makes a new Vector by taking over the buffer of src.
// No element is copied, and src is left empty and ready to reuse.
func Move[T any](src *Vector[T]) *Vector[T] {
	v := &Vector[T]{}
	v.addr = v
	if src == nil {
		v.growth = Doubling
		return v
	}
	v.growth = src.policy()
	v.MoveFrom(src)
	return v
}

func build[T any](size int, opts []Option, construct func(*buffer.Buffer[T]) error) (*Vector[T], error) {
	b, err := buffer.Build(size, construct)
	if err != nil {
		return nil, err
	}
	v := New[T](opts...)
	v.buf = b
	return v, nil
}

func pushAll[T any](vs []T) func(*buffer.Buffer[T]) error {
	return func(b *buffer.Buffer[T]) error {
		for _, e := range vs {
			b.Push(e)
		}
		return nil
	}
}

func cloneBuffer[T any](src *buffer.Buffer[T]) *buffer.Buffer[T] {
	b, err := buffer.Build(src.Cap(), func(b *buffer.Buffer[T]) error {
		for _, e := range src.Live() {
			b.Push(copyOf(e))
		}
		return nil
	})
	if err != nil { // the same capacity was already allocated once
		panic(err)
	}
	return b
}

func (v *Vector[T]) copyCheck() {
	if v.addr == nil {
		v.addr = v
	} else if v.addr != v {
		panic(ErrCopiedByValue.F("illegal use of non-zero vector.Vector[%T] copied by value", *new(T)))
	}
}

func (v *Vector[T]) policy() GrowthPolicy {
	if v.growth == nil {
		return Doubling
	}
	return v.growth
}

// Clone makes an independent copy of the Vector.
// The copy has the same capacity, and its elements are copies of the live elements.
func (v *Vector[T]) Clone() *Vector[T] {
	if v == nil {
		return New[T]()
	}
	c := &Vector[T]{growth: v.growth, buf: cloneBuffer(v.buf)}
	c.addr = c
	return c
}

// Assign replaces the contents with copies of the elements of src.
// The new buffer is built first, so a panicking Cloner leaves the Vector unchanged.
// Assigning a Vector to itself is a no-op.
func (v *Vector[T]) Assign(src *Vector[T]) {
	if v == src {
		return
	}
	v.copyCheck()
	var b *buffer.Buffer[T]
	if src != nil {
		b = cloneBuffer(src.buf)
	}
	v.replace(b)
}

// MoveFrom takes over the buffer of src after releasing the current one.
// src is left empty and ready to reuse.
// Moving a Vector into itself is a no-op.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.copyCheck()
	if src == nil {
		v.replace(nil)
		return
	}
	src.copyCheck()
	b := src.buf
	src.buf = nil
	v.replace(b)
}

// AssignValues replaces the contents with exactly the given values,
// with a capacity of len(vs).
func (v *Vector[T]) AssignValues(vs ...T) {
	v.copyCheck()
	b, err := buffer.Build(len(vs), pushAll(vs))
	if err != nil {
		panic(err)
	}
	v.replace(b)
}

func (v *Vector[T]) replace(b *buffer.Buffer[T]) {
	old := v.buf
	v.buf = b
	old.Release()
}

// Swap exchanges the contents of two Vectors without copying elements.
// A nil oth acts as an empty Vector, so v is left empty.
func (v *Vector[T]) Swap(oth *Vector[T]) {
	if v == oth {
		return
	}
	v.copyCheck()
	if oth == nil {
		v.replace(nil)
		v.growth = nil
		return
	}
	oth.copyCheck()
	v.buf, oth.buf = oth.buf, v.buf
	v.growth, oth.growth = oth.growth, v.growth
}

// Reset releases the buffer and returns the Vector to its empty state.
func (v *Vector[T]) Reset() {
	v.copyCheck()
	v.replace(nil)
}

func (v *Vector[T]) Len() int {
	if v == nil {
		return 0
	}
	return v.buf.Len()
}

func (v *Vector[T]) Cap() int {
	if v == nil {
		return 0
	}
	return v.buf.Cap()
}

func (v *Vector[T]) Empty() bool { return v.Len() == 0 }

// Begin returns an iterator to the first element, or End when the Vector is empty.
func (v *Vector[T]) Begin() Iterator[T] {
	if v == nil {
		return Iterator[T]{}
	}
	return Iterator[T]{buf: v.buf}
}

// End returns the one-past-the-last iterator.
func (v *Vector[T]) End() Iterator[T] {
	if v == nil {
		return Iterator[T]{}
	}
	return Iterator[T]{buf: v.buf, pos: v.buf.Len()}
}

func (v *Vector[T]) RBegin() ReverseIterator[T] { return MakeReverse(v.End()) }

func (v *Vector[T]) REnd() ReverseIterator[T] { return MakeReverse(v.Begin()) }

// At is the bounds checked element access.
func (v *Vector[T]) At(index int) (T, error) {
	if index < 0 || v.Len() <= index {
		var zero T
		return zero, ErrIndexOutOfRange.F("index %d with length %d", index, v.Len())
	}
	return v.buf.Live()[index], nil
}

// Index returns a pointer to the element at index without checking the logical bounds.
// An out of range index panics through the runtime's slice bounds check.
func (v *Vector[T]) Index(index int) *T {
	return &v.buf.Live()[index]
}

// Data returns the live elements as a slice that shares the Vector's storage.
// The slice is stale after any reallocation.
func (v *Vector[T]) Data() []T {
	if v == nil {
		return nil
	}
	return v.buf.Live()
}

func (v *Vector[T]) Lookup(index int) (T, bool) {
	e, err := v.At(index)
	return e, err == nil
}

func (v *Vector[T]) Set(index int, e T) bool {
	if index < 0 || v.Len() <= index {
		return false
	}
	v.copyCheck()
	v.buf.Live()[index] = e
	return true
}

func (v *Vector[T]) Front() (T, bool) { return v.Lookup(0) }

func (v *Vector[T]) Back() (T, bool) { return v.Lookup(v.Len() - 1) }

// PushBack appends e to the end of the Vector, reallocating with the growth policy when it is full.
func (v *Vector[T]) PushBack(e T) {
	v.copyCheck()
	v.mustGrowBy(1)
	v.buf.Push(e)
}

// Append appends vs in order.
// vs may come from the Vector's own storage, such as v.Append(v.Data()...).
func (v *Vector[T]) Append(vs ...T) {
	v.copyCheck()
	if len(vs) == 0 {
		return
	}
	if v.Cap()-v.Len() < len(vs) { // the reallocation releases what vs may point into
		vs = slicekit.Clone(vs)
	}
	v.mustGrowBy(len(vs))
	for _, e := range vs {
		v.buf.Push(e)
	}
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, bool) {
	e, ok := v.Back()
	if !ok {
		return e, false
	}
	v.copyCheck()
	v.buf.Truncate(v.buf.Len() - 1)
	return e, true
}

// Insert inserts vs before the element at index.
// An index equal to Len appends.
// It reports false and leaves the Vector untouched when index is out of range.
func (v *Vector[T]) Insert(index int, vs ...T) bool {
	if index < 0 || v.Len() < index {
		return false
	}
	v.copyCheck()
	if len(vs) == 0 {
		return true
	}
	vs = slicekit.Clone(vs) // vs may overlap the elements shifted by the insertion
	v.mustGrowBy(len(vs))
	copy(v.buf.OpenGap(index, len(vs)), vs)
	return true
}

// InsertAt inserts vs before pos and returns an iterator to the first inserted element.
// pos must be an iterator of this Vector between Begin and End.
// The returned iterator points into the current buffer even if the insertion reallocated.
func (v *Vector[T]) InsertAt(pos Iterator[T], vs ...T) Iterator[T] {
	if !v.Insert(pos.pos, vs...) {
		panic(ErrIndexOutOfRange.F("insert position %d with length %d", pos.pos, v.Len()))
	}
	return Iterator[T]{buf: v.buf, pos: pos.pos}
}

// Delete removes the element at index.
func (v *Vector[T]) Delete(index int) bool {
	if index < 0 || v.Len() <= index {
		return false
	}
	v.copyCheck()
	v.buf.CloseGap(index, 1)
	return true
}

// Erase removes the elements in [first, last) and returns an iterator to the element that followed them.
// first and last must be iterators of this Vector with first not after last.
func (v *Vector[T]) Erase(first, last Iterator[T]) Iterator[T] {
	v.copyCheck()
	v.buf.CloseGap(first.pos, Distance(first, last))
	return Iterator[T]{buf: v.buf, pos: first.pos}
}

// Clear destroys every element but keeps the allocated capacity.
func (v *Vector[T]) Clear() {
	v.copyCheck()
	v.buf.Truncate(0)
}

// Reserve makes sure that the capacity is at least n.
// When it has to reallocate, it allocates exactly n slots.
func (v *Vector[T]) Reserve(n int) error {
	if n < 0 {
		return ErrNegativeSize.F("reserve: %d", n)
	}
	v.copyCheck()
	if n <= v.Cap() {
		return nil
	}
	return v.relocate(n)
}

// Resize changes the number of elements to n.
// New elements are zero values, removed elements are destroyed.
func (v *Vector[T]) Resize(n int) error {
	var zero T
	return v.resize(n, func() T { return zero })
}

// ResizeWith changes the number of elements to n, filling new slots with copies of e.
func (v *Vector[T]) ResizeWith(n int, e T) error {
	return v.resize(n, func() T { return copyOf(e) })
}

func (v *Vector[T]) resize(n int, mk func() T) error {
	if n < 0 {
		return ErrNegativeSize.F("resize: %d", n)
	}
	v.copyCheck()
	if n <= v.Len() {
		v.buf.Truncate(n)
		return nil
	}
	if err := v.grow(n); err != nil {
		return err
	}
	for v.buf.Len() < n {
		v.buf.Push(mk())
	}
	return nil
}

// ShrinkToFit reallocates the buffer to hold exactly Len elements.
func (v *Vector[T]) ShrinkToFit() error {
	v.copyCheck()
	if v.Len() == v.Cap() {
		return nil
	}
	return v.relocate(v.Len())
}

func (v *Vector[T]) mustGrowBy(n int) {
	if err := v.growBy(n); err != nil {
		panic(err)
	}
}

func (v *Vector[T]) growBy(n int) error {
	if mathkit.CanIntSumOverflow(v.Len(), n) {
		return ErrCapacityOverflow.F("%d elements on top of %d", n, v.Len())
	}
	return v.grow(v.Len() + n)
}

func (v *Vector[T]) grow(required int) error {
	capacity := v.Cap()
	if required <= capacity {
		return nil
	}
	return v.relocate(max(v.policy().NextCapacity(capacity, required), required))
}

func (v *Vector[T]) relocate(capacity int) error {
	b, err := v.buf.Relocate(capacity)
	if err != nil {
		return err
	}
	v.buf = b
	return nil
}

// Values iterates over the elements in order.
// It reads the Vector at every step, so it observes mutations made during the iteration.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(v.buf.Live()[i]) {
				return
			}
		}
	}
}

func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.buf.Live()[i]) {
				return
			}
		}
	}
}

// ToSlice returns the elements in a newly allocated slice.
func (v *Vector[T]) ToSlice() []T {
	return slicekit.Clone(v.Data())
}
