package vector

import (
	"cmp"
	"iter"
	"sort"

	"go.llib.dev/tinystl/internal/buffer"
)

// Iterator is a random-access cursor over the buffer of a Vector.
//
// An Iterator doesn't own anything: it refers to one specific allocation and a slot position in it.
// Any reallocation of the source Vector (growth, Reserve, ShrinkToFit, assignment, Reset)
// invalidates every outstanding iterator.
// Dereferencing an invalidated iterator panics once its allocation is released,
// but using one is a precondition violation, and it is not detected in any other way.
//
// Equality and ordering are meaningful only between iterators of the same allocation.
type Iterator[T any] struct {
	buf *buffer.Buffer[T]
	pos int
}

// Deref returns a pointer to the element under the cursor.
// Dereferencing End, or any position outside of the live elements, is a precondition violation.
func (it Iterator[T]) Deref() *T {
	return &it.buf.Slots()[it.pos]
}

func (it Iterator[T]) Value() T { return *it.Deref() }

// At is the indexed access relative to the cursor, it[n] is *(it + n).
func (it Iterator[T]) At(n int) *T { return it.Add(n).Deref() }

// Incr moves the cursor to the next element and returns the moved iterator.
func (it *Iterator[T]) Incr() Iterator[T] {
	it.pos++
	return *it
}

// PostIncr moves the cursor to the next element and returns the iterator as it was before the move.
func (it *Iterator[T]) PostIncr() Iterator[T] {
	prev := *it
	it.pos++
	return prev
}

func (it *Iterator[T]) Decr() Iterator[T] {
	it.pos--
	return *it
}

func (it *Iterator[T]) PostDecr() Iterator[T] {
	prev := *it
	it.pos--
	return prev
}

// Advance moves the cursor forward by n elements in place, it += n.
func (it *Iterator[T]) Advance(n int) Iterator[T] {
	it.pos += n
	return *it
}

// Retreat moves the cursor backward by n elements in place, it -= n.
func (it *Iterator[T]) Retreat(n int) Iterator[T] {
	it.pos -= n
	return *it
}

// Add returns a new iterator n elements after it.
func (it Iterator[T]) Add(n int) Iterator[T] {
	it.Advance(n)
	return it
}

// Sub returns a new iterator n elements before it.
func (it Iterator[T]) Sub(n int) Iterator[T] {
	it.Retreat(n)
	return it
}

// AddTo is the commutative form of Iterator.Add, n + it.
func AddTo[T any](n int, it Iterator[T]) Iterator[T] { return it.Add(n) }

// Diff is the element distance a - b.
// Advancing b by the result reaches a.
func (it Iterator[T]) Diff(oth Iterator[T]) int {
	return it.pos - oth.pos
}

// Equal reports whether both iterators refer to the same slot of the same allocation.
func (it Iterator[T]) Equal(oth Iterator[T]) bool {
	return it.buf == oth.buf && it.pos == oth.pos
}

// Compare orders iterators by position.
// Iterators of different allocations can be compared, but the result means nothing.
func (it Iterator[T]) Compare(oth Iterator[T]) int {
	return cmp.Compare(it.pos, oth.pos)
}

func (it Iterator[T]) Less(oth Iterator[T]) bool {
	return it.Compare(oth) < 0
}

// ReverseIterator walks a Vector from its last element to its first.
// It wraps a base Iterator and dereferences the element right before it,
// so RBegin wraps End and REnd wraps Begin.
type ReverseIterator[T any] struct {
	base Iterator[T]
}

func MakeReverse[T any](base Iterator[T]) ReverseIterator[T] {
	return ReverseIterator[T]{base: base}
}

func (r ReverseIterator[T]) Base() Iterator[T] { return r.base }

func (r ReverseIterator[T]) Deref() *T { return r.base.Sub(1).Deref() }

func (r ReverseIterator[T]) Value() T { return *r.Deref() }

func (r ReverseIterator[T]) At(n int) *T { return r.base.Sub(n + 1).Deref() }

func (r *ReverseIterator[T]) Incr() ReverseIterator[T] {
	r.base.Decr()
	return *r
}

func (r *ReverseIterator[T]) PostIncr() ReverseIterator[T] {
	prev := *r
	r.base.Decr()
	return prev
}

func (r *ReverseIterator[T]) Decr() ReverseIterator[T] {
	r.base.Incr()
	return *r
}

func (r ReverseIterator[T]) Add(n int) ReverseIterator[T] {
	return ReverseIterator[T]{base: r.base.Sub(n)}
}

func (r ReverseIterator[T]) Diff(oth ReverseIterator[T]) int {
	return oth.base.Diff(r.base)
}

func (r ReverseIterator[T]) Equal(oth ReverseIterator[T]) bool {
	return r.base.Equal(oth.base)
}

func (r ReverseIterator[T]) Less(oth ReverseIterator[T]) bool {
	return oth.base.Less(r.base)
}

// Range is anything that exposes its elements as an iterator pair.
type Range[T any] interface {
	Begin() Iterator[T]
	End() Iterator[T]
}

// Distance is the number of elements in [first, last).
func Distance[T any](first, last Iterator[T]) int {
	return last.Diff(first)
}

// Values iterates over the elements in [first, last).
func Values[T any](first, last Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := first; it.Less(last); it.Incr() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// SortFunc sorts the elements in [first, last) in place, ordered by cmp.
// It relies only on random access through the iterators.
func SortFunc[T any](first, last Iterator[T], cmp func(a, b T) int) {
	sort.Sort(iterSorter[T]{first: first, n: Distance(first, last), cmp: cmp})
}

type iterSorter[T any] struct {
	first Iterator[T]
	n     int
	cmp   func(a, b T) int
}

func (s iterSorter[T]) Len() int { return s.n }

func (s iterSorter[T]) Less(i, j int) bool {
	return s.cmp(*s.first.At(i), *s.first.At(j)) < 0
}

func (s iterSorter[T]) Swap(i, j int) {
	a, b := s.first.At(i), s.first.At(j)
	*a, *b = *b, *a
}
