// Package seqcontract holds the behavioural contract of an ordered, index addressable sequence.
// Any ds.Sequence implementation can run it from its own tests.
package seqcontract

import (
	"fmt"
	"testing"

	"go.llib.dev/frameless/pkg/iterkit"
	"go.llib.dev/frameless/pkg/reflectkit"
	"go.llib.dev/frameless/pkg/slicekit"
	"go.llib.dev/frameless/pkg/zerokit"
	"go.llib.dev/frameless/port/contract"
	"go.llib.dev/frameless/port/ds"
	"go.llib.dev/frameless/port/option"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/let"
	"go.llib.dev/testcase/random"
)

type Config[T any] struct {
	MakeElem func(tb testing.TB) T
}

func (c Config[T]) Configure(t *Config[T]) {
	t.MakeElem = zerokit.Coalesce(c.MakeElem, t.MakeElem)
}

func (c Config[T]) makeElem(tb testing.TB) T {
	if c.MakeElem != nil {
		return c.MakeElem(tb)
	}
	t := testcase.ToT(&tb)
	return t.Random.Make(reflectkit.TypeOf[T]()).(T)
}

type Option[T any] option.Option[Config[T]]

// Sequence checks that the subject keeps the insertion order,
// and that index based access, mutation, insertion and deletion agree with each other.
// The Make function must return an empty sequence.
func Sequence[T any](mk contract.Make[ds.Sequence[T]], opts ...Option[T]) contract.Contract {
	s := testcase.NewSpec(nil)
	c := option.ToConfig(opts)

	seq := let.Var(s, func(t *testcase.T) ds.Sequence[T] {
		return mk(t)
	})

	makeValues := func(t *testcase.T) []T {
		return random.Slice(t.Random.IntBetween(3, 7), func() T { return c.makeElem(t) })
	}

	seqLen := func(t *testcase.T) int {
		return iterkit.Count(seq.Get(t).Values())
	}

	s.Test("smoke", func(t *testcase.T) {
		expected := makeValues(t)

		seq.Get(t).Append()
		assert.Equal(t, 0, seqLen(t))

		for i, v := range expected {
			assert.Equal(t, i, seqLen(t))
			seq.Get(t).Append(v)
		}
		assert.Equal(t, expected, iterkit.Collect(seq.Get(t).Values()))
	})

	s.Test("ordered append of many values at once", func(t *testcase.T) {
		expected := makeValues(t)
		seq.Get(t).Append(expected...)
		assert.Equal(t, len(expected), seqLen(t))
		assert.Equal(t, expected, iterkit.Collect(seq.Get(t).Values()))

		if sc, ok := seq.Get(t).(ds.SliceConveratble[T]); ok {
			assert.Equal(t, expected, sc.ToSlice())
		}
	})

	s.Test("Len reflects the number of appended values", func(t *testcase.T) {
		l, ok := seq.Get(t).(ds.Len)
		if !ok {
			t.Skip("the sequence has no Len method")
		}
		assert.Equal(t, 0, l.Len())
		t.Random.Repeat(3, 7, func() {
			exp := l.Len() + 1
			seq.Get(t).Append(c.makeElem(t))
			assert.Equal(t, exp, l.Len())
		})
	})

	s.Describe("#Values", func(s *testcase.Spec) {
		s.Test("iteration can be stopped early", func(t *testcase.T) {
			values := makeValues(t)
			seq.Get(t).Append(values...)

			var got []T
			for v := range seq.Get(t).Values() {
				got = append(got, v)
				if len(got) == 2 {
					break
				}
			}
			assert.Equal(t, values[:2], got)
		})
	})

	s.Describe("#Lookup", func(s *testcase.Spec) {
		var (
			index = let.Var[int](s, nil)
		)
		act := let.Act2(func(t *testcase.T) (T, bool) {
			return seq.Get(t).Lookup(index.Get(t))
		})

		s.When("sequence is empty", func(s *testcase.Spec) {
			index.Let(s, func(t *testcase.T) int {
				return t.Random.IntBetween(0, 42)
			})

			s.Then("the value is reported as missing", func(t *testcase.T) {
				_, ok := act(t)
				assert.False(t, ok)
			})
		})

		s.When("sequence contains values", func(s *testcase.Spec) {
			values := let.Var(s, makeValues)

			seq.Let(s, func(t *testcase.T) ds.Sequence[T] {
				seq := seq.Super(t)
				seq.Append(values.Get(t)...)
				return seq
			})

			s.And("index points to an existing value", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return t.Random.IntN(len(values.Get(t)))
				})

				s.Then("the value is returned", func(t *testcase.T) {
					got, ok := act(t)
					assert.True(t, ok)
					assert.Equal(t, values.Get(t)[index.Get(t)], got)
				})
			})

			s.And("index is out of bound", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return len(values.Get(t)) + t.Random.IntBetween(0, 42)
				})

				s.Then("the value is reported as missing", func(t *testcase.T) {
					_, ok := act(t)
					assert.False(t, ok)
				})
			})

			s.And("index is negative", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return -1 * t.Random.IntBetween(len(values.Get(t))+1, 42)
				})

				s.Then("the value is reported as missing", func(t *testcase.T) {
					_, ok := act(t)
					assert.False(t, ok)
				})
			})
		})
	})

	s.Describe("#Set", func(s *testcase.Spec) {
		var (
			index = let.Var[int](s, nil)
			value = let.Var(s, func(t *testcase.T) T {
				return c.makeElem(t)
			})
		)
		act := let.Act(func(t *testcase.T) bool {
			return seq.Get(t).Set(index.Get(t), value.Get(t))
		})

		s.When("sequence is empty", func(s *testcase.Spec) {
			index.Let(s, func(t *testcase.T) int {
				return t.Random.IntBetween(0, 42)
			})

			s.Then("it reports failure", func(t *testcase.T) {
				assert.False(t, act(t))
			})
		})

		s.When("sequence contains values", func(s *testcase.Spec) {
			values := let.Var(s, makeValues)

			seq.Let(s, func(t *testcase.T) ds.Sequence[T] {
				seq := seq.Super(t)
				seq.Append(values.Get(t)...)
				return seq
			})

			s.And("index points to an existing value", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return t.Random.IntN(len(values.Get(t)))
				})

				s.Then("only the value at the index is replaced", func(t *testcase.T) {
					assert.True(t, act(t))

					exp := slicekit.Clone(values.Get(t))
					exp[index.Get(t)] = value.Get(t)
					assert.Equal(t, exp, iterkit.Collect(seq.Get(t).Values()))
				})
			})

			s.And("index is out of bound", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return len(values.Get(t)) + t.Random.IntBetween(0, 42)
				})

				s.Then("it reports failure and the sequence is unchanged", func(t *testcase.T) {
					assert.False(t, act(t))
					assert.Equal(t, values.Get(t), iterkit.Collect(seq.Get(t).Values()))
				})
			})
		})
	})

	s.Describe("#Insert", func(s *testcase.Spec) {
		var (
			index     = let.Var[int](s, nil)
			newValues = let.Var(s, makeValues)
		)
		act := let.Act(func(t *testcase.T) bool {
			return seq.Get(t).Insert(index.Get(t), newValues.Get(t)...)
		})

		s.When("sequence is empty", func(s *testcase.Spec) {
			s.And("index is zero", func(s *testcase.Spec) {
				index.LetValue(s, 0)

				s.Then("the values are inserted", func(t *testcase.T) {
					assert.True(t, act(t))
					assert.Equal(t, newValues.Get(t), iterkit.Collect(seq.Get(t).Values()))
				})
			})

			s.And("index is out of bound", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return t.Random.IntBetween(1, 42)
				})

				s.Then("it reports failure", func(t *testcase.T) {
					assert.False(t, act(t))
					assert.Equal(t, 0, seqLen(t))
				})
			})
		})

		s.When("sequence contains values", func(s *testcase.Spec) {
			// A B C <- insert X Y at 1
			// -> A X Y B C
			values := let.Var(s, makeValues)

			seq.Let(s, func(t *testcase.T) ds.Sequence[T] {
				seq := seq.Super(t)
				seq.Append(values.Get(t)...)
				return seq
			})

			s.And("index points to an existing value", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return t.Random.IntN(len(values.Get(t)))
				})

				s.Then("new values are placed before the value previously at the index", func(t *testcase.T) {
					assert.True(t, act(t))

					exp := slicekit.Clone(values.Get(t))
					assert.True(t, slicekit.Insert(&exp, index.Get(t), newValues.Get(t)...))
					assert.Equal(t, exp, iterkit.Collect(seq.Get(t).Values()))
				})
			})

			s.And("index is the length of the sequence", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return len(values.Get(t))
				})

				s.Then("it behaves as an append", func(t *testcase.T) {
					assert.True(t, act(t))

					exp := slicekit.Merge(values.Get(t), newValues.Get(t))
					assert.Equal(t, exp, iterkit.Collect(seq.Get(t).Values()))
				})
			})

			s.And("index is out of bound", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return len(values.Get(t)) + t.Random.IntBetween(1, 42)
				})

				s.Then("it reports failure and the sequence is unchanged", func(t *testcase.T) {
					assert.False(t, act(t))
					assert.Equal(t, values.Get(t), iterkit.Collect(seq.Get(t).Values()))
				})
			})
		})
	})

	s.Describe("#Delete", func(s *testcase.Spec) {
		var (
			index = let.Var[int](s, nil)
		)
		act := let.Act(func(t *testcase.T) bool {
			return seq.Get(t).Delete(index.Get(t))
		})

		s.When("sequence is empty", func(s *testcase.Spec) {
			index.Let(s, func(t *testcase.T) int {
				return t.Random.IntBetween(0, 42)
			})

			s.Then("it reports failure", func(t *testcase.T) {
				assert.False(t, act(t))
			})
		})

		s.When("sequence contains values", func(s *testcase.Spec) {
			values := let.Var(s, makeValues)

			seq.Let(s, func(t *testcase.T) ds.Sequence[T] {
				seq := seq.Super(t)
				seq.Append(values.Get(t)...)
				return seq
			})

			s.And("index points to an existing value", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return t.Random.IntN(len(values.Get(t)))
				})

				s.Then("only the value at the index is removed", func(t *testcase.T) {
					assert.True(t, act(t))

					exp := slicekit.Clone(values.Get(t))
					assert.True(t, slicekit.Delete(&exp, index.Get(t)))
					assert.Equal(t, exp, iterkit.Collect(seq.Get(t).Values()))
				})
			})

			s.And("index is out of bound", func(s *testcase.Spec) {
				index.Let(s, func(t *testcase.T) int {
					return len(values.Get(t)) + t.Random.IntBetween(0, 42)
				})

				s.Then("it reports failure", func(t *testcase.T) {
					assert.False(t, act(t))
					assert.Equal(t, len(values.Get(t)), seqLen(t))
				})
			})
		})
	})

	return s.AsSuite(fmt.Sprintf("Sequence[%s]", reflectkit.TypeOf[T]().String()))
}
