package vector

import (
	"math"

	"go.llib.dev/frameless/pkg/mathkit"
	"go.llib.dev/frameless/pkg/zerokit"
	"go.llib.dev/frameless/port/option"
)

// GrowthPolicy decides the capacity of the next allocation
// when the current capacity can't hold the required number of elements.
//
// A result below required is raised to required,
// so a policy only has to express how much headroom it wants.
type GrowthPolicy interface {
	NextCapacity(capacity, required int) int
}

// GrowthFunc is a function based GrowthPolicy.
type GrowthFunc func(capacity, required int) int

func (fn GrowthFunc) NextCapacity(capacity, required int) int { return fn(capacity, required) }

// Doubling is the default growth policy.
// It doubles the capacity, which keeps PushBack amortised O(1):
// across n pushes fewer than 2n elements are moved between allocations.
var Doubling GrowthPolicy = doubling{}

type doubling struct{}

func (doubling) NextCapacity(capacity, required int) int {
	if capacity == 0 {
		return max(required, 1)
	}
	if mathkit.CanIntMulOverflow(capacity, 2) {
		return required
	}
	return max(capacity*2, required)
}

// Factor is a geometric growth policy that multiplies the capacity by f.
// Factors not greater than 1 can't provide amortised growth, and fall back to Doubling.
func Factor(f float64) GrowthPolicy {
	if !(1 < f) || math.IsInf(f, 1) {
		return Doubling
	}
	return factor{F: f}
}

type factor struct{ F float64 }

func (g factor) NextCapacity(capacity, required int) int {
	next := math.Ceil(float64(capacity) * g.F)
	if float64(math.MaxInt) <= next {
		return required
	}
	// a small capacity times a small factor may not grow at all
	return max(int(next), capacity+1, required)
}

type Config struct {
	Growth GrowthPolicy
}

func (c Config) Configure(t *Config) {
	t.Growth = zerokit.Coalesce(c.Growth, t.Growth)
}

type Option option.Option[Config]

// WithGrowth sets the growth policy used when the Vector has to reallocate.
func WithGrowth(p GrowthPolicy) Option {
	return option.Func[Config](func(c *Config) {
		c.Growth = p
	})
}

func (c Config) growth() GrowthPolicy {
	return zerokit.Coalesce(c.Growth, Doubling)
}
