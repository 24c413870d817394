package clock

import (
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

// Clock is the single source of "now" for derived computations. Services
// take it as a dependency so time-sensitive scores are testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func NewSystemClock() Clock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}
