package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock hands out the current time. Production uses the system clock; tests
// inject FakeClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
