package scheduler

import (
	"math"
	"math/rand/v2"
)

// Walk centers for synthetic readings.
const (
	TempCenter = 22.0
	TempSpan   = 3.0
	HumCenter  = 52.0
	HumSpan    = 5.0
)

// RandomWalk produces bounded temperature/humidity readings that drift
// around fixed centers instead of jumping between independent samples.
type RandomWalk struct {
	rnd  *rand.Rand
	temp float64
	hum  float64
}

// NewRandomWalk starts at the centers. A nil rnd uses a randomly seeded source.
func NewRandomWalk(rnd *rand.Rand) *RandomWalk {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomWalk{rnd: rnd, temp: TempCenter, hum: HumCenter}
}

// Next returns the next reading, rounded to one decimal.
func (w *RandomWalk) Next() (temp, hum float64) {
	w.temp = step(w.rnd, w.temp, TempCenter, TempSpan)
	w.hum = step(w.rnd, w.hum, HumCenter, HumSpan)
	return round1(w.temp), round1(w.hum)
}

func step(rnd *rand.Rand, cur, center, span float64) float64 {
	next := cur + (rnd.Float64()*2-1)*span/3
	return math.Max(center-span, math.Min(center+span, next))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
