package simulator

import (
	"math/rand"
	"time"

	"TickerBoard/internal/calculator"
	"TickerBoard/internal/market"
)

// DefaultHistoryCap bounds retained history in simulate mode, keeping memory
// and chart size flat no matter how long the process runs.
const DefaultHistoryCap = 50

// Simulator drifts instrument prices inside their configured bounds, standing
// in for a live feed when the snapshot source is static.
type Simulator struct {
	rng        *rand.Rand
	historyCap int
}

// New creates a Simulator. A zero seed derives one from the clock; a fixed
// seed makes runs reproducible.
func New(seed int64, historyCap int) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Simulator{
		rng:        rand.New(rand.NewSource(seed)),
		historyCap: historyCap,
	}
}

// Step perturbs every instrument once: a uniform delta in
// [−volatility, +volatility], rounded to two decimals, clamped into
// [min, max], appended to the history (oldest entries dropped past the cap).
// The book re-derives trend and candles for each touched instrument.
func (s *Simulator) Step(book *market.Book, now time.Time) {
	for _, name := range book.Names() {
		inst, ok := book.Get(name)
		if !ok {
			continue
		}

		delta := s.rng.Float64()*(inst.Volatility*2) - inst.Volatility
		next := calculator.Round2(inst.Price + delta)
		if next < inst.Min {
			next = inst.Min
		}
		if next > inst.Max {
			next = inst.Max
		}

		book.AppendPrice(name, next, s.historyCap, now)
	}
}
