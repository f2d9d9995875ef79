package particles

import "math/rand"

// BirthScheduler turns a birth rate into per-tick admission decisions.
type BirthScheduler struct {
	Rate float32 // particles per second
	rng  *rand.Rand
}

// NewBirthScheduler creates a scheduler drawing from rng.
func NewBirthScheduler(rate float32, rng *rand.Rand) *BirthScheduler {
	return &BirthScheduler{Rate: rate, rng: rng}
}

// Budget returns the admission budget for a tick of dt seconds.
// Budgets never carry over: whatever a tick leaves unspent is dropped.
func (s *BirthScheduler) Budget(dt float32) Budget {
	return Budget{remaining: s.Rate * dt, rng: s.rng}
}

// Budget is the admission quota of a single tick.
type Budget struct {
	remaining float32
	rng       *rand.Rand
}

// Remaining returns the unspent budget. It may be negative after a
// probabilistic admission.
func (b *Budget) Remaining() float32 {
	return b.remaining
}

// Admit decides whether the next dead slot is reborn.
//
// Whole units of budget admit deterministically. A fractional remainder
// admits with probability equal to its value; a failed draw leaves the
// budget untouched so the next candidate draws again.
func (b *Budget) Admit() bool {
	if b.remaining >= 1 {
		b.remaining--
		return true
	}
	if b.remaining <= 0 {
		return false
	}
	if b.rng.Float32() < b.remaining {
		b.remaining--
		return true
	}
	return false
}
