package particles

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Construction errors.
var (
	ErrInvalidCapacity       = errors.New("capacity must be positive")
	ErrNilPolicy             = errors.New("policy is required")
	ErrInvalidLifeExpectancy = errors.New("life expectancy must be positive")
	ErrNegativeBirthRate     = errors.New("birth rate must not be negative")
)

// Options configures a Pool.
type Options struct {
	Capacity       int
	BirthRate      float32 // particles per second
	LifeExpectancy float32 // seconds
	LifeVariance   float32 // nominally [0, 1]
	UseColor       bool

	// Rand drives admission and life sampling. A time-seeded source is used
	// when nil.
	Rand *rand.Rand
}

// DefaultOptions returns options for a colorless pool of the given capacity
// emitting 100 particles per second that each live one second.
func DefaultOptions(capacity int) Options {
	return Options{
		Capacity:       capacity,
		BirthRate:      100,
		LifeExpectancy: 1,
	}
}

// TickStats summarizes the most recent Update.
type TickStats struct {
	Births int
	Deaths int
	Alive  int
}

type slot struct {
	alive bool
	age   float32
	life  float32
	attrs Attrs
}

// Pool is a fixed-capacity particle pool. It is not safe for concurrent use.
type Pool struct {
	policy    Policy
	scheduler *BirthScheduler
	rng       *rand.Rand

	slots    []slot
	out      *Buffers
	useColor bool

	lifeExpectancy float32
	lifeVariance   float32

	last TickStats
}

// New creates a pool driven by policy.
func New(policy Policy, opts Options) (*Pool, error) {
	if !validPolicy(policy) {
		return nil, fmt.Errorf("creating particle pool: %w", ErrNilPolicy)
	}
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("creating particle pool (capacity %d): %w", opts.Capacity, ErrInvalidCapacity)
	}
	if !(opts.LifeExpectancy > 0) {
		return nil, fmt.Errorf("creating particle pool (life expectancy %g): %w", opts.LifeExpectancy, ErrInvalidLifeExpectancy)
	}
	if opts.BirthRate < 0 {
		return nil, fmt.Errorf("creating particle pool (birth rate %g): %w", opts.BirthRate, ErrNegativeBirthRate)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Pool{
		policy:         policy,
		scheduler:      NewBirthScheduler(opts.BirthRate, rng),
		rng:            rng,
		slots:          make([]slot, opts.Capacity),
		out:            newBuffers(opts.Capacity, opts.UseColor),
		useColor:       opts.UseColor,
		lifeExpectancy: opts.LifeExpectancy,
		lifeVariance:   opts.LifeVariance,
	}, nil
}

// Capacity returns the fixed number of slots.
func (p *Pool) Capacity() int { return len(p.slots) }

// UseColor reports whether the pool carries a color attribute.
func (p *Pool) UseColor() bool { return p.useColor }

// BirthRate returns the birth rate in particles per second.
func (p *Pool) BirthRate() float32 { return p.scheduler.Rate }

// SetBirthRate changes the birth rate, effective from the next Update.
func (p *Pool) SetBirthRate(rate float32) { p.scheduler.Rate = rate }

// LifeExpectancy returns the mean particle lifespan in seconds.
func (p *Pool) LifeExpectancy() float32 { return p.lifeExpectancy }

// SetLifeExpectancy changes the lifespan used for future births.
func (p *Pool) SetLifeExpectancy(seconds float32) { p.lifeExpectancy = seconds }

// LifeVariance returns the relative lifespan spread.
func (p *Pool) LifeVariance() float32 { return p.lifeVariance }

// SetLifeVariance changes the lifespan spread used for future births.
func (p *Pool) SetLifeVariance(v float32) { p.lifeVariance = v }

// Output returns the dense buffers published by the last Update.
func (p *Pool) Output() *Buffers { return p.out }

// AliveCount returns the number of published particles.
func (p *Pool) AliveCount() int { return p.out.count }

// LastTick returns the birth and death counts of the last Update.
func (p *Pool) LastTick() TickStats { return p.last }

// Alive reports whether slot i currently holds a live particle.
func (p *Pool) Alive(i int) bool { return p.slots[i].alive }

// Update advances the pool by dt seconds. Non-positive (or NaN) dt leaves
// the pool untouched.
func (p *Pool) Update(dt float32) {
	if !(dt > 0) {
		p.last = TickStats{Alive: p.out.count}
		return
	}

	budget := p.scheduler.Budget(dt)
	p.out.reset()
	var births, deaths int

	for i := range p.slots {
		s := &p.slots[i]
		if s.alive {
			age := s.age + dt
			if age > s.life {
				s.alive = false
				deaths++
				continue
			}
			s.age = age
			s.attrs = p.sanitize(p.policy.Update(i, age, s.life, s.attrs, dt))
			p.out.append(&s.attrs)
			continue
		}

		if !budget.Admit() {
			continue
		}
		s.alive = true
		s.age = 0
		s.life = sampleLife(p.rng, p.lifeExpectancy, p.lifeVariance)
		s.attrs = p.sanitize(p.policy.Create(i))
		p.out.append(&s.attrs)
		births++
	}

	p.last = TickStats{Births: births, Deaths: deaths, Alive: p.out.count}
}

// Reset kills every particle and clears the published range.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = slot{}
	}
	p.out.reset()
	p.last = TickStats{}
}

// sanitize drops the color of colorless pools so policies never see stale
// values through prev.
func (p *Pool) sanitize(a Attrs) Attrs {
	if !p.useColor {
		a.Color = Color{}
	}
	return a
}
