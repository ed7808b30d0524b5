package fire

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Options configures a System. Zero fields fall back to the tuned defaults.
type Options struct {
	Origin      Vec3    // Emission point
	FootprintX  float64 // Full width of the spawn footprint along X
	FootprintZ  float64 // Full depth of the spawn footprint along Z
	SpawnHeight float64 // Y offset of newly spawned particles
	AgeDivisor  float64 // Lifetime decreases by elapsed/AgeDivisor per tick
	WhitenRate  float64 // Per-tick blend factor toward white
	Curves      Curves
	Rules       []Rule
	Capacity    int
}

// DefaultOptions returns the tuned fire look.
func DefaultOptions() Options {
	return Options{
		FootprintX:  0.4,
		FootprintZ:  0.3,
		SpawnHeight: 0.25,
		AgeDivisor:  100,
		WhitenRate:  0.00005,
		Curves:      DefaultCurves(),
		Rules:       DefaultRules(),
		Capacity:    256,
	}
}

// System owns the live particle list and the render buffers derived from it.
// It is not safe for concurrent use; call it from the frame loop only.
type System struct {
	opts      Options
	rng       Rand
	particles []Particle
	attrs     Attributes
	last      TickStats
}

// New creates a particle system.
func New(opts Options, rng Rand) (*System, error) {
	if err := opts.Curves.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("fire: nil random source")
	}
	if opts.AgeDivisor == 0 {
		opts.AgeDivisor = 100
	}
	if opts.AgeDivisor < 0 || math.IsNaN(opts.AgeDivisor) || math.IsInf(opts.AgeDivisor, 0) {
		return nil, fmt.Errorf("fire: age divisor %g must be positive and finite", opts.AgeDivisor)
	}
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}
	return &System{
		opts:      opts,
		rng:       rng,
		particles: make([]Particle, 0, opts.Capacity),
	}, nil
}

// CheckInputs validates per-tick inputs without touching state.
func CheckInputs(elapsed float64, params Params) error {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return ErrNonFiniteElapsed
	}
	if elapsed < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeElapsed, elapsed)
	}
	return params.Validate()
}

// Step advances the population by one frame: emit, age, mutate, sort by
// distance from viewpoint, and extract render attributes. On error the
// particle list is left untouched.
func (s *System) Step(elapsed float64, params Params, viewpoint Vec3) (Attributes, error) {
	if err := CheckInputs(elapsed, params); err != nil {
		return Attributes{}, err
	}
	spawned := s.Emit(params)
	expired := s.Age(elapsed)
	s.Mutate(params.WindSpeed)
	s.SortByDepth(viewpoint)
	s.last = TickStats{Spawned: spawned, Expired: expired, Live: len(s.particles)}
	return s.Attributes(), nil
}

// Emit appends params.SpawnCount new particles and returns how many were added.
func (s *System) Emit(params Params) int {
	o := s.opts
	for i := 0; i < params.SpawnCount; i++ {
		s.particles = append(s.particles, Particle{
			Position: Vec3{
				X: o.Origin.X + (s.rng.Float64()-0.5)*o.FootprintX,
				Y: o.Origin.Y + o.SpawnHeight,
				Z: o.Origin.Z + (s.rng.Float64()-0.5)*o.FootprintZ,
			},
			Size:     params.Size,
			Colour:   params.Colour,
			Alpha:    params.Alpha,
			Lifetime: params.Lifetime,
			MaxLife:  params.MaxLife,
			Rotation: params.Rotation,
			Velocity: params.Velocity,
		})
	}
	return max(params.SpawnCount, 0)
}

// Age decrements every lifetime and drops expired particles, keeping the
// survivors in their original order. Returns the number removed.
func (s *System) Age(elapsed float64) int {
	dt := elapsed / s.opts.AgeDivisor
	alive := 0
	for i := range s.particles {
		p := &s.particles[i]
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			continue
		}
		s.particles[alive] = *p
		alive++
	}
	expired := len(s.particles) - alive
	clear(s.particles[alive:])
	s.particles = s.particles[:alive]
	return expired
}

// Mutate applies the curve-driven update and then every rule, in order, to
// each surviving particle.
func (s *System) Mutate(wind float64) {
	c := &s.opts.Curves
	ctx := RuleContext{Wind: wind, Curves: c, Rand: s.rng}

	for i := range s.particles {
		p := &s.particles[i]
		t := p.Progress()
		ctx.Progress = t

		p.Alpha = c.Alpha.SampleNormalized(t)
		p.CurrentSize = math.Max(0, p.Size*c.Size.SampleNormalized(t))
		p.Colour = p.Colour.Lerp(White, s.opts.WhitenRate)

		for _, r := range s.opts.Rules {
			r.Apply(p, &ctx)
		}
	}
}

// SortByDepth orders particles farthest-first from viewpoint so that
// alpha-blended sprites composite back to front. The sort is stable.
func (s *System) SortByDepth(viewpoint Vec3) {
	slices.SortStableFunc(s.particles, func(a, b Particle) int {
		return cmp.Compare(b.Position.Dist(viewpoint), a.Position.Dist(viewpoint))
	})
}

// Attributes fills the render buffers from the current particle order.
// The returned slices are reused by the next call.
func (s *System) Attributes() Attributes {
	n := len(s.particles)
	a := &s.attrs
	a.Positions = resize(a.Positions, n*3)
	a.Sizes = resize(a.Sizes, n)
	a.Colours = resize(a.Colours, n*4)
	a.Angles = resize(a.Angles, n)

	for i := range s.particles {
		p := &s.particles[i]
		a.Positions[i*3] = float32(p.Position.X)
		a.Positions[i*3+1] = float32(p.Position.Y)
		a.Positions[i*3+2] = float32(p.Position.Z)
		a.Sizes[i] = float32(p.CurrentSize)
		a.Colours[i*4] = float32(p.Colour.R)
		a.Colours[i*4+1] = float32(p.Colour.G)
		a.Colours[i*4+2] = float32(p.Colour.B)
		a.Colours[i*4+3] = float32(p.Alpha)
		a.Angles[i] = float32(p.Rotation)
	}
	return *a
}

// Particles returns the live particles. The slice is owned by the system and
// only valid until the next mutating call.
func (s *System) Particles() []Particle {
	return s.particles
}

// Count returns the number of live particles.
func (s *System) Count() int {
	return len(s.particles)
}

// LastTick returns the membership summary of the last successful Step.
func (s *System) LastTick() TickStats {
	return s.last
}

// RecordTick stores a membership summary when the phases are driven
// individually instead of through Step.
func (s *System) RecordTick(spawned, expired int) {
	s.last = TickStats{Spawned: spawned, Expired: expired, Live: len(s.particles)}
}

// Reset removes every particle.
func (s *System) Reset() {
	clear(s.particles)
	s.particles = s.particles[:0]
	s.last = TickStats{}
}

// Restore replaces the live particles, for resuming a saved run. Every
// particle must be alive with its lifetime within (0, MaxLife].
func (s *System) Restore(particles []Particle) error {
	for i := range particles {
		p := &particles[i]
		if !(p.Lifetime > 0) || !(p.Lifetime <= p.MaxLife) || math.IsInf(p.MaxLife, 0) {
			return fmt.Errorf("fire: particle %d has lifetime %g of %g", i, p.Lifetime, p.MaxLife)
		}
	}
	s.Reset()
	s.particles = append(s.particles, particles...)
	s.last = TickStats{Live: len(s.particles)}
	return nil
}

// Curves returns the curves driving the system.
func (s *System) Curves() Curves {
	return s.opts.Curves
}

// Rules returns the effect rules in application order.
func (s *System) Rules() []Rule {
	return s.opts.Rules
}

func resize(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}
