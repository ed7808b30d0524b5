package fire

// Rand is the source of uniform [0, 1) rolls. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// RuleContext carries the per-particle inputs shared by all rules.
type RuleContext struct {
	Progress float64
	Wind     float64
	Curves   *Curves
	Rand     Rand
}

// Rule is one layered perturbation applied to a surviving particle after the
// curve-driven alpha, size and colour update. Rules run in slice order and
// are independent: several may fire on the same particle in one tick.
type Rule interface {
	Name() string
	Apply(p *Particle, ctx *RuleContext)
}

// triggered reports whether a roll falls in the top chance of [0, 1).
func triggered(roll, chance float64) bool {
	return roll > 1-chance
}

// DriftRule pushes ageing particles sideways with the wind. The offset grows
// with the square of progress, giving the swirling lean of the flame.
type DriftRule struct {
	MaxLifetime float64 // Only particles with less remaining life drift
	Scale       float64
}

// Name implements Rule.
func (r DriftRule) Name() string { return "drift" }

// Apply implements Rule.
func (r DriftRule) Apply(p *Particle, ctx *RuleContext) {
	if p.Lifetime >= r.MaxLifetime {
		return
	}
	t := ctx.Progress
	p.Position.Z = ctx.Curves.VelocityX.SampleNormalized(t) * r.Scale * t * t * ctx.Wind
}

// SparkRule occasionally throws a particle upward. Half of the sparks turn
// black to read as smoke.
type SparkRule struct {
	Chance      float64
	SmokeChance float64
	Lift        float64
}

// Name implements Rule.
func (r SparkRule) Name() string { return "spark" }

// Apply implements Rule.
func (r SparkRule) Apply(p *Particle, ctx *RuleContext) {
	if !triggered(ctx.Rand.Float64(), r.Chance) {
		return
	}
	if triggered(ctx.Rand.Float64(), r.SmokeChance) {
		p.Colour = Black
	}
	t := ctx.Progress
	p.Position.Y = r.Lift * ctx.Curves.VelocityY.SampleNormalized(t) * t * ctx.Rand.Float64()
}

// FlourishRule layers two mutually exclusive flourishes. Young particles may
// re-sample alpha and sway; otherwise mid-life particles may rise, with a
// rare opposite sway on top.
//
// Each gate rolls before its lifetime threshold is tested so the random
// stream advances the same way whichever way the threshold goes.
type FlourishRule struct {
	FloatMinLifetime float64
	FloatChance      float64
	FloatScale       float64

	RiseMinLifetime float64
	RiseChance      float64
	RiseLift        float64

	SwayChance float64
	SwayScale  float64
}

// Name implements Rule.
func (r FlourishRule) Name() string { return "flourish" }

// Apply implements Rule.
func (r FlourishRule) Apply(p *Particle, ctx *RuleContext) {
	t := ctx.Progress
	c := ctx.Curves

	floatRoll := ctx.Rand.Float64()
	if p.Lifetime > r.FloatMinLifetime && triggered(floatRoll, r.FloatChance) {
		p.Alpha = c.Alpha.SampleNormalized(t)
		p.Position.Z = c.VelocityX.SampleNormalized(t) * t * ctx.Rand.Float64() * r.FloatScale
		return
	}

	riseRoll := ctx.Rand.Float64()
	if p.Lifetime > r.RiseMinLifetime && triggered(riseRoll, r.RiseChance) {
		p.Position.Y = r.RiseLift * c.VelocityY.SampleNormalized(t) * t * ctx.Rand.Float64()
		p.Alpha = c.Alpha.SampleNormalized(t)

		if triggered(ctx.Rand.Float64(), r.SwayChance) {
			p.Position.Z = -c.VelocityX.SampleNormalized(t) * t * ctx.Rand.Float64() * r.SwayScale
		}
	}
}

// DefaultRules returns drift, spark and flourish with the tuned constants.
func DefaultRules() []Rule {
	return []Rule{
		DriftRule{MaxLifetime: 3.5, Scale: 0.00985},
		SparkRule{Chance: 0.005, SmokeChance: 0.5, Lift: 0.5},
		FlourishRule{
			FloatMinLifetime: 3.0,
			FloatChance:      0.015,
			FloatScale:       0.01,
			RiseMinLifetime:  2.0,
			RiseChance:       0.005,
			RiseLift:         0.5,
			SwayChance:       0.001,
			SwayScale:        0.01,
		},
	}
}
