package fire

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func defaultParams() Params {
	return Params{
		SpawnCount: 2,
		Size:       0.0065,
		Colour:     Colour{R: 1},
		Alpha:      1.0,
		Lifetime:   5.0,
		MaxLife:    5.0,
		Rotation:   math.Pi,
		Velocity:   Vec3{Y: 10},
		WindSpeed:  2,
	}
}

func newTestSystem(t *testing.T, seed int64) *System {
	t.Helper()
	s, err := New(DefaultOptions(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsMissingCurves(t *testing.T) {
	opts := DefaultOptions()
	opts.Curves.Size = nil
	if _, err := New(opts, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for missing size curve")
	}
}

func TestNewRejectsNilRand(t *testing.T) {
	if _, err := New(DefaultOptions(), nil); err == nil {
		t.Error("expected error for nil random source")
	}
}

func TestEmitPlacesParticlesInFootprint(t *testing.T) {
	s := newTestSystem(t, 7)
	p := defaultParams()
	p.SpawnCount = 50

	if n := s.Emit(p); n != 50 {
		t.Fatalf("expected 50 spawned, got %d", n)
	}
	for i, pt := range s.Particles() {
		if math.Abs(pt.Position.X) > 0.2 || math.Abs(pt.Position.Z) > 0.15 {
			t.Errorf("particle %d outside footprint: %+v", i, pt.Position)
		}
		if pt.Position.Y != 0.25 {
			t.Errorf("particle %d spawned at y=%f, want 0.25", i, pt.Position.Y)
		}
		if pt.Lifetime != 5 || pt.MaxLife != 5 || pt.Rotation != math.Pi || pt.Colour != (Colour{R: 1}) {
			t.Errorf("particle %d did not copy params: %+v", i, pt)
		}
	}
}

func TestEmitCopiesVelocityByValue(t *testing.T) {
	s := newTestSystem(t, 1)
	p := defaultParams()
	p.SpawnCount = 1
	s.Emit(p)
	p.Velocity.Y = 99
	if got := s.Particles()[0].Velocity.Y; got != 10 {
		t.Errorf("velocity aliased params: got %f", got)
	}
}

func TestPopulationAccounting(t *testing.T) {
	s := newTestSystem(t, 42)
	p := defaultParams()

	prev := 0
	for tick := 0; tick < 200; tick++ {
		p.SpawnCount = tick % 5
		if _, err := s.Step(16, p, Vec3{X: 1.8754, Y: 1.69, Z: -2.4}); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		st := s.LastTick()
		if st.Live != prev-st.Expired+st.Spawned {
			t.Fatalf("tick %d: live %d != %d - %d + %d", tick, st.Live, prev, st.Expired, st.Spawned)
		}
		if st.Live != s.Count() {
			t.Fatalf("tick %d: stats live %d, count %d", tick, st.Live, s.Count())
		}
		for i, pt := range s.Particles() {
			if !(pt.Lifetime > 0 && pt.Lifetime <= pt.MaxLife) {
				t.Fatalf("tick %d particle %d: lifetime %f outside (0, %f]", tick, i, pt.Lifetime, pt.MaxLife)
			}
			if pt.CurrentSize < 0 {
				t.Fatalf("tick %d particle %d: negative size %f", tick, i, pt.CurrentSize)
			}
		}
		prev = st.Live
	}
}

func TestSteadyStatePopulation(t *testing.T) {
	s := newTestSystem(t, 3)
	p := defaultParams()

	// 5.0 * 100 / 16 = 31.25, so each particle survives 31 agings.
	for tick := 0; tick < 31; tick++ {
		if _, err := s.Step(16, p, Vec3{}); err != nil {
			t.Fatal(err)
		}
		if want := 2 * (tick + 1); s.Count() != want {
			t.Fatalf("tick %d: expected %d live, got %d", tick, want, s.Count())
		}
	}
	for tick := 31; tick < 100; tick++ {
		if _, err := s.Step(16, p, Vec3{}); err != nil {
			t.Fatal(err)
		}
		if s.Count() != 62 {
			t.Fatalf("tick %d: expected steady state 62, got %d", tick, s.Count())
		}
		if st := s.LastTick(); st.Expired != 2 {
			t.Fatalf("tick %d: expected 2 expired, got %d", tick, st.Expired)
		}
	}
}

func TestEpsilonLifetimeExpiresOnFirstAging(t *testing.T) {
	const eps = 1e-4
	s := newTestSystem(t, 5)
	p := defaultParams()
	p.SpawnCount = 1
	p.Lifetime = eps
	p.MaxLife = eps

	s.Emit(p)
	if s.Count() != 1 {
		t.Fatalf("expected 1 particle after emit, got %d", s.Count())
	}
	if expired := s.Age(16); expired != 1 {
		t.Errorf("expected particle to expire, %d expired", expired)
	}
	if s.Count() != 0 {
		t.Errorf("expected empty system, got %d", s.Count())
	}
}

func TestAgeKeepsOrder(t *testing.T) {
	s := newTestSystem(t, 1)
	s.particles = []Particle{
		{Lifetime: 1, MaxLife: 5, Rotation: 0},
		{Lifetime: 0.05, MaxLife: 5, Rotation: 1},
		{Lifetime: 2, MaxLife: 5, Rotation: 2},
		{Lifetime: 0.1, MaxLife: 5, Rotation: 3},
		{Lifetime: 3, MaxLife: 5, Rotation: 4},
	}
	if expired := s.Age(10); expired != 2 {
		t.Fatalf("expected 2 expired, got %d", expired)
	}
	want := []float64{0, 2, 4}
	for i, p := range s.Particles() {
		if p.Rotation != want[i] {
			t.Errorf("position %d: got particle %f, want %f", i, p.Rotation, want[i])
		}
	}
}

func TestSortByDepthFarthestFirst(t *testing.T) {
	s := newTestSystem(t, 1)
	s.particles = []Particle{
		{Position: Vec3{X: 1}},
		{Position: Vec3{Y: 5}},
		{Position: Vec3{Z: -3}},
	}
	s.SortByDepth(Vec3{})

	want := []float64{5, 3, 1}
	for i, p := range s.Particles() {
		if d := p.Position.Dist(Vec3{}); d != want[i] {
			t.Errorf("position %d: distance %f, want %f", i, d, want[i])
		}
	}
}

func TestSortByDepthIdempotent(t *testing.T) {
	s := newTestSystem(t, 11)
	p := defaultParams()
	p.SpawnCount = 20
	for i := 0; i < 10; i++ {
		if _, err := s.Step(16, p, Vec3{X: 2, Y: 1, Z: -2}); err != nil {
			t.Fatal(err)
		}
	}
	vp := Vec3{X: 1.8754, Y: 1.69, Z: -2.4}
	s.SortByDepth(vp)
	first := append([]Particle(nil), s.Particles()...)
	s.SortByDepth(vp)
	for i, p := range s.Particles() {
		if p != first[i] {
			t.Fatalf("second sort moved particle %d", i)
		}
	}
}

func TestSortByDepthStableOnTies(t *testing.T) {
	s := newTestSystem(t, 1)
	s.particles = []Particle{
		{Position: Vec3{X: 1}, Rotation: 0},
		{Position: Vec3{X: -1}, Rotation: 1},
		{Position: Vec3{Y: 1}, Rotation: 2},
	}
	s.SortByDepth(Vec3{})
	for i, p := range s.Particles() {
		if p.Rotation != float64(i) {
			t.Errorf("tie order changed at %d: got %f", i, p.Rotation)
		}
	}
}

func TestCurrentSizeNonIncreasingWithoutWind(t *testing.T) {
	opts := DefaultOptions()
	opts.Rules = []Rule{DriftRule{MaxLifetime: 3.5, Scale: 0.00985}}
	s, err := New(opts, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	p := defaultParams()
	p.SpawnCount = 1
	p.WindSpeed = 0
	s.Emit(p)

	// 27 ticks reach progress 0.864. The size path ripples by about 0.01
	// between 0.886 and 0.916 before settling on its last key.
	prev := math.Inf(1)
	for tick := 0; tick < 27; tick++ {
		s.Age(16)
		s.Mutate(0)
		pt := s.Particles()[0]
		if pt.CurrentSize > prev+1e-15 {
			t.Fatalf("tick %d: size grew from %g to %g", tick, prev, pt.CurrentSize)
		}
		prev = pt.CurrentSize
	}
}

func TestMutateAlphaAndColour(t *testing.T) {
	opts := DefaultOptions()
	opts.Rules = nil
	s, err := New(opts, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	s.particles = []Particle{{Lifetime: 5, MaxLife: 5, Size: 2, Colour: Colour{R: 1}}}
	s.Mutate(2)

	p := s.Particles()[0]
	if math.Abs(p.Alpha-1.0) > 1e-9 {
		t.Errorf("alpha at birth = %f, want 1.0", p.Alpha)
	}
	if math.Abs(p.CurrentSize-20) > 1e-9 {
		t.Errorf("size at birth = %f, want 20", p.CurrentSize)
	}
	want := Colour{R: 1, G: 0.00005, B: 0.00005}
	if math.Abs(p.Colour.G-want.G) > 1e-12 || p.Colour.R != 1 {
		t.Errorf("colour = %+v, want %+v", p.Colour, want)
	}
}

func TestStepRejectsBadInputsWithoutChangingState(t *testing.T) {
	s := newTestSystem(t, 1)
	p := defaultParams()
	if _, err := s.Step(16, p, Vec3{}); err != nil {
		t.Fatal(err)
	}
	before := append([]Particle(nil), s.Particles()...)

	bad := p
	bad.Size = -1
	negSpawn := p
	negSpawn.SpawnCount = -3
	tooLong := p
	tooLong.Lifetime = 6

	tests := []struct {
		name    string
		elapsed float64
		params  Params
		want    error
	}{
		{"nan elapsed", math.NaN(), p, ErrNonFiniteElapsed},
		{"inf elapsed", math.Inf(1), p, ErrNonFiniteElapsed},
		{"negative elapsed", -16, p, ErrNegativeElapsed},
		{"negative size", 16, bad, ErrInvalidParams},
		{"negative spawn count", 16, negSpawn, ErrInvalidParams},
		{"lifetime above max life", 16, tooLong, ErrInvalidParams},
	}
	for _, tc := range tests {
		_, err := s.Step(tc.elapsed, tc.params, Vec3{})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if len(s.Particles()) != len(before) {
			t.Fatalf("%s: particle count changed from %d to %d", tc.name, len(before), len(s.Particles()))
		}
		for i := range before {
			if s.Particles()[i] != before[i] {
				t.Fatalf("%s: particle %d mutated", tc.name, i)
			}
		}
	}
}

func TestNegativeRotationAndWindAllowed(t *testing.T) {
	p := defaultParams()
	p.Rotation = -math.Pi
	p.WindSpeed = -10
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAttributesLayout(t *testing.T) {
	s := newTestSystem(t, 1)
	s.particles = []Particle{
		{Position: Vec3{X: 1, Y: 2, Z: 3}, CurrentSize: 0.5, Colour: Colour{R: 0.1, G: 0.2, B: 0.3}, Alpha: 0.4, Rotation: 1.5},
		{Position: Vec3{X: 4, Y: 5, Z: 6}, CurrentSize: 0.25, Colour: Colour{R: 1, G: 1, B: 1}, Alpha: 1, Rotation: -1},
	}
	a := s.Attributes()

	if a.Len() != 2 {
		t.Fatalf("expected 2 particles, got %d", a.Len())
	}
	if len(a.Positions) != 6 || len(a.Colours) != 8 || len(a.Angles) != 2 {
		t.Fatalf("unexpected buffer lengths: %d %d %d", len(a.Positions), len(a.Colours), len(a.Angles))
	}
	wantPos := []float32{1, 2, 3, 4, 5, 6}
	for i, v := range wantPos {
		if a.Positions[i] != v {
			t.Errorf("Positions[%d] = %f, want %f", i, a.Positions[i], v)
		}
	}
	wantCol := []float32{0.1, 0.2, 0.3, 0.4, 1, 1, 1, 1}
	for i, v := range wantCol {
		if a.Colours[i] != v {
			t.Errorf("Colours[%d] = %f, want %f", i, a.Colours[i], v)
		}
	}
	if a.Sizes[0] != 0.5 || a.Sizes[1] != 0.25 {
		t.Errorf("unexpected sizes %v", a.Sizes)
	}
	if a.Angles[0] != 1.5 || a.Angles[1] != -1 {
		t.Errorf("unexpected angles %v", a.Angles)
	}

	// Buffers shrink with the population.
	s.particles = s.particles[:1]
	if a = s.Attributes(); a.Len() != 1 || len(a.Positions) != 3 {
		t.Errorf("expected buffers for 1 particle, got %d sizes, %d positions", a.Len(), len(a.Positions))
	}
}

func TestReset(t *testing.T) {
	s := newTestSystem(t, 1)
	if _, err := s.Step(16, defaultParams(), Vec3{}); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if s.Count() != 0 || s.LastTick() != (TickStats{}) {
		t.Errorf("expected empty system after reset, got %d particles", s.Count())
	}
}

func TestRestore(t *testing.T) {
	s := newTestSystem(t, 3)
	s.Emit(defaultParams())

	saved := []Particle{
		{Position: Vec3{Y: 1}, Size: 1, Lifetime: 2, MaxLife: 5},
		{Position: Vec3{Y: 2}, Size: 1, Lifetime: 5, MaxLife: 5},
	}
	if err := s.Restore(saved); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Count() != 2 || s.LastTick().Live != 2 {
		t.Fatalf("expected 2 restored particles, got %d", s.Count())
	}
	saved[0].Lifetime = 1
	if s.Particles()[0].Lifetime != 2 {
		t.Error("Restore must copy particles")
	}

	for _, bad := range []Particle{
		{Lifetime: 0, MaxLife: 5},
		{Lifetime: 6, MaxLife: 5},
		{Lifetime: math.NaN(), MaxLife: 5},
	} {
		if err := s.Restore([]Particle{bad}); err == nil {
			t.Errorf("expected error restoring %+v", bad)
		}
	}
	if s.Count() != 2 {
		t.Errorf("failed restore changed state: %d particles", s.Count())
	}
}
