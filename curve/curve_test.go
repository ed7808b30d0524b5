package curve

import (
	"errors"
	"math"
	"testing"
)

func alphaPoints() []Point {
	return []Point{{0, 1.0}, {1, 0.7}, {2, 0.4}, {3, 0.1}}
}

func sizePoints() []Point {
	return []Point{{1, 10}, {2, 8}, {3, 5}, {4, 3}, {5, 1}, {6, 0.2}, {7, 0.12}, {8, 0.1}}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   error
	}{
		{"empty", nil, ErrEmpty},
		{"equal keys", []Point{{0, 1}, {0, 2}}, ErrNotIncreasing},
		{"decreasing keys", []Point{{1, 1}, {0, 2}}, ErrNotIncreasing},
		{"nan value", []Point{{0, math.NaN()}, {1, 2}}, ErrNonFinite},
		{"inf key", []Point{{0, 1}, {math.Inf(1), 2}}, ErrNonFinite},
	}

	for _, tc := range tests {
		for _, mode := range []Interpolation{Linear, Monotone} {
			_, err := New(tc.points, mode)
			if !errors.Is(err, tc.want) {
				t.Errorf("%s/%s: expected %v, got %v", tc.name, mode, tc.want, err)
			}
		}
	}
}

func TestAlphaEndpoints(t *testing.T) {
	for _, mode := range []Interpolation{Linear, Monotone} {
		c := MustNew(alphaPoints(), mode)

		if got := c.Sample(0); !approx(got, 1.0) {
			t.Errorf("%s: Sample(0) = %f, want 1.0", mode, got)
		}
		if got := c.Sample(3); !approx(got, 0.1) {
			t.Errorf("%s: Sample(3) = %f, want 0.1", mode, got)
		}
		if got := c.SampleNormalized(0); !approx(got, 1.0) {
			t.Errorf("%s: SampleNormalized(0) = %f, want 1.0", mode, got)
		}
		if got := c.SampleNormalized(1); !approx(got, 0.1) {
			t.Errorf("%s: SampleNormalized(1) = %f, want 0.1", mode, got)
		}
	}
}

func TestClampedOutsideKeys(t *testing.T) {
	for _, mode := range []Interpolation{Linear, Monotone} {
		c := MustNew(alphaPoints(), mode)

		for _, x := range []float64{-10, -0.001, math.Inf(-1), math.NaN()} {
			if got := c.Sample(x); !approx(got, 1.0) {
				t.Errorf("%s: Sample(%f) = %f, want first value 1.0", mode, x, got)
			}
		}
		for _, x := range []float64{3.001, 100, math.Inf(1)} {
			if got := c.Sample(x); !approx(got, 0.1) {
				t.Errorf("%s: Sample(%f) = %f, want last value 0.1", mode, x, got)
			}
		}
		if got := c.SampleNormalized(2); !approx(got, 0.1) {
			t.Errorf("%s: SampleNormalized(2) = %f, want 0.1", mode, got)
		}
		if got := c.SampleNormalized(-1); !approx(got, 1.0) {
			t.Errorf("%s: SampleNormalized(-1) = %f, want 1.0", mode, got)
		}
	}
}

func TestLinearInterpolation(t *testing.T) {
	c := MustNew(alphaPoints(), Linear)

	tests := []struct{ t, want float64 }{
		{0.5, 0.85},
		{1, 0.7},
		{1.5, 0.55},
		{2.25, 0.325},
	}
	for _, tc := range tests {
		if got := c.Sample(tc.t); !approx(got, tc.want) {
			t.Errorf("Sample(%f) = %f, want %f", tc.t, got, tc.want)
		}
	}

	// Normalized 0.5 on [0,3] is key 1.5.
	if got := c.SampleNormalized(0.5); !approx(got, 0.55) {
		t.Errorf("SampleNormalized(0.5) = %f, want 0.55", got)
	}
}

func TestMonotoneSizeCurveNonIncreasing(t *testing.T) {
	c := MustNew(sizePoints(), Monotone)

	prev := c.SampleNormalized(0)
	for i := 1; i <= 1000; i++ {
		v := c.SampleNormalized(float64(i) / 1000)
		if v > prev+1e-12 {
			t.Fatalf("size curve increased at u=%f: %f -> %f", float64(i)/1000, prev, v)
		}
		if v < 0.1-1e-12 || v > 10+1e-12 {
			t.Fatalf("size curve left key range at u=%f: %f", float64(i)/1000, v)
		}
		prev = v
	}
}

func TestMonotoneHitsKeys(t *testing.T) {
	c := MustNew(sizePoints(), Monotone)
	for _, p := range sizePoints() {
		if got := c.Sample(p.T); math.Abs(got-p.V) > 1e-9 {
			t.Errorf("Sample(%f) = %f, want key value %f", p.T, got, p.V)
		}
	}
}

func TestSinglePointIsConstant(t *testing.T) {
	c, err := New([]Point{{2, 0.5}}, Monotone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, x := range []float64{-1, 0, 2, 5} {
		if got := c.Sample(x); got != 0.5 {
			t.Errorf("Sample(%f) = %f, want 0.5", x, got)
		}
	}
	if got := c.SampleNormalized(0.7); got != 0.5 {
		t.Errorf("SampleNormalized(0.7) = %f, want 0.5", got)
	}
}

func velocityXPoints() []Point {
	return []Point{{0, 15}, {0, -10}, {0, 1}, {0, -1}, {0, 0.1}, {0, -0.1}}
}

func TestSplineArcLengthSampling(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		u      float64
		want   float64
	}{
		{"size start", sizePoints(), 0, 10},
		{"size 0.3", sizePoints(), 0.3, 6.368841},
		{"size 0.5", sizePoints(), 0.5, 3.921346},
		{"size 0.6", sizePoints(), 0.6, 2.753089},
		{"size end", sizePoints(), 1, 0.1},
		{"velocity_x 0.3", velocityXPoints(), 0.3, 2.767157},
		{"velocity_x 0.5", velocityXPoints(), 0.5, -5.391948},
		{"velocity_x 0.6", velocityXPoints(), 0.6, -9.470225},
		{"velocity_x end", velocityXPoints(), 1, -0.1},
		{"collinear alpha is linear", alphaPoints(), 0.5, 0.55},
	}
	for _, tc := range tests {
		c := MustNew(tc.points, Spline)
		if got := c.SampleNormalized(tc.u); math.Abs(got-tc.want) > 1e-5 {
			t.Errorf("%s: SampleNormalized(%.1f) = %f, want %f", tc.name, tc.u, got, tc.want)
		}
	}
}

func TestSplineAcceptsUnorderedKeys(t *testing.T) {
	c, err := New(velocityXPoints(), Spline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first, last := c.Domain(); first != 0 || last != 0 {
		t.Errorf("expected domain [0, 0], got [%f, %f]", first, last)
	}
	// A zero-width domain samples the path start.
	if got := c.Sample(3); got != 15 {
		t.Errorf("Sample(3) = %f, want 15", got)
	}

	if _, err := New([]Point{{0, 1}, {math.NaN(), 2}}, Spline); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected %v for NaN key, got %v", ErrNonFinite, err)
	}
}

func TestSplineClampsProgress(t *testing.T) {
	c := MustNew(sizePoints(), Spline)
	for _, u := range []float64{-1, math.NaN(), math.Inf(-1)} {
		if got := c.SampleNormalized(u); !approx(got, 10) {
			t.Errorf("SampleNormalized(%f) = %f, want 10", u, got)
		}
	}
	if got := c.SampleNormalized(2); !approx(got, 0.1) {
		t.Errorf("SampleNormalized(2) = %f, want 0.1", got)
	}
}

func TestSplineDegeneratePath(t *testing.T) {
	c := MustNew([]Point{{1, 4}, {1, 4}}, Spline)
	for _, u := range []float64{0, 0.5, 1} {
		if got := c.SampleNormalized(u); got != 4 {
			t.Errorf("SampleNormalized(%f) = %f, want 4", u, got)
		}
	}
}

func TestKeyProgress(t *testing.T) {
	for _, mode := range []Interpolation{Linear, Monotone, Spline} {
		c := MustNew(sizePoints(), mode)
		if got := c.KeyProgress(0); got != 0 {
			t.Errorf("%s: KeyProgress(0) = %f, want 0", mode, got)
		}
		if got := c.KeyProgress(c.Len() - 1); !approx(got, 1) {
			t.Errorf("%s: KeyProgress(last) = %f, want 1", mode, got)
		}
		prev := -1.0
		for k, p := range c.Points() {
			u := c.KeyProgress(k)
			if u <= prev {
				t.Errorf("%s: KeyProgress(%d) = %f not after %f", mode, k, u, prev)
			}
			prev = u
			if got := c.SampleNormalized(u); math.Abs(got-p.V) > 1e-3 {
				t.Errorf("%s: key %d sampled %f at its progress, want %f", mode, k, got, p.V)
			}
		}
	}

	if got := MustNew(alphaPoints(), Linear).KeyProgress(1); !approx(got, 1.0/3) {
		t.Errorf("linear KeyProgress(1) = %f, want 1/3", got)
	}
}

func TestPointsIsCopy(t *testing.T) {
	c := MustNew(alphaPoints(), Linear)
	pts := c.Points()
	pts[0].V = 42
	if got := c.Sample(0); got != 1.0 {
		t.Errorf("mutating Points() leaked into curve: Sample(0) = %f", got)
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		name    string
		want    Interpolation
		wantErr bool
	}{
		{"", Linear, false},
		{"linear", Linear, false},
		{"monotone", Monotone, false},
		{"cubic", Monotone, false},
		{"spline", Spline, false},
		{"catmull_rom", Spline, false},
		{"bezier", Linear, true},
	}
	for _, tc := range tests {
		got, err := ParseInterpolation(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseInterpolation(%q) error = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseInterpolation(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}
