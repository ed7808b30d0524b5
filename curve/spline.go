package curve

import (
	"math"
	"sort"
)

// arcDivisions is the number of chords used to tabulate a spline's length.
const arcDivisions = 200

// spline is a uniform Catmull-Rom path through the control points in the
// (T, V) plane, sampled by arc length. Keys need not increase: a path whose
// keys are all equal walks the values by their cumulative distance.
type spline struct {
	points []Point
	arc    []float64 // Cumulative chord length at parameter i/arcDivisions
}

func newSpline(points []Point) *spline {
	s := &spline{points: points, arc: make([]float64, arcDivisions+1)}
	lastT, lastV := s.at(0)
	for i := 1; i <= arcDivisions; i++ {
		t, v := s.at(float64(i) / arcDivisions)
		s.arc[i] = s.arc[i-1] + math.Hypot(t-lastT, v-lastV)
		lastT, lastV = t, v
	}
	return s
}

// at evaluates the path at parameter p in [0, 1]. End segments reuse the
// end point as their outer neighbour.
func (s *spline) at(p float64) (t, v float64) {
	n := len(s.points)
	x := float64(n-1) * p
	i := int(math.Floor(x))
	w := x - float64(i)

	p0 := s.points[max(i-1, 0)]
	p1 := s.points[min(i, n-1)]
	p2 := s.points[min(i+1, n-1)]
	p3 := s.points[min(i+2, n-1)]
	return catmullRom(w, p0.T, p1.T, p2.T, p3.T), catmullRom(w, p0.V, p1.V, p2.V, p3.V)
}

func catmullRom(w, p0, p1, p2, p3 float64) float64 {
	v0 := (p2 - p0) * 0.5
	v1 := (p3 - p1) * 0.5
	w2 := w * w
	w3 := w * w2
	return (2*p1-2*p2+v0+v1)*w3 + (-3*p1+3*p2-2*v0-v1)*w2 + v0*w + p1
}

// param maps progress u in [0, 1] along the path length to a path parameter.
func (s *spline) param(u float64) float64 {
	total := s.arc[arcDivisions]
	if total == 0 {
		return 0
	}
	target := u * total
	j := sort.SearchFloat64s(s.arc, target)
	if j > arcDivisions {
		return 1
	}
	if s.arc[j] == target {
		return float64(j) / arcDivisions
	}
	i := j - 1
	frac := (target - s.arc[i]) / (s.arc[j] - s.arc[i])
	return (float64(i) + frac) / arcDivisions
}

// sample returns the value at progress u along the path length.
func (s *spline) sample(u float64) float64 {
	_, v := s.at(s.param(u))
	return v
}

// progress returns the fraction of the path length at which control point
// k is reached.
func (s *spline) progress(k int) float64 {
	total := s.arc[arcDivisions]
	if total == 0 || len(s.points) < 2 {
		return 0
	}
	x := float64(k) / float64(len(s.points)-1) * arcDivisions
	i := int(math.Floor(x))
	if i >= arcDivisions {
		return 1
	}
	l := s.arc[i] + (x-float64(i))*(s.arc[i+1]-s.arc[i])
	return l / total
}
