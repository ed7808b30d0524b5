package fire

import (
	"fmt"

	"github.com/pthm-cable/campfire/curve"
)

// Curves bundles the hand-authored curves that drive particle mutation.
// All are sampled by normalized particle progress.
type Curves struct {
	Alpha     *curve.Curve
	Size      *curve.Curve
	VelocityX *curve.Curve // Lateral sway, applied to Z
	VelocityY *curve.Curve // Vertical lift for sparks
}

// Validate checks that every curve is present.
func (c Curves) Validate() error {
	named := []struct {
		name string
		cv   *curve.Curve
	}{
		{"alpha", c.Alpha},
		{"size", c.Size},
		{"velocity_x", c.VelocityX},
		{"velocity_y", c.VelocityY},
	}
	for _, n := range named {
		if n.cv == nil {
			return fmt.Errorf("%s curve: %w", n.name, curve.ErrEmpty)
		}
	}
	return nil
}

// DefaultCurves returns the tuned fire look. The lateral sway keys share
// t = 0, so its path runs through the values in order by their distance.
func DefaultCurves() Curves {
	return Curves{
		Alpha: curve.MustNew([]curve.Point{
			{T: 0, V: 1.0}, {T: 1, V: 0.7}, {T: 2, V: 0.4}, {T: 3, V: 0.1},
		}, curve.Spline),
		Size: curve.MustNew([]curve.Point{
			{T: 1, V: 10}, {T: 2, V: 8}, {T: 3, V: 5}, {T: 4, V: 3},
			{T: 5, V: 1}, {T: 6, V: 0.2}, {T: 7, V: 0.12}, {T: 8, V: 0.1},
		}, curve.Spline),
		VelocityX: curve.MustNew([]curve.Point{
			{T: 0, V: 15}, {T: 0, V: -10}, {T: 0, V: 1},
			{T: 0, V: -1}, {T: 0, V: 0.1}, {T: 0, V: -0.1},
		}, curve.Spline),
		VelocityY: curve.MustNew([]curve.Point{
			{T: 0, V: 10}, {T: 0.1, V: 8}, {T: 0.2, V: 7}, {T: 0.3, V: 6},
			{T: 0.4, V: 5}, {T: 0.6, V: 4}, {T: 0.7, V: 3}, {T: 0.8, V: 2},
			{T: 0.9, V: 1},
		}, curve.Spline),
	}
}
