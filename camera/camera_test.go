package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/campfire/fire"
)

var (
	defaultPos    = fire.Vec3{X: 1.8754, Y: 1.69, Z: -2.4}
	defaultTarget = fire.Vec3{X: 2, Y: 1.69, Z: -2.4}
)

func nearVec(a, b fire.Vec3, tol float64) bool {
	return a.Dist(b) <= tol
}

func TestNew(t *testing.T) {
	cam := New(defaultPos, defaultTarget, 60)

	if !nearVec(cam.Position(), defaultPos, 1e-9) {
		t.Errorf("expected eye at %+v, got %+v", defaultPos, cam.Position())
	}
	if cam.Target != defaultTarget {
		t.Errorf("expected target %+v, got %+v", defaultTarget, cam.Target)
	}
	if math.Abs(cam.Distance-0.1246) > 1e-9 {
		t.Errorf("expected distance 0.1246, got %f", cam.Distance)
	}
	if cam.Fovy != 60 {
		t.Errorf("expected fovy 60, got %f", cam.Fovy)
	}
}

func TestFromPositionRoundtrip(t *testing.T) {
	cam := New(defaultPos, defaultTarget, 60)

	testCases := []fire.Vec3{
		{X: 3, Y: 2, Z: 1},
		{X: -2, Y: -1, Z: 4},
		{X: 2.5, Y: 3, Z: -2.4},
		{X: 0, Y: 1.69, Z: 0},
	}
	for _, pos := range testCases {
		cam.SetPosition(pos)
		if got := cam.Position(); !nearVec(got, pos, 1e-9) {
			t.Errorf("roundtrip failed: %+v -> %+v", pos, got)
		}
		if cam.Target != defaultTarget {
			t.Errorf("SetPosition moved target to %+v", cam.Target)
		}
	}
}

func TestForwardPointsAtTarget(t *testing.T) {
	cam := New(fire.Vec3{X: 0, Y: 0, Z: 5}, fire.Vec3{}, 60)
	fwd := cam.Forward()
	if !nearVec(fwd, fire.Vec3{Z: -1}, 1e-9) {
		t.Errorf("expected forward (0,0,-1), got %+v", fwd)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(fire.Vec3{Z: 5}, fire.Vec3{}, 60)

	cam.Zoom(0.5)
	if math.Abs(cam.Distance-2.5) > 1e-9 {
		t.Errorf("expected distance 2.5, got %f", cam.Distance)
	}

	cam.Zoom(1e-6) // Below min
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MinDistance, cam.Distance)
	}

	cam.Zoom(1e9) // Above max
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MaxDistance, cam.Distance)
	}

	cam.Zoom(-1)
	cam.Zoom(math.NaN())
	if cam.Distance != cam.MaxDistance {
		t.Errorf("invalid factors should be ignored, got %f", cam.Distance)
	}
}

func TestZoomStepsDirection(t *testing.T) {
	cam := New(fire.Vec3{Z: 5}, fire.Vec3{}, 60)
	cam.ZoomSteps(1)
	if cam.Distance >= 5 {
		t.Errorf("positive wheel should move closer, got %f", cam.Distance)
	}
	cam.ZoomSteps(-2)
	if cam.Distance <= 5 {
		t.Errorf("negative wheel should move away, got %f", cam.Distance)
	}
}

func TestRotateClampsPitch(t *testing.T) {
	cam := New(fire.Vec3{Z: 5}, fire.Vec3{}, 60)

	cam.Rotate(0, 10)
	if cam.Pitch != maxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", maxPitch, cam.Pitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch != -maxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", -maxPitch, cam.Pitch)
	}

	// Distance is preserved while orbiting
	if d := cam.Position().Dist(cam.Target); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5 after rotate, got %f", d)
	}
}

func TestPanMovesEyeAndTarget(t *testing.T) {
	cam := New(fire.Vec3{Z: 5}, fire.Vec3{}, 60)
	before := cam.Position().Sub(cam.Target)

	cam.Pan(0.1, 0)
	if cam.Target.X == 0 {
		t.Error("horizontal pan should move target along X")
	}
	if cam.Target.Y != 0 {
		t.Errorf("horizontal pan moved target vertically: %f", cam.Target.Y)
	}

	cam.Pan(0, 0.1)
	if cam.Target.Y <= 0 {
		t.Errorf("vertical pan should raise target, got %f", cam.Target.Y)
	}

	after := cam.Position().Sub(cam.Target)
	if !nearVec(before, after, 1e-9) {
		t.Errorf("pan changed eye offset: %+v -> %+v", before, after)
	}
}

func TestReset(t *testing.T) {
	cam := New(defaultPos, defaultTarget, 60)
	cam.Rotate(1, 0.5)
	cam.Zoom(3)
	cam.Pan(0.2, 0.2)

	cam.Reset()

	if !nearVec(cam.Position(), defaultPos, 1e-9) {
		t.Errorf("expected eye %+v, got %+v", defaultPos, cam.Position())
	}
	if cam.Target != defaultTarget {
		t.Errorf("expected target %+v, got %+v", defaultTarget, cam.Target)
	}
}
