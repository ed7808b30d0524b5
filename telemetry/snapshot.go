package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/campfire/fire"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the scene state needed to resume a run.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Tick      int32   `json:"tick"`
	SimTimeMS float64 `json:"sim_time_ms"`

	Settings  SettingsState   `json:"settings"`
	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// SettingsState holds the GUI-controlled settings.
type SettingsState struct {
	Params            fire.Params `json:"params"`
	Element           string      `json:"element,omitempty"`
	Skybox            string      `json:"skybox"`
	CameraPosition    [3]float64  `json:"camera_position"`
	FirePlacePosition [3]float64  `json:"fire_place_position"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	Position    [3]float64 `json:"position"`
	Size        float64    `json:"size"`
	CurrentSize float64    `json:"current_size"`
	Colour      [3]float64 `json:"colour"`
	Alpha       float64    `json:"alpha"`
	Lifetime    float64    `json:"lifetime"`
	MaxLife     float64    `json:"max_life"`
	Rotation    float64    `json:"rotation"`
	Velocity    [3]float64 `json:"velocity"`
}

// VecArray converts a vector to its JSON form.
func VecArray(v fire.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// ArrayVec converts the JSON form back to a vector.
func ArrayVec(a [3]float64) fire.Vec3 {
	return fire.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// NewParticleStates captures particles in their JSON form.
func NewParticleStates(particles []fire.Particle) []ParticleState {
	out := make([]ParticleState, len(particles))
	for i := range particles {
		p := &particles[i]
		out[i] = ParticleState{
			Position:    VecArray(p.Position),
			Size:        p.Size,
			CurrentSize: p.CurrentSize,
			Colour:      [3]float64{p.Colour.R, p.Colour.G, p.Colour.B},
			Alpha:       p.Alpha,
			Lifetime:    p.Lifetime,
			MaxLife:     p.MaxLife,
			Rotation:    p.Rotation,
			Velocity:    VecArray(p.Velocity),
		}
	}
	return out
}

// ToParticle converts the JSON form back to a particle.
func (ps ParticleState) ToParticle() fire.Particle {
	return fire.Particle{
		Position:    ArrayVec(ps.Position),
		Size:        ps.Size,
		CurrentSize: ps.CurrentSize,
		Colour:      fire.Colour{R: ps.Colour[0], G: ps.Colour[1], B: ps.Colour[2]},
		Alpha:       ps.Alpha,
		Lifetime:    ps.Lifetime,
		MaxLife:     ps.MaxLife,
		Rotation:    ps.Rotation,
		Velocity:    ArrayVec(ps.Velocity),
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
