// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/campfire/control"
	"github.com/pthm-cable/campfire/curve"
	"github.com/pthm-cable/campfire/fire"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Scene     SceneConfig     `yaml:"scene"`
	Sprite    SpriteConfig    `yaml:"sprite"`
	Particles ParticlesConfig `yaml:"particles"`
	Elements  ElementsConfig  `yaml:"elements"`
	Curves    CurvesConfig    `yaml:"curves"`
	Effects   EffectsConfig   `yaml:"effects"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	MSAA      bool   `yaml:"msaa"`
}

// CameraConfig holds the initial view and orbit control settings.
type CameraConfig struct {
	Position    fire.Vec3 `yaml:"position"`
	Target      fire.Vec3 `yaml:"target"`
	Fovy        float64   `yaml:"fovy"` // Vertical field of view in degrees
	MinDistance float64   `yaml:"min_distance"`
	MaxDistance float64   `yaml:"max_distance"`
	ZoomSpeed   float64   `yaml:"zoom_speed"`
	PanSpeed    float64   `yaml:"pan_speed"`
	RotateSpeed float64   `yaml:"rotate_speed"` // Radians per pixel of drag
}

// SkyboxConfig names one six-face background.
type SkyboxConfig struct {
	Name  string   `yaml:"name"`
	Label string   `yaml:"label"`
	Dir   string   `yaml:"dir"`
	Faces []string `yaml:"faces"` // posx, negx, posy, negy, posz, negz
}

// SceneConfig holds the static scene dressing.
type SceneConfig struct {
	ModelPath     string         `yaml:"model_path"`
	ModelScale    float64        `yaml:"model_scale"`
	FirePlace     fire.Vec3      `yaml:"fire_place"` // Initial model position
	Skyboxes      []SkyboxConfig `yaml:"skyboxes"`
	DefaultSkybox string         `yaml:"default_skybox"`
	ClearColour   fire.Colour    `yaml:"clear_colour"` // Used when no skybox could load
}

// SpriteConfig holds particle sprite rendering parameters.
type SpriteConfig struct {
	Texture    string  `yaml:"texture"`
	Blend      string  `yaml:"blend"`       // "normal" or "additive"
	WorldScale float64 `yaml:"world_scale"` // World units per unit of particle size
}

// ParticlesConfig holds emission defaults and the particle system geometry.
type ParticlesConfig struct {
	Defaults    fire.Params `yaml:"defaults"`
	Origin      fire.Vec3   `yaml:"origin"`
	FootprintX  float64     `yaml:"footprint_x"`
	FootprintZ  float64     `yaml:"footprint_z"`
	SpawnHeight float64     `yaml:"spawn_height"`
	AgeDivisor  float64     `yaml:"age_divisor"` // Lifetime drops by elapsed_ms / this per tick
	WhitenRate  float64     `yaml:"whiten_rate"`
	Capacity    int         `yaml:"capacity"` // Initial particle slice capacity
}

// ElementsConfig holds the burnable element palette.
type ElementsConfig struct {
	Default string            `yaml:"default"` // Empty keeps particles.defaults.colour
	Palette []control.Element `yaml:"palette"`
}

// CurveConfig is one control-point curve.
type CurveConfig struct {
	Interpolation string        `yaml:"interpolation"` // linear, monotone, spline
	Points        []curve.Point `yaml:"points"`
}

// CurvesConfig holds the curves sampled during mutation.
type CurvesConfig struct {
	Alpha     CurveConfig `yaml:"alpha"`
	Size      CurveConfig `yaml:"size"`
	VelocityX CurveConfig `yaml:"velocity_x"`
	VelocityY CurveConfig `yaml:"velocity_y"`
}

// DriftConfig holds the wind drift rule parameters.
type DriftConfig struct {
	Enabled     bool    `yaml:"enabled"`
	MaxLifetime float64 `yaml:"max_lifetime"`
	Scale       float64 `yaml:"scale"`
}

// SparkConfig holds the spark/smoke rule parameters.
type SparkConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Chance      float64 `yaml:"chance"`
	SmokeChance float64 `yaml:"smoke_chance"`
	Lift        float64 `yaml:"lift"`
}

// FlourishConfig holds the float/rise/sway rule parameters.
type FlourishConfig struct {
	Enabled          bool    `yaml:"enabled"`
	FloatMinLifetime float64 `yaml:"float_min_lifetime"`
	FloatChance      float64 `yaml:"float_chance"`
	FloatScale       float64 `yaml:"float_scale"`
	RiseMinLifetime  float64 `yaml:"rise_min_lifetime"`
	RiseChance       float64 `yaml:"rise_chance"`
	RiseLift         float64 `yaml:"rise_lift"`
	SwayChance       float64 `yaml:"sway_chance"`
	SwayScale        float64 `yaml:"sway_scale"`
}

// EffectsConfig holds the stochastic effect rules, applied in the order
// drift, spark, flourish.
type EffectsConfig struct {
	Drift    DriftConfig    `yaml:"drift"`
	Spark    SparkConfig    `yaml:"spark"`
	Flourish FlourishConfig `yaml:"flourish"`
}

// HeadlessConfig holds settings for running without a window.
type HeadlessConfig struct {
	FrameMS float64 `yaml:"frame_ms"` // Fixed elapsed time per tick
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Ticks per population window
	BookmarkHistorySize int `yaml:"bookmark_history_size"` // Windows kept for bookmark detection
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Ticks per perf window
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	SmokeBurst SmokeBurstConfig `yaml:"smoke_burst"`
	SteadyBurn SteadyBurnConfig `yaml:"steady_burn"`
}

// SmokeBurstConfig holds smoke burst detection parameters.
type SmokeBurstConfig struct {
	Multiplier  float64 `yaml:"multiplier"`   // Smoke fraction vs rolling average
	MinFraction float64 `yaml:"min_fraction"` // Smoke fraction floor
}

// SteadyBurnConfig holds steady burn detection parameters.
type SteadyBurnConfig struct {
	MinLive int     `yaml:"min_live"` // Particles required to count as burning
	MaxCV   float64 `yaml:"max_cv"`   // Coefficient of variation of live_mean
	Windows int     `yaml:"windows"`  // Consecutive steady windows before triggering
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32   float32        // Screen.Width as float32
	ScreenH32   float32        // Screen.Height as float32
	SkyboxIndex map[string]int // name -> index into Scene.Skyboxes
	SkyboxNames []string       // Scene.Skyboxes names in order
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if len(c.Elements.Palette) == 0 {
		c.Elements.Palette = control.DefaultElements()
	}

	// Missing face lists fall back to the standard cubemap order
	for i := range c.Scene.Skyboxes {
		sb := &c.Scene.Skyboxes[i]
		if len(sb.Faces) == 0 {
			sb.Faces = []string{"posx.jpg", "negx.jpg", "posy.jpg", "negy.jpg", "posz.jpg", "negz.jpg"}
		}
		if sb.Label == "" {
			sb.Label = sb.Name
		}
	}

	c.Derived.SkyboxIndex = make(map[string]int, len(c.Scene.Skyboxes))
	c.Derived.SkyboxNames = make([]string, 0, len(c.Scene.Skyboxes))
	for i, sb := range c.Scene.Skyboxes {
		c.Derived.SkyboxIndex[sb.Name] = i
		c.Derived.SkyboxNames = append(c.Derived.SkyboxNames, sb.Name)
	}
}

// Validate checks values the rest of the program cannot recover from.
func (c *Config) Validate() error {
	if err := c.Particles.Defaults.Validate(); err != nil {
		return fmt.Errorf("particles.defaults: %w", err)
	}
	if c.Particles.AgeDivisor <= 0 {
		return fmt.Errorf("particles.age_divisor must be positive, got %g", c.Particles.AgeDivisor)
	}
	if c.Headless.FrameMS < 0 {
		return fmt.Errorf("headless.frame_ms must not be negative, got %g", c.Headless.FrameMS)
	}
	for i, sb := range c.Scene.Skyboxes {
		if len(sb.Faces) != 6 {
			return fmt.Errorf("scene.skyboxes[%d] %q: need 6 faces, got %d", i, sb.Name, len(sb.Faces))
		}
	}
	if c.Scene.DefaultSkybox != "" {
		if _, ok := c.Derived.SkyboxIndex[c.Scene.DefaultSkybox]; !ok {
			return fmt.Errorf("scene.default_skybox %q is not configured", c.Scene.DefaultSkybox)
		}
	}
	if _, err := c.Curves.Build(); err != nil {
		return err
	}
	return nil
}

// Build constructs a curve from its config.
func (c CurveConfig) Build() (*curve.Curve, error) {
	mode, err := curve.ParseInterpolation(c.Interpolation)
	if err != nil {
		return nil, err
	}
	return curve.New(c.Points, mode)
}

// Build constructs the fire curves.
func (c CurvesConfig) Build() (fire.Curves, error) {
	var out fire.Curves
	for _, b := range []struct {
		name string
		cfg  CurveConfig
		dst  **curve.Curve
	}{
		{"alpha", c.Alpha, &out.Alpha},
		{"size", c.Size, &out.Size},
		{"velocity_x", c.VelocityX, &out.VelocityX},
		{"velocity_y", c.VelocityY, &out.VelocityY},
	} {
		cv, err := b.cfg.Build()
		if err != nil {
			return fire.Curves{}, fmt.Errorf("curves.%s: %w", b.name, err)
		}
		*b.dst = cv
	}
	return out, nil
}

// Rules returns the enabled effect rules in application order.
func (c EffectsConfig) Rules() []fire.Rule {
	var rules []fire.Rule
	if c.Drift.Enabled {
		rules = append(rules, fire.DriftRule{MaxLifetime: c.Drift.MaxLifetime, Scale: c.Drift.Scale})
	}
	if c.Spark.Enabled {
		rules = append(rules, fire.SparkRule{Chance: c.Spark.Chance, SmokeChance: c.Spark.SmokeChance, Lift: c.Spark.Lift})
	}
	if f := c.Flourish; f.Enabled {
		rules = append(rules, fire.FlourishRule{
			FloatMinLifetime: f.FloatMinLifetime,
			FloatChance:      f.FloatChance,
			FloatScale:       f.FloatScale,
			RiseMinLifetime:  f.RiseMinLifetime,
			RiseChance:       f.RiseChance,
			RiseLift:         f.RiseLift,
			SwayChance:       f.SwayChance,
			SwayScale:        f.SwayScale,
		})
	}
	return rules
}

// FireOptions assembles particle system options from the particles, curves
// and effects sections.
func (c *Config) FireOptions() (fire.Options, error) {
	curves, err := c.Curves.Build()
	if err != nil {
		return fire.Options{}, err
	}
	p := c.Particles
	return fire.Options{
		Origin:      p.Origin,
		FootprintX:  p.FootprintX,
		FootprintZ:  p.FootprintZ,
		SpawnHeight: p.SpawnHeight,
		AgeDivisor:  p.AgeDivisor,
		WhitenRate:  p.WhitenRate,
		Curves:      curves,
		Rules:       c.Effects.Rules(),
		Capacity:    p.Capacity,
	}, nil
}

// Settings builds the initial GUI-controlled settings.
func (c *Config) Settings() (*control.Settings, error) {
	s, err := control.NewSettings(
		c.Particles.Defaults,
		c.Elements.Palette,
		c.Derived.SkyboxNames,
		c.Elements.Default,
		c.Scene.DefaultSkybox,
	)
	if err != nil {
		return nil, err
	}
	s.CameraPosition = c.Camera.Position
	s.FirePlacePosition = c.Scene.FirePlace
	return s, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
