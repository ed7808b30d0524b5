package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/skybox.vs
var skyboxVS string

//go:embed shaders/skybox.fs
var skyboxFS string

// ErrFaceCount is returned when a skybox is not given exactly six faces.
var ErrFaceCount = errors.New("renderer: skybox needs 6 faces")

// FacePaths joins face file names onto dir, in cubemap order
// (posx, negx, posy, negy, posz, negz).
func FacePaths(dir string, faces []string) ([]string, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("%w, got %d", ErrFaceCount, len(faces))
	}
	paths := make([]string, len(faces))
	for i, f := range faces {
		paths[i] = filepath.Join(dir, f)
	}
	return paths, nil
}

// SkyboxRenderer draws the selected six-face background on an inward cube.
// Backgrounds that fail to load are skipped and the clear colour shows
// instead.
type SkyboxRenderer struct {
	cube        rl.Model
	shader      rl.Shader
	cubemaps    map[string]rl.Texture2D
	selected    string
	clear       color.RGBA
	initialized bool
}

// NewSkyboxRenderer creates a skybox renderer with a fallback clear colour.
func NewSkyboxRenderer(clear color.RGBA) *SkyboxRenderer {
	return &SkyboxRenderer{
		cubemaps: make(map[string]rl.Texture2D),
		clear:    clear,
	}
}

// Init builds the cube and shader (must be called after raylib window is created).
func (s *SkyboxRenderer) Init() {
	if s.initialized {
		return
	}
	s.cube = rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1))
	s.shader = rl.LoadShaderFromMemory(skyboxVS, skyboxFS)

	// DrawMesh binds the cubemap and sets this sampler itself
	s.shader.UpdateLocation(rl.ShaderLocMapCubemap, rl.GetShaderLocation(s.shader, "environmentMap"))

	mats := s.cube.GetMaterials()
	mats[0].Shader = s.shader
	s.initialized = true
}

// Load reads six face images, stacks them into a vertical strip and uploads
// the cubemap under name. All faces must be square and the same size.
func (s *SkyboxRenderer) Load(name, dir string, faces []string) error {
	if !s.initialized {
		s.Init()
	}
	paths, err := FacePaths(dir, faces)
	if err != nil {
		return err
	}

	var size int32
	images := make([]*rl.Image, 0, len(paths))
	defer func() {
		for _, img := range images {
			rl.UnloadImage(img)
		}
	}()
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("skybox %s: %w", name, err)
		}
		img := rl.LoadImage(p)
		if !rl.IsImageValid(img) {
			return fmt.Errorf("skybox %s: cannot decode %s", name, p)
		}
		images = append(images, img)
		if img.Width != img.Height {
			return fmt.Errorf("skybox %s: face %s is %dx%d, not square", name, p, img.Width, img.Height)
		}
		if size == 0 {
			size = img.Width
		} else if img.Width != size {
			return fmt.Errorf("skybox %s: face %s is %d px, want %d", name, p, img.Width, size)
		}
		rl.ImageFormat(img, rl.UncompressedR8g8b8a8)
	}

	strip := rl.GenImageColor(int(size), int(size)*len(images), rl.Black)
	defer rl.UnloadImage(strip)
	src := rl.NewRectangle(0, 0, float32(size), float32(size))
	for i, img := range images {
		dst := rl.NewRectangle(0, float32(int32(i)*size), float32(size), float32(size))
		rl.ImageDraw(strip, img, src, dst, rl.White)
	}

	tex := rl.LoadTextureCubemap(strip, rl.CubemapLayoutLineVertical)
	if !rl.IsTextureValid(tex) {
		return fmt.Errorf("skybox %s: cubemap upload failed", name)
	}
	if old, ok := s.cubemaps[name]; ok {
		rl.UnloadTexture(old)
	}
	s.cubemaps[name] = tex
	slog.Info("skybox loaded", "name", name, "face_px", size)
	return nil
}

// Select switches the drawn background. Unknown or unloaded names fall back
// to the clear colour.
func (s *SkyboxRenderer) Select(name string) {
	if name == s.selected {
		return
	}
	s.selected = name
	if _, ok := s.cubemaps[name]; !ok {
		slog.Warn("skybox not loaded, using clear colour", "name", name)
	}
}

// Loaded reports whether name has a cubemap.
func (s *SkyboxRenderer) Loaded(name string) bool {
	_, ok := s.cubemaps[name]
	return ok
}

// Draw clears the frame and, inside BeginMode3D, draws the selected cubemap.
func (s *SkyboxRenderer) Draw() {
	rl.ClearBackground(s.clear)

	tex, ok := s.cubemaps[s.selected]
	if !ok || !s.initialized {
		return
	}
	mats := s.cube.GetMaterials()
	mats[0].GetMap(rl.MapCubemap).Texture = tex

	rl.DisableBackfaceCulling()
	rl.DisableDepthMask()
	rl.DrawModel(s.cube, rl.Vector3{}, 1, rl.White)
	rl.EnableDepthMask()
	rl.EnableBackfaceCulling()
}

// Unload frees resources.
func (s *SkyboxRenderer) Unload() {
	for name, tex := range s.cubemaps {
		rl.UnloadTexture(tex)
		delete(s.cubemaps, name)
	}
	if s.initialized {
		// UnloadModel frees material maps but not shaders
		rl.UnloadModel(s.cube)
		rl.UnloadShader(s.shader)
		s.initialized = false
	}
}
