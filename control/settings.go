// Package control owns the live scene settings and the command queue through
// which the debug GUI changes them. Commands are drained once per tick, before
// the particle step reads the settings.
package control

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/campfire/fire"
)

var (
	// ErrUnknownElement is returned when selecting an element not in the palette.
	ErrUnknownElement = errors.New("control: unknown element")
	// ErrUnknownSkybox is returned when selecting a skybox that is not configured.
	ErrUnknownSkybox = errors.New("control: unknown skybox")
	// ErrOutOfRange is returned when a command value falls outside its slider range.
	ErrOutOfRange = errors.New("control: value out of range")
)

// Element is a burnable element and the flame colour it produces.
type Element struct {
	Name   string      `yaml:"name"`
	Colour fire.Colour `yaml:"colour"`
}

// DefaultElements returns the built-in palette.
func DefaultElements() []Element {
	return []Element{
		{Name: "rubidium", Colour: fire.Colour{R: 0.498, G: 0, B: 1}},
		{Name: "copper", Colour: fire.Colour{R: 0, G: 0.95, B: 1}},
		{Name: "potassium", Colour: fire.Colour{R: 1, G: 0, B: 0.7569}},
		{Name: "calcium", Colour: fire.Colour{R: 1, G: 0.94, B: 0}},
	}
}

// Settings is the single owned copy of everything the GUI can change.
// Only commands drained by a Queue mutate it.
type Settings struct {
	Params fire.Params

	// Element is the selected palette entry. Empty means none selected and
	// Params.Colour keeps its configured default.
	Element string
	Skybox  string

	CameraPosition    fire.Vec3
	FirePlacePosition fire.Vec3

	Elements []Element
	Skyboxes []string
}

// NewSettings builds settings and applies the initial element and skybox
// selections. An empty element leaves the configured colour in place.
func NewSettings(params fire.Params, elements []Element, skyboxes []string, element, skybox string) (*Settings, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Settings{
		Params:   params,
		Elements: append([]Element(nil), elements...),
		Skyboxes: append([]string(nil), skyboxes...),
	}
	if element != "" {
		if err := s.selectElement(element); err != nil {
			return nil, err
		}
	}
	if skybox != "" {
		if err := s.selectSkybox(skybox); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LookupElement finds a palette entry by name.
func (s *Settings) LookupElement(name string) (Element, bool) {
	for _, e := range s.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

// HasSkybox reports whether name is a configured skybox.
func (s *Settings) HasSkybox(name string) bool {
	for _, sb := range s.Skyboxes {
		if sb == name {
			return true
		}
	}
	return false
}

func (s *Settings) selectElement(name string) error {
	e, ok := s.LookupElement(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownElement, name)
	}
	s.Element = e.Name
	s.Params.Colour = e.Colour
	return nil
}

func (s *Settings) selectSkybox(name string) error {
	if !s.HasSkybox(name) {
		return fmt.Errorf("%w: %q", ErrUnknownSkybox, name)
	}
	s.Skybox = name
	return nil
}
