// Package render is the boundary to the host's bake renderer.
package render

import (
	"context"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/texture"
)

// Mode selects what a bake captures.
type Mode string

const (
	// Combined captures the shader linked into the output surface.
	Combined Mode = "COMBINED"
	// Normal captures the tangent space shading normal.
	Normal Mode = "NORMAL"
)

const (
	EngineCycles     = "CYCLES"
	TargetImage      = "IMAGE_TEXTURES"
	ShadingWireframe = "WIREFRAME"
)

// State is the render and bake configuration the pipeline touches.
type State struct {
	Engine   string
	Samples  int
	Adaptive bool
	Denoise  bool
	Multires bool

	SelectedToActive bool
	PassDirect       bool
	PassIndirect     bool
	Target           string
	Margin           int
	UseClear         bool

	ViewTransform string
	Look          string
	Exposure      float32
	Gamma         float32

	FileFormat  texture.Format
	Quality     int
	Compression int

	// Shading is the viewport shading type.
	Shading string
}

// Request is one bake of the surface's material into an image.
type Request struct {
	Mode    Mode
	Surface host.Surface
	Target  texture.Image
}

// Renderer bakes materials into images.
type Renderer interface {
	State() State
	SetState(s State)
	// Bake renders the surface material into the target's pixels. The
	// caller saves the image.
	Bake(ctx context.Context, req Request) error
}

// Scope applies change to the renderer's state and returns a function that
// restores the previous state. Callers defer the restore so it runs on every
// return path, panics included.
func Scope(r Renderer, change func(*State)) (restore func()) {
	prev := r.State()
	next := prev
	change(&next)
	r.SetState(next)
	return func() { r.SetState(prev) }
}
