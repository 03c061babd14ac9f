// Package raster is a software bake renderer. It evaluates a material's
// node graph once per texel of the target image, over the unit UV square
// of the bake surface.
package raster

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/render"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/texture"
)

// Renderer implements render.Renderer.
type Renderer struct {
	state render.State
	log   *logger.Logger

	// Bakes counts completed bake calls.
	Bakes int
}

// DefaultState is the render state of a fresh renderer.
func DefaultState() render.State {
	return render.State{
		Engine:        "BLENDER_EEVEE",
		Samples:       64,
		Adaptive:      true,
		Denoise:       true,
		PassDirect:    true,
		PassIndirect:  true,
		Target:        render.TargetImage,
		Margin:        16,
		ViewTransform: "Filmic",
		Look:          "None",
		Exposure:      0,
		Gamma:         1,
		FileFormat:    texture.PNG,
		Quality:       90,
		Compression:   15,
		Shading:       "SOLID",
	}
}

// New creates a renderer in the default state.
func New(log *logger.Logger) *Renderer {
	return &Renderer{state: DefaultState(), log: logger.OrNop(log)}
}

func (r *Renderer) State() render.State     { return r.state }
func (r *Renderer) SetState(s render.State) { r.state = s }

// Bake renders the surface material into req.Target.
func (r *Renderer) Bake(ctx context.Context, req render.Request) error {
	if r.state.Engine != render.EngineCycles {
		return fmt.Errorf("raster: bake: engine %s cannot bake, need %s", r.state.Engine, render.EngineCycles)
	}
	if r.state.Target != render.TargetImage {
		return fmt.Errorf("raster: bake: unsupported bake target %s", r.state.Target)
	}
	if req.Target == nil {
		return fmt.Errorf("raster: bake: no target image")
	}
	if req.Surface == nil || req.Surface.Material() == nil || req.Surface.Material().Tree() == nil {
		return fmt.Errorf("raster: bake %s: bake surface has no material", req.Target.Name())
	}

	w, h := req.Target.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("raster: bake %s: zero-size target", req.Target.Name())
	}

	mat := req.Surface.Material()
	g := shader.NewGraph(mat.Tree(), r.log)
	e := newEvaluator(g, w, h)
	texel, err := r.shade(g, e, req.Mode)
	if err != nil {
		return fmt.Errorf("raster: bake %s: %w", req.Target.Name(), err)
	}

	fb := NewFrameBuffer(w, h)
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("raster: bake %s: %w", req.Target.Name(), err)
		}
		v := (float32(y) + 0.5) / float32(h)
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			fb.Set(x, y, texel(mgl32.Vec2{u, v}))
		}
	}

	if err := req.Target.SetPixels(fb.Color); err != nil {
		return fmt.Errorf("raster: bake: %w", err)
	}
	r.Bakes++
	r.log.Debug("baked", "material", mat.Name(), "image", req.Target.Name(), "mode", req.Mode, "size", w)
	return nil
}

// shade returns the per-texel function for mode.
func (r *Renderer) shade(g *shader.Graph, e *evaluator, mode render.Mode) (func(mgl32.Vec2) mgl32.Vec4, error) {
	out := g.Output()
	if out == nil {
		return nil, fmt.Errorf("material has no output node")
	}

	switch mode {
	case render.Combined:
		src, socket := g.Source(out, "Surface")
		exposure := math32.Pow(2, r.state.Exposure)
		gamma := r.state.Gamma
		return func(uv mgl32.Vec2) mgl32.Vec4 {
			if src == nil {
				return black
			}
			c := e.output(src, socket, uv)
			for k := 0; k < 3; k++ {
				c[k] = tone(c[k], exposure, gamma)
			}
			c[3] = 1
			return c
		}, nil

	case render.Normal:
		bsdf, _ := g.Source(out, "Surface")
		if bsdf == nil || bsdf.Kind() != shader.Principled {
			bsdf = g.Principled()
		}
		return func(uv mgl32.Vec2) mgl32.Vec4 {
			n := flat
			if src, socket := g.Source(bsdf, "Normal"); src != nil {
				n = normalize(e.output(src, socket, uv).Vec3())
			}
			return mgl32.Vec4{n[0]*0.5 + 0.5, n[1]*0.5 + 0.5, n[2]*0.5 + 0.5, 1}
		}, nil
	}
	return nil, fmt.Errorf("unsupported bake mode %s", mode)
}

// tone applies exposure and display gamma.
func tone(v, exposure, gamma float32) float32 {
	v *= exposure
	if gamma > 0 && gamma != 1 && v > 0 {
		v = math32.Pow(v, 1/gamma)
	}
	return v
}
