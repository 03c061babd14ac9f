// Package bake turns one material's procedural shader graph into flat
// images for the active target, packs them into the target's channel
// layouts and rewires the material to use them.
package bake

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/config"
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/render"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/sizing"
	"cc3-texbaker/internal/state"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// Baker bakes materials with one set of settings.
type Baker struct {
	Settings *config.Settings
	Images   texture.Store
	Renderer render.Renderer
	Sizes    *sizing.Detector
	log      *logger.Logger
}

// New creates a Baker. store supplies per-material size settings.
func New(settings *config.Settings, images texture.Store, r render.Renderer, store *state.Store, log *logger.Logger) *Baker {
	log = logger.OrNop(log)
	return &Baker{
		Settings: settings,
		Images:   images,
		Renderer: r,
		Sizes:    &sizing.Detector{Settings: settings, State: store, Log: log},
		log:      log,
	}
}

// Outputs are the shader parameters measured while baking that the
// reconnected material needs to look like the source.
type Outputs struct {
	AOStrength       float32
	SSSRadius        mgl32.Vec3
	BumpDistance     float32
	NormalStrength   float32
	MicroNormalScale mgl32.Vec3
	RoughnessRemap   float32
}

func defaultOutputs() Outputs {
	return Outputs{
		AOStrength:       1,
		SSSRadius:        mgl32.Vec3{1, 1, 1},
		BumpDistance:     1,
		NormalStrength:   1,
		MicroNormalScale: mgl32.Vec3{1, 1, 1},
	}
}

// Baked is the result of baking one material.
type Baked struct {
	Material host.Material
	Images   map[targets.Map]texture.Image
	Outputs  Outputs
}

// job is the state of one material bake.
type job struct {
	*Baker
	ctx     context.Context
	surface host.Surface
	mat     host.Material
	source  host.Material
	g       *shader.Graph
	bsdf    shader.Node
	out     shader.Node
	name    string
	maps    targets.Maps
	nodes   map[targets.Map]shader.Node
	outputs Outputs
}

// Material bakes mat, the working copy of source, on surface. Sizes are
// measured on source. On return mat is wired to the baked images.
func (b *Baker) Material(ctx context.Context, surface host.Surface, mat, source host.Material) (*Baked, error) {
	if mat == nil || mat.Tree() == nil {
		return nil, fmt.Errorf("bake: material has no node tree")
	}
	g := shader.NewGraph(mat.Tree(), b.log)
	j := &job{
		Baker:   b,
		ctx:     ctx,
		surface: surface,
		mat:     mat,
		source:  source,
		g:       g,
		bsdf:    g.Principled(),
		out:     g.Output(),
		name:    StripName(mat.Name()),
		maps:    b.Settings.Target.Maps(),
		nodes:   make(map[targets.Map]shader.Node),
		outputs: defaultOutputs(),
	}
	if j.bsdf == nil {
		return nil, fmt.Errorf("bake %s: no principled shader", mat.Name())
	}
	if j.out == nil {
		return nil, fmt.Errorf("bake %s: no material output", mat.Name())
	}
	surface.SetMaterial(mat)

	b.log.Info("baking material", "target", b.Settings.Target, "material", mat.Name())

	if err := j.bakeChannels(); err != nil {
		return nil, fmt.Errorf("bake %s: %w", mat.Name(), err)
	}
	if err := j.postProcess(); err != nil {
		return nil, fmt.Errorf("bake %s: %w", mat.Name(), err)
	}
	j.reconnect()

	baked := &Baked{Material: mat, Images: make(map[targets.Map]texture.Image), Outputs: j.outputs}
	for m, n := range j.nodes {
		if n.Image() != nil {
			baked.Images[m] = n.Image()
		}
	}
	return baked, nil
}
