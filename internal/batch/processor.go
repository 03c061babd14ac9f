// Package batch drives material bakes over the selected objects and runs
// the bake operations.
package batch

import (
	"context"
	"fmt"
	"time"

	"cc3-texbaker/internal/bake"
	"cc3-texbaker/internal/config"
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/render"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/state"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// Driver holds the shared resources for a bake run.
type Driver struct {
	Scene    host.Scene
	Images   texture.Store
	Renderer render.Renderer
	State    *state.Store
	Settings *config.Settings
	Baker    *bake.Baker
	log      *logger.Logger
}

// NewDriver creates a Driver baking with settings.
func NewDriver(scn host.Scene, images texture.Store, r render.Renderer, store *state.Store, settings *config.Settings, log *logger.Logger) *Driver {
	log = logger.OrNop(log)
	return &Driver{
		Scene:    scn,
		Images:   images,
		Renderer: r,
		State:    store,
		Settings: settings,
		Baker:    bake.New(settings, images, r, store, log),
		log:      log,
	}
}

// Result holds the outcome of baking one source material.
type Result struct {
	Material string
	Baked    string
	UID      int
	Images   map[targets.Map]string
	Outputs  bake.Outputs
	Blend    string
	Success  bool
	Error    string
}

// Bake bakes every material on the mesh objects among objects, armature
// children included. Each source material is baked once; slots holding it,
// or a stale baked copy of it, are switched to the new baked material.
// The error is non-nil when any material failed or ctx was cancelled.
func (d *Driver) Bake(ctx context.Context, objects []host.Object) ([]Result, error) {
	meshes := host.Meshes(objects)

	surface := d.Scene.AddBakeSurface()
	defer d.Scene.RemoveBakeSurface(surface)

	s := d.Settings
	restore := render.Scope(d.Renderer, func(st *render.State) {
		st.Engine = render.EngineCycles
		st.Shading = render.ShadingWireframe
		st.FileFormat = s.Format
		st.Quality = s.JPEGQuality
		st.Compression = s.PNGCompression
	})
	defer restore()

	start := time.Now()
	var results []Result
	done := make(map[string]host.Material)
	failed := 0

	for _, obj := range meshes {
		for i := range obj.Materials() {
			// earlier bakes may have repointed this slot
			mat := obj.Materials()[i]
			if mat == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("batch: bake: %w", err)
			}

			source := mat
			if e := d.State.Lookup(mat); e != nil && !state.Same(e.Source, mat) {
				d.log.Debug("using cached source material", "material", mat.Name(), "source", e.Source.Name())
				source = e.Source
			}

			if baked, ok := done[source.ID()]; ok {
				if baked != nil {
					obj.SetMaterial(i, baked)
				}
				continue
			}

			if !bakeable(source) {
				d.log.Info("skipping material without a principled shader", "material", source.Name())
				done[source.ID()] = nil
				continue
			}

			res, baked := d.bakeMaterial(ctx, surface, source)
			results = append(results, res)
			done[source.ID()] = baked
			if baked == nil {
				failed++
				d.log.Error("material failed", "material", source.Name(), "error", res.Error)
				continue
			}
			obj.SetMaterial(i, baked)
		}
	}

	d.log.Info("bake finished", "materials", len(results), "failed", failed, "elapsed", time.Since(start).String())
	if failed > 0 {
		return results, fmt.Errorf("batch: %d of %d materials failed", failed, len(results))
	}
	return results, nil
}

func bakeable(m host.Material) bool {
	if m.Tree() == nil {
		return false
	}
	return shader.NewGraph(m.Tree(), nil).Principled() != nil
}

// bakeMaterial bakes a working copy of source. On failure the copy is
// removed and nil is returned; existing slots are left alone.
func (d *Driver) bakeMaterial(ctx context.Context, surface host.Surface, source host.Material) (res Result, baked host.Material) {
	var uid int
	entry := d.State.Lookup(source)
	if entry != nil {
		uid = entry.UID
	} else {
		uid = d.State.NextUID()
	}
	name := bake.MaterialName(d.Settings.Target, source.Name(), uid)
	res = Result{Material: source.Name(), Baked: name, UID: uid}

	work := d.Scene.CopyMaterial(source)
	if work == nil {
		res.Error = fmt.Sprintf("unable to copy material %s", source.Name())
		return res, nil
	}
	work.SetName(name)

	defer func() {
		if r := recover(); r != nil {
			d.Scene.RemoveMaterial(work)
			res.Success = false
			res.Error = fmt.Sprintf("panic: %v", r)
			baked = nil
		}
	}()

	out, err := d.Baker.Material(ctx, surface, work, source)
	if err != nil {
		d.Scene.RemoveMaterial(work)
		res.Error = err.Error()
		return res, nil
	}

	var previous host.Material
	if entry != nil {
		previous = entry.Baked
	}
	d.replace(source, previous, work)
	d.State.Put(uid, source, work)

	res.Success = true
	res.Outputs = out.Outputs
	res.Blend = work.BlendMode()
	res.Images = make(map[targets.Map]string, len(out.Images))
	for m, img := range out.Images {
		res.Images[m] = img.Path()
	}
	return res, work
}

// replace points every slot holding the previous baked material, or an
// older material with the new material's name, at work and deletes them.
func (d *Driver) replace(source, previous, work host.Material) {
	var stale []host.Material
	if previous != nil && !state.Same(previous, work) {
		stale = append(stale, previous)
	}
	for _, m := range d.Scene.Materials() {
		if state.Same(m, work) || state.Same(m, source) || state.Same(m, previous) {
			continue
		}
		if bake.StripName(m.Name()) == work.Name() {
			stale = append(stale, m)
		}
	}

	for _, old := range stale {
		for _, obj := range d.Scene.Objects() {
			for i, slot := range obj.Materials() {
				if state.Same(slot, old) {
					obj.SetMaterial(i, work)
				}
			}
		}
		d.log.Debug("removing old baked material", "material", old.Name())
		d.Scene.RemoveMaterial(old)
	}
}
