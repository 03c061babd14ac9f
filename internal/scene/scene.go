// Package scene is an in-memory host: materials with node graphs, objects
// with material slots, and a YAML document format that also carries the
// bake cache.
package scene

import (
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/state"
	"cc3-texbaker/internal/texture"
)

// Object is a scene object.
type Object struct {
	ObjName  string
	Type     host.ObjectKind
	Slots    []*Material
	Kids     []*Object
	Selected bool
}

func (o *Object) Name() string          { return o.ObjName }
func (o *Object) Kind() host.ObjectKind { return o.Type }

func (o *Object) Materials() []host.Material {
	out := make([]host.Material, len(o.Slots))
	for i, m := range o.Slots {
		if m != nil {
			out[i] = m
		}
	}
	return out
}

func (o *Object) SetMaterial(slot int, m host.Material) {
	if slot < 0 || slot >= len(o.Slots) {
		return
	}
	mat, _ := m.(*Material)
	o.Slots[slot] = mat
}

func (o *Object) Children() []host.Object {
	out := make([]host.Object, len(o.Kids))
	for i, c := range o.Kids {
		out[i] = c
	}
	return out
}

// Surface is the scratch bake plane.
type Surface struct {
	mat host.Material
}

func (s *Surface) Material() host.Material     { return s.mat }
func (s *Surface) SetMaterial(m host.Material) { s.mat = m }

// Scene is the in-memory host document.
type Scene struct {
	Mats     []*Material
	Objs     []*Object
	Images   *texture.Library
	State    *state.Store
	Dir      string
	Textures string
	surfaces []*Surface
	log      *logger.Logger
}

// New creates an empty scene rooted at dir.
func New(dir string, log *logger.Logger) *Scene {
	return &Scene{
		Images: texture.NewLibrary(texture.DefaultEncodeOptions),
		State:  state.New(),
		Dir:    dir,
		log:    logger.OrNop(log),
	}
}

// AddMaterial appends m to the scene.
func (s *Scene) AddMaterial(m *Material) *Material {
	s.Mats = append(s.Mats, m)
	return m
}

// AddObject appends a top-level object.
func (s *Scene) AddObject(o *Object) *Object {
	s.Objs = append(s.Objs, o)
	return o
}

// Material returns the material with the given id.
func (s *Scene) Material(id string) *Material {
	for _, m := range s.Mats {
		if m.MatID == id {
			return m
		}
	}
	return nil
}

// MaterialByName returns the first material with the given name.
func (s *Scene) MaterialByName(name string) *Material {
	for _, m := range s.Mats {
		if m.MatName == name {
			return m
		}
	}
	return nil
}

// Select marks the named objects selected and everything else unselected.
func (s *Scene) Select(names ...string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	s.walk(func(o *Object) { o.Selected = want[o.ObjName] })
}

func (s *Scene) walk(fn func(*Object)) {
	var visit func(objs []*Object)
	visit = func(objs []*Object) {
		for _, o := range objs {
			fn(o)
			visit(o.Kids)
		}
	}
	visit(s.Objs)
}

func (s *Scene) Selected() []host.Object {
	var out []host.Object
	s.walk(func(o *Object) {
		if o.Selected {
			out = append(out, o)
		}
	})
	return out
}

func (s *Scene) Objects() []host.Object {
	var out []host.Object
	s.walk(func(o *Object) { out = append(out, o) })
	return out
}

func (s *Scene) Materials() []host.Material {
	out := make([]host.Material, len(s.Mats))
	for i, m := range s.Mats {
		out[i] = m
	}
	return out
}

func (s *Scene) CopyMaterial(m host.Material) host.Material {
	src, ok := m.(*Material)
	if !ok || src == nil {
		return nil
	}
	c, err := src.Copy()
	if err != nil {
		s.log.Error("copy material failed", "material", src.MatName, "error", err)
		return nil
	}
	s.Mats = append(s.Mats, c)
	return c
}

// RemoveMaterial deletes m from the scene and empties every slot holding it.
func (s *Scene) RemoveMaterial(m host.Material) {
	mat, ok := m.(*Material)
	if !ok || mat == nil {
		return
	}
	for i, own := range s.Mats {
		if own == mat {
			s.Mats = append(s.Mats[:i], s.Mats[i+1:]...)
			break
		}
	}
	s.walk(func(o *Object) {
		for i, slot := range o.Slots {
			if slot == mat {
				o.Slots[i] = nil
			}
		}
	})
}

func (s *Scene) AddBakeSurface() host.Surface {
	surf := &Surface{}
	s.surfaces = append(s.surfaces, surf)
	return surf
}

func (s *Scene) RemoveBakeSurface(surf host.Surface) {
	for i, own := range s.surfaces {
		if host.Surface(own) == surf {
			s.surfaces = append(s.surfaces[:i], s.surfaces[i+1:]...)
			return
		}
	}
}

// Surfaces returns the number of live bake surfaces.
func (s *Scene) Surfaces() int { return len(s.surfaces) }
