// Package host defines the scene the baker works on: materials, objects
// and their material slots.
package host

import "cc3-texbaker/internal/shader"

// ObjectKind is the type of a scene object.
type ObjectKind string

const (
	Mesh     ObjectKind = "MESH"
	Armature ObjectKind = "ARMATURE"
)

// Blend modes for Material.SetBlendMode.
const (
	BlendOpaque = "OPAQUE"
	BlendAlpha  = "BLEND"
)

// Material is a named surface description with a shader graph.
// Identity is the interface value; ID is stable across renames.
type Material interface {
	ID() string
	Name() string
	SetName(name string)
	// Tree returns the shader graph, or nil for materials without nodes.
	Tree() shader.Tree
	// Family is the character material type ("SKIN", "CORNEA_LEFT", ...)
	// recorded for known character materials, or "".
	Family() string
	BlendMode() string
	SetBlendMode(mode string)
}

// Object is a scene object. Only meshes carry material slots.
type Object interface {
	Name() string
	Kind() ObjectKind
	Materials() []Material
	SetMaterial(slot int, m Material)
	Children() []Object
}

// Surface is the scratch plane materials are baked on.
type Surface interface {
	Material() Material
	SetMaterial(m Material)
}

// Scene is the host document.
type Scene interface {
	Selected() []Object
	Objects() []Object
	Materials() []Material
	// CopyMaterial duplicates m, its node graph included.
	CopyMaterial(m Material) Material
	RemoveMaterial(m Material)
	AddBakeSurface() Surface
	RemoveBakeSurface(s Surface)
}

// Meshes expands objects into meshes: meshes themselves and the mesh
// children of armatures.
func Meshes(objects []Object) []Object {
	var out []Object
	seen := make(map[Object]bool)
	add := func(o Object) {
		if o != nil && o.Kind() == Mesh && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	for _, o := range objects {
		if o == nil {
			continue
		}
		switch o.Kind() {
		case Mesh:
			add(o)
		case Armature:
			for _, c := range o.Children() {
				add(c)
			}
		}
	}
	return out
}
