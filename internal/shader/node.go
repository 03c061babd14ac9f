package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// Kind is a shader node type.
type Kind string

const (
	Principled Kind = "BSDF_PRINCIPLED"
	Output     Kind = "OUTPUT_MATERIAL"
	TexImage   Kind = "TEX_IMAGE"
	MixRGB     Kind = "MIX_RGB"
	Bump       Kind = "BUMP"
	NormalMap  Kind = "NORMAL_MAP"
	Group      Kind = "GROUP"
	Math       Kind = "MATH"
	Value      Kind = "VALUE"
	RGB        Kind = "RGB"
	Mapping    Kind = "MAPPING"
	TexCoord   Kind = "TEX_COORD"
)

// Node properties.
const (
	PropBlendType = "blend_type"
	PropOperation = "operation"
	PropNodeTree  = "node_tree"
)

// IDPrefix marks the named texture nodes of known character materials.
const IDPrefix = "cc3iid_"

// Node is one node of a material's shader graph, owned by the host.
//
// Input values are float32, mgl32.Vec3 or mgl32.Vec4.
type Node interface {
	ID() string
	Name() string
	SetName(name string)
	Kind() Kind

	// Tag is the logical map a generated bake image node holds. Empty for
	// every other node.
	Tag() targets.Map
	SetTag(m targets.Map)

	// Input returns the unlinked default value of an input socket.
	Input(socket string) (any, bool)
	// SetInput sets an input default. It reports false when the socket does
	// not exist or the value type does not fit.
	SetInput(socket string, v any) bool
	HasInput(socket string) bool
	HasOutput(socket string) bool
	// InputSockets lists the input socket names in a stable order.
	InputSockets() []string

	Property(key string) string
	SetProperty(key, value string)

	Image() texture.Image
	SetImage(img texture.Image)

	Location() mgl32.Vec2
	SetLocation(loc mgl32.Vec2)
}

// Tree is a material's node graph.
type Tree interface {
	Nodes() []Node
	NewNode(kind Kind) Node
	Remove(n Node)
	// Link connects an output socket to an input socket, replacing any link
	// already into that input.
	Link(from Node, fromSocket string, to Node, toSocket string) error
	// Unlink removes every link into an input socket.
	Unlink(to Node, toSocket string) error
	// Source returns the node and output socket linked into an input.
	Source(to Node, toSocket string) (Node, string, bool)
}

// Float reads a scalar value. Colors and vectors yield their first component.
func Float(v any, def float32) float32 {
	switch t := v.(type) {
	case float32:
		return t
	case float64:
		return float32(t)
	case int:
		return float32(t)
	case mgl32.Vec3:
		return t[0]
	case mgl32.Vec4:
		return t[0]
	}
	return def
}

// Vec3 reads a vector value. Scalars are broadcast.
func Vec3(v any, def mgl32.Vec3) mgl32.Vec3 {
	switch t := v.(type) {
	case mgl32.Vec3:
		return t
	case mgl32.Vec4:
		return t.Vec3()
	case float32:
		return mgl32.Vec3{t, t, t}
	case float64:
		f := float32(t)
		return mgl32.Vec3{f, f, f}
	}
	return def
}

// Color reads an RGBA value. Scalars become opaque grey.
func Color(v any, def mgl32.Vec4) mgl32.Vec4 {
	switch t := v.(type) {
	case mgl32.Vec4:
		return t
	case mgl32.Vec3:
		return t.Vec4(1)
	case float32:
		return mgl32.Vec4{t, t, t, 1}
	case float64:
		f := float32(t)
		return mgl32.Vec4{f, f, f, 1}
	}
	return def
}

// ImageSize returns the larger dimension of an image node's image, or 0.
func ImageSize(n Node) int {
	if n == nil || n.Image() == nil {
		return 0
	}
	w, h := n.Image().Size()
	if w > h {
		return w
	}
	return h
}
