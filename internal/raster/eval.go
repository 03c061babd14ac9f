package raster

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/texture"
)

// GroupOutput is the node property prefix binding a group output socket to
// one of the group's inputs: "out:AO" = "AO Map" makes the AO output pass
// the AO Map input through.
const GroupOutput = "out:"

// maxDepth bounds recursion through long acyclic chains.
const maxDepth = 64

var (
	black = mgl32.Vec4{0, 0, 0, 1}
	flat  = mgl32.Vec3{0, 0, 1}
)

type pixels struct {
	pix  []float32
	w, h int
}

// evaluator computes socket values of a node graph at one UV position.
// Values are RGBA; scalars are broadcast to RGB with alpha 1 and vectors
// carry alpha 1.
type evaluator struct {
	g      *shader.Graph
	du, dv float32
	images map[texture.Image]pixels
	active map[string]bool
	depth  int
}

func newEvaluator(g *shader.Graph, w, h int) *evaluator {
	return &evaluator{
		g:      g,
		du:     1 / float32(w),
		dv:     1 / float32(h),
		images: make(map[texture.Image]pixels),
		active: make(map[string]bool),
	}
}

func scalar(v float32) mgl32.Vec4 { return mgl32.Vec4{v, v, v, 1} }

// input returns the value flowing into socket: the linked output, or the
// socket default.
func (e *evaluator) input(n shader.Node, socket string, uv mgl32.Vec2) mgl32.Vec4 {
	if src, out := e.g.Source(n, socket); src != nil {
		return e.output(src, out, uv)
	}
	v, ok := n.Input(socket)
	if !ok {
		return black
	}
	switch t := v.(type) {
	case float32:
		return scalar(t)
	case mgl32.Vec3:
		return t.Vec4(1)
	case mgl32.Vec4:
		return t
	}
	return black
}

func (e *evaluator) float(n shader.Node, socket string, uv mgl32.Vec2) float32 {
	return e.input(n, socket, uv)[0]
}

// coords returns the texture coordinate for an image or mapping node: its
// linked Vector input, or the surface UV.
func (e *evaluator) coords(n shader.Node, uv mgl32.Vec2) mgl32.Vec2 {
	if src, out := e.g.Source(n, "Vector"); src != nil {
		v := e.output(src, out, uv)
		return mgl32.Vec2{v[0], v[1]}
	}
	return uv
}

// output evaluates an output socket of n.
func (e *evaluator) output(n shader.Node, socket string, uv mgl32.Vec2) mgl32.Vec4 {
	if n == nil {
		return black
	}
	// a node already on the evaluation stack closes a cycle
	if e.depth >= maxDepth || e.active[n.ID()] {
		return black
	}
	e.depth++
	e.active[n.ID()] = true
	defer func() {
		e.depth--
		delete(e.active, n.ID())
	}()

	switch n.Kind() {
	case shader.TexImage:
		c := e.sample(n.Image(), e.coords(n, uv))
		if socket == "Alpha" {
			return scalar(c[3])
		}
		return mgl32.Vec4{c[0], c[1], c[2], 1}

	case shader.MixRGB:
		return mix(n.Property(shader.PropBlendType),
			e.float(n, "Fac", uv), e.input(n, "Color1", uv), e.input(n, "Color2", uv))

	case shader.Math:
		return scalar(mathOp(n.Property(shader.PropOperation), e.float(n, "A", uv), e.float(n, "B", uv)))

	case shader.Value:
		return scalar(e.float(n, "Value", uv))

	case shader.RGB:
		return e.input(n, "Color", uv)

	case shader.TexCoord:
		return mgl32.Vec4{uv[0], uv[1], 0, 1}

	case shader.Mapping:
		return e.mapping(n, uv)

	case shader.NormalMap:
		return e.normalMap(n, uv).Vec4(1)

	case shader.Bump:
		return e.bump(n, uv).Vec4(1)

	case shader.Group:
		if bound := n.Property(GroupOutput + socket); bound != "" {
			return e.input(n, bound, uv)
		}
		if n.HasInput(socket) {
			return e.input(n, socket, uv)
		}
		return black

	case shader.Principled:
		c := e.input(n, "Base Color", uv)
		return mgl32.Vec4{c[0], c[1], c[2], 1}
	}
	return black
}

func (e *evaluator) sample(img texture.Image, uv mgl32.Vec2) mgl32.Vec4 {
	if img == nil {
		return mgl32.Vec4{1, 0, 1, 1}
	}
	p, ok := e.images[img]
	if !ok {
		p.w, p.h = img.Size()
		p.pix = img.Pixels()
		e.images[img] = p
	}
	return SampleTexture(p.pix, p.w, p.h, uv[0], uv[1])
}

func mix(blend string, fac float32, a, b mgl32.Vec4) mgl32.Vec4 {
	fac = clamp01(fac)
	var out mgl32.Vec4
	for k := 0; k < 3; k++ {
		var v float32
		switch strings.ToUpper(blend) {
		case "MULTIPLY":
			v = a[k] * b[k]
		case "ADD":
			v = a[k] + b[k]
		case "SUBTRACT":
			v = a[k] - b[k]
		case "SCREEN":
			v = 1 - (1-a[k])*(1-b[k])
		case "DIFFERENCE":
			v = math32.Abs(a[k] - b[k])
		case "DARKEN":
			v = math32.Min(a[k], b[k])
		case "LIGHTEN":
			v = math32.Max(a[k], b[k])
		default:
			v = b[k]
		}
		out[k] = a[k] + (v-a[k])*fac
	}
	out[3] = a[3]
	return out
}

func mathOp(op string, a, b float32) float32 {
	switch strings.ToUpper(op) {
	case "SUBTRACT":
		return a - b
	case "MULTIPLY":
		return a * b
	case "DIVIDE":
		if b == 0 {
			return 0
		}
		return a / b
	case "POWER":
		return math32.Pow(a, b)
	case "MINIMUM":
		return math32.Min(a, b)
	case "MAXIMUM":
		return math32.Max(a, b)
	}
	return a + b
}

// mapping applies scale, then rotation about Z, then location.
func (e *evaluator) mapping(n shader.Node, uv mgl32.Vec2) mgl32.Vec4 {
	p := e.coords(n, uv)
	v := mgl32.Vec3{p[0], p[1], 0}
	scale := e.input(n, "Scale", uv).Vec3()
	rot := e.input(n, "Rotation", uv)[2]
	loc := e.input(n, "Location", uv).Vec3()

	v = mgl32.Vec3{v[0] * scale[0], v[1] * scale[1], v[2] * scale[2]}
	s, c := math32.Sin(rot), math32.Cos(rot)
	v = mgl32.Vec3{v[0]*c - v[1]*s, v[0]*s + v[1]*c, v[2]}
	return v.Add(loc).Vec4(1)
}

// normalMap decodes a tangent space color and blends it toward the flat
// normal by strength.
func (e *evaluator) normalMap(n shader.Node, uv mgl32.Vec2) mgl32.Vec3 {
	c := e.input(n, "Color", uv)
	strength := e.float(n, "Strength", uv)
	t := mgl32.Vec3{c[0]*2 - 1, c[1]*2 - 1, c[2]*2 - 1}
	return normalize(flat.Add(t.Sub(flat).Mul(strength)))
}

// bump perturbs the incoming normal by the height gradient, measured by
// central differences one texel apart.
func (e *evaluator) bump(n shader.Node, uv mgl32.Vec2) mgl32.Vec3 {
	base := flat
	if src, out := e.g.Source(n, "Normal"); src != nil {
		base = normalize(e.output(src, out, uv).Vec3())
	}
	height := func(p mgl32.Vec2) float32 { return e.float(n, "Height", p) }
	gx := (height(mgl32.Vec2{uv[0] + e.du, uv[1]}) - height(mgl32.Vec2{uv[0] - e.du, uv[1]})) / (2 * e.du)
	gy := (height(mgl32.Vec2{uv[0], uv[1] + e.dv}) - height(mgl32.Vec2{uv[0], uv[1] - e.dv})) / (2 * e.dv)

	s := e.float(n, "Strength", uv) * e.float(n, "Distance", uv)
	return normalize(base.Sub(mgl32.Vec3{gx * s, gy * s, 0}))
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return flat
	}
	return v.Normalize()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
