package raster

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/render"
	"cc3-texbaker/internal/scene"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/texture"
)

func cycles() *Renderer {
	r := New(nil)
	s := r.State()
	s.Engine = render.EngineCycles
	r.SetState(s)
	return r
}

type fixture struct {
	mat  *scene.Material
	tree *scene.Tree
	out  shader.Node
	bsdf shader.Node
	surf *scene.Surface
}

func newFixture() *fixture {
	m := scene.NewMaterial("Test")
	f := &fixture{mat: m, tree: m.Graph, surf: &scene.Surface{}}
	f.bsdf = f.tree.NewNode(shader.Principled)
	f.out = f.tree.NewNode(shader.Output)
	f.surf.SetMaterial(m)
	return f
}

func (f *fixture) link(t *testing.T, from shader.Node, fs string, to shader.Node, ts string) {
	t.Helper()
	require.NoError(t, f.tree.Link(from, fs, to, ts))
}

func (f *fixture) bake(t *testing.T, r *Renderer, mode render.Mode, size int) []float32 {
	t.Helper()
	img := texture.NewBuffer("target", size, size, false, true)
	require.NoError(t, r.Bake(context.Background(), render.Request{Mode: mode, Surface: f.surf, Target: img}))
	return img.Pixels()
}

func gradient(w, h int) *texture.Buffer {
	b := texture.NewBuffer("gradient", w, h, true, false)
	pix := make([]float32, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i] = float32(x) / float32(w)
			pix[i+1] = float32(y) / float32(h)
			pix[i+2] = 0.25
			pix[i+3] = 0.5
		}
	}
	_ = b.SetPixels(pix)
	return b
}

func TestBakeRequiresCycles(t *testing.T) {
	f := newFixture()
	img := texture.NewBuffer("target", 4, 4, false, true)
	err := New(nil).Bake(context.Background(), render.Request{Mode: render.Combined, Surface: f.surf, Target: img})
	assert.Error(t, err)
}

func TestBakeRejectsMissingMaterial(t *testing.T) {
	img := texture.NewBuffer("target", 4, 4, false, true)
	err := cycles().Bake(context.Background(), render.Request{Mode: render.Combined, Surface: &scene.Surface{}, Target: img})
	assert.Error(t, err)
}

func TestBakeImageThroughMix(t *testing.T) {
	f := newFixture()
	src := gradient(4, 4)
	tex := f.tree.NewNode(shader.TexImage)
	tex.SetImage(src)
	mix := f.tree.NewNode(shader.MixRGB)
	mix.SetInput("Fac", float32(0))
	f.link(t, tex, "Color", mix, "Color1")
	f.link(t, mix, "Color", f.out, "Surface")

	r := cycles()
	got := f.bake(t, r, render.Combined, 4)
	want := src.Pixels()
	for i := 0; i < len(want); i += 4 {
		assert.InDeltaSlice(t, want[i:i+3], got[i:i+3], 1e-5)
		assert.Equal(t, float32(1), got[i+3])
	}
	assert.Equal(t, 1, r.Bakes)
}

func TestBakeAlphaOutput(t *testing.T) {
	f := newFixture()
	tex := f.tree.NewNode(shader.TexImage)
	tex.SetImage(gradient(2, 2))
	f.link(t, tex, "Alpha", f.out, "Surface")

	got := f.bake(t, cycles(), render.Combined, 2)
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 0.5, 1}, got[:4], 1e-6)
}

func TestBakeMultiplyMix(t *testing.T) {
	f := newFixture()
	mix := f.tree.NewNode(shader.MixRGB)
	mix.SetProperty(shader.PropBlendType, "MULTIPLY")
	mix.SetInput("Fac", float32(1))
	mix.SetInput("Color1", mgl32.Vec4{0.5, 0.5, 0.5, 1})
	mix.SetInput("Color2", mgl32.Vec4{0.4, 0.2, 1, 1})
	f.link(t, mix, "Color", f.out, "Surface")

	got := f.bake(t, cycles(), render.Combined, 2)
	assert.InDeltaSlice(t, []float32{0.2, 0.1, 0.5, 1}, got[:4], 1e-6)
}

func TestBakeMathAndValue(t *testing.T) {
	f := newFixture()
	v := f.tree.NewNode(shader.Value)
	v.SetInput("Value", float32(0.8))
	m := f.tree.NewNode(shader.Math)
	m.SetProperty(shader.PropOperation, "MULTIPLY")
	m.SetInput("B", float32(0.5))
	f.link(t, v, "Value", m, "A")
	f.link(t, m, "Value", f.out, "Surface")

	got := f.bake(t, cycles(), render.Combined, 1)
	assert.InDeltaSlice(t, []float32{0.4, 0.4, 0.4, 1}, got, 1e-6)
}

func TestBakeGroupOutputBinding(t *testing.T) {
	f := newFixture()
	grp := f.tree.Add(scene.NewNode("grp", shader.Group))
	grp.DeclareInput("AO Map", scene.ColorValue(1, 1, 1, 1))
	grp.DeclareOutput("AO")
	grp.SetProperty(GroupOutput+"AO", "AO Map")
	rgb := f.tree.NewNode(shader.RGB)
	rgb.SetInput("Color", mgl32.Vec4{0.3, 0.3, 0.3, 1})
	f.link(t, rgb, "Color", grp, "AO Map")
	f.link(t, grp, "AO", f.out, "Surface")

	got := f.bake(t, cycles(), render.Combined, 1)
	assert.InDeltaSlice(t, []float32{0.3, 0.3, 0.3, 1}, got, 1e-6)
}

func TestBakeExposure(t *testing.T) {
	f := newFixture()
	rgb := f.tree.NewNode(shader.RGB)
	rgb.SetInput("Color", mgl32.Vec4{0.25, 0.25, 0.25, 1})
	f.link(t, rgb, "Color", f.out, "Surface")

	r := cycles()
	restore := render.Scope(r, func(s *render.State) { s.Exposure = 1 })
	got := f.bake(t, r, render.Combined, 1)
	restore()
	assert.InDelta(t, 0.5, got[0], 1e-6)
}

func TestBakeFlatNormal(t *testing.T) {
	f := newFixture()
	f.link(t, f.bsdf, "BSDF", f.out, "Surface")
	got := f.bake(t, cycles(), render.Normal, 2)
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 1, 1}, got[:4], 1e-6)
}

func TestBakeNormalMapStrength(t *testing.T) {
	f := newFixture()
	f.link(t, f.bsdf, "BSDF", f.out, "Surface")
	nm := f.tree.NewNode(shader.NormalMap)
	nm.SetInput("Color", mgl32.Vec4{1, 0.5, 0.5, 1}) // +X
	f.link(t, nm, "Normal", f.bsdf, "Normal")

	got := f.bake(t, cycles(), render.Normal, 1)
	assert.InDeltaSlice(t, []float32{1, 0.5, 0.5, 1}, got, 1e-5)

	nm.SetInput("Strength", float32(0))
	got = f.bake(t, cycles(), render.Normal, 1)
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 1, 1}, got, 1e-5)
}

func TestBakeBumpGradient(t *testing.T) {
	f := newFixture()
	f.link(t, f.bsdf, "BSDF", f.out, "Surface")
	coord := f.tree.NewNode(shader.TexCoord)
	bump := f.tree.NewNode(shader.Bump)
	f.link(t, coord, "UV", bump, "Height")
	f.link(t, bump, "Normal", f.bsdf, "Normal")

	// height = u, so the normal tilts toward -X by 45 degrees
	got := f.bake(t, cycles(), render.Normal, 4)
	s := float32(0.70710677)
	assert.InDeltaSlice(t, []float32{-s*0.5 + 0.5, 0.5, s*0.5 + 0.5, 1}, got[4:8], 1e-4)
}

func TestBakeMappingTiles(t *testing.T) {
	f := newFixture()
	src := gradient(2, 1)
	tex := f.tree.NewNode(shader.TexImage)
	tex.SetImage(src)
	mapping := f.tree.NewNode(shader.Mapping)
	mapping.SetInput("Scale", mgl32.Vec3{2, 1, 1})
	coord := f.tree.NewNode(shader.TexCoord)
	f.link(t, coord, "UV", mapping, "Vector")
	f.link(t, mapping, "Vector", tex, "Vector")
	f.link(t, tex, "Color", f.out, "Surface")

	img := texture.NewBuffer("target", 4, 1, false, true)
	require.NoError(t, cycles().Bake(context.Background(), render.Request{Mode: render.Combined, Surface: f.surf, Target: img}))
	got := img.Pixels()
	// two texels repeated twice
	assert.InDelta(t, got[0], got[8], 1e-5)
	assert.InDelta(t, got[4], got[12], 1e-5)
	assert.InDelta(t, 0, got[0], 1e-5)
	assert.InDelta(t, 0.5, got[4], 1e-5)
}

func TestBakeSurvivesCycles(t *testing.T) {
	f := newFixture()
	a := f.tree.NewNode(shader.MixRGB)
	b := f.tree.NewNode(shader.MixRGB)
	f.link(t, a, "Color", b, "Color1")
	f.link(t, b, "Color", a, "Color1")
	f.link(t, b, "Color", a, "Color2")
	f.link(t, a, "Color", f.out, "Surface")
	got := f.bake(t, cycles(), render.Combined, 2)
	assert.Len(t, got, 16)
}

func TestBakeCancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	img := texture.NewBuffer("target", 4, 4, false, true)
	err := cycles().Bake(ctx, render.Request{Mode: render.Combined, Surface: f.surf, Target: img})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleTextureWraps(t *testing.T) {
	pix := []float32{0, 0, 0, 1, 1, 1, 1, 1}
	assert.InDelta(t, 0, SampleTexture(pix, 2, 1, 0.25, 0.5)[0], 1e-6)
	assert.InDelta(t, 1, SampleTexture(pix, 2, 1, 0.75, 0.5)[0], 1e-6)
	assert.InDelta(t, 0, SampleTexture(pix, 2, 1, 1.25, 0.5)[0], 1e-6)
	assert.InDelta(t, 0.5, SampleTexture(pix, 2, 1, 0.5, 0.5)[0], 1e-6)
	// the left edge blends with the wrapped right texel
	assert.InDelta(t, 0.5, SampleTexture(pix, 2, 1, 0, 0.5)[0], 1e-6)
}
