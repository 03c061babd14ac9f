package shader_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/scene"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

func newGraph() (*shader.Graph, *scene.Tree) {
	tree := &scene.Tree{}
	return shader.NewGraph(tree, nil), tree
}

func TestValueHelpers(t *testing.T) {
	assert.Equal(t, float32(0.3), shader.Float(float32(0.3), 1))
	assert.Equal(t, float32(0.2), shader.Float(mgl32.Vec4{0.2, 0.5, 0.5, 1}, 1))
	assert.Equal(t, float32(1), shader.Float("nope", 1))
	assert.Equal(t, float32(1), shader.Float(nil, 1))

	assert.Equal(t, mgl32.Vec3{2, 2, 2}, shader.Vec3(float32(2), mgl32.Vec3{}))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, shader.Vec3(mgl32.Vec4{1, 2, 3, 4}, mgl32.Vec3{}))
	assert.Equal(t, mgl32.Vec3{9, 9, 9}, shader.Vec3(nil, mgl32.Vec3{9, 9, 9}))

	assert.Equal(t, mgl32.Vec4{0.5, 0.5, 0.5, 1}, shader.Color(float32(0.5), mgl32.Vec4{}))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, shader.Color(mgl32.Vec3{1, 0, 0}, mgl32.Vec4{}))
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, shader.Color(nil, mgl32.Vec4{1, 1, 1, 1}))
}

func TestFinders(t *testing.T) {
	g, _ := newGraph()
	bsdf := g.NewNode(shader.Principled)
	out := g.NewNode(shader.Output)
	tex := g.NewNode(shader.TexImage)
	tex.SetName("cc3iid_roughness_tex")
	buf := texture.NewBuffer("rough", 16, 32, false, true)
	buf.SetPath("/textures/body_roughness.png")
	tex.SetImage(buf)
	grp := g.NewNode(shader.Group)
	grp.SetName("(msr_skin_mixer)")

	assert.Equal(t, bsdf.ID(), g.Principled().ID())
	assert.Equal(t, out.ID(), g.Output().ID())
	assert.Equal(t, grp.ID(), g.ByKeywords("(msr_", "_mixer)").ID())
	assert.Nil(t, g.ByKeywords("(msr_", "_hair_"))
	assert.Equal(t, tex.ID(), g.ByID("roughness_tex").ID())
	assert.Equal(t, tex.ID(), g.ImageNode("roughness_tex", "").ID())
	assert.Equal(t, tex.ID(), g.ImageNode("", "body_roughness").ID())
	assert.Equal(t, tex.ID(), g.ImageNode("roughness", "body_").ID())
	assert.Nil(t, g.ImageNode("roughness", "head_"))
	assert.Nil(t, g.ImageNode("", ""))
	assert.Equal(t, 32, shader.ImageSize(tex))
	assert.Equal(t, 0, shader.ImageSize(grp))

	assert.Nil(t, g.ByTag(targets.Diffuse))
	baked := g.NewImage(texture.NewBuffer("baked", 4, 4, false, false))
	require.NotNil(t, baked)
	baked.SetTag(targets.Diffuse)
	assert.Equal(t, baked.ID(), g.ByTag(targets.Diffuse).ID())
	assert.Len(t, g.Tagged(), 1)
	assert.Nil(t, g.NewImage(nil))
}

func TestNilTolerance(t *testing.T) {
	var g *shader.Graph
	assert.Nil(t, g.Principled())
	assert.Nil(t, g.SourceNode(nil, "Base Color"))
	g.Link(nil, "Color", nil, "Color")
	g.Unlink(nil, "Color")

	empty := shader.NewGraph(nil, nil)
	assert.Nil(t, empty.Output())
	src, socket := empty.Source(nil, "Alpha")
	assert.Nil(t, src)
	assert.Equal(t, "", socket)
	empty.Set(nil, "Alpha", float32(1))
	assert.Equal(t, 7, empty.Get(nil, "Alpha", 7))
}

func TestLinkAndMutations(t *testing.T) {
	g, tree := newGraph()
	bsdf := g.NewNode(shader.Principled)
	mix := g.NewMix("MULTIPLY")
	assert.True(t, shader.IsMultiply(mix))

	g.Link(mix, "Color", bsdf, "Base Color")
	assert.Equal(t, mix.ID(), g.SourceNode(bsdf, "Base Color").ID())
	_, socket := g.Source(bsdf, "Base Color")
	assert.Equal(t, "Color", socket)

	// bad sockets are logged and skipped
	g.Link(mix, "Nope", bsdf, "Alpha")
	assert.Nil(t, g.SourceNode(bsdf, "Alpha"))
	assert.Len(t, tree.Links, 1)

	g.Set(bsdf, "Specular", float32(0.5))
	g.Set(bsdf, "Nope", float32(0.5))
	assert.Equal(t, float32(0.5), shader.Float(g.Get(bsdf, "Specular", nil), 0))

	g.Unlink(bsdf, "Base Color")
	assert.Nil(t, g.SourceNode(bsdf, "Base Color"))

	shader.Position(mix, -300, 600)
	assert.Equal(t, mgl32.Vec2{-300, 600}, mix.Location())
	shader.Position(nil, 0, 0)
}
