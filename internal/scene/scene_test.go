package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

func TestNodeInputs(t *testing.T) {
	n := NewNode("n", shader.Principled)

	v, ok := n.Input("Roughness")
	require.True(t, ok)
	assert.Equal(t, float32(0.5), v)

	assert.True(t, n.SetInput("Roughness", 0.25))
	assert.True(t, n.SetInput("Base Color", mgl32.Vec3{1, 0, 0}))
	assert.False(t, n.SetInput("Roughness", mgl32.Vec3{1, 1, 1}))
	assert.False(t, n.SetInput("Missing", float32(1)))

	v, _ = n.Input("Base Color")
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, v)
	v, _ = n.Input("Subsurface Radius")
	assert.Equal(t, mgl32.Vec3{1, 0.2, 0.1}, v)

	out := NewNode("o", shader.Output)
	_, ok = out.Input("Surface")
	assert.False(t, ok)
	assert.True(t, out.HasInput("Surface"))
}

func TestTreeLinks(t *testing.T) {
	tree := &Tree{}
	img := tree.NewNode(shader.TexImage)
	mix := tree.NewNode(shader.MixRGB)
	bsdf := tree.NewNode(shader.Principled)

	require.NoError(t, tree.Link(img, "Color", mix, "Color1"))
	require.NoError(t, tree.Link(mix, "Color", bsdf, "Base Color"))
	assert.Error(t, tree.Link(img, "Missing", mix, "Color2"))
	assert.Error(t, tree.Link(img, "Color", mix, "Missing"))

	src, socket, ok := tree.Source(bsdf, "Base Color")
	require.True(t, ok)
	assert.Equal(t, mix.ID(), src.ID())
	assert.Equal(t, "Color", socket)

	// relinking replaces the old link
	require.NoError(t, tree.Link(img, "Alpha", bsdf, "Base Color"))
	src, socket, _ = tree.Source(bsdf, "Base Color")
	assert.Equal(t, img.ID(), src.ID())
	assert.Equal(t, "Alpha", socket)
	assert.Len(t, tree.Links, 2)

	require.NoError(t, tree.Unlink(bsdf, "Base Color"))
	_, _, ok = tree.Source(bsdf, "Base Color")
	assert.False(t, ok)

	tree.Remove(img)
	assert.Len(t, tree.NodeList, 2)
	assert.Empty(t, tree.Links)
}

func TestMaterialCopy(t *testing.T) {
	lib := texture.NewLibrary(texture.DefaultEncodeOptions)
	m := NewMaterial("Skin")
	m.Kind = "SKIN"
	img := m.Graph.NewNode(shader.TexImage)
	img.SetImage(lib.New("skin_diffuse", 4, 4, false, false))
	bsdf := m.Graph.NewNode(shader.Principled)
	require.NoError(t, m.Graph.Link(img, "Color", bsdf, "Base Color"))
	bsdf.SetInput("Roughness", float32(0.7))

	c, err := m.Copy()
	require.NoError(t, err)
	assert.NotEqual(t, m.ID(), c.ID())
	assert.Equal(t, "Skin", c.Name())
	assert.Equal(t, "SKIN", c.Family())
	require.Len(t, c.Graph.NodeList, 2)
	assert.Same(t, m.Graph.NodeList[0].Img.(*texture.Buffer), c.Graph.NodeList[0].Img.(*texture.Buffer))

	// edits to the copy leave the source alone
	cb := c.Graph.NodeList[1]
	cb.SetInput("Roughness", float32(0.1))
	require.NoError(t, c.Graph.Unlink(cb, "Base Color"))
	v, _ := bsdf.Input("Roughness")
	assert.Equal(t, float32(0.7), v)
	_, _, ok := m.Graph.Source(bsdf, "Base Color")
	assert.True(t, ok)
	assert.NotSame(t, m.Graph.NodeList[1], cb)
}

func TestSceneSelectionAndRemoval(t *testing.T) {
	s := New(t.TempDir(), nil)
	skin := s.AddMaterial(NewMaterial("Skin"))
	body := &Object{ObjName: "Body", Type: host.Mesh, Slots: []*Material{skin, skin}}
	rig := s.AddObject(&Object{ObjName: "Rig", Type: host.Armature, Kids: []*Object{body}})

	s.Select("Rig")
	sel := s.Selected()
	require.Len(t, sel, 1)
	assert.Equal(t, "Rig", sel[0].Name())
	meshes := host.Meshes(sel)
	require.Len(t, meshes, 1)
	assert.Equal(t, "Body", meshes[0].Name())
	assert.Len(t, s.Objects(), 2)
	_ = rig

	c := s.CopyMaterial(skin)
	require.NotNil(t, c)
	assert.Len(t, s.Materials(), 2)

	s.RemoveMaterial(skin)
	assert.Len(t, s.Materials(), 1)
	assert.Nil(t, body.Materials()[0])

	surf := s.AddBakeSurface()
	assert.Equal(t, 1, s.Surfaces())
	s.RemoveBakeSurface(surf)
	assert.Equal(t, 0, s.Surfaces())
}

const testDocument = `
textures: textures
materials:
  - id: m-skin
    name: Skin
    family: SKIN
    nodes:
      - id: tex
        name: cc3iid_diffuse_tex
        kind: TEX_IMAGE
        image: skin_diffuse.tga
      - id: grp
        name: (color_skin_mixer)
        kind: GROUP
        props: {node_tree: color_skin_mixer, "out:Base Color": Diffuse}
        inputs: {Diffuse: [1, 1, 1, 1], AO Strength: 1}
        outputs: [Base Color, AO]
      - id: bsdf
        kind: BSDF_PRINCIPLED
        inputs: {Roughness: 0.4, Base Color: [0.2, 0.3, 0.4]}
        location: [10, 20]
      - id: out
        kind: OUTPUT_MATERIAL
    links:
      - {from: tex, from_socket: Color, to: grp, to_socket: Diffuse}
      - {from: grp, from_socket: Base Color, to: bsdf, to_socket: Base Color}
      - {from: bsdf, from_socket: BSDF, to: out, to_socket: Surface}
  - id: m-empty
    name: Empty
    no_nodes: true
objects:
  - name: Body
    kind: MESH
    selected: true
    materials: [m-skin, m-empty]
state:
  auto_increment: 120
  material_settings:
    - material: m-skin
      sizes: {diffuse_size: 512}
`

func TestDocumentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0755))
	b := texture.NewBuffer("skin_diffuse", 8, 4, false, false)
	b.SetPath(filepath.Join(dir, "textures", "skin_diffuse.png"))
	require.NoError(t, b.Save())

	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0644))

	s, err := Load(path, nil)
	require.NoError(t, err)

	skin := s.Material("m-skin")
	require.NotNil(t, skin)
	assert.Equal(t, "SKIN", skin.Family())
	assert.Nil(t, s.Material("m-empty").Tree())

	g := shader.NewGraph(skin.Tree(), nil)
	tex := g.ByID("diffuse_tex")
	require.NotNil(t, tex)
	require.NotNil(t, tex.Image(), "image resolved through the texture index")
	assert.Equal(t, 8, shader.ImageSize(tex))

	grp := g.ByKeywords("(color_", "_mixer)")
	require.NotNil(t, grp)
	assert.True(t, grp.HasOutput("AO"))
	v, _ := grp.Input("AO Strength")
	assert.Equal(t, float32(1), v)

	bsdf := g.Principled()
	assert.Equal(t, float32(0.4), shader.Float(g.Get(bsdf, "Roughness", nil), 0))
	assert.Equal(t, mgl32.Vec4{0.2, 0.3, 0.4, 1}, shader.Color(g.Get(bsdf, "Base Color", nil), mgl32.Vec4{}))
	assert.Equal(t, mgl32.Vec2{10, 20}, bsdf.Location())
	assert.Equal(t, grp.ID(), g.SourceNode(bsdf, "Base Color").ID())

	assert.Equal(t, 120, s.State.AutoIncrement())
	ms := s.State.Settings(skin)
	require.NotNil(t, ms)
	assert.Equal(t, 512, ms.Sizes[targets.DiffuseSize])

	// record a cache entry and save
	baked := s.CopyMaterial(skin)
	baked.SetName("Skin_B120")
	s.State.Put(s.State.NextUID(), skin, baked)
	out := filepath.Join(dir, "saved.yaml")
	require.NoError(t, s.Save(out))

	again, err := Load(out, nil)
	require.NoError(t, err)
	require.Len(t, again.Materials(), 3)
	entries := again.State.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 120, entries[0].UID)
	assert.Equal(t, "Skin", entries[0].Source.Name())
	assert.Equal(t, "Skin_B120", entries[0].Baked.Name())
	assert.Equal(t, 121, again.State.AutoIncrement())

	body := again.Objects()[0]
	mats := body.Materials()
	require.Len(t, mats, 2)
	assert.Equal(t, "m-skin", mats[0].ID())

	g2 := shader.NewGraph(again.Material("m-skin").Tree(), nil)
	assert.Equal(t, float32(0.4), shader.Float(g2.Get(g2.Principled(), "Roughness", nil), 0))
	require.NotNil(t, g2.ByID("diffuse_tex").Image())
}

func TestLoadRejectsBadLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `
materials:
  - id: m
    name: M
    nodes:
      - {id: a, kind: MIX_RGB}
    links:
      - {from: a, from_socket: Color, to: missing, to_socket: Color1}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	_, err := Load(path, nil)
	assert.Error(t, err)
}
