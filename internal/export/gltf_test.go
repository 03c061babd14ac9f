package export

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/bake"
	"cc3-texbaker/internal/batch"
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/targets"
)

func results(dir string) []batch.Result {
	bakeDir := filepath.Join(dir, "Bake")
	return []batch.Result{
		{
			Material: "Cornea", Baked: "Cornea_B101", UID: 101, Success: true, Blend: host.BlendAlpha,
			Outputs: bake.Outputs{AOStrength: 1, NormalStrength: 1},
			Images: map[targets.Map]string{
				targets.Diffuse: filepath.Join(bakeDir, "Cornea_B101_baseColor.png"),
			},
		},
		{
			Material: "Body", Baked: "Body_B100", UID: 100, Success: true, Blend: host.BlendOpaque,
			Outputs: bake.Outputs{AOStrength: 0.75, NormalStrength: 0.5},
			Images: map[targets.Map]string{
				targets.Diffuse: filepath.Join(bakeDir, "Body_B100_baseColor.jpg"),
				targets.ORM:     filepath.Join(bakeDir, "Body_B100_occlusionRoughnessMetallic.jpg"),
				targets.Normal:  filepath.Join(bakeDir, "Body_B100_normal.jpg"),
			},
		},
		{Material: "Eye", Baked: "Eye_B102", UID: 102, Error: "failed"},
	}
}

func TestMaterials(t *testing.T) {
	dir := t.TempDir()
	doc := Materials(dir, results(dir))

	require.Len(t, doc.Materials, 2)
	body := doc.Materials[0]
	assert.Equal(t, "Body_B100", body.Name)
	assert.Equal(t, gltf.AlphaOpaque, body.AlphaMode)

	pbr := body.PBRMetallicRoughness
	require.NotNil(t, pbr)
	require.NotNil(t, pbr.BaseColorTexture)
	require.NotNil(t, pbr.MetallicRoughnessTexture)
	require.NotNil(t, body.OcclusionTexture)
	assert.Equal(t, pbr.MetallicRoughnessTexture.Index, *body.OcclusionTexture.Index)
	assert.InDelta(t, 0.75, *body.OcclusionTexture.Strength, 1e-6)
	require.NotNil(t, body.NormalTexture)
	assert.InDelta(t, 0.5, *body.NormalTexture.Scale, 1e-6)

	orm := doc.Textures[pbr.MetallicRoughnessTexture.Index]
	img := doc.Images[*orm.Source]
	assert.Equal(t, "Bake/Body_B100_occlusionRoughnessMetallic.jpg", img.URI)
	assert.Equal(t, "image/jpeg", img.MimeType)

	cornea := doc.Materials[1]
	assert.Equal(t, gltf.AlphaBlend, cornea.AlphaMode)
	assert.Nil(t, cornea.OcclusionTexture)
	assert.InDelta(t, 0, *cornea.PBRMetallicRoughness.MetallicFactor, 1e-9)

	// one image per distinct file
	assert.Len(t, doc.Images, 4)
	assert.Len(t, doc.Textures, 4)
	assert.Equal(t, "image/png", doc.Images[3].MimeType)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, Write(path, results(dir)))

	doc, err := gltf.Open(path)
	require.NoError(t, err)
	require.Len(t, doc.Materials, 2)
	assert.Equal(t, "Cornea_B101", doc.Materials[1].Name)
	assert.Len(t, doc.Samplers, 1)
}
