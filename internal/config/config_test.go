package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, targets.Blender, s.Target)
	assert.Equal(t, texture.JPEG, s.Format)
	assert.Equal(t, 5, s.Samples)
	assert.Equal(t, 90, s.JPEGQuality)
	assert.Equal(t, 15, s.PNGCompression)
	assert.Equal(t, 4096, s.MaxSize)
	assert.Equal(t, targets.IR, s.Smoothness)
	assert.Equal(t, "Bake", s.BakePath)
	assert.True(t, s.BumpMaps())
	assert.Equal(t, 2048, s.Sizes[targets.NormalSize])
	assert.Equal(t, 1024, s.Sizes[targets.DiffuseSize])
	assert.NoError(t, s.Validate())
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bake.yaml")
	body := `
target: unity_hdrp
format: png
png_compression: 0
allow_bump_maps: false
custom_sizes: true
sizes:
  diffuse_size: 512
smoothness: sirs
base_dir: scene
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	s.Resolve(Flags{Samples: 12})

	assert.Equal(t, targets.UnityHDRP, s.Target)
	assert.Equal(t, texture.PNG, s.Format)
	assert.Equal(t, 0, s.PNGCompression)
	assert.Equal(t, 12, s.Samples)
	assert.False(t, s.BumpMaps())
	assert.True(t, s.CustomSizes)
	assert.Equal(t, 512, s.Sizes[targets.DiffuseSize])
	assert.Equal(t, 2048, s.Sizes[targets.BumpSize])
	assert.Equal(t, filepath.Join(dir, "scene"), s.BaseDir)
	assert.Equal(t, filepath.Join(dir, "scene", "Bake"), s.BakeDir())

	// "sirs" is not a formula
	assert.Error(t, s.Validate())
}

func TestFlagsOverrideFile(t *testing.T) {
	s := Settings{Target: targets.Sketchfab, Format: texture.PNG}
	s.Resolve(Flags{Target: "gltf", Format: "webp", BakePath: "/tmp/out"})
	assert.Equal(t, targets.GLTF, s.Target)
	assert.Equal(t, texture.WEBP, s.Format)
	assert.Equal(t, "/tmp/out", s.BakeDir())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Settings)
	}{
		{"target", func(s *Settings) { s.Target = "UNREAL" }},
		{"format", func(s *Settings) { s.Format = texture.TIFF }},
		{"max size", func(s *Settings) { s.MaxSize = 3000 }},
		{"size key", func(s *Settings) { s.Sizes[targets.AOSize] = 100 }},
		{"ao in diffuse", func(s *Settings) { s.AOInDiffuse = 1.5 }},
		{"quality", func(s *Settings) { s.JPEGQuality = 101 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.modify(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
