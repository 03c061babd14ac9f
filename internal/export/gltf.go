// Package export writes the baked materials of a GLTF target bake as a
// glTF material library.
package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qmuntal/gltf"

	"cc3-texbaker/internal/batch"
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// FileName is the material library written next to the manifest.
const FileName = "materials.gltf"

// library builds the document incrementally, sharing images by path.
type library struct {
	doc    *gltf.Document
	dir    string
	images map[string]int
}

// Materials builds a glTF document with one material per successful
// result. Image URIs are relative to dir.
func Materials(dir string, results []batch.Result) *gltf.Document {
	lib := &library{
		doc:    gltf.NewDocument(),
		dir:    dir,
		images: make(map[string]int),
	}
	lib.doc.Asset.Generator = "cc3-texbaker"
	lib.doc.Samplers = []*gltf.Sampler{{
		MagFilter: gltf.MagLinear,
		MinFilter: gltf.MinLinearMipMapLinear,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	}}

	sorted := append([]batch.Result(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UID < sorted[j].UID })
	for _, r := range sorted {
		if r.Success {
			lib.material(r)
		}
	}
	return lib.doc
}

// Write saves the material library for results to path.
func Write(path string, results []batch.Result) error {
	doc := Materials(filepath.Dir(path), results)
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func (l *library) material(r batch.Result) {
	out := r.Outputs
	m := &gltf.Material{
		Name: r.Baked,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(1),
			RoughnessFactor: gltf.Float(1),
		},
	}

	if i, ok := l.texture(r.Images[targets.Diffuse]); ok {
		m.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: i}
	}
	if i, ok := l.texture(r.Images[targets.ORM]); ok {
		m.PBRMetallicRoughness.MetallicRoughnessTexture = &gltf.TextureInfo{Index: i}
		m.OcclusionTexture = &gltf.OcclusionTexture{Index: gltf.Index(i), Strength: gltf.Float(float64(out.AOStrength))}
	} else {
		// no packed map: the factors alone describe the surface
		m.PBRMetallicRoughness.MetallicFactor = gltf.Float(0)
		m.PBRMetallicRoughness.RoughnessFactor = gltf.Float(0.5)
	}
	if i, ok := l.texture(r.Images[targets.Normal]); ok {
		m.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(i), Scale: gltf.Float(float64(out.NormalStrength))}
	}
	if i, ok := l.texture(r.Images[targets.Emission]); ok {
		m.EmissiveTexture = &gltf.TextureInfo{Index: i}
		m.EmissiveFactor = [3]float64{1, 1, 1}
	}
	if r.Blend == host.BlendAlpha {
		m.AlphaMode = gltf.AlphaBlend
	}

	l.doc.Materials = append(l.doc.Materials, m)
}

// texture returns the index of a texture showing the image at path,
// adding the image and texture on first use.
func (l *library) texture(path string) (int, bool) {
	if path == "" {
		return 0, false
	}
	if i, ok := l.images[path]; ok {
		return i, true
	}

	uri := path
	if rel, err := filepath.Rel(l.dir, path); err == nil {
		uri = rel
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	l.doc.Images = append(l.doc.Images, &gltf.Image{
		Name:     name,
		URI:      filepath.ToSlash(uri),
		MimeType: mimeType(path),
	})
	l.doc.Textures = append(l.doc.Textures, &gltf.Texture{
		Name:    name,
		Sampler: gltf.Index(0),
		Source:  gltf.Index(len(l.doc.Images) - 1),
	})
	i := len(l.doc.Textures) - 1
	l.images[path] = i
	return i, true
}

func mimeType(path string) string {
	switch texture.FormatFromExt(filepath.Ext(path)) {
	case texture.PNG:
		return "image/png"
	case texture.WEBP:
		return "image/webp"
	}
	return "image/jpeg"
}
