package bake

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/postprocess"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
)

// postProcess builds the packed maps of the target from the baked maps.
func (j *job) postProcess() error {
	switch j.Settings.Target {
	case targets.UnityURP:
		if err := j.packSmoothness(); err != nil {
			return err
		}
		return j.packMetallicSmoothness()

	case targets.UnityHDRP:
		if err := j.packBaseMap(); err != nil {
			return err
		}
		if err := j.packMask(); err != nil {
			return err
		}
		if err := j.packDetail(); err != nil {
			return err
		}
		return j.invertThickness()

	case targets.GLTF:
		return j.packORM()
	}
	return nil
}

// channel reads the baked map m, falling back to the constant v.
func (j *job) channel(m targets.Map, v mgl32.Vec4) postprocess.Channel {
	c := postprocess.Channel{Value: [4]float32(v)}
	if n := j.nodes[m]; n != nil && n.Image() != nil {
		c.W, c.H = n.Image().Size()
		c.Pix = n.Image().Pixels()
	}
	return c
}

func (j *job) present(maps ...targets.Map) bool {
	for _, m := range maps {
		if n := j.nodes[m]; n != nil && n.Image() != nil {
			return true
		}
	}
	return false
}

func (j *job) scalar(socket string, def float32) mgl32.Vec4 {
	v := shader.Float(j.g.Get(j.bsdf, socket, def), def)
	return mgl32.Vec4{v, v, v, 1}
}

// writePacked creates the image for packed map m and fills it from pack.
func (j *job) writePacked(m targets.Map, alpha bool, pack func(w, h int) []float32) error {
	desc, ok := j.maps[m]
	if !ok {
		return nil
	}
	name := j.name + "_" + desc.Suffix
	size := j.Sizes.MapSize(j.source, m)
	img, err := j.imageTarget(name, size, true, alpha)
	if err != nil {
		return err
	}
	w, h := img.Size()
	if err := img.SetPixels(pack(w, h)); err != nil {
		return fmt.Errorf("pack %s: %w", name, err)
	}
	if err := img.Save(); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	j.log.Info("packed map", "map", m, "image", name, "size", size)
	j.imageNode(img, m)
	return nil
}

// packBaseMap: RGB diffuse, A alpha.
func (j *job) packBaseMap() error {
	if !j.present(targets.Diffuse, targets.Alpha) {
		return nil
	}
	diffuse := j.channel(targets.Diffuse, shader.Color(j.g.Get(j.bsdf, "Base Color", nil), mgl32.Vec4{1, 1, 1, 1}))
	alpha := j.channel(targets.Alpha, mgl32.Vec4{1, 1, 1, 1})
	return j.writePacked(targets.BaseMap, true, func(w, h int) []float32 {
		return postprocess.PackBaseMap(w, h, diffuse, alpha)
	})
}

// packMask: R metallic, G AO, B micro normal mask, A smoothness.
func (j *job) packMask() error {
	if !j.present(targets.Metallic, targets.AO, targets.MicroNormalMask, targets.Roughness) {
		return nil
	}
	metallic := j.channel(targets.Metallic, j.scalar("Metallic", 0))
	ao := j.channel(targets.AO, mgl32.Vec4{1, 1, 1, 1})
	mask := j.channel(targets.MicroNormalMask, mgl32.Vec4{1, 1, 1, 1})
	roughness := j.channel(targets.Roughness, j.scalar("Roughness", 0))
	mode := j.Settings.Smoothness
	return j.writePacked(targets.Mask, true, func(w, h int) []float32 {
		return postprocess.PackMask(w, h, metallic, ao, mask, roughness, mode)
	})
}

// packDetail: R 0.5, G micro normal R, B 0.5, A micro normal G.
func (j *job) packDetail() error {
	if !j.present(targets.MicroNormal) {
		return nil
	}
	normal := j.channel(targets.MicroNormal, mgl32.Vec4{0.5, 0.5, 1, 1})
	return j.writePacked(targets.Detail, true, func(w, h int) []float32 {
		return postprocess.PackDetail(w, h, normal)
	})
}

// invertThickness turns the baked transmission into thickness in place.
func (j *job) invertThickness() error {
	n := j.nodes[targets.Thickness]
	if n == nil || n.Image() == nil {
		return nil
	}
	img := n.Image()
	pix := img.Pixels()
	postprocess.Invert(pix)
	if err := img.SetPixels(pix); err != nil {
		return fmt.Errorf("invert %s: %w", img.Name(), err)
	}
	if err := img.Save(); err != nil {
		return fmt.Errorf("save %s: %w", img.Name(), err)
	}
	return nil
}

// packSmoothness writes a grayscale smoothness map from the roughness bake.
func (j *job) packSmoothness() error {
	if !j.present(targets.Roughness) {
		return nil
	}
	roughness := j.channel(targets.Roughness, j.scalar("Roughness", 0.5))
	mode := j.Settings.Smoothness
	return j.writePacked(targets.SmoothnessMap, false, func(w, h int) []float32 {
		return postprocess.PackSmoothness(w, h, roughness, mode)
	})
}

// packMetallicSmoothness: RGB metallic, A smoothness.
func (j *job) packMetallicSmoothness() error {
	if !j.present(targets.Metallic, targets.Roughness) {
		return nil
	}
	metallic := j.channel(targets.Metallic, j.scalar("Metallic", 0))
	roughness := j.channel(targets.Roughness, j.scalar("Roughness", 0.5))
	mode := j.Settings.Smoothness
	return j.writePacked(targets.MetallicSmoothness, true, func(w, h int) []float32 {
		return postprocess.PackMetallicSmoothness(w, h, metallic, roughness, mode)
	})
}

// packORM: R occlusion, G roughness, B metallic.
func (j *job) packORM() error {
	if !j.present(targets.AO, targets.Roughness, targets.Metallic) {
		return nil
	}
	ao := j.channel(targets.AO, mgl32.Vec4{1, 1, 1, 1})
	roughness := j.channel(targets.Roughness, j.scalar("Roughness", 0.5))
	metallic := j.channel(targets.Metallic, j.scalar("Metallic", 0))
	return j.writePacked(targets.ORM, false, func(w, h int) []float32 {
		return postprocess.PackORM(w, h, ao, roughness, metallic)
	})
}
