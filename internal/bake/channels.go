package bake

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
)

// bakeChannels bakes every source channel the target needs, in order.
func (j *job) bakeChannels() error {
	steps := []func() error{
		j.bakeDiffuseAO,
		j.bakeSubsurface,
		j.bakeSurface,
		j.bakeNormals,
		j.bakeMicroNormals,
	}
	for _, step := range steps {
		if err := j.ctx.Err(); err != nil {
			return err
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// prepAO finds the AO source feeding the base color and scales how much of
// it stays in the diffuse bake by aoInDiffuse. The returned strength is the
// AO factor the reconnected material applies on top.
func (j *job) prepAO(aoInDiffuse float32) (shader.Node, string, float32) {
	input := j.g.SourceNode(j.bsdf, "Base Color")
	if input == nil {
		return nil, "", 1
	}

	switch {
	case shader.IsMultiply(input):
		node, socket := j.g.Source(input, "Color2")
		strength := shader.Float(j.g.Get(input, "Fac", float32(1)), 1)
		j.g.Set(input, "Fac", strength*aoInDiffuse)
		return node, socket, strength * (1 - aoInDiffuse)

	case shader.HasKeywords(input, "(color_", "_mixer)"):
		if strings.Contains(input.Name(), "_hair_") {
			// vertex color tinting of the hair shader is not baked
			j.g.Set(input, "Base Color Strength", float32(0))
		}
		// the AO output of the mixer groups ignores AO Strength
		strength := shader.Float(j.g.Get(input, "AO Strength", float32(1)), 1)
		j.g.Set(input, "AO Strength", strength*aoInDiffuse)
		return input, "AO", strength * (1 - aoInDiffuse)
	}

	j.log.Warn("unable to determine AO mixer", "node", input.Name())
	return nil, "", 1
}

// prepDiffuse rewires refractive eyes: the cornea color has the iris
// transmission mixed in, so the plain eye color is baked instead and the
// inverted iris mask becomes the alpha.
func (j *job) prepDiffuse() {
	input, socket := j.g.Source(j.bsdf, "Base Color")
	if input == nil || socket != "Cornea Base Color" {
		return
	}
	j.g.Link(input, "Eye Base Color", j.bsdf, "Base Color")
	if iris := j.g.ByKeywords("(iris_mask)"); iris != nil {
		j.g.Link(iris, "Inverted Mask", j.bsdf, "Alpha")
		j.mat.SetBlendMode(host.BlendAlpha)
	}
}

// prepSSS measures the subsurface radius: falloff times radius of a
// subsurface mixer group, else the shader's own radius.
func (j *job) prepSSS() mgl32.Vec3 {
	radius := mgl32.Vec3{0.01, 0.01, 0.01}
	input := j.g.SourceNode(j.bsdf, "Subsurface")
	if input == nil {
		return radius
	}
	if input.Kind() == shader.Group && shader.HasKeywords(input, "(subsurface_", "_mixer)") {
		falloffSocket, radiusSocket := "Falloff", "Radius"
		if strings.Contains(input.Name(), "_overlay_") {
			falloffSocket, radiusSocket = "Falloff1", "Radius1"
		}
		falloff := shader.Color(j.g.Get(input, falloffSocket, nil), mgl32.Vec4{1, 1, 1, 1})
		r := shader.Float(j.g.Get(input, radiusSocket, nil), 0.01)
		return mgl32.Vec3{falloff[0] * r, falloff[1] * r, falloff[2] * r}
	}
	return shader.Vec3(j.g.Get(j.bsdf, "Subsurface Radius", nil), radius)
}

// prepRoughness neutralizes the roughness remap of the msr mixer groups so
// the raw roughness is baked, and returns the remap value.
func (j *job) prepRoughness() float32 {
	input := j.g.SourceNode(j.bsdf, "Roughness")
	if input == nil || input.Kind() != shader.Group || !shader.HasKeywords(input, "(msr_", "_mixer)") {
		return 0
	}
	if !input.HasInput("Roughness Remap") {
		return 0
	}
	remap := shader.Float(j.g.Get(input, "Roughness Remap", float32(0)), 0)
	j.g.Set(input, "Roughness Remap", float32(0))
	return remap
}

func (j *job) bakeDiffuseAO() error {
	var aoNode shader.Node
	var aoSocket string
	if j.maps.Has(targets.AO) {
		aoNode, aoSocket, j.outputs.AOStrength = j.prepAO(j.Settings.AOInDiffuse)
	} else {
		j.prepAO(1)
	}

	if j.maps.Has(targets.Diffuse) {
		j.prepDiffuse()
		if _, err := j.bakeSocketInput(j.bsdf, "Base Color", targets.Diffuse, false); err != nil {
			return err
		}
	}
	if j.maps.Has(targets.AO) {
		if _, err := j.bakeSocketOutput(aoNode, aoSocket, targets.AO, true); err != nil {
			return err
		}
	}
	return nil
}

func (j *job) bakeSubsurface() error {
	if j.maps.Has(targets.Subsurface) {
		j.outputs.SSSRadius = j.prepSSS()
		if _, err := j.bakeSocketInput(j.bsdf, "Subsurface", targets.Subsurface, true); err != nil {
			return err
		}
	}
	if j.maps.Has(targets.Thickness) {
		thickness := j.g.ImageNode("transmission_tex", "")
		if _, err := j.bakeSocketOutput(thickness, "Color", targets.Thickness, true); err != nil {
			return err
		}
	}
	return nil
}

// bakeSurface bakes the plain principled inputs.
func (j *job) bakeSurface() error {
	if !j.maps.Has(targets.Specular) {
		j.g.Set(j.bsdf, "Specular", float32(0.5))
	}
	if j.maps.Has(targets.Roughness) {
		j.outputs.RoughnessRemap = j.prepRoughness()
	}

	inputs := []struct {
		m      targets.Map
		socket string
	}{
		{targets.Metallic, "Metallic"},
		{targets.Specular, "Specular"},
		{targets.Roughness, "Roughness"},
		{targets.Emission, "Emission"},
		{targets.Alpha, "Alpha"},
		{targets.Transmission, "Transmission"},
	}
	for _, in := range inputs {
		if !j.maps.Has(in.m) {
			continue
		}
		if _, err := j.bakeSocketInput(j.bsdf, in.socket, in.m, true); err != nil {
			return err
		}
	}
	return nil
}

// bakeNormals applies the normal policy to whatever feeds the shader's
// Normal input.
func (j *job) bakeNormals() error {
	if !j.maps.Has(targets.Normal) {
		return nil
	}
	input := j.g.SourceNode(j.bsdf, "Normal")
	if input == nil {
		return nil
	}
	bumpToNormal := !j.maps.Has(targets.Bump) || !j.Settings.BumpMaps()

	var err error
	switch {
	case input.Kind() == shader.NormalMap:
		_, err = j.bakeShaderNormal()

	case input.Kind() == shader.Bump:
		if bumpToNormal {
			_, err = j.bakeShaderNormal()
			break
		}
		err = j.bakeBumpInputs(input)

	case input.Kind() == shader.Group && shader.HasKeywords(input, "(normal_", "_mixer)"):
		tree := input.Property(shader.PropNodeTree)
		switch {
		case !bumpToNormal && strings.Contains(tree, "fake_bump_mixer"):
			// the fake bump mixer generates its height map
			j.outputs.BumpDistance = shader.Float(j.g.Get(input, "Bump Map Height", float32(1)), 1)
			_, err = j.bakeSocketOutput(input, "Height", targets.Bump, true)
		case !bumpToNormal && strings.Contains(tree, "bump_mixer"):
			j.outputs.BumpDistance = shader.Float(j.g.Get(input, "Bump Map Height", float32(1)), 1)
			_, err = j.bakeSocketInput(input, "Bump Map", targets.Bump, true)
		default:
			j.log.Info("baking blend normal", "node", input.Name())
			j.g.Link(input, "Blend Normal", j.bsdf, "Normal")
			_, err = j.bakeShaderNormal()
		}

	default:
		_, err = j.bakeShaderNormal()
	}
	return err
}

// bakeBumpInputs bakes the normal and height inputs of a bump node as
// separate maps. A normal map node feeding the bump is baked from its color
// input.
func (j *job) bakeBumpInputs(bump shader.Node) error {
	if nm := j.g.SourceNode(bump, "Normal"); nm != nil {
		var err error
		if nm.Kind() == shader.NormalMap {
			j.outputs.NormalStrength = shader.Float(j.g.Get(nm, "Strength", float32(1)), 1)
			_, err = j.bakeSocketInput(nm, "Color", targets.Normal, true)
		} else {
			_, err = j.bakeSocketInput(bump, "Normal", targets.Normal, true)
		}
		if err != nil {
			return err
		}
	}
	if j.g.SourceNode(bump, "Height") != nil {
		j.outputs.BumpDistance = shader.Float(j.g.Get(bump, "Distance", float32(1)), 1)
		if _, err := j.bakeSocketInput(bump, "Height", targets.Bump, true); err != nil {
			return err
		}
	}
	return nil
}

func (j *job) bakeMicroNormals() error {
	if j.maps.Has(targets.MicroNormal) {
		micro := j.g.ImageNode("micro_normal_tex", "")
		if micro != nil {
			if mapping := j.g.SourceNode(micro, "Vector"); mapping != nil && mapping.Kind() == shader.Mapping {
				j.outputs.MicroNormalScale = shader.Vec3(j.g.Get(mapping, "Scale", nil), j.outputs.MicroNormalScale)
			}
			// bake one untiled copy
			j.g.Unlink(micro, "Vector")
		}
		if _, err := j.bakeSocketOutput(micro, "Color", targets.MicroNormal, true); err != nil {
			return err
		}
	}
	if j.maps.Has(targets.MicroNormalMask) {
		mask := j.g.ImageNode("micro_normal_mask_tex", "")
		if _, err := j.bakeSocketOutput(mask, "Color", targets.MicroNormalMask, true); err != nil {
			return err
		}
	}
	return nil
}
