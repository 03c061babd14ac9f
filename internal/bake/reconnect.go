package bake

import (
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
)

// reconnect strips the material down to the principled shader, the output
// and the baked image nodes, and wires the images back into the shader.
func (j *job) reconnect() {
	g := j.g
	bsdf := j.bsdf
	g.Link(bsdf, "BSDF", j.out, "Surface")

	tagged := make(map[targets.Map]shader.Node)
	for _, n := range g.Tagged() {
		tagged[n.Tag()] = n
	}
	for _, n := range g.Tree.Nodes() {
		if n.ID() == bsdf.ID() || n.ID() == j.out.ID() || n.Tag() != "" {
			continue
		}
		g.Tree.Remove(n)
	}

	diffuse := tagged[targets.Diffuse]
	ao := tagged[targets.AO]
	sss := tagged[targets.Subsurface]
	normal := tagged[targets.Normal]
	bump := tagged[targets.Bump]
	micro := tagged[targets.MicroNormal]

	var mix shader.Node
	if diffuse != nil && ao != nil {
		mix = g.NewMix("MULTIPLY")
		g.Set(mix, "Fac", j.outputs.AOStrength)
		g.Link(diffuse, "Color", mix, "Color1")
		g.Link(ao, "Color", mix, "Color2")
		g.Link(mix, "Color", bsdf, "Base Color")
	} else {
		g.Link(diffuse, "Color", bsdf, "Base Color")
	}

	if sss != nil {
		g.Link(sss, "Color", bsdf, "Subsurface")
		g.Set(bsdf, "Subsurface Radius", j.outputs.SSSRadius)
		if mix != nil {
			g.Link(mix, "Color", bsdf, "Subsurface Color")
		} else {
			g.Link(diffuse, "Color", bsdf, "Subsurface Color")
		}
	}

	for _, in := range []struct {
		m      targets.Map
		socket string
	}{
		{targets.Metallic, "Metallic"},
		{targets.Specular, "Specular"},
		{targets.Roughness, "Roughness"},
		{targets.Emission, "Emission"},
		{targets.Alpha, "Alpha"},
		{targets.Transmission, "Transmission"},
	} {
		g.Link(tagged[in.m], "Color", bsdf, in.socket)
	}

	var normalMap, bumpMap shader.Node
	if normal != nil {
		normalMap = g.NewNode(shader.NormalMap)
		g.Set(normalMap, "Strength", j.outputs.NormalStrength)
		g.Link(normal, "Color", normalMap, "Color")
	}
	if bump != nil {
		bumpMap = g.NewNode(shader.Bump)
		g.Set(bumpMap, "Distance", j.outputs.BumpDistance)
		g.Link(bump, "Color", bumpMap, "Height")
		g.Link(normalMap, "Normal", bumpMap, "Normal")
		g.Link(bumpMap, "Normal", bsdf, "Normal")
	} else {
		g.Link(normalMap, "Normal", bsdf, "Normal")
	}

	var mapping, coords shader.Node
	if micro != nil {
		mapping = g.NewNode(shader.Mapping)
		g.Set(mapping, "Scale", j.outputs.MicroNormalScale)
		coords = g.NewNode(shader.TexCoord)
		g.Link(coords, "UV", mapping, "Vector")
		g.Link(mapping, "Vector", micro, "Vector")
	}

	shader.Position(diffuse, -600, 600)
	shader.Position(ao, -900, 600)
	shader.Position(mix, -300, 600)

	shader.Position(sss, -600, 300)
	shader.Position(tagged[targets.Thickness], -900, 300)

	shader.Position(tagged[targets.Metallic], -1200, 0)
	shader.Position(tagged[targets.Specular], -900, 0)
	shader.Position(tagged[targets.Roughness], -600, 0)

	shader.Position(tagged[targets.Transmission], -1200, -300)
	shader.Position(tagged[targets.Emission], -900, -300)
	shader.Position(tagged[targets.Alpha], -600, -300)

	shader.Position(normal, -900, -600)
	shader.Position(normalMap, -600, -600)
	shader.Position(bump, -600, -900)
	shader.Position(bumpMap, -300, -600)

	shader.Position(micro, -900, -1200)
	shader.Position(mapping, -1200, -1200)
	shader.Position(coords, -1500, -1200)
	shader.Position(tagged[targets.MicroNormalMask], -600, -1200)
}
