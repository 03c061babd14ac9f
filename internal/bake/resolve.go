package bake

import (
	"fmt"

	"cc3-texbaker/internal/render"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// bakeSocketInput bakes whatever is linked into node's input socket.
// Nothing linked bakes nothing.
func (j *job) bakeSocketInput(node shader.Node, socket string, m targets.Map, data bool) (shader.Node, error) {
	src, out := j.g.Source(node, socket)
	if src == nil {
		return nil, nil
	}
	return j.bakeTarget(src, out, m, data)
}

// bakeSocketOutput bakes an output socket of node. A nil node bakes nothing.
func (j *job) bakeSocketOutput(node shader.Node, socket string, m targets.Map, data bool) (shader.Node, error) {
	if node == nil {
		return nil, nil
	}
	return j.bakeTarget(node, socket, m, data)
}

// bakeTarget produces the image for map m from src's output socket and adds
// a tagged image node for it next to src. Plain image sources are copied;
// everything else is rendered.
func (j *job) bakeTarget(src shader.Node, socket string, m targets.Map, data bool) (shader.Node, error) {
	desc, ok := j.maps[m]
	if !ok {
		return nil, nil
	}
	name := j.name + "_" + desc.Suffix
	size := j.Sizes.MapSize(j.source, m)

	j.log.Info("baking", "source", src.Name(), "socket", socket, "map", m, "suffix", desc.Suffix, "size", size)

	img := j.copyImage(src, socket, name, size, data)
	if img == nil {
		var err error
		j.g.Link(src, socket, j.out, "Surface")
		img, err = j.render(render.Combined, name, size, data)
		if err != nil {
			return nil, err
		}
	}

	n := j.imageNode(img, m)
	loc := src.Location()
	shader.Position(n, loc[0]+25, loc[1]+25)
	return n, nil
}

// bakeShaderNormal bakes the tangent space normal of the principled shader.
func (j *job) bakeShaderNormal() (shader.Node, error) {
	desc, ok := j.maps[targets.Normal]
	if !ok {
		return nil, nil
	}
	name := j.name + "_" + desc.Suffix
	size := j.Sizes.MapSize(j.source, targets.Normal)

	j.log.Info("baking shader normals", "suffix", desc.Suffix, "size", size)

	j.g.Link(j.bsdf, "BSDF", j.out, "Surface")
	img, err := j.render(render.Normal, name, size, true)
	if err != nil {
		return nil, err
	}
	return j.imageNode(img, targets.Normal), nil
}

// imageNode shows img in the node tagged with map m, adding the node when
// the material has none, and records it as map m.
func (j *job) imageNode(img texture.Image, m targets.Map) shader.Node {
	n := j.g.ByTag(m)
	if n == nil {
		n = j.g.NewImage(img)
	} else {
		n.SetImage(img)
	}
	n.SetName(BakePrefix + j.name + "_" + string(m))
	n.SetTag(m)
	j.nodes[m] = n
	return n
}

// copyImage copies the image behind an unmapped image node's Color output
// into the bake target for name, scaled to size. The target gets the same
// depth and data flag as a rendered map. It returns nil when the source is
// not a plain image or the copy fails, so the caller renders instead.
func (j *job) copyImage(src shader.Node, socket, name string, size int, data bool) texture.Image {
	if src.Kind() != shader.TexImage || socket != "Color" || src.Image() == nil {
		return nil
	}
	if j.g.SourceNode(src, "Vector") != nil {
		return nil
	}
	if w, h := src.Image().Size(); w <= 0 || h <= 0 {
		return nil
	}

	dup, err := j.Images.Duplicate(src.Image())
	if err != nil {
		j.log.Info("unable to copy image, baking instead", "image", src.Image().Name(), "error", err)
		return nil
	}
	err = dup.Scale(size, size)
	pix := dup.Pixels()
	j.Images.Remove(dup)
	if err != nil {
		j.log.Info("unable to scale image copy, baking instead", "image", src.Image().Name(), "error", err)
		return nil
	}

	img, err := j.imageTarget(name, size, data, false)
	if err != nil {
		j.log.Info("unable to create copy target, baking instead", "image", name, "error", err)
		return nil
	}
	if err := img.SetPixels(pix); err != nil {
		j.log.Info("unable to fill copy target, baking instead", "image", name, "error", err)
		return nil
	}
	if err := img.Save(); err != nil {
		j.log.Info("unable to save image copy, baking instead", "image", name, "error", err)
		return nil
	}
	j.log.Info("copied image", "source", src.Image().Name(), "image", name)
	return img
}

// render bakes the surface into a target image with the bake render state,
// restoring the previous state on every return path.
func (j *job) render(mode render.Mode, name string, size int, data bool) (texture.Image, error) {
	img, err := j.imageTarget(name, size, data, false)
	if err != nil {
		return nil, err
	}

	s := j.Settings
	restore := render.Scope(j.Renderer, func(st *render.State) {
		st.Samples = s.Samples
		st.Adaptive = false
		st.Denoise = false
		st.Multires = false
		st.SelectedToActive = false
		st.PassDirect = false
		st.PassIndirect = false
		st.Target = render.TargetImage
		st.Margin = 16
		st.UseClear = true
		st.ViewTransform = "Standard"
		st.Look = "None"
		st.Exposure = 0
		st.Gamma = 1
		st.FileFormat = s.Format
		st.Quality = s.JPEGQuality
		st.Compression = s.PNGCompression
	})
	defer restore()

	req := render.Request{Mode: mode, Surface: j.surface, Target: img}
	if err := j.Renderer.Bake(j.ctx, req); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	if err := img.Save(); err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}
	return img, nil
}
