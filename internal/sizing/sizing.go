// Package sizing picks bake resolutions from the textures feeding a
// material.
package sizing

import (
	"strings"

	"cc3-texbaker/internal/config"
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/state"
	"cc3-texbaker/internal/targets"
)

// Detector resolves map sizes for the active target.
type Detector struct {
	Settings *config.Settings
	State    *state.Store
	Log      *logger.Logger
}

// Detect estimates the natural size of map for m from its source textures.
func (d *Detector) Detect(m host.Material, name targets.Map) int {
	desc, ok := d.Settings.Target.Maps()[name]
	if !ok {
		return targets.DefaultSize
	}
	detect, ok := targets.SizeDetect[desc.Size]
	if !ok {
		return targets.DefaultSize
	}
	return d.maxTextureSize(m, detect)
}

func (d *Detector) maxTextureSize(m host.Material, detect targets.Detect) int {
	if m == nil || m.Tree() == nil {
		return targets.NoSize
	}
	g := shader.NewGraph(m.Tree(), d.Log)

	size := 0
	if m.Family() != "" {
		for _, id := range detect.Textures {
			if s := shader.ImageSize(g.ByID(id)); s > size {
				size = s
			}
		}
	}
	if size == 0 {
		bsdf := g.Principled()
		for _, input := range detect.Inputs {
			if s := largestToSocket(g, bsdf, input, map[string]bool{}); s > size {
				size = s
			}
		}
	}

	if overrides, ok := targets.SizeOverrides[m.Family()]; ok {
		override := 0
		for _, id := range detect.Textures {
			if s, ok := overrides[id]; ok && s > override {
				override = s
			}
		}
		if override > 0 {
			size = override
		}
	}

	if size == 0 {
		return targets.NoSize
	}
	return size
}

// qualified input paths descend through one pass-through node first
var qualifiers = []struct {
	suffix string
	match  func(shader.Node) bool
	socket string
}{
	{":AO", shader.IsMultiply, "Color2"},
	{":DIFFUSE", shader.IsMultiply, "Color1"},
	{":BUMP", isBump, "Height"},
	{":NORMAL", isBump, "Normal"},
}

func isBump(n shader.Node) bool { return n != nil && n.Kind() == shader.Bump }

func largestToSocket(g *shader.Graph, n shader.Node, socket string, done map[string]bool) int {
	if n == nil {
		return 0
	}
	for _, q := range qualifiers {
		if strings.HasSuffix(socket, q.suffix) {
			src := g.SourceNode(n, strings.TrimSuffix(socket, q.suffix))
			if !q.match(src) {
				return largestFrom(g, src, done)
			}
			return largestToSocket(g, src, q.socket, done)
		}
	}
	return largestFrom(g, g.SourceNode(n, socket), done)
}

func largestFrom(g *shader.Graph, n shader.Node, done map[string]bool) int {
	if n == nil || done[n.ID()] {
		return 0
	}
	done[n.ID()] = true
	if n.Kind() == shader.TexImage {
		return shader.ImageSize(n)
	}
	largest := 0
	for _, socket := range n.InputSockets() {
		if s := largestToSocket(g, n, socket, done); s > largest {
			largest = s
		}
	}
	return largest
}

// MapSize returns the bake resolution for map on m: the detected size, or
// the custom size when custom sizes are enabled, snapped to a supported
// size and clamped to the maximum.
func (d *Detector) MapSize(m host.Material, name targets.Map) int {
	size := d.Detect(m, name)

	if d.Settings.CustomSizes {
		desc, ok := d.Settings.Target.Maps()[name]
		if ok {
			sizes := d.Settings.Sizes
			if d.State != nil {
				if ms := d.State.Settings(m); ms != nil {
					sizes = ms.Sizes
				}
			}
			if s, ok := sizes[desc.Size]; ok && s > 0 {
				size = s
			}
			logger.OrNop(d.Log).Debug("custom map size", "map", name, "size", size)
		} else {
			size = targets.DefaultSize
		}
	}

	size = targets.Snap(size)
	if limit := d.Settings.MaxSize; limit > 0 && size > limit {
		logger.OrNop(d.Log).Debug("clamping map size", "map", name, "size", size, "max", limit)
		size = limit
	}
	return size
}
