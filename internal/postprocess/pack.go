package postprocess

import (
	"cc3-texbaker/internal/targets"
)

// Channel is one packer input: flat bottom-up RGBA pixels of a baked map,
// or a constant Value when Pix is nil.
type Channel struct {
	Pix   []float32
	W, H  int
	Value [4]float32
}

// Const returns a channel that is v everywhere.
func Const(v float32) Channel {
	return Channel{Value: [4]float32{v, v, v, 1}}
}

// Present reports whether c carries pixels.
func (c Channel) Present() bool {
	return c.Pix != nil && c.W > 0 && c.H > 0 && len(c.Pix) >= c.W*c.H*4
}

// at returns component k of the texel under output pixel (x, y) of a w×h
// output, sampled nearest when sizes differ.
func (c Channel) at(x, y, w, h, k int) float32 {
	if !c.Present() {
		return c.Value[k]
	}
	sx, sy := x, y
	if c.W != w {
		sx = x * c.W / w
	}
	if c.H != h {
		sy = y * c.H / h
	}
	return c.Pix[(sy*c.W+sx)*4+k]
}

func pack(w, h int, texel func(x, y int, out []float32)) []float32 {
	pix := make([]float32, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			texel(x, y, pix[(y*w+x)*4:(y*w+x)*4+4])
		}
	}
	return pix
}

// PackBaseMap writes RGB from diffuse and A from alpha's red channel.
// A missing alpha map gives full opacity.
func PackBaseMap(w, h int, diffuse, alpha Channel) []float32 {
	if !alpha.Present() {
		alpha = Const(1)
	}
	return pack(w, h, func(x, y int, out []float32) {
		out[0] = diffuse.at(x, y, w, h, 0)
		out[1] = diffuse.at(x, y, w, h, 1)
		out[2] = diffuse.at(x, y, w, h, 2)
		out[3] = alpha.at(x, y, w, h, 0)
	})
}

// PackMask writes R metallic, G AO, B detail mask and A smoothness.
func PackMask(w, h int, metallic, ao, mask, roughness Channel, mode targets.Smoothness) []float32 {
	return pack(w, h, func(x, y int, out []float32) {
		out[0] = metallic.at(x, y, w, h, 0)
		out[1] = ao.at(x, y, w, h, 0)
		out[2] = mask.at(x, y, w, h, 0)
		out[3] = mode.Apply(roughness.at(x, y, w, h, 0))
	})
}

// PackMetallicSmoothness writes metallic to RGB and smoothness to A.
func PackMetallicSmoothness(w, h int, metallic, roughness Channel, mode targets.Smoothness) []float32 {
	return pack(w, h, func(x, y int, out []float32) {
		m := metallic.at(x, y, w, h, 0)
		out[0], out[1], out[2] = m, m, m
		out[3] = mode.Apply(roughness.at(x, y, w, h, 0))
	})
}

// PackSmoothness writes grayscale smoothness with an opaque alpha.
func PackSmoothness(w, h int, roughness Channel, mode targets.Smoothness) []float32 {
	return pack(w, h, func(x, y int, out []float32) {
		s := mode.Apply(roughness.at(x, y, w, h, 0))
		out[0], out[1], out[2], out[3] = s, s, s, 1
	})
}

// PackDetail writes the detail map layout: R 0.5, G normal.R, B 0.5,
// A normal.G.
func PackDetail(w, h int, normal Channel) []float32 {
	return pack(w, h, func(x, y int, out []float32) {
		out[0] = 0.5
		out[1] = normal.at(x, y, w, h, 0)
		out[2] = 0.5
		out[3] = normal.at(x, y, w, h, 1)
	})
}

// PackORM writes R occlusion, G roughness and B metallic.
func PackORM(w, h int, ao, roughness, metallic Channel) []float32 {
	return pack(w, h, func(x, y int, out []float32) {
		out[0] = ao.at(x, y, w, h, 0)
		out[1] = roughness.at(x, y, w, h, 0)
		out[2] = metallic.at(x, y, w, h, 0)
		out[3] = 1
	})
}

// Invert replaces RGB with 1-v in place. Alpha is kept.
func Invert(pix []float32) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = 1 - pix[i]
		pix[i+1] = 1 - pix[i+1]
		pix[i+2] = 1 - pix[i+2]
	}
}
