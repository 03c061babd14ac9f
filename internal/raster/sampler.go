package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SampleTexture performs bilinear filtering with UV wrapping on flat RGBA
// float pixels. Texel centers sit at (i+0.5)/w, so sampling a texel center
// returns that texel exactly.
func SampleTexture(pix []float32, w, h int, u, v float32) mgl32.Vec4 {
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return mgl32.Vec4{0, 0, 0, 1}
	}

	// Wrap UVs
	u -= math32.Floor(u)
	v -= math32.Floor(v)

	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	dx := fx - float32(x0)
	dy := fy - float32(y0)
	x0, x1 := wrap(x0, w), wrap(x0+1, w)
	y0, y1 := wrap(y0, h), wrap(y0+1, h)

	// Four texels
	i00 := (y0*w + x0) * 4
	i10 := (y0*w + x1) * 4
	i01 := (y1*w + x0) * 4
	i11 := (y1*w + x1) * 4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out mgl32.Vec4
	for k := 0; k < 4; k++ {
		out[k] = pix[i00+k]*w00 + pix[i10+k]*w10 + pix[i01+k]*w01 + pix[i11+k]*w11
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
