package texture

import (
	"image"

	"golang.org/x/image/draw"
)

// scalePixels resizes bottom-up float pixels with CatmullRom filtering.
//
// Color and alpha are scaled as two separate opaque images so that data maps
// with partial alpha are not premultiplied on the way through.
func scalePixels(pix []float32, w, h, dw, dh int) []float32 {
	colorSrc := image.NewRGBA64(image.Rect(0, 0, w, h))
	alphaSrc := image.NewRGBA64(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		put16(colorSrc.Pix[i*8:], pix[i*4], pix[i*4+1], pix[i*4+2], 1)
		a := pix[i*4+3]
		put16(alphaSrc.Pix[i*8:], a, a, a, 1)
	}

	colorDst := image.NewRGBA64(image.Rect(0, 0, dw, dh))
	alphaDst := image.NewRGBA64(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(colorDst, colorDst.Bounds(), colorSrc, colorSrc.Bounds(), draw.Src, nil)
	draw.CatmullRom.Scale(alphaDst, alphaDst.Bounds(), alphaSrc, alphaSrc.Bounds(), draw.Src, nil)

	out := make([]float32, dw*dh*4)
	for i := 0; i < dw*dh; i++ {
		out[i*4] = get16(colorDst.Pix[i*8:])
		out[i*4+1] = get16(colorDst.Pix[i*8+2:])
		out[i*4+2] = get16(colorDst.Pix[i*8+4:])
		out[i*4+3] = get16(alphaDst.Pix[i*8:])
	}
	return out
}

func put16(dst []uint8, r, g, b, a float32) {
	for i, v := range [4]float32{r, g, b, a} {
		u := to16(v)
		dst[i*2] = uint8(u >> 8)
		dst[i*2+1] = uint8(u)
	}
}

func get16(src []uint8) float32 {
	return float32(uint16(src[0])<<8|uint16(src[1])) / 65535
}

func to16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535 + 0.5)
}
