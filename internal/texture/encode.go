package texture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	switch format {
	case PNG:
		enc := png.Encoder{CompressionLevel: pngLevel(opts.Compression)}
		return enc.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality(opts.Quality)})
	case WEBP:
		return nativewebp.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case TARGA, TargaRaw:
		return tga.Encode(w, img)
	}
	return fmt.Errorf("texture: cannot encode format %q", format)
}

// pngLevel maps a 0-100 compression percentage onto the encoder levels.
func pngLevel(compression int) png.CompressionLevel {
	switch {
	case compression <= 0:
		return png.NoCompression
	case compression <= 30:
		return png.BestSpeed
	case compression <= 70:
		return png.DefaultCompression
	}
	return png.BestCompression
}

func jpegQuality(q int) int {
	if q <= 0 {
		return DefaultEncodeOptions.Quality
	}
	if q > 100 {
		return 100
	}
	return q
}
