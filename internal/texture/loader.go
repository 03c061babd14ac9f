package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Decode reads an image file and returns it as NRGBA along with the format
// found in the file. The content is sniffed first; the extension is only
// trusted for TGA, which has no magic number.
func Decode(path string) (*image.NRGBA, Format, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("texture: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("texture: empty file: %s", path)
	}

	format := sniff(raw)
	if format == "" {
		format = FormatFromExt(filepath.Ext(path))
	}

	r := bytes.NewReader(raw)
	var img image.Image
	switch format {
	case PNG:
		img, err = png.Decode(r)
	case JPEG:
		img, err = jpeg.Decode(r)
	case WEBP:
		img, err = webp.Decode(r)
	case BMP:
		img, err = bmp.Decode(r)
	case TIFF:
		img, err = tiff.Decode(r)
	case TARGA, TargaRaw:
		img, err = tga.Decode(r)
	default:
		return nil, "", fmt.Errorf("texture: unknown format: %s", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return toNRGBA(img), format, nil
}

func sniff(raw []byte) Format {
	kind, err := filetype.Match(raw)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	switch kind.Extension {
	case "png":
		return PNG
	case "jpg":
		return JPEG
	case "webp":
		return WEBP
	case "bmp":
		return BMP
	case "tif":
		return TIFF
	}
	return ""
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha, draw and set alpha to 255
		draw.Draw(dst, b, src, b.Min, draw.Src)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Pix[dst.PixOffset(x, y)+3] = 255
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}

// fromNRGBA converts an upright NRGBA image to bottom-up float pixels.
func fromNRGBA(img *image.NRGBA) (w, h int, pix []float32) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	pix = make([]float32, w*h*4)
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w * 4
		for x := 0; x < w; x++ {
			si := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := row + x*4
			pix[di] = float32(img.Pix[si]) / 255
			pix[di+1] = float32(img.Pix[si+1]) / 255
			pix[di+2] = float32(img.Pix[si+2]) / 255
			pix[di+3] = float32(img.Pix[si+3]) / 255
		}
	}
	return w, h, pix
}

// toUpright converts bottom-up float pixels to an upright NRGBA image.
// Opaque images get alpha 255 regardless of the buffer contents.
func toUpright(w, h int, pix []float32, alpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w * 4
		for x := 0; x < w; x++ {
			si := row + x*4
			di := img.PixOffset(x, y)
			img.Pix[di] = clamp8(pix[si])
			img.Pix[di+1] = clamp8(pix[si+1])
			img.Pix[di+2] = clamp8(pix[si+2])
			if alpha {
				img.Pix[di+3] = clamp8(pix[si+3])
			} else {
				img.Pix[di+3] = 255
			}
		}
	}
	return img
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
