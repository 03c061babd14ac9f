package texture

import (
	"fmt"
	"strings"
)

// Format is an image file format.
type Format string

const (
	PNG      Format = "PNG"
	JPEG     Format = "JPEG"
	WEBP     Format = "WEBP"
	BMP      Format = "BMP"
	TIFF     Format = "TIFF"
	TARGA    Format = "TARGA"
	TargaRaw Format = "TARGA_RAW"
)

// OutputFormats are the formats baked textures can be written in.
var OutputFormats = []Format{PNG, JPEG, WEBP}

// StrayFormats are the formats the format conversion pass rewrites.
var StrayFormats = []Format{BMP, PNG, TARGA, TargaRaw, TIFF}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case PNG:
		return ".png"
	case WEBP:
		return ".webp"
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tif"
	case TARGA, TargaRaw:
		return ".tga"
	}
	return ".jpg"
}

// HasAlpha reports whether files in format f can carry an alpha channel.
func (f Format) HasAlpha() bool {
	return f != JPEG && f != BMP
}

// ParseOutputFormat converts a mode string to an output Format.
func ParseOutputFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(s))
	for _, o := range OutputFormats {
		if o == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("texture: unsupported output format %q", s)
}

// FormatFromExt guesses a format from a file extension. Unknown extensions
// return "".
func FormatFromExt(ext string) Format {
	switch strings.ToLower(ext) {
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".webp":
		return WEBP
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".tga":
		return TARGA
	}
	return ""
}

// IsStray reports whether f is rewritten by the conversion pass into target.
func IsStray(f, target Format) bool {
	if f == target {
		return false
	}
	for _, s := range StrayFormats {
		if s == f {
			return true
		}
	}
	return false
}
