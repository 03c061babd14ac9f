package texture

import (
	"fmt"
	"os"
	"path/filepath"
)

// Buffer is an in-memory Image backed by an optional file on disk.
type Buffer struct {
	name   string
	path   string
	width  int
	height int
	alpha  bool
	data   bool
	format Format
	pix    []float32
	opts   *EncodeOptions
}

// NewBuffer allocates an opaque black image.
func NewBuffer(name string, width, height int, alpha, isData bool) *Buffer {
	b := &Buffer{
		name:   name,
		width:  width,
		height: height,
		alpha:  alpha,
		data:   isData,
		format: PNG,
		opts:   &DefaultEncodeOptions,
	}
	b.pix = blank(width, height)
	return b
}

func blank(w, h int) []float32 {
	if w <= 0 || h <= 0 {
		return nil
	}
	pix := make([]float32, w*h*4)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 1
	}
	return pix
}

func (b *Buffer) Name() string        { return b.name }
func (b *Buffer) SetName(name string) { b.name = name }
func (b *Buffer) Path() string        { return b.path }
func (b *Buffer) SetPath(path string) { b.path = path }
func (b *Buffer) Size() (int, int)    { return b.width, b.height }
func (b *Buffer) Alpha() bool         { return b.alpha }
func (b *Buffer) IsData() bool        { return b.data }
func (b *Buffer) Format() Format      { return b.format }
func (b *Buffer) SetFormat(f Format)  { b.format = f }

func (b *Buffer) Depth() int {
	if b.alpha {
		return 32
	}
	return 24
}

// Scale resizes the image in place.
func (b *Buffer) Scale(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("texture: scale %s: invalid size %dx%d", b.name, width, height)
	}
	if len(b.pix) == 0 || len(b.pix) != b.width*b.height*4 {
		return fmt.Errorf("texture: scale %s: no pixel data", b.name)
	}
	if width == b.width && height == b.height {
		return nil
	}
	b.pix = scalePixels(b.pix, b.width, b.height, width, height)
	b.width, b.height = width, height
	return nil
}

func (b *Buffer) Pixels() []float32 {
	out := make([]float32, len(b.pix))
	copy(out, b.pix)
	return out
}

func (b *Buffer) SetPixels(pix []float32) error {
	if len(pix) != b.width*b.height*4 {
		return fmt.Errorf("texture: set pixels %s: got %d values, want %d", b.name, len(pix), b.width*b.height*4)
	}
	copy(b.pix, pix)
	return nil
}

// Save encodes the image to its path in its format.
func (b *Buffer) Save() error {
	if b.path == "" {
		return fmt.Errorf("texture: save %s: no file path", b.name)
	}
	if len(b.pix) == 0 {
		return fmt.Errorf("texture: save %s: no pixel data", b.name)
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("texture: save %s: %w", b.path, err)
	}

	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("texture: save %s: %w", b.path, err)
	}
	defer f.Close()

	img := toUpright(b.width, b.height, b.pix, b.alpha && b.format.HasAlpha())
	if err := Encode(f, img, b.format, *b.opts); err != nil {
		return fmt.Errorf("texture: encode %s: %w", b.path, err)
	}
	return nil
}

// Reload replaces the pixels with the file contents.
func (b *Buffer) Reload() error {
	img, _, err := Decode(b.path)
	if err != nil {
		return err
	}
	b.width, b.height, b.pix = fromNRGBA(img)
	return nil
}

func (b *Buffer) clone(name string) *Buffer {
	c := *b
	c.name = name
	c.pix = b.Pixels()
	return &c
}
