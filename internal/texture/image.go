package texture

// Image is a decoded 2D pixel buffer owned by the host.
//
// Pixels are flat RGBA float32 values, rows ordered bottom to top, so
// len(Pixels()) == width*height*4.
type Image interface {
	Name() string
	SetName(name string)
	Path() string
	SetPath(path string)
	Size() (width, height int)
	// Depth is 24 for opaque images and 32 for images with alpha.
	Depth() int
	Alpha() bool
	// IsData reports a non-color (linear data) image.
	IsData() bool
	Format() Format
	SetFormat(f Format)
	Scale(width, height int) error
	// Pixels returns a copy of the pixel buffer.
	Pixels() []float32
	SetPixels(pix []float32) error
	Save() error
	Reload() error
}

// Store is the collection of images known to the host.
type Store interface {
	Images() []Image
	New(name string, width, height int, alpha, isData bool) Image
	// Duplicate copies img's pixels into a new image. It fails for zero-size
	// or unreadable sources.
	Duplicate(img Image) (Image, error)
	Remove(img Image)
}

// EncodeOptions controls lossy/lossless encoder settings.
type EncodeOptions struct {
	Quality     int // JPEG quality, 0-100
	Compression int // PNG compression, 0-100
}

// DefaultEncodeOptions matches the bake settings defaults.
var DefaultEncodeOptions = EncodeOptions{Quality: 90, Compression: 15}
