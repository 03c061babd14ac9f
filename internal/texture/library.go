package texture

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Library is the host image collection. It implements Store and caches
// images loaded from disk by absolute path.
type Library struct {
	mu     sync.RWMutex
	images []*Buffer
	loaded map[string]*Buffer
	opts   *EncodeOptions
}

// NewLibrary creates an empty library using opts for every image it saves.
func NewLibrary(opts EncodeOptions) *Library {
	o := opts
	return &Library{
		loaded: make(map[string]*Buffer),
		opts:   &o,
	}
}

// SetOptions changes the encoder settings of every image in the library.
func (l *Library) SetOptions(opts EncodeOptions) {
	l.mu.Lock()
	*l.opts = opts
	l.mu.Unlock()
}

func (l *Library) Images() []Image {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Image, len(l.images))
	for i, img := range l.images {
		out[i] = img
	}
	return out
}

func (l *Library) New(name string, width, height int, alpha, isData bool) Image {
	b := NewBuffer(name, width, height, alpha, isData)
	l.add(b)
	return b
}

func (l *Library) Duplicate(img Image) (Image, error) {
	if img == nil {
		return nil, fmt.Errorf("texture: duplicate: nil image")
	}
	w, h := img.Size()
	pix := img.Pixels()
	if w <= 0 || h <= 0 || len(pix) != w*h*4 {
		return nil, fmt.Errorf("texture: duplicate %s: zero-size or unreadable image", img.Name())
	}

	var dup *Buffer
	if b, ok := img.(*Buffer); ok {
		dup = b.clone(b.name + ".001")
	} else {
		dup = NewBuffer(img.Name()+".001", w, h, img.Alpha(), img.IsData())
		dup.format = img.Format()
		dup.path = img.Path()
		dup.pix = pix
	}
	l.add(dup)
	return dup, nil
}

func (l *Library) Remove(img Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, b := range l.images {
		if Image(b) == img {
			l.images = append(l.images[:i], l.images[i+1:]...)
			break
		}
	}
	for p, b := range l.loaded {
		if Image(b) == img {
			delete(l.loaded, p)
		}
	}
}

// Load decodes an image file, or returns the image already loaded from the
// same path.
func (l *Library) Load(path string) (Image, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	// Fast path: read lock
	l.mu.RLock()
	if b, ok := l.loaded[abs]; ok {
		l.mu.RUnlock()
		return b, nil
	}
	l.mu.RUnlock()

	// Slow path: load from disk
	img, format, err := Decode(abs)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	b := &Buffer{name: name, path: abs, format: format, alpha: format.HasAlpha()}
	b.width, b.height, b.pix = fromNRGBA(img)

	// Write lock with double-check
	l.mu.Lock()
	if existing, ok := l.loaded[abs]; ok {
		l.mu.Unlock()
		return existing, nil
	}
	b.opts = l.opts
	l.images = append(l.images, b)
	l.loaded[abs] = b
	l.mu.Unlock()

	return b, nil
}

func (l *Library) add(b *Buffer) {
	l.mu.Lock()
	b.opts = l.opts
	l.images = append(l.images, b)
	l.mu.Unlock()
}
