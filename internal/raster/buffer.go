package raster

import "github.com/go-gl/mathgl/mgl32"

// FrameBuffer holds the bake target as flat RGBA floats, rows bottom to top.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []float32 // RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a buffer cleared to opaque black.
func NewFrameBuffer(w, h int) *FrameBuffer {
	color := make([]float32, w*h*4)
	for i := 3; i < len(color); i += 4 {
		color[i] = 1
	}
	return &FrameBuffer{Width: w, Height: h, Color: color}
}

// Set writes one texel.
func (fb *FrameBuffer) Set(x, y int, c mgl32.Vec4) {
	i := (y*fb.Width + x) * 4
	copy(fb.Color[i:i+4], c[:])
}
