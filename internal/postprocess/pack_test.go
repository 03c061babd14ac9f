package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/targets"
)

func solid(w, h int, r, g, b, a float32) Channel {
	pix := make([]float32, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return Channel{Pix: pix, W: w, H: h}
}

func texel(pix []float32, w, x, y int) []float32 {
	i := (y*w + x) * 4
	return pix[i : i+4]
}

func TestPackBaseMap(t *testing.T) {
	out := PackBaseMap(2, 2, solid(2, 2, 0.2, 0.4, 0.6, 1), solid(2, 2, 0.8, 0, 0, 1))
	require.Len(t, out, 16)
	for i := 0; i < 4; i++ {
		assert.InDeltaSlice(t, []float32{0.2, 0.4, 0.6, 0.8}, out[i*4:i*4+4], 1e-6)
	}
}

func TestPackBaseMapWithoutAlpha(t *testing.T) {
	out := PackBaseMap(2, 2, solid(2, 2, 0.2, 0.4, 0.6, 0.3), Channel{})
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(1), out[i*4+3])
	}
}

func TestPackBaseMapConstantColor(t *testing.T) {
	diffuse := Channel{Value: [4]float32{0.1, 0.2, 0.3, 1}}
	out := PackBaseMap(1, 1, diffuse, solid(1, 1, 0.5, 0.5, 0.5, 1))
	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3, 0.5}, out, 1e-6)
}

func TestPackMaskScalarFallback(t *testing.T) {
	// only metallic baked; roughness constant 0.3, AO and mask absent
	out := PackMask(2, 2, solid(2, 2, 0.9, 0, 0, 1), Const(1), Const(1), Const(0.3), targets.IR)
	for i := 0; i < 4; i++ {
		assert.InDeltaSlice(t, []float32{0.9, 1, 1, 0.7}, out[i*4:i*4+4], 1e-6)
	}
}

func TestPackMaskSmoothnessModes(t *testing.T) {
	rough := solid(1, 1, 0.5, 0.5, 0.5, 1)
	cases := map[targets.Smoothness]float32{
		targets.IR:    0.5,
		targets.SIR:   0.25,
		targets.IRS:   0.75,
		targets.IRSR:  0.29289323,
		targets.SRIR:  0.70710677,
		targets.SRIRS: 0.8660254,
	}
	for mode, want := range cases {
		out := PackMask(1, 1, Const(0), Const(1), Const(1), rough, mode)
		assert.InDelta(t, want, out[3], 1e-5, string(mode))
	}
}

func TestPackMetallicSmoothness(t *testing.T) {
	out := PackMetallicSmoothness(1, 1, solid(1, 1, 0.25, 0, 0, 1), solid(1, 1, 1, 1, 1, 1), targets.IR)
	assert.InDeltaSlice(t, []float32{0.25, 0.25, 0.25, 0}, out, 1e-6)
}

func TestPackSmoothness(t *testing.T) {
	out := PackSmoothness(1, 1, solid(1, 1, 0, 0, 0, 1), targets.SIR)
	assert.InDeltaSlice(t, []float32{1, 1, 1, 1}, out, 1e-6)
}

func TestPackDetail(t *testing.T) {
	out := PackDetail(1, 1, solid(1, 1, 0.1, 0.9, 0.7, 1))
	assert.InDeltaSlice(t, []float32{0.5, 0.1, 0.5, 0.9}, out, 1e-6)
}

func TestPackORM(t *testing.T) {
	out := PackORM(1, 1, solid(1, 1, 0.3, 0, 0, 1), Const(0.6), solid(1, 1, 0.9, 0, 0, 1))
	assert.InDeltaSlice(t, []float32{0.3, 0.6, 0.9, 1}, out, 1e-6)
}

func TestNearestSamplingAcrossSizes(t *testing.T) {
	// 2x1 source: left black, right white; packed into 4x1
	src := Channel{Pix: []float32{0, 0, 0, 1, 1, 1, 1, 1}, W: 2, H: 1}
	out := PackBaseMap(4, 1, src, Channel{})
	assert.Equal(t, float32(0), texel(out, 4, 0, 0)[0])
	assert.Equal(t, float32(0), texel(out, 4, 1, 0)[0])
	assert.Equal(t, float32(1), texel(out, 4, 2, 0)[0])
	assert.Equal(t, float32(1), texel(out, 4, 3, 0)[0])
}

func TestInvert(t *testing.T) {
	pix := []float32{0.2, 0.4, 1, 0.5}
	Invert(pix)
	assert.InDeltaSlice(t, []float32{0.8, 0.6, 0, 0.5}, pix, 1e-6)
}
