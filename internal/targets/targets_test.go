package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoothnessEndpoints(t *testing.T) {
	for _, mode := range smoothnessModes {
		assert.InDelta(t, 1.0, mode.Apply(0), 1e-6, "%s at r=0", mode)
		assert.InDelta(t, 0.0, mode.Apply(1), 1e-6, "%s at r=1", mode)
	}
}

func TestSmoothnessMidpoint(t *testing.T) {
	cases := map[Smoothness]float32{
		IR:    0.5,
		SIR:   0.25,
		IRS:   0.75,
		IRSR:  0.29289323,
		SRIR:  0.70710677,
		SRIRS: 0.8660254,
	}
	for mode, want := range cases {
		assert.InDelta(t, want, mode.Apply(0.5), 1e-6, "%s at r=0.5", mode)
	}
}

func TestSmoothnessUnknownFallsBackToIR(t *testing.T) {
	assert.InDelta(t, 0.75, Smoothness("bogus").Apply(0.25), 1e-6)
	_, err := ParseSmoothness("bogus")
	assert.Error(t, err)
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 64, Snap(0))
	assert.Equal(t, 64, Snap(64))
	assert.Equal(t, 1024, Snap(1000))
	assert.Equal(t, 2048, Snap(1025))
	assert.Equal(t, 8192, Snap(20000))
	for _, s := range Sizes {
		assert.True(t, Supported(Snap(s)))
	}
}

func TestMapsPerTarget(t *testing.T) {
	hdrp := UnityHDRP.Maps()
	require.True(t, hdrp.Has(Mask))
	assert.Equal(t, MaskSize, hdrp[Metallic].Size)
	assert.Equal(t, "Opacity", hdrp[Alpha].Suffix)

	assert.False(t, Blender.Maps().Has(AO))
	assert.True(t, GLTF.Maps().Has(ORM))
	assert.Equal(t, "specularf0", Sketchfab.Maps()[Specular].Suffix)

	assert.Equal(t, blenderMaps, Target("nope").Maps())
}

func TestParseTarget(t *testing.T) {
	tg, err := ParseTarget("UNITY_URP")
	require.NoError(t, err)
	assert.Equal(t, UnityURP, tg)

	_, err = ParseTarget("UNREAL")
	assert.Error(t, err)
}

func TestDefaultSizes(t *testing.T) {
	sizes := DefaultSizes()
	assert.Equal(t, 2048, sizes[NormalSize])
	assert.Equal(t, 1024, sizes[DiffuseSize])
	assert.Len(t, sizes, len(SizeKeys))
}
