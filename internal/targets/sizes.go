package targets

const (
	// NoSize is returned when no source texture can be found.
	NoSize = 64
	// DefaultSize is used for maps without a descriptor.
	DefaultSize = 1024
	// MaxSupported is the largest supported texture size.
	MaxSupported = 8192
)

// Sizes is the set of supported bake resolutions.
var Sizes = []int{64, 128, 256, 512, 1024, 2048, 4096, 8192}

// Supported reports whether size is one of Sizes.
func Supported(size int) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Snap rounds size up to the nearest supported size, capped at MaxSupported.
func Snap(size int) int {
	for _, s := range Sizes {
		if size <= s {
			return s
		}
	}
	return MaxSupported
}

// Detect lists the named source textures to measure for a size key, and the
// principled shader inputs to trace when no named texture is known.
//
// Input paths may carry a qualifier naming the pass-through node to descend
// into: ":AO" and ":DIFFUSE" follow a multiply mix, ":BUMP" and ":NORMAL" a
// bump node.
type Detect struct {
	Textures []string
	Inputs   []string
}

var SizeDetect = map[SizeKey]Detect{
	DiffuseSize:      {Textures: []string{"diffuse_tex"}, Inputs: []string{"Base Color:DIFFUSE"}},
	AOSize:           {Textures: []string{"ao_tex"}, Inputs: []string{"Base Color:AO"}},
	SSSSize:          {Textures: []string{"sss_tex"}},
	ThicknessSize:    {Textures: []string{"transmission_tex"}},
	TransmissionSize: {Textures: []string{"transmissionb_tex"}, Inputs: []string{"Transmission"}},
	SpecularSize:     {Textures: []string{"specular_tex", "specular_mask_tex"}, Inputs: []string{"Specular"}},
	MetallicSize:     {Textures: []string{"metallic_tex"}, Inputs: []string{"Metallic"}},
	RoughnessSize:    {Textures: []string{"roughness_tex"}, Inputs: []string{"Roughness"}},
	SmoothnessSize:   {Textures: []string{"roughness_tex"}, Inputs: []string{"Roughness"}},
	EmissionSize:     {Textures: []string{"emission_tex"}, Inputs: []string{"Emission"}},
	AlphaSize:        {Textures: []string{"opacity_tex"}, Inputs: []string{"Alpha"}},
	NormalSize: {
		Textures: []string{"normal_tex", "normal_blend_tex", "sclera_normal_tex"},
		Inputs:   []string{"Normal:NORMAL"},
	},
	BumpSize:            {Textures: []string{"bump_tex"}, Inputs: []string{"Normal:BUMP"}},
	DetailSize:          {Textures: []string{"micro_normal_tex"}},
	MicroNormalSize:     {Textures: []string{"micro_normal_tex"}},
	MicroNormalMaskSize: {Textures: []string{"micro_normal_mask_tex"}},
	MaskSize: {
		Textures: []string{"roughness_tex", "ao_tex", "metallic_tex", "micro_normal_mask_tex"},
		Inputs:   []string{"Base Color", "Roughness", "Metallic"},
	},
}

// SizeOverrides replaces detected sizes for procedurally generated textures,
// keyed by material family and then by texture id. "transmissionb_tex" has no
// texture behind it and only exists to be overridden here.
var SizeOverrides = map[string]map[string]int{
	"CORNEA_LEFT": {
		"roughness_tex": 256, "sss_tex": 256, "specular_tex": 256,
		"opacity_tex": 256, "transmissionb_tex": 256,
	},
	"CORNEA_RIGHT": {
		"roughness_tex": 256, "sss_tex": 256, "specular_tex": 256,
		"opacity_tex": 256, "transmissionb_tex": 256,
	},
	"EYE_LEFT":        {"roughness_tex": 256, "sss_tex": 256, "specular_tex": 256},
	"EYE_RIGHT":       {"roughness_tex": 256, "sss_tex": 256, "specular_tex": 256},
	"OCCLUSION_LEFT":  {"opacity_tex": 256},
	"OCCLUSION_RIGHT": {"opacity_tex": 256},
	"HAIR":            {"bump_tex": 2048},
	"SMART_HAIR":      {"bump_tex": 2048},
	"SCALP":           {"bump_tex": 2048},
}

// DefaultSizes are the global size settings before any user edits.
func DefaultSizes() map[SizeKey]int {
	sizes := make(map[SizeKey]int, len(SizeKeys))
	for _, k := range SizeKeys {
		sizes[k] = DefaultSize
	}
	sizes[NormalSize] = 2048
	sizes[BumpSize] = 2048
	return sizes
}
