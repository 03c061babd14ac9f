package targets

import "fmt"

// Target is an export destination with its own map naming and packing rules.
type Target string

const (
	Blender   Target = "BLENDER"
	Sketchfab Target = "SKETCHFAB"
	GLTF      Target = "GLTF"
	UnityHDRP Target = "UNITY_HDRP"
	UnityURP  Target = "UNITY_URP"
)

// All lists the supported targets in display order.
var All = []Target{Blender, Sketchfab, GLTF, UnityHDRP, UnityURP}

// Map is a logical texture channel, independent of target naming.
type Map string

const (
	Diffuse         Map = "Diffuse"
	AO              Map = "AO"
	Subsurface      Map = "Subsurface"
	Thickness       Map = "Thickness"
	Metallic        Map = "Metallic"
	Specular        Map = "Specular"
	Roughness       Map = "Roughness"
	Emission        Map = "Emission"
	Alpha           Map = "Alpha"
	Transmission    Map = "Transmission"
	Normal          Map = "Normal"
	Bump            Map = "Bump"
	MicroNormal     Map = "MicroNormal"
	MicroNormalMask Map = "MicroNormalMask"

	// packed maps
	BaseMap            Map = "BaseMap"
	Mask               Map = "Mask"
	Detail             Map = "Detail"
	SmoothnessMap      Map = "Smoothness"
	MetallicSmoothness Map = "MetallicSmoothness"
	ORM                Map = "ORM"
)

// SizeKey names a size setting shared by one or more maps.
type SizeKey string

const (
	DiffuseSize         SizeKey = "diffuse_size"
	AOSize              SizeKey = "ao_size"
	SSSSize             SizeKey = "sss_size"
	ThicknessSize       SizeKey = "thickness_size"
	TransmissionSize    SizeKey = "transmission_size"
	MetallicSize        SizeKey = "metallic_size"
	SpecularSize        SizeKey = "specular_size"
	RoughnessSize       SizeKey = "roughness_size"
	EmissionSize        SizeKey = "emission_size"
	AlphaSize           SizeKey = "alpha_size"
	NormalSize          SizeKey = "normal_size"
	BumpSize            SizeKey = "bump_size"
	MaskSize            SizeKey = "mask_size"
	DetailSize          SizeKey = "detail_size"
	SmoothnessSize      SizeKey = "smoothness_size"
	MicroNormalSize     SizeKey = "micronormal_size"
	MicroNormalMaskSize SizeKey = "micronormalmask_size"
)

// SizeKeys are the keys that carry a user-editable size setting.
var SizeKeys = []SizeKey{
	DiffuseSize, AOSize, SSSSize, ThicknessSize, TransmissionSize, MetallicSize,
	SpecularSize, RoughnessSize, EmissionSize, AlphaSize, NormalSize, BumpSize,
	MaskSize, DetailSize,
}

// Descriptor is the target file suffix and size setting for one logical map.
type Descriptor struct {
	Suffix string
	Size   SizeKey
}

// Maps is a per-target table of logical maps.
type Maps map[Map]Descriptor

// Has reports whether the target bakes or packs m.
func (m Maps) Has(name Map) bool {
	_, ok := m[name]
	return ok
}

var blenderMaps = Maps{
	Diffuse:         {"Diffuse", DiffuseSize},
	Subsurface:      {"Subsurface", SSSSize},
	Metallic:        {"Metallic", MetallicSize},
	Specular:        {"Specular", SpecularSize},
	Roughness:       {"Roughness", RoughnessSize},
	Emission:        {"Emission", EmissionSize},
	Alpha:           {"Alpha", AlphaSize},
	Transmission:    {"Transmission", TransmissionSize},
	Normal:          {"Normal", NormalSize},
	Bump:            {"Bump", BumpSize},
	MicroNormal:     {"MicroNormal", DetailSize},
	MicroNormalMask: {"MicroNormalMask", MaskSize},
}

var sketchfabMaps = Maps{
	Diffuse:    {"diffuse", DiffuseSize},
	AO:         {"ao", AOSize},
	Subsurface: {"subsurface", SSSSize},
	Thickness:  {"thickness", ThicknessSize},
	Metallic:   {"metallic", MetallicSize},
	Specular:   {"specularf0", SpecularSize},
	Roughness:  {"roughness", RoughnessSize},
	Emission:   {"emission", EmissionSize},
	Alpha:      {"opacity", AlphaSize},
	Normal:     {"normal", NormalSize},
	Bump:       {"bump", BumpSize},
}

var gltfMaps = Maps{
	Diffuse:   {"baseColor", DiffuseSize},
	AO:        {"occlusion", AOSize},
	Metallic:  {"metallic", MetallicSize},
	Roughness: {"roughness", RoughnessSize},
	Emission:  {"emission", EmissionSize},
	Alpha:     {"alpha", AlphaSize},
	Normal:    {"normal", NormalSize},
	ORM:       {"occlusionRoughnessMetallic", MaskSize},
}

var unityURPMaps = Maps{
	Diffuse:   {"Diffuse", DiffuseSize},
	Metallic:  {"Metallic", MetallicSize},
	Roughness: {"Roughness", RoughnessSize},
	Emission:  {"Emission", EmissionSize},
	Alpha:     {"Opacity", DiffuseSize},
	Normal:    {"Normal", NormalSize},
	Bump:      {"bump", BumpSize},

	SmoothnessMap:      {"Smoothness", RoughnessSize},
	MetallicSmoothness: {"MetallicSmoothness", MetallicSize},
}

var unityHDRPMaps = Maps{
	Diffuse:         {"Diffuse", DiffuseSize},
	AO:              {"AO", MaskSize},
	Subsurface:      {"Subsurface", SSSSize},
	Thickness:       {"Thickness", ThicknessSize},
	Metallic:        {"Metallic", MaskSize},
	Roughness:       {"Roughness", MaskSize},
	Emission:        {"Emission", EmissionSize},
	Alpha:           {"Opacity", DiffuseSize},
	Normal:          {"Normal", NormalSize},
	Bump:            {"bump", BumpSize},
	MicroNormal:     {"MicroNormal", DetailSize},
	MicroNormalMask: {"MicroNormalMask", MaskSize},

	BaseMap: {"BaseMap", DiffuseSize},
	Mask:    {"Mask", MaskSize},
	Detail:  {"Detail", DetailSize},
}

// Maps returns the logical map table for t. Unknown targets fall back to BLENDER.
func (t Target) Maps() Maps {
	switch t {
	case Sketchfab:
		return sketchfabMaps
	case GLTF:
		return gltfMaps
	case UnityURP:
		return unityURPMaps
	case UnityHDRP:
		return unityHDRPMaps
	}
	return blenderMaps
}

// Valid reports whether t is one of the known targets.
func (t Target) Valid() bool {
	for _, k := range All {
		if k == t {
			return true
		}
	}
	return false
}

// ParseTarget converts a mode string to a Target.
func ParseTarget(s string) (Target, error) {
	t := Target(s)
	if !t.Valid() {
		return "", fmt.Errorf("targets: unknown target %q", s)
	}
	return t, nil
}
