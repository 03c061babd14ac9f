package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

const defaultPNGCompression = 15

// Settings holds the global bake settings.
type Settings struct {
	Target         targets.Target          `yaml:"target"`
	Format         texture.Format          `yaml:"format"`
	Samples        int                     `yaml:"samples"`
	JPEGQuality    int                     `yaml:"jpeg_quality"`
	PNGCompression int                     `yaml:"png_compression"`
	MaxSize        int                     `yaml:"max_size"`
	CustomSizes    bool                    `yaml:"custom_sizes"`
	Sizes          map[targets.SizeKey]int `yaml:"sizes"`
	AOInDiffuse    float32                 `yaml:"ao_in_diffuse"`
	AllowBumpMaps  *bool                   `yaml:"allow_bump_maps"`
	Smoothness     targets.Smoothness      `yaml:"smoothness"`

	// Paths
	BakePath string `yaml:"bake_path"`
	BaseDir  string `yaml:"base_dir"`
}

// Default returns the settings used when no config file is given.
func Default() Settings {
	s := Settings{PNGCompression: defaultPNGCompression}
	s.Resolve(Flags{})
	return s
}

// Load reads a YAML settings file.
// Fields not set in the file keep their zero values until Resolve.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	// png_compression 0 is meaningful, so its default is applied before parsing
	s := Settings{PNGCompression: defaultPNGCompression}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if s.BaseDir != "" && !filepath.IsAbs(s.BaseDir) {
		s.BaseDir = filepath.Join(filepath.Dir(path), s.BaseDir)
	}

	return s, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (s *Settings) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Target != "" {
		s.Target = targets.Target(flags.Target)
	}
	if flags.Format != "" {
		s.Format = texture.Format(flags.Format)
	}
	if flags.Samples > 0 {
		s.Samples = flags.Samples
	}
	if flags.BakePath != "" {
		s.BakePath = flags.BakePath
	}
	if flags.BaseDir != "" {
		s.BaseDir = flags.BaseDir
	}
	if flags.MaxSize > 0 {
		s.MaxSize = flags.MaxSize
	}

	s.Target = targets.Target(strings.ToUpper(string(s.Target)))
	s.Format = texture.Format(strings.ToUpper(string(s.Format)))
	s.Smoothness = targets.Smoothness(strings.ToUpper(string(s.Smoothness)))
	if s.Target == "" {
		s.Target = targets.Blender
	}
	if s.Format == "" {
		s.Format = texture.JPEG
	}
	if s.Samples <= 0 {
		s.Samples = 5
	}
	if s.JPEGQuality <= 0 {
		s.JPEGQuality = 90
	}
	if s.PNGCompression < 0 {
		s.PNGCompression = defaultPNGCompression
	}
	if s.MaxSize <= 0 {
		s.MaxSize = 4096
	}
	if s.Smoothness == "" {
		s.Smoothness = targets.IR
	}
	if s.BakePath == "" {
		s.BakePath = "Bake"
	}
	if s.AllowBumpMaps == nil {
		allow := true
		s.AllowBumpMaps = &allow
	}

	defaults := targets.DefaultSizes()
	if s.Sizes == nil {
		s.Sizes = defaults
	} else {
		for k, v := range defaults {
			if s.Sizes[k] <= 0 {
				s.Sizes[k] = v
			}
		}
	}
}

// Validate checks enum fields and sizes.
func (s Settings) Validate() error {
	if !s.Target.Valid() {
		return fmt.Errorf("config: unknown target %q", s.Target)
	}
	if _, err := texture.ParseOutputFormat(string(s.Format)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !s.Smoothness.Valid() {
		return fmt.Errorf("config: unknown smoothness formula %q", s.Smoothness)
	}
	if !targets.Supported(s.MaxSize) {
		return fmt.Errorf("config: max_size %d is not a supported size", s.MaxSize)
	}
	for k, v := range s.Sizes {
		if !targets.Supported(v) {
			return fmt.Errorf("config: %s %d is not a supported size", k, v)
		}
	}
	if s.AOInDiffuse < 0 || s.AOInDiffuse > 1 {
		return fmt.Errorf("config: ao_in_diffuse %v out of range [0,1]", s.AOInDiffuse)
	}
	if s.JPEGQuality > 100 || s.PNGCompression > 100 {
		return fmt.Errorf("config: jpeg_quality and png_compression must be 0-100")
	}
	return nil
}

// BumpMaps reports whether bump nodes are baked as height maps.
func (s Settings) BumpMaps() bool {
	return s.AllowBumpMaps == nil || *s.AllowBumpMaps
}

// BakeDir returns the absolute bake directory. Relative bake paths are
// resolved against the document directory.
func (s Settings) BakeDir() string {
	if filepath.IsAbs(s.BakePath) {
		return filepath.Clean(s.BakePath)
	}
	base := s.BaseDir
	if base == "" {
		base, _ = os.Getwd()
	}
	dir, err := filepath.Abs(filepath.Join(base, s.BakePath))
	if err != nil {
		return filepath.Join(base, s.BakePath)
	}
	return dir
}

// EncodeOptions returns the encoder settings for baked images.
func (s Settings) EncodeOptions() texture.EncodeOptions {
	return texture.EncodeOptions{Quality: s.JPEGQuality, Compression: s.PNGCompression}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Target   string
	Format   string
	Samples  int
	MaxSize  int
	BakePath string
	BaseDir  string
}
