package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"cc3-texbaker/internal/targets"
)

// ManifestEntry represents one baked material in the output manifest.
type ManifestEntry struct {
	UID      int               `json:"uid"`
	Source   string            `json:"source"`
	Material string            `json:"material"`
	Target   targets.Target    `json:"target"`
	Images   map[string]string `json:"images"`
}

// WriteManifest writes the successful results to path. Image paths are
// relative to the manifest's directory.
func WriteManifest(path string, target targets.Target, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		images := make(map[string]string, len(r.Images))
		for m, p := range r.Images {
			if rel, err := filepath.Rel(dir, p); err == nil {
				p = rel
			}
			images[string(m)] = filepath.ToSlash(p)
		}
		entries = append(entries, ManifestEntry{
			UID:      r.UID,
			Source:   r.Material,
			Material: r.Baked,
			Target:   target,
			Images:   images,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UID < entries[j].UID })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
