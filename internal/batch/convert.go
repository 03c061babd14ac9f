package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cc3-texbaker/internal/texture"
)

// ConvertImages rewrites every stray-format image in the target format
// into the bake directory, and moves every other image found outside the
// bake directory into it. Images without pixels are skipped.
func (d *Driver) ConvertImages() error {
	dir := d.Settings.BakeDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("batch: convert images: %w", err)
	}
	target := d.Settings.Format

	var errs []error
	converted, moved := 0, 0
	for _, img := range d.Images.Images() {
		if w, h := img.Size(); w <= 0 || h <= 0 {
			continue
		}

		switch {
		case texture.IsStray(img.Format(), target):
			path := filepath.Join(dir, stem(img)+target.Ext())
			d.log.Debug("converting image", "image", img.Name(), "from", img.Format(), "to", target, "path", path)
			img.SetFormat(target)
			img.SetPath(path)
			if err := img.Save(); err != nil {
				errs = append(errs, err)
				continue
			}
			converted++

		case !within(img.Path(), dir):
			file := filepath.Base(img.Path())
			if img.Path() == "" {
				file = img.Name() + img.Format().Ext()
			}
			path := filepath.Join(dir, file)
			d.log.Debug("moving image", "image", img.Name(), "path", path)
			img.SetPath(path)
			if err := img.Save(); err != nil {
				errs = append(errs, err)
				continue
			}
			if err := img.Reload(); err != nil {
				errs = append(errs, err)
				continue
			}
			moved++
		}
	}

	d.log.Info("converted images", "converted", converted, "moved", moved, "failed", len(errs))
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("batch: convert images: %w", err)
	}
	return nil
}

// stem is the file name of img without extension, or its name.
func stem(img texture.Image) string {
	if img.Path() == "" {
		return img.Name()
	}
	base := filepath.Base(img.Path())
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// within reports whether path lies inside dir.
func within(path, dir string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
