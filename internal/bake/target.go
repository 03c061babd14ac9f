package bake

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// BakePrefix starts the name of every generated bake image node.
const BakePrefix = "(bake)_"

// StripName removes a ".NNN" duplicate suffix.
func StripName(name string) string {
	if len(name) < 4 {
		return name
	}
	tail := name[len(name)-4:]
	if tail[0] != '.' {
		return name
	}
	for _, c := range tail[1:] {
		if c < '0' || c > '9' {
			return name
		}
	}
	return name[:len(name)-4]
}

// MaterialName is the name of the baked copy of a material. SKETCHFAB
// names drop underscores, dashes and dots.
func MaterialName(t targets.Target, name string, uid int) string {
	if t == targets.Sketchfab {
		r := strings.NewReplacer("_", "", "-", "", ".", "")
		return r.Replace(name) + "B" + strconv.Itoa(uid)
	}
	return name + "_B" + strconv.Itoa(uid)
}

// imagePath is where a baked image named name is saved.
func (b *Baker) imagePath(name string) string {
	return filepath.Join(b.Settings.BakeDir(), name+b.Settings.Format.Ext())
}

// sameName reports whether an image name is name or a ".NNN" duplicate of it.
func sameName(imgName, name string) bool {
	return imgName == name || StripName(imgName) == name
}

func depth(alpha bool) int {
	if alpha {
		return 32
	}
	return 24
}

func sameDir(path, dir string) bool {
	if path == "" {
		return false
	}
	a, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(dir)
}

// imageTarget returns a size×size image named name in the bake directory.
// An existing image of that name is reused when it lives in the bake
// directory with the configured format and the same depth; any other image
// of that name is removed. New images are saved once so the file exists.
func (b *Baker) imageTarget(name string, size int, data, alpha bool) (texture.Image, error) {
	format := b.Settings.Format
	dir := b.Settings.BakeDir()

	for _, img := range b.Images.Images() {
		if !sameName(img.Name(), name) {
			continue
		}
		if img.Format() == format && img.Depth() == depth(alpha) && sameDir(img.Path(), dir) {
			w, h := img.Size()
			if w == size && h == size {
				b.log.Info("reusing image", "image", name)
				return img, nil
			}
			if err := img.Scale(size, size); err == nil {
				b.log.Info("reusing image", "image", name, "size", size)
				return img, nil
			}
			b.log.Error("bad image", "image", img.Name())
		} else {
			b.log.Warn("wrong path or format", "image", img.Name())
		}
		b.Images.Remove(img)
	}

	img := b.Images.New(name, size, size, alpha, data)
	img.SetFormat(format)
	img.SetPath(b.imagePath(name))
	if err := img.Save(); err != nil {
		b.Images.Remove(img)
		return nil, fmt.Errorf("bake: create image %s: %w", name, err)
	}
	b.log.Info("creating new image", "image", name, "size", size)
	return img, nil
}
