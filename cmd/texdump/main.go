package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cc3-texbaker/internal/texture"
)

// mean returns the average of each RGBA channel.
func mean(img texture.Image) [4]float32 {
	var sum [4]float32
	pix := img.Pixels()
	n := len(pix) / 4
	if n == 0 {
		return sum
	}
	for i := 0; i < len(pix); i += 4 {
		for k := 0; k < 4; k++ {
			sum[k] += pix[i+k]
		}
	}
	for k := range sum {
		sum[k] /= float32(n)
	}
	return sum
}

func dumpTexture(lib *texture.Library, path string, convert texture.Format, outDir string) error {
	img, err := lib.Load(path)
	if err != nil {
		return err
	}
	w, h := img.Size()
	m := mean(img)
	fmt.Printf("OK  %s  %s %dx%d depth=%d mean=(%.3f, %.3f, %.3f, %.3f)\n",
		path, img.Format(), w, h, img.Depth(), m[0], m[1], m[2], m[3])

	if convert == "" {
		return nil
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dst := filepath.Join(outDir, stem+convert.Ext())
	img.SetFormat(convert)
	img.SetPath(dst)
	if err := img.Save(); err != nil {
		return err
	}
	fmt.Printf("    -> %s\n", dst)
	return nil
}

func main() {
	convert := flag.String("convert", "", "Also write each texture in this format: JPEG, PNG or WEBP")
	outDir := flag.String("out", "converted", "Directory for converted textures")
	quality := flag.Int("quality", 90, "JPEG quality")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: texdump [-convert FORMAT] [-out DIR] <dir|file>...")
		os.Exit(2)
	}

	var format texture.Format
	if *convert != "" {
		f, err := texture.ParseOutputFormat(*convert)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		format = f
	}

	var files []string
	for _, arg := range flag.Args() {
		if st, err := os.Stat(arg); err == nil && st.IsDir() {
			idx := texture.BuildIndex(arg)
			fmt.Printf("%s: %d textures indexed\n", arg, idx.Len())
			files = append(files, idx.Paths()...)
			continue
		}
		files = append(files, arg)
	}

	lib := texture.NewLibrary(texture.EncodeOptions{Quality: *quality, Compression: 15})
	errors := 0
	for _, f := range files {
		if err := dumpTexture(lib, f, format, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Printf("\nDone. %d textures read.\n", len(files))
}
