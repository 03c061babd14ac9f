package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"cc3-texbaker/internal/batch"
	"cc3-texbaker/internal/config"
	"cc3-texbaker/internal/export"
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/raster"
	"cc3-texbaker/internal/scene"
	"cc3-texbaker/internal/targets"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to bake settings YAML file")
	scenePath := flag.String("scene", "", "Path to the scene document (required)")
	mode := flag.String("mode", "BAKE", "Operation: BAKE, ADD, REMOVE, SOURCE, BAKED or JPEGIFY")
	material := flag.String("material", "", "Active material name for ADD and REMOVE")
	target := flag.String("target", "", "Target: BLENDER, SKETCHFAB, GLTF, UNITY_HDRP or UNITY_URP")
	format := flag.String("format", "", "Output format: JPEG, PNG or WEBP")
	samples := flag.Int("samples", 0, "Bake samples")
	maxSize := flag.Int("max-size", 0, "Maximum texture size")
	bakePath := flag.String("bake-path", "", "Bake directory, relative to the scene document")
	output := flag.String("output", "", "Where to save the scene document (default: overwrite -scene)")
	logMode := flag.String("log", "dev", "Log format: dev, debug or prod")

	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scene is required.")
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(*logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	baseDir := ""
	if cfg.BaseDir == "" {
		baseDir = filepath.Dir(*scenePath)
	}
	cfg.Resolve(config.Flags{
		Target:   *target,
		Format:   *format,
		Samples:  *samples,
		MaxSize:  *maxSize,
		BakePath: *bakePath,
		BaseDir:  baseDir,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	op, err := batch.ParseOperation(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scn, err := scene.Load(*scenePath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	scn.Images.SetOptions(cfg.EncodeOptions())

	var active host.Material
	if *material != "" {
		m := scn.MaterialByName(*material)
		if m == nil {
			fmt.Fprintf(os.Stderr, "Error: no material named %q\n", *material)
			os.Exit(1)
		}
		active = m
	}

	// Print summary
	fmt.Printf("CC3 texture baker: %s\n", op)
	fmt.Printf("Target: %s, Format: %s, Samples: %d, Max size: %d\n", cfg.Target, cfg.Format, cfg.Samples, cfg.MaxSize)
	fmt.Printf("Scene: %s (%d materials, %d selected objects)\n", *scenePath, len(scn.Mats), len(scn.Selected()))
	fmt.Printf("Bake dir: %s\n", cfg.BakeDir())
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	driver := batch.NewDriver(scn, scn.Images, raster.New(log), scn.State, &cfg, log)
	results, runErr := driver.Run(ctx, op, active)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	if op == batch.OpBake {
		report(results)
		writeOutputs(cfg, results)
	}

	out := *output
	if out == "" {
		out = *scenePath
	}
	if err := scn.Save(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Scene: %s\n", out)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func report(results []batch.Result) {
	success := 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			maps := make([]string, 0, len(r.Images))
			for m := range r.Images {
				maps = append(maps, string(m))
			}
			sort.Strings(maps)
			fmt.Printf("  %s -> %s %v\n", r.Material, r.Baked, maps)
		} else {
			errors = append(errors, r)
		}
	}

	fmt.Printf("Baked: %d/%d materials\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(errors))
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Material, e.Error)
		}
	}
}

// writeOutputs writes the manifest, and the material library for GLTF.
func writeOutputs(cfg config.Settings, results []batch.Result) {
	dir := cfg.BakeDir()
	os.MkdirAll(dir, 0755)

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, cfg.Target, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if cfg.Target != targets.GLTF {
		return
	}
	libPath := filepath.Join(dir, export.FileName)
	if err := export.Write(libPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: material library write failed: %v\n", err)
	} else {
		fmt.Printf("Materials: %s\n", libPath)
	}
}
