package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cc3-texbaker/internal/config"
	"cc3-texbaker/internal/scene"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/sizing"
	"cc3-texbaker/internal/targets"
)

func main() {
	configFile := flag.String("config", "", "Path to bake settings YAML file")
	target := flag.String("target", "", "Target to resolve map sizes for")
	material := flag.String("material", "", "Only inspect this material")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-config file] [-target mode] [-material name] scene.yaml")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Target: *target, BaseDir: filepath.Dir(path)})

	scn, err := scene.Load(path, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	sizes := &sizing.Detector{Settings: &cfg, State: scn.State}

	fmt.Printf("Materials: %d, Objects: %d, Images: %d, Cache entries: %d\n",
		len(scn.Mats), len(scn.Objects()), len(scn.Images.Images()), len(scn.State.Entries()))

	for _, m := range scn.Mats {
		if *material != "" && m.Name() != *material {
			continue
		}
		fmt.Printf("\nMaterial %q family=%q blend=%s\n", m.Name(), m.Family(), m.BlendMode())
		if m.Graph == nil {
			fmt.Println("  (no nodes)")
			continue
		}
		g := shader.NewGraph(m.Graph, nil)
		for _, n := range m.Graph.NodeList {
			line := fmt.Sprintf("  [%s] %s", n.Kind(), n.Name())
			if n.Tag() != "" {
				line += fmt.Sprintf(" tag=%s", n.Tag())
			}
			if n.Image() != nil {
				w, h := n.Image().Size()
				line += fmt.Sprintf(" image=%s %dx%d %s", n.Image().Name(), w, h, n.Image().Format())
			}
			fmt.Println(line)
			for _, socket := range n.InputSockets() {
				if src, out := g.Source(n, socket); src != nil {
					fmt.Printf("      %s <- %s.%s\n", socket, src.Name(), out)
				}
			}
		}

		maps := cfg.Target.Maps()
		names := make([]string, 0, len(maps))
		for name := range maps {
			names = append(names, string(name))
		}
		sort.Strings(names)
		fmt.Printf("  --- %s map sizes ---\n", cfg.Target)
		for _, name := range names {
			mp := targets.Map(name)
			fmt.Printf("    %-20s detected=%5d bake=%5d\n", mp, sizes.Detect(m, mp), sizes.MapSize(m, mp))
		}
	}
}
