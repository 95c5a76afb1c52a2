package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/linedebug/render"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "show batch statistics and log renderer diagnostics")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	capacity := flag.Int("cap", 0, "initial line buffer capacity in vertices")
	layout := flag.String("layout", "", "vertex layout: interleaved or planar")
	script := flag.String("script", "", "overlay script asset path")
	assetDir := flag.String("assets", "", "directory whose assets override the embedded ones")
	watch := flag.Bool("watch", false, "reload assets from -assets when they change")
	seed := flag.Uint64("seed", 1, "random seed for the physics scene")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *capacity > 0 {
		cfg.InitialCapacity = *capacity
	}
	if *layout != "" {
		cfg.Layout = *layout
	}
	if *script != "" {
		cfg.Script = *script
	}
	if *assetDir != "" {
		cfg.AssetDir = *assetDir
	}
	if *watch {
		cfg.Watch = true
	}

	if *debug {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("linedebug")

	space := newWorld(cfg.Bodies, cfg.Gravity, rand.New(rand.NewPCG(*seed, *seed)))
	game, err := NewGame(cfg, *debug, space)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
