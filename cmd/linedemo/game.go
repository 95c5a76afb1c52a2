package main

import (
	"context"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/linedebug/assets"
	"github.com/milk9111/linedebug/debugdraw"
	"github.com/milk9111/linedebug/overlay"
	"github.com/milk9111/linedebug/render"
	"github.com/milk9111/linedebug/render/ebitenrender"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = worldWidth
	baseHeight = worldHeight
	stepDT     = 1.0 / 60.0
)

type Game struct {
	frames int
	debug  bool
	paused bool

	view    render.View
	space   *cp.Space
	backend *render.Backend
	assets  *assets.Manager
	watcher *assets.Watcher
	lines   *debugdraw.LineRender
	drawer  *debugdraw.PhysicsDrawer
	overlay *overlay.Runner

	// last overlay error, logged once per change
	overlayErr string

	// Overlay lines get their own batch so they can use a heavier material.
	overlayLines *debugdraw.LineRender
}

func NewGame(cfg Config, debug bool, space *cp.Space) (*Game, error) {
	layout, err := render.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}

	var assetOpts []assets.ManagerOption
	if cfg.AssetDir != "" {
		assetOpts = append(assetOpts, assets.WithOverrideDir(cfg.AssetDir))
	}
	manager := assets.NewManager(assetOpts...)
	backend := render.NewBackend(render.WithLayout(layout))

	lines, err := debugdraw.NewLineRender(backend, manager,
		debugdraw.WithInitialCapacity(cfg.InitialCapacity),
		debugdraw.WithMaterial(cfg.Material),
	)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:   debug,
		view:    render.View{Zoom: cfg.Zoom},
		space:   space,
		backend: backend,
		assets:  manager,
		lines:   lines,
		drawer:  debugdraw.NewPhysicsDrawer(lines),
	}

	if cfg.Script != "" {
		if err := g.startOverlay(cfg); err != nil {
			log.Printf("overlay disabled: %v", err)
		}
	}

	if dir := manager.OverrideDir(); cfg.Watch && dir != "" {
		w, err := assets.NewWatcher(dir)
		if err != nil {
			log.Printf("asset watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) startOverlay(cfg Config) error {
	lines, err := debugdraw.NewLineRender(g.backend, g.assets,
		debugdraw.WithInitialCapacity(256),
		debugdraw.WithMaterial(cfg.OverlayMaterial),
	)
	if err != nil {
		return err
	}
	r, err := overlay.NewRunner(lines, g.assets, cfg.Script)
	if err != nil {
		_ = lines.Close()
		return err
	}
	g.overlay, g.overlayLines = r, lines
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.watcher != nil {
		g.watcher.Poll(g.assets, func(path string, err error) {
			log.Printf("asset reload %s: %v", path, err)
		})
	}
	if !g.paused {
		g.space.Step(stepDT)
	}
	g.frames++
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	g.lines.Clear()
	g.drawer.Draw(g.space)
	g.lines.QueueForRender()
	if g.overlay != nil {
		g.overlayLines.Clear()
		msg := ""
		if err := g.overlay.Run(context.Background(), g.frames, float64(g.frames)*stepDT); err != nil {
			msg = err.Error()
		}
		if msg != g.overlayErr {
			if msg != "" {
				log.Printf("overlay: %s", msg)
			}
			g.overlayErr = msg
		}
		g.overlayLines.QueueForRender()
	}
	ebitenrender.Flush(screen, g.backend, g.view)

	if g.debug {
		s := g.lines.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.2f\nVertices: %d / %d\nGrowths: %d  Dropped: %d  Failures: %d",
			ebiten.ActualFPS(), g.lines.Len(), g.lines.Cap(), s.Growths, s.DroppedLines, s.Failures,
		))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.overlay != nil {
		g.overlay.Close()
		_ = g.overlayLines.Close()
	}
	if err := g.lines.Close(); err != nil {
		log.Printf("close lines: %v", err)
	}
}
