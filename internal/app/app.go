//go:build ebiten

package app

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"ring-ca/internal/core"
	"ring-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	pacer   *core.FixedStep

	onColor  color.Color
	offColor color.Color

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, opts Options) *Game {
	size := sim.Size()
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		pacer:    core.NewFixedStep(opts.TPS),
		onColor:  color.White,
		offColor: color.Black,
		scale:    max(opts.Scale, 1),
		seed:     opts.Seed,
	}
}

// Run opens a window showing sim until it is closed.
func Run(sim core.Sim, opts Options) error {
	game := New(sim, opts)
	size := sim.Size()

	ebiten.SetWindowTitle("ring-ca: " + sim.Name())
	ebiten.SetWindowSize(size.W*game.scale, size.H*game.scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.pacer.SetTPS(g.pacer.TPS() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.pacer.SetTPS(max(g.pacer.TPS()/2, 1))
	}

	step := g.tickOnce || (!g.paused && g.pacer.ShouldStep())
	if step {
		g.tickOnce = false
		if err := g.sim.Step(); err != nil {
			slog.Error("step failed", "sim", g.sim.Name(), "error", err)
			g.paused = true
		}
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.onColor, g.offColor, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
