//go:build !headless

// gantt_ebiten.go - Gantt chart window for the schedule trace, grounded on
// video_backend_ebiten.go's ebiten.Game wiring (window setup, RunGame in a
// goroutine, frame buffer drawn on Draw), cut down from a framebuffer
// blitter to a bar chart: one row per priority, one column per recorded
// trace event; only switch events are drawn, as a bar in the row of the
// task switched to.
package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

func init() {
	registerFeature("gantt-ebiten")
}

const (
	ganttRowHeight = 14
	ganttColWidth  = 4
	ganttMarginX   = 48
	ganttMarginY   = 16
)

// ebitenGantt renders a scrolling Gantt chart of recent trace events. It
// implements ebiten.Game directly, the way EbitenOutput does for its
// frame buffer.
type ebitenGantt struct {
	running    bool
	priorities int
	events     []traceEvent
	width      int
	height     int
}

// NewGanttBackend returns the ebiten-backed Gantt visualizer.
func NewGanttBackend() (ganttBackend, error) {
	return &ebitenGantt{width: 800, height: 480}, nil
}

func (g *ebitenGantt) Start() error {
	if g.running {
		return nil
	}
	g.running = true
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("rtkernel - schedule trace")
	ebiten.SetWindowResizable(true)

	go func() {
		if err := ebiten.RunGame(g); err != nil {
			fmt.Printf("gantt: %v\n", err)
		}
	}()
	return nil
}

func (g *ebitenGantt) Stop() error {
	g.running = false
	return nil
}

// Render swaps in the latest events to draw; Draw (called by ebiten's
// loop) paints them on the next frame.
func (g *ebitenGantt) Render(events []traceEvent, priorities int) error {
	g.events = events
	g.priorities = priorities
	return nil
}

func (g *ebitenGantt) Update() error { return nil }

func (g *ebitenGantt) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func (g *ebitenGantt) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{16, 16, 20, 255})

	for p := 0; p < g.priorities; p++ {
		y := ganttMarginY + p*ganttRowHeight
		label := fmt.Sprintf("%2d", p)
		text.Draw(screen, label, basicfont.Face7x13, 4, y+10, color.White)
	}

	running := map[uint32]color.RGBA{}
	palette := []color.RGBA{
		{220, 60, 60, 255}, {60, 160, 220, 255}, {80, 200, 120, 255},
		{230, 180, 60, 255}, {180, 100, 220, 255},
	}

	for i, e := range g.events {
		x := ganttMarginX + i*ganttColWidth
		switch e.Kind {
		case eventSwitch:
			c, ok := running[e.Priority]
			if !ok {
				c = palette[int(e.Priority)%len(palette)]
				running[e.Priority] = c
			}
			y := ganttMarginY + int(e.Priority)*ganttRowHeight
			for dx := 0; dx < ganttColWidth; dx++ {
				for dy := 0; dy < ganttRowHeight-2; dy++ {
					screen.Set(x+dx, y+dy, c)
				}
			}
		}
	}
}
