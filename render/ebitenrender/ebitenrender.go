// Package ebitenrender draws a render.Backend queue onto ebiten images.
package ebitenrender

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/linedebug/render"
)

// Flush strokes every queued line of b onto screen and empties the queue.
// A nil screen drops the queue.
func Flush(screen *ebiten.Image, b *render.Backend, view render.View) {
	if screen == nil {
		b.Discard()
		return
	}
	b.Flush(view, func(s render.Stroke) {
		vector.StrokeLine(screen, s.X0, s.Y0, s.X1, s.Y1, s.Width, s.Color, s.AntiAlias)
	})
}
