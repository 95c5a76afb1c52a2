package debugdraw

import (
	"math"

	"github.com/milk9111/linedebug/render"
)

// Segment is a colored line between two points.
type Segment struct {
	P0, P1 render.Vec3
	Color  render.Color
}

// AddSegments appends segs, growing the buffer at most once for the batch.
func (lr *LineRender) AddSegments(segs []Segment) {
	lr.Reserve(len(segs))
	for _, s := range segs {
		lr.AddLine(s.P0, s.P1, s.Color)
	}
}

// AddPolyline connects consecutive points. When closed the last point is
// joined back to the first.
func (lr *LineRender) AddPolyline(points []render.Vec3, c render.Color, closed bool) {
	n := len(points)
	if n < 2 {
		return
	}
	edges := n - 1
	if closed && n > 2 {
		edges = n
	}
	lr.Reserve(edges)
	for i := 0; i < edges; i++ {
		lr.AddLine(points[i], points[(i+1)%n], c)
	}
}

// AddCross draws three axis-aligned strokes of length size centered on p.
func (lr *LineRender) AddCross(p render.Vec3, size float32, c render.Color) {
	h := size / 2
	lr.Reserve(3)
	lr.AddLine(render.V3(p.X-h, p.Y, p.Z), render.V3(p.X+h, p.Y, p.Z), c)
	lr.AddLine(render.V3(p.X, p.Y-h, p.Z), render.V3(p.X, p.Y+h, p.Z), c)
	lr.AddLine(render.V3(p.X, p.Y, p.Z-h), render.V3(p.X, p.Y, p.Z+h), c)
}

// AddCircle draws a circle in the plane z = center.Z.
func (lr *LineRender) AddCircle(center render.Vec3, radius float32, segments int, c render.Color) {
	if radius <= 0 || segments < 3 {
		return
	}
	points := make([]render.Vec3, segments)
	for i := range points {
		t := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = render.V3(
			center.X+radius*float32(math.Cos(t)),
			center.Y+radius*float32(math.Sin(t)),
			center.Z,
		)
	}
	lr.AddPolyline(points, c, true)
}

// AddBox draws the twelve edges of the axis-aligned box spanning lo and hi.
func (lr *LineRender) AddBox(lo, hi render.Vec3, c render.Color) {
	corner := func(i int) render.Vec3 {
		v := lo
		if i&1 != 0 {
			v.X = hi.X
		}
		if i&2 != 0 {
			v.Y = hi.Y
		}
		if i&4 != 0 {
			v.Z = hi.Z
		}
		return v
	}
	lr.Reserve(12)
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				lr.AddLine(corner(i), corner(i|bit), c)
			}
		}
	}
}
