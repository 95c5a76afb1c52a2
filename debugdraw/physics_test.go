package debugdraw

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/linedebug/render"
)

func TestPhysicsDrawerPrimitives(t *testing.T) {
	white := cp.FColor{R: 1, G: 1, B: 1, A: 1}
	square := []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	cases := []struct {
		name  string
		draw  func(d *PhysicsDrawer)
		verts int
	}{
		{"segment", func(d *PhysicsDrawer) { d.DrawSegment(cp.Vector{}, cp.Vector{X: 3}, white, nil) }, 2},
		{"fat_segment_thin", func(d *PhysicsDrawer) { d.DrawFatSegment(cp.Vector{}, cp.Vector{X: 3}, 0, white, white, nil) }, 2},
		{"fat_segment_capped", func(d *PhysicsDrawer) { d.DrawFatSegment(cp.Vector{}, cp.Vector{X: 3}, 1, white, white, nil) }, 2 + 4*debugCircleSegments},
		{"circle", func(d *PhysicsDrawer) { d.DrawCircle(cp.Vector{}, 0, 2, white, white, nil) }, 2*debugCircleSegments + 2},
		{"circle_zero_radius", func(d *PhysicsDrawer) { d.DrawCircle(cp.Vector{}, 0, 0, white, white, nil) }, 0},
		{"polygon", func(d *PhysicsDrawer) { d.DrawPolygon(4, square, 0, white, white, nil) }, 8},
		{"polygon_short_count", func(d *PhysicsDrawer) { d.DrawPolygon(3, square, 0, white, white, nil) }, 6},
		{"polygon_bad_count", func(d *PhysicsDrawer) { d.DrawPolygon(5, square, 0, white, white, nil) }, 0},
		{"dot", func(d *PhysicsDrawer) { d.DrawDot(0, cp.Vector{X: 1, Y: 1}, white, nil) }, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lr, _ := newTestLineRender(t, render.NewBackend())
			d := NewPhysicsDrawer(lr)
			c.draw(d)
			if lr.Len() != c.verts {
				t.Fatalf("expected %d vertices, got %d", c.verts, lr.Len())
			}
		})
	}
}

func TestPhysicsDrawerPlaneAndColor(t *testing.T) {
	lr, _ := newTestLineRender(t, render.NewBackend())
	d := NewPhysicsDrawer(lr)
	d.Z = 2.5
	d.DrawSegment(cp.Vector{X: 1, Y: 2}, cp.Vector{X: 3, Y: 4}, cp.FColor{R: 2, G: -1, B: 0.5, A: 1}, nil)

	v0, _ := lr.Vertex(0)
	v1, _ := lr.Vertex(1)
	if v0.Position != render.V3(1, 2, 2.5) || v1.Position != render.V3(3, 4, 2.5) {
		t.Fatalf("unexpected positions %+v %+v", v0.Position, v1.Position)
	}
	if v0.Color != (render.Color{R: 255, G: 0, B: 128, A: 255}) {
		t.Fatalf("unexpected color %+v", v0.Color)
	}
}

func TestPhysicsDrawerShapeColors(t *testing.T) {
	space := cp.NewSpace()
	ground := space.AddShape(cp.NewSegment(space.StaticBody, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 100, Y: 0}, 0))
	body := space.AddBody(cp.NewBody(1, cp.MomentForBox(1, 10, 10)))
	box := space.AddShape(cp.NewBox(body, 10, 10, 0))
	sensor := space.AddShape(cp.NewCircle(body, 4, cp.Vector{}))
	sensor.SetSensor(true)

	d := NewPhysicsDrawer(nil)
	if got := d.ShapeColor(ground, nil); got != d.Palette.Static {
		t.Fatalf("ground drawn as %+v", got)
	}
	if got := d.ShapeColor(box, nil); got != d.Palette.Dynamic {
		t.Fatalf("box drawn as %+v", got)
	}
	if got := d.ShapeColor(sensor, nil); got != d.Palette.Sensor {
		t.Fatalf("sensor drawn as %+v", got)
	}
}

func TestPhysicsDrawerDrawSpace(t *testing.T) {
	space := cp.NewSpace()
	space.AddShape(cp.NewSegment(space.StaticBody, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 100, Y: 0}, 0))
	body := space.AddBody(cp.NewBody(1, cp.MomentForBox(1, 10, 10)))
	body.SetPosition(cp.Vector{X: 50, Y: -20})
	space.AddShape(cp.NewBox(body, 10, 10, 0))

	lr, _ := newTestLineRender(t, render.NewBackend())
	d := NewPhysicsDrawer(lr)
	d.SetFlags(cp.DRAW_SHAPES)
	d.Draw(space)

	// One ground segment plus four box edges.
	if lr.Len() != 10 {
		t.Fatalf("expected 10 vertices, got %d", lr.Len())
	}
	d.Draw(nil)
	if lr.Len() != 10 {
		t.Fatalf("drawing a nil space added lines")
	}
}
