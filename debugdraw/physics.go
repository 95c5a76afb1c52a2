package debugdraw

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/linedebug/render"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// Palette holds the colors used for physics debug drawing.
type Palette struct {
	Outline        cp.FColor
	Static         cp.FColor
	Sensor         cp.FColor
	Dynamic        cp.FColor
	Sleeping       cp.FColor
	Constraint     cp.FColor
	CollisionPoint cp.FColor
}

// DefaultPalette matches the colors the physics samples have always used.
var DefaultPalette = Palette{
	Outline:        cp.FColor{R: 0.2, G: 1, B: 0.2, A: 1},
	Static:         cp.FColor{R: 0.4, G: 0.7, B: 1, A: 1},
	Sensor:         cp.FColor{R: 1, G: 0.85, B: 0.2, A: 1},
	Dynamic:        cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1},
	Sleeping:       cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 1},
	Constraint:     cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9},
	CollisionPoint: cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9},
}

// PhysicsDrawer feeds chipmunk debug drawing into a LineRender. Shapes are
// drawn in the plane z = Z.
type PhysicsDrawer struct {
	lines   *LineRender
	flags   uint
	Z       float32
	Palette Palette
}

// NewPhysicsDrawer draws shapes, constraints and collision points by default.
func NewPhysicsDrawer(lines *LineRender) *PhysicsDrawer {
	return &PhysicsDrawer{
		lines:   lines,
		flags:   cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS,
		Palette: DefaultPalette,
	}
}

// SetFlags selects what cp.DrawSpace reports, using the cp.DRAW_* bits.
func (d *PhysicsDrawer) SetFlags(flags uint) {
	d.flags = flags
}

// Draw emits every shape of space into the line batch.
func (d *PhysicsDrawer) Draw(space *cp.Space) {
	if d == nil || d.lines == nil || space == nil {
		return
	}
	cp.DrawSpace(space, d)
}

func (d *PhysicsDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	c := fcolor(outline)
	d.lines.AddCircle(d.vec(pos), float32(radius), debugCircleSegments, c)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.lines.AddLine(d.vec(pos), d.vec(end), c)
}

func (d *PhysicsDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.lines.AddLine(d.vec(a), d.vec(b), fcolor(fill))
}

func (d *PhysicsDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolor(outline)
	d.lines.AddLine(d.vec(a), d.vec(b), c)
	if radius > 0 {
		d.lines.AddCircle(d.vec(a), float32(radius), debugCircleSegments, c)
		d.lines.AddCircle(d.vec(b), float32(radius), debugCircleSegments, c)
	}
}

func (d *PhysicsDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 || count > len(verts) {
		return
	}
	points := make([]render.Vec3, count)
	for i := 0; i < count; i++ {
		points[i] = d.vec(verts[i])
	}
	d.lines.AddPolyline(points, fcolor(outline), true)
}

func (d *PhysicsDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	c := fcolor(fill)
	d.lines.AddLine(d.vec(cp.Vector{X: pos.X - half, Y: pos.Y}), d.vec(cp.Vector{X: pos.X + half, Y: pos.Y}), c)
	d.lines.AddLine(d.vec(cp.Vector{X: pos.X, Y: pos.Y - half}), d.vec(cp.Vector{X: pos.X, Y: pos.Y + half}), c)
}

func (d *PhysicsDrawer) Flags() uint {
	return d.flags
}

func (d *PhysicsDrawer) OutlineColor() cp.FColor {
	return d.Palette.Outline
}

func (d *PhysicsDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return d.Palette.Dynamic
	}
	if shape.Sensor() {
		return d.Palette.Sensor
	}
	body := shape.Body()
	if body == nil {
		return d.Palette.Dynamic
	}
	if body.GetType() == cp.BODY_STATIC {
		return d.Palette.Static
	}
	if body.IsSleeping() {
		return d.Palette.Sleeping
	}
	return d.Palette.Dynamic
}

func (d *PhysicsDrawer) ConstraintColor() cp.FColor {
	return d.Palette.Constraint
}

func (d *PhysicsDrawer) CollisionPointColor() cp.FColor {
	return d.Palette.CollisionPoint
}

func (d *PhysicsDrawer) Data() interface{} {
	return nil
}

func (d *PhysicsDrawer) vec(v cp.Vector) render.Vec3 {
	return render.V3(float32(v.X), float32(v.Y), d.Z)
}

func fcolor(c cp.FColor) render.Color {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v*255 + 0.5)
	}
	return render.Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
