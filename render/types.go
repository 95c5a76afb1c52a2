package render

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"math"
)

// Semantic names an attribute channel within a vertex.
type Semantic int

const (
	SemanticPosition Semantic = iota
	SemanticColor

	NumSemantics
)

func (s Semantic) String() string {
	switch s {
	case SemanticPosition:
		return "position"
	case SemanticColor:
		return "color"
	default:
		return fmt.Sprintf("semantic(%d)", int(s))
	}
}

// Format is the in-memory layout of one semantic record.
type Format int

const (
	FormatNone Format = iota
	FormatFloat3
	// FormatColorNative stores a Color as its four bytes in R, G, B, A order.
	FormatColorNative
)

// Size returns the number of bytes a record of this format occupies.
func (f Format) Size() int {
	switch f {
	case FormatFloat3:
		return 12
	case FormatColorNative:
		return 4
	default:
		return 0
	}
}

type Hint int

const (
	HintStatic Hint = iota
	HintDynamic
)

type Primitive int

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveTriangles
)

func (p Primitive) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveTriangles:
		return "triangles"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// Vec3 is a position in world space.
type Vec3 struct {
	X, Y, Z float32
}

func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Color is a packed, non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// ColorOf converts any color.Color to a packed Color.
func ColorOf(c color.Color) Color {
	if c == nil {
		return Color{}
	}
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Modulate multiplies two colors channel by channel.
func (c Color) Modulate(o Color) Color {
	mul := func(a, b uint8) uint8 {
		return uint8((uint16(a)*uint16(b) + 127) / 255)
	}
	return Color{R: mul(c.R, o.R), G: mul(c.G, o.G), B: mul(c.B, o.B), A: mul(c.A, o.A)}
}

var White = Color{R: 255, G: 255, B: 255, A: 255}

// VertexBufferDesc describes a vertex buffer to be created.
type VertexBufferDesc struct {
	Hint            Hint
	SemanticFormats [NumSemantics]Format
	MaxVertices     int
}

func (d VertexBufferDesc) Validate() error {
	if d.MaxVertices <= 0 {
		return fmt.Errorf("render: vertex buffer needs a positive capacity, got %d", d.MaxVertices)
	}
	present := false
	for s, f := range d.SemanticFormats {
		if f == FormatNone {
			continue
		}
		if f.Size() == 0 {
			return fmt.Errorf("render: semantic %s has unknown format %d", Semantic(s), int(f))
		}
		present = true
	}
	if !present {
		return fmt.Errorf("render: vertex buffer has no semantics")
	}
	return nil
}

// MeshDesc describes a mesh over one or more vertex buffers.
type MeshDesc struct {
	Primitive     Primitive
	VertexBuffers []VertexBuffer
	FirstVertex   int
	NumVertices   int
}

// Material is the shading state a mesh is drawn with.
type Material struct {
	Name         string
	VertexShader string
	LineWidth    float32
	AntiAlias    bool
	Tint         Color
}

// MeshContext bundles a mesh with the material used to submit it.
type MeshContext struct {
	Mesh     Mesh
	Material *Material
}

// Region is a CPU view of one locked semantic.
type Region struct {
	data   []byte
	stride int
	format Format
	n      int
}

func (r Region) Valid() bool { return r.data != nil }

func (r Region) Stride() int { return r.stride }

// Len returns the number of records addressable through the region.
func (r Region) Len() int { return r.n }

// Record returns the bytes of record i.
func (r Region) Record(i int) []byte {
	off := i * r.stride
	return r.data[off : off+r.format.Size()]
}

func (r Region) SetPosition(i int, v Vec3) {
	b := r.Record(i)
	binary.NativeEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.NativeEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.NativeEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func (r Region) Position(i int) Vec3 {
	b := r.Record(i)
	return Vec3{
		X: math.Float32frombits(binary.NativeEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.NativeEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.NativeEndian.Uint32(b[8:])),
	}
}

func (r Region) SetColor(i int, c Color) {
	b := r.Record(i)
	b[0], b[1], b[2], b[3] = c.R, c.G, c.B, c.A
}

func (r Region) Color(i int) Color {
	b := r.Record(i)
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}
}

// CopyRecords copies the first n records of src into dst. Strides may differ
// but formats must match.
func CopyRecords(dst, src Region, n int) error {
	if dst.format != src.format {
		return fmt.Errorf("render: copy between formats %d and %d", int(src.format), int(dst.format))
	}
	if n > dst.n || n > src.n {
		return fmt.Errorf("render: copy of %d records exceeds region (%d -> %d): %w", n, src.n, dst.n, ErrRange)
	}
	for i := 0; i < n; i++ {
		copy(dst.Record(i), src.Record(i))
	}
	return nil
}
