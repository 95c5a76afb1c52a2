package render

import (
	"fmt"
)

// Layout selects how a Backend arranges semantics in vertex memory.
type Layout int

const (
	// LayoutInterleaved stores all semantics of a vertex in one record.
	LayoutInterleaved Layout = iota
	// LayoutPlanar stores each semantic in its own tightly packed array.
	LayoutPlanar
)

func (l Layout) String() string {
	switch l {
	case LayoutInterleaved:
		return "interleaved"
	case LayoutPlanar:
		return "planar"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout parses the names returned by Layout.String.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "interleaved":
		return LayoutInterleaved, nil
	case "planar":
		return LayoutPlanar, nil
	default:
		return 0, fmt.Errorf("render: unknown layout %q", s)
	}
}

// Faults lets callers force resource operations to fail. A nil func never fails.
type Faults struct {
	CreateVertexBuffer func(desc VertexBufferDesc) bool
	CreateMesh         func(desc MeshDesc) bool
	Lock               func(s Semantic) bool
}

// BackendStats counts live resources and submissions.
type BackendStats struct {
	LiveBuffers int
	LiveMeshes  int
	Locked      int
	Queued      int
	Submitted   int
}

// View maps world space onto the screen. A Zoom of zero or less means 1.
type View struct {
	CamX float64
	CamY float64
	Zoom float64
}

// Stroke is a line segment in screen space, ready to draw.
type Stroke struct {
	X0, Y0    float32
	X1, Y1    float32
	Width     float32
	Color     Color
	AntiAlias bool
}

// Project maps the world-space segment p0-p1 onto the screen. The vertex color
// c is modulated by the material tint and the line width is scaled by zoom.
// A nil material draws one pixel wide lines with no tint.
func (v View) Project(p0, p1 Vec3, c Color, mat *Material) Stroke {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	width, tint, aa := float32(1), White, false
	if mat != nil {
		if mat.LineWidth > 0 {
			width = mat.LineWidth
		}
		tint, aa = mat.Tint, mat.AntiAlias
	}
	x := func(f float32) float32 { return float32((float64(f) - v.CamX) * zoom) }
	y := func(f float32) float32 { return float32((float64(f) - v.CamY) * zoom) }
	return Stroke{
		X0:        x(p0.X),
		Y0:        y(p0.Y),
		X1:        x(p1.X),
		Y1:        y(p1.Y),
		Width:     width * float32(zoom),
		Color:     c.Modulate(tint),
		AntiAlias: aa,
	}
}

// Backend is a Renderer that keeps vertex memory on the CPU. Queued meshes are
// turned into screen-space strokes by Flush. It is not safe for concurrent use.
type Backend struct {
	layout Layout
	faults Faults
	queue  []MeshContext
	stats  BackendStats
}

type BackendOption func(*Backend)

func WithLayout(l Layout) BackendOption {
	return func(b *Backend) { b.layout = l }
}

func WithFaults(f Faults) BackendOption {
	return func(b *Backend) { b.faults = f }
}

func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLayout changes the layout used for buffers created from now on.
func (b *Backend) SetLayout(l Layout) {
	b.layout = l
}

func (b *Backend) SetFaults(f Faults) {
	b.faults = f
}

func (b *Backend) Stats() BackendStats {
	s := b.stats
	s.Queued = len(b.queue)
	return s
}

// Queued returns the meshes submitted since the last Flush or Discard.
func (b *Backend) Queued() []MeshContext {
	return b.queue
}

// Discard empties the render queue without drawing.
func (b *Backend) Discard() {
	clear(b.queue)
	b.queue = b.queue[:0]
}

func (b *Backend) CreateVertexBuffer(desc VertexBufferDesc) (VertexBuffer, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if b.faults.CreateVertexBuffer != nil && b.faults.CreateVertexBuffer(desc) {
		return nil, fmt.Errorf("render: create vertex buffer of %d vertices: %w", desc.MaxVertices, ErrCreateFailed)
	}

	vb := &vertexBuffer{backend: b, desc: desc}
	switch b.layout {
	case LayoutPlanar:
		for s, f := range desc.SemanticFormats {
			if f == FormatNone {
				continue
			}
			vb.channels[s] = channel{
				data:   make([]byte, f.Size()*desc.MaxVertices),
				stride: f.Size(),
				format: f,
			}
		}
	default:
		record := 0
		for _, f := range desc.SemanticFormats {
			record += f.Size()
		}
		shared := make([]byte, record*desc.MaxVertices)
		offset := 0
		for s, f := range desc.SemanticFormats {
			if f == FormatNone {
				continue
			}
			vb.channels[s] = channel{
				data:   shared[offset:],
				stride: record,
				format: f,
			}
			offset += f.Size()
		}
	}

	b.stats.LiveBuffers++
	Logger().Debug("vertex buffer created", "vertices", desc.MaxVertices, "layout", b.layout.String())
	return vb, nil
}

func (b *Backend) CreateMesh(desc MeshDesc) (Mesh, error) {
	if len(desc.VertexBuffers) == 0 {
		return nil, fmt.Errorf("render: mesh needs at least one vertex buffer")
	}
	buffers := make([]*vertexBuffer, 0, len(desc.VertexBuffers))
	for _, v := range desc.VertexBuffers {
		vb, ok := v.(*vertexBuffer)
		if !ok || vb.backend != b {
			return nil, ErrForeign
		}
		if vb.released {
			return nil, fmt.Errorf("render: create mesh: %w", ErrReleased)
		}
		buffers = append(buffers, vb)
	}
	m := &mesh{backend: b, primitive: desc.Primitive, buffers: buffers}
	if err := m.SetVertexBufferRange(desc.FirstVertex, desc.NumVertices); err != nil {
		return nil, err
	}
	if b.faults.CreateMesh != nil && b.faults.CreateMesh(desc) {
		return nil, fmt.Errorf("render: create %s mesh: %w", desc.Primitive, ErrCreateFailed)
	}
	b.stats.LiveMeshes++
	return m, nil
}

func (b *Backend) QueueMeshForRender(ctx MeshContext) error {
	m, ok := ctx.Mesh.(*mesh)
	if !ok || m.backend != b {
		return ErrForeign
	}
	if m.released {
		return fmt.Errorf("render: queue mesh: %w", ErrReleased)
	}
	for _, vb := range m.buffers {
		if vb.released {
			return fmt.Errorf("render: queue mesh: %w", ErrReleased)
		}
		if vb.lockedCount() > 0 {
			return fmt.Errorf("render: queue mesh: %w", ErrLocked)
		}
	}
	b.queue = append(b.queue, ctx)
	b.stats.Submitted++
	return nil
}

// Flush projects every segment of the queued line meshes through view, hands
// each one to draw and empties the queue. Other primitives are skipped. A nil
// draw only empties the queue.
func (b *Backend) Flush(view View, draw func(Stroke)) {
	defer b.Discard()
	if draw == nil {
		return
	}
	for _, ctx := range b.queue {
		m, ok := ctx.Mesh.(*mesh)
		if !ok || m.released || len(m.buffers) == 0 {
			continue
		}
		if m.primitive != PrimitiveLines {
			Logger().Debug("skipping unsupported primitive", "primitive", m.primitive.String())
			continue
		}
		pos, okPos := m.region(SemanticPosition)
		if !okPos {
			continue
		}
		col, okCol := m.region(SemanticColor)
		end := m.first + m.count
		for i := m.first; i+1 < end; i += 2 {
			c := White
			if okCol {
				c = col.Color(i)
			}
			draw(view.Project(pos.Position(i), pos.Position(i+1), c, ctx.Material))
		}
	}
}

type channel struct {
	data   []byte
	stride int
	format Format
}

func (c channel) region(n int) Region {
	return Region{data: c.data, stride: c.stride, format: c.format, n: n}
}

type vertexBuffer struct {
	backend  *Backend
	desc     VertexBufferDesc
	channels [NumSemantics]channel
	locked   [NumSemantics]bool
	released bool
}

func (vb *vertexBuffer) MaxVertices() int {
	return vb.desc.MaxVertices
}

func (vb *vertexBuffer) LockSemantic(s Semantic) (Region, error) {
	if s < 0 || s >= NumSemantics {
		return Region{}, ErrNoSemantic
	}
	if vb.released {
		return Region{}, fmt.Errorf("render: lock %s: %w", s, ErrReleased)
	}
	if vb.desc.SemanticFormats[s] == FormatNone {
		return Region{}, fmt.Errorf("render: lock %s: %w", s, ErrNoSemantic)
	}
	if vb.locked[s] {
		return Region{}, fmt.Errorf("render: lock %s: %w", s, ErrAlreadyLocked)
	}
	if f := vb.backend.faults.Lock; f != nil && f(s) {
		return Region{}, fmt.Errorf("render: lock %s: %w", s, ErrLockFailed)
	}
	vb.locked[s] = true
	vb.backend.stats.Locked++
	return vb.channels[s].region(vb.desc.MaxVertices), nil
}

func (vb *vertexBuffer) UnlockSemantic(s Semantic) {
	if s < 0 || s >= NumSemantics || !vb.locked[s] {
		return
	}
	vb.locked[s] = false
	vb.backend.stats.Locked--
}

func (vb *vertexBuffer) lockedCount() int {
	n := 0
	for _, l := range vb.locked {
		if l {
			n++
		}
	}
	return n
}

func (vb *vertexBuffer) Release() error {
	if vb.released {
		return nil
	}
	if vb.lockedCount() > 0 {
		return fmt.Errorf("render: release vertex buffer: %w", ErrLocked)
	}
	vb.released = true
	vb.backend.stats.LiveBuffers--
	return nil
}

type mesh struct {
	backend   *Backend
	primitive Primitive
	buffers   []*vertexBuffer
	first     int
	count     int
	released  bool
}

func (m *mesh) SetVertexBufferRange(first, count int) error {
	if m.released {
		return fmt.Errorf("render: set range: %w", ErrReleased)
	}
	if first < 0 || count < 0 {
		return fmt.Errorf("render: set range [%d,+%d): %w", first, count, ErrRange)
	}
	for _, vb := range m.buffers {
		if first+count > vb.desc.MaxVertices {
			return fmt.Errorf("render: set range [%d,+%d) of %d vertices: %w", first, count, vb.desc.MaxVertices, ErrRange)
		}
	}
	m.first, m.count = first, count
	return nil
}

func (m *mesh) Range() (int, int) {
	return m.first, m.count
}

func (m *mesh) Primitive() Primitive {
	return m.primitive
}

func (m *mesh) VertexBuffers() []VertexBuffer {
	out := make([]VertexBuffer, len(m.buffers))
	for i, vb := range m.buffers {
		out[i] = vb
	}
	return out
}

// region reads semantic s from the first buffer of the mesh that carries it,
// bypassing the lock bookkeeping.
func (m *mesh) region(s Semantic) (Region, bool) {
	for _, vb := range m.buffers {
		if vb.desc.SemanticFormats[s] != FormatNone {
			return vb.channels[s].region(vb.desc.MaxVertices), true
		}
	}
	return Region{}, false
}

func (m *mesh) Release() error {
	if m.released {
		return nil
	}
	m.released = true
	m.backend.stats.LiveMeshes--
	return nil
}
