// Package debugdraw batches debug line segments into a single line mesh per
// frame.
//
// A LineRender owns one growable vertex buffer and the line mesh wrapping it.
// Callers add segments during the frame, submit once with QueueForRender and
// Clear before drawing the next frame:
//
//	lines.Clear()
//	lines.AddLine(a, b, red)
//	lines.QueueForRender()
//
// Renderer failures never reach the caller. They are logged through
// render.Logger and the batch degrades to drawing nothing, or keeps its
// previous buffer when a growth fails. Building with -tags debugassert turns
// these failures into panics.
package debugdraw

import (
	"errors"
	"fmt"

	"github.com/milk9111/linedebug/assets"
	"github.com/milk9111/linedebug/render"
)

const (
	DefaultInitialCapacity = 2048
	DefaultGrowthSlack     = 0.2
	DefaultMaterial        = "materials/simple_unlit.yaml"
)

var (
	ErrNilRenderer     = errors.New("debugdraw: nil renderer")
	ErrNilAssets       = errors.New("debugdraw: nil asset manager")
	ErrMaterialPasses  = errors.New("debugdraw: line material must have exactly one pass")
	errCapacityOverrun = errors.New("debugdraw: vertex count exceeds capacity")
)

// Vertex is one end of a line as stored in the batch.
type Vertex struct {
	Position render.Vec3
	Color    render.Color
}

// Stats counts what a LineRender has done since it was created.
type Stats struct {
	Growths      int
	DroppedLines int
	Submissions  int
	Failures     int
}

type options struct {
	initialCapacity int
	slack           float64
	material        string
}

type Option func(*options)

// WithInitialCapacity sets the number of vertices reserved at construction.
func WithInitialCapacity(n int) Option {
	return func(o *options) { o.initialCapacity = n }
}

// WithGrowthSlack sets the extra fraction reserved whenever the buffer grows.
func WithGrowthSlack(f float64) Option {
	return func(o *options) { o.slack = f }
}

// WithMaterial sets the material asset the lines are drawn with.
func WithMaterial(path string) Option {
	return func(o *options) { o.material = path }
}

// LineRender accumulates line segments into a vertex buffer and submits them
// as one line mesh. It is not safe for concurrent use.
type LineRender struct {
	renderer render.Renderer
	lease    *assets.Lease
	ctx      render.MeshContext
	opts     options

	maxVerts int
	numVerts int
	buffer   render.VertexBuffer
	mesh     render.Mesh
	locks    lockSet

	stats  Stats
	closed bool
}

// NewLineRender borrows the line material from m and reserves the initial
// capacity. Failing to create the initial buffer is not an error; the
// LineRender then simply draws nothing until a later AddLine succeeds in
// growing it.
func NewLineRender(r render.Renderer, m *assets.Manager, opts ...Option) (*LineRender, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	if m == nil {
		return nil, ErrNilAssets
	}
	o := options{
		initialCapacity: DefaultInitialCapacity,
		slack:           DefaultGrowthSlack,
		material:        DefaultMaterial,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.slack < 0 {
		o.slack = 0
	}

	lease, err := m.Borrow(o.material, assets.TypeMaterial)
	if err != nil {
		return nil, fmt.Errorf("debugdraw: borrow material %s: %w", o.material, err)
	}
	mat := lease.Material()
	if mat.NumPasses() != 1 {
		lease.Release()
		return nil, fmt.Errorf("debugdraw: material %s has %d passes: %w", o.material, mat.NumPasses(), ErrMaterialPasses)
	}

	lr := &LineRender{
		renderer: r,
		lease:    lease,
		ctx:      render.MeshContext{Material: mat.Pass(0)},
		opts:     o,
	}
	if o.initialCapacity > 0 {
		lr.ensureCapacity(o.initialCapacity)
	}
	return lr, nil
}

// AddLine appends the segment p0-p1 drawn in color c. The segment is dropped
// when the buffer cannot be grown or mapped.
func (lr *LineRender) AddLine(p0, p1 render.Vec3, c render.Color) {
	if lr.closed {
		return
	}
	lr.ensureCapacity(lr.numVerts + 2)
	if lr.numVerts+2 > lr.maxVerts || !lr.ensureLocked() {
		lr.stats.DroppedLines++
		return
	}
	lr.addVert(p0, c)
	lr.addVert(p1, c)
}

// Reserve grows the buffer, if needed, so that n more segments fit without
// another growth.
func (lr *LineRender) Reserve(n int) {
	if lr.closed || n <= 0 {
		return
	}
	lr.ensureCapacity(lr.numVerts + 2*n)
}

func (lr *LineRender) addVert(p render.Vec3, c render.Color) {
	lr.locks.positions.SetPosition(lr.numVerts, p)
	lr.locks.colors.SetColor(lr.numVerts, c)
	lr.numVerts++
}

// Clear forgets every segment. Capacity and buffer contents are kept.
func (lr *LineRender) Clear() {
	lr.numVerts = 0
}

// QueueForRender submits the current segments to the renderer for this frame.
// It does nothing until a buffer has been created successfully.
func (lr *LineRender) QueueForRender() {
	if lr.closed || lr.mesh == nil {
		return
	}
	lr.ensureUnlocked()
	if err := lr.mesh.SetVertexBufferRange(0, lr.numVerts); err != nil {
		lr.fail("set vertex range", err)
		return
	}
	if err := lr.renderer.QueueMeshForRender(lr.ctx); err != nil {
		lr.fail("queue mesh", err)
		return
	}
	lr.stats.Submissions++
}

// Len returns the number of vertices in the batch, two per segment.
func (lr *LineRender) Len() int {
	return lr.numVerts
}

// Cap returns the number of vertices the current buffer can hold.
func (lr *LineRender) Cap() int {
	return lr.maxVerts
}

func (lr *LineRender) Stats() Stats {
	return lr.stats
}

// Material returns the shading state lines are submitted with.
func (lr *LineRender) Material() *render.Material {
	return lr.ctx.Material
}

// Mesh returns the current line mesh, or nil if none could be created.
func (lr *LineRender) Mesh() render.Mesh {
	return lr.mesh
}

// Vertex reads back vertex i. The buffer is mapped if it is not already.
func (lr *LineRender) Vertex(i int) (Vertex, bool) {
	if lr.closed || i < 0 || i >= lr.numVerts || !lr.ensureLocked() {
		return Vertex{}, false
	}
	return Vertex{
		Position: lr.locks.positions.Position(i),
		Color:    lr.locks.colors.Color(i),
	}, true
}

// Close releases the mesh and buffer and returns the material. It is safe to
// call more than once.
func (lr *LineRender) Close() error {
	if lr.closed {
		return nil
	}
	lr.closed = true
	lr.ensureUnlocked()
	err := releasePair(lr.buffer, lr.mesh)
	lr.buffer, lr.mesh, lr.ctx.Mesh = nil, nil, nil
	lr.locks = lockSet{}
	lr.maxVerts, lr.numVerts = 0, 0
	lr.lease.Release()
	if err != nil {
		return fmt.Errorf("debugdraw: close: %w", err)
	}
	return nil
}

// ensureCapacity grows the buffer so it holds at least minVerts vertices.
// The new buffer and mesh replace the current pair only once both exist and
// every existing vertex has been copied; on any failure the current pair is
// kept untouched.
func (lr *LineRender) ensureCapacity(minVerts int) {
	if minVerts <= lr.maxVerts {
		return
	}
	newMax := minVerts + int(float64(minVerts)*lr.opts.slack)

	var desc render.VertexBufferDesc
	desc.Hint = render.HintDynamic
	desc.SemanticFormats[render.SemanticPosition] = render.FormatFloat3
	desc.SemanticFormats[render.SemanticColor] = render.FormatColorNative
	desc.MaxVertices = newMax
	buf, err := lr.renderer.CreateVertexBuffer(desc)
	if err != nil {
		lr.fail("create vertex buffer", err)
		return
	}

	if lr.numVerts > 0 && !lr.ensureLocked() {
		lr.discard(buf)
		return
	}
	err = withLocks(buf, func(dst *lockSet) error {
		if lr.numVerts == 0 {
			return nil
		}
		if lr.numVerts > dst.positions.Len() {
			return errCapacityOverrun
		}
		if err := render.CopyRecords(dst.positions, lr.locks.positions, lr.numVerts); err != nil {
			return err
		}
		return render.CopyRecords(dst.colors, lr.locks.colors, lr.numVerts)
	})
	if err != nil {
		lr.fail("copy vertices", err)
		lr.discard(buf)
		return
	}

	mesh, err := lr.renderer.CreateMesh(render.MeshDesc{
		Primitive:     render.PrimitiveLines,
		VertexBuffers: []render.VertexBuffer{buf},
		FirstVertex:   0,
		NumVertices:   lr.numVerts,
	})
	if err != nil {
		lr.fail("create mesh", err)
		lr.discard(buf)
		return
	}

	lr.ensureUnlocked()
	if err := releasePair(lr.buffer, lr.mesh); err != nil {
		lr.fail("release previous buffer", err)
	}
	render.Logger().Debug("line buffer grown", "from", lr.maxVerts, "to", newMax, "vertices", lr.numVerts)
	lr.buffer, lr.mesh = buf, mesh
	lr.locks = lockSet{buffer: buf}
	lr.ctx.Mesh = mesh
	lr.maxVerts = newMax
	lr.stats.Growths++
}

// ensureLocked maps the current buffer for writing if it is not mapped yet.
func (lr *LineRender) ensureLocked() bool {
	if lr.buffer == nil {
		return false
	}
	ok, err := lr.locks.open()
	if err != nil {
		lr.fail("lock vertex buffer", err)
	}
	return ok
}

// ensureUnlocked unmaps the current buffer if it is mapped.
func (lr *LineRender) ensureUnlocked() {
	lr.locks.close()
}

// discard releases a buffer created for a growth that was abandoned.
func (lr *LineRender) discard(buf render.VertexBuffer) {
	if err := buf.Release(); err != nil {
		lr.fail("release abandoned buffer", err)
	}
}

// releasePair releases mesh before the buffer it wraps.
func releasePair(buf render.VertexBuffer, mesh render.Mesh) error {
	var errs []error
	if mesh != nil {
		if err := mesh.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	if buf != nil {
		if err := buf.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (lr *LineRender) fail(op string, err error) {
	lr.stats.Failures++
	if debugAssertions {
		panic(fmt.Sprintf("debugdraw: %s: %v", op, err))
	}
	render.Logger().Warn("debug line render degraded", "op", op, "err", err)
}
