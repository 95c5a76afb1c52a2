package render

import (
	"errors"
	"image/color"
	"testing"
)

func lineDesc(n int) VertexBufferDesc {
	var desc VertexBufferDesc
	desc.Hint = HintDynamic
	desc.SemanticFormats[SemanticPosition] = FormatFloat3
	desc.SemanticFormats[SemanticColor] = FormatColorNative
	desc.MaxVertices = n
	return desc
}

func TestBackendLayoutStrides(t *testing.T) {
	cases := []struct {
		name        string
		layout      Layout
		posStride   int
		colorStride int
	}{
		{"interleaved", LayoutInterleaved, 16, 16},
		{"planar", LayoutPlanar, 12, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := NewBackend(WithLayout(c.layout))
			vb, err := b.CreateVertexBuffer(lineDesc(8))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			pos, err := vb.LockSemantic(SemanticPosition)
			if err != nil {
				t.Fatalf("lock position: %v", err)
			}
			col, err := vb.LockSemantic(SemanticColor)
			if err != nil {
				t.Fatalf("lock color: %v", err)
			}
			if pos.Stride() != c.posStride || col.Stride() != c.colorStride {
				t.Fatalf("expected strides %d/%d, got %d/%d", c.posStride, c.colorStride, pos.Stride(), col.Stride())
			}

			// Writing every record must not bleed into the neighbouring semantic.
			for i := 0; i < 8; i++ {
				pos.SetPosition(i, V3(float32(i), float32(-i), 0.5))
				col.SetColor(i, Color{R: uint8(i), G: 1, B: 2, A: 255})
			}
			for i := 0; i < 8; i++ {
				if got := pos.Position(i); got != V3(float32(i), float32(-i), 0.5) {
					t.Fatalf("position %d: got %+v", i, got)
				}
				if got := col.Color(i); got != (Color{R: uint8(i), G: 1, B: 2, A: 255}) {
					t.Fatalf("color %d: got %+v", i, got)
				}
			}
			vb.UnlockSemantic(SemanticPosition)
			vb.UnlockSemantic(SemanticColor)
			if err := vb.Release(); err != nil {
				t.Fatalf("release: %v", err)
			}
			if s := b.Stats(); s.LiveBuffers != 0 || s.Locked != 0 {
				t.Fatalf("expected no live buffers or locks, got %+v", s)
			}
		})
	}
}

func TestBackendLockDiscipline(t *testing.T) {
	b := NewBackend()
	vb, err := b.CreateVertexBuffer(lineDesc(4))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := vb.LockSemantic(SemanticPosition); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := vb.LockSemantic(SemanticPosition); !errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("expected ErrAlreadyLocked, got %v", err)
	}

	m, err := b.CreateMesh(MeshDesc{Primitive: PrimitiveLines, VertexBuffers: []VertexBuffer{vb}})
	if err != nil {
		t.Fatalf("create mesh: %v", err)
	}
	if err := b.QueueMeshForRender(MeshContext{Mesh: m}); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked on submit, got %v", err)
	}
	if err := vb.Release(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked on release, got %v", err)
	}

	vb.UnlockSemantic(SemanticPosition)
	vb.UnlockSemantic(SemanticPosition)
	if err := b.QueueMeshForRender(MeshContext{Mesh: m}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := len(b.Queued()); got != 1 {
		t.Fatalf("expected 1 queued mesh, got %d", got)
	}
	b.Discard()
	if got := b.Stats().Queued; got != 0 {
		t.Fatalf("expected empty queue, got %d", got)
	}

	if err := m.Release(); err != nil {
		t.Fatalf("release mesh: %v", err)
	}
	if err := vb.Release(); err != nil {
		t.Fatalf("release buffer: %v", err)
	}
	if _, err := vb.LockSemantic(SemanticColor); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased, got %v", err)
	}
}

func TestMeshRange(t *testing.T) {
	b := NewBackend()
	vb, err := b.CreateVertexBuffer(lineDesc(10))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m, err := b.CreateMesh(MeshDesc{Primitive: PrimitiveLines, VertexBuffers: []VertexBuffer{vb}, NumVertices: 4})
	if err != nil {
		t.Fatalf("create mesh: %v", err)
	}
	if first, count := m.Range(); first != 0 || count != 4 {
		t.Fatalf("expected [0,4), got [%d,+%d)", first, count)
	}
	if err := m.SetVertexBufferRange(4, 7); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	if err := m.SetVertexBufferRange(0, 10); err != nil {
		t.Fatalf("full range: %v", err)
	}

	other := NewBackend()
	if err := other.QueueMeshForRender(MeshContext{Mesh: m}); !errors.Is(err, ErrForeign) {
		t.Fatalf("expected ErrForeign, got %v", err)
	}
}

func TestBackendFaults(t *testing.T) {
	b := NewBackend(WithFaults(Faults{
		CreateVertexBuffer: func(desc VertexBufferDesc) bool { return desc.MaxVertices > 100 },
		Lock:               func(s Semantic) bool { return s == SemanticColor },
	}))
	if _, err := b.CreateVertexBuffer(lineDesc(101)); !errors.Is(err, ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed, got %v", err)
	}
	vb, err := b.CreateVertexBuffer(lineDesc(100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := vb.LockSemantic(SemanticColor); !errors.Is(err, ErrLockFailed) {
		t.Fatalf("expected ErrLockFailed, got %v", err)
	}
	if got := b.Stats().Locked; got != 0 {
		t.Fatalf("failed lock must not count as held, got %d", got)
	}
}

func TestCopyRecordsAcrossStrides(t *testing.T) {
	src := NewBackend(WithLayout(LayoutInterleaved))
	dst := NewBackend(WithLayout(LayoutPlanar))
	a, _ := src.CreateVertexBuffer(lineDesc(4))
	b, _ := dst.CreateVertexBuffer(lineDesc(6))

	ap, _ := a.LockSemantic(SemanticPosition)
	bp, _ := b.LockSemantic(SemanticPosition)
	for i := 0; i < 4; i++ {
		ap.SetPosition(i, V3(1, 2, float32(i)))
	}
	if err := CopyRecords(bp, ap, 4); err != nil {
		t.Fatalf("copy: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got := bp.Position(i); got != V3(1, 2, float32(i)) {
			t.Fatalf("record %d: got %+v", i, got)
		}
	}
	if err := CopyRecords(ap, bp, 5); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	bc, _ := b.LockSemantic(SemanticColor)
	if err := CopyRecords(bc, ap, 1); err == nil {
		t.Fatalf("expected format mismatch error")
	}
}

func TestColorConversions(t *testing.T) {
	c := ColorOf(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if c != (Color{R: 255, G: 0, B: 0, A: 128}) {
		t.Fatalf("expected unpremultiplied red, got %+v", c)
	}
	if got := c.Modulate(White); got != c {
		t.Fatalf("modulate by white changed color: %+v", got)
	}
	if got := c.Modulate(Color{}); got != (Color{}) {
		t.Fatalf("modulate by zero: %+v", got)
	}
	if ColorOf(nil) != (Color{}) {
		t.Fatalf("nil color should be zero")
	}
}

func TestVertexBufferDescValidate(t *testing.T) {
	if err := (VertexBufferDesc{MaxVertices: 4}).Validate(); err == nil {
		t.Fatalf("expected error for buffer without semantics")
	}
	if err := lineDesc(0).Validate(); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
	if err := lineDesc(1).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestViewProject(t *testing.T) {
	red := Color{R: 255, A: 255}
	cases := []struct {
		name string
		view View
		c    Color
		mat  *Material
		want Stroke
	}{
		{"identity", View{Zoom: 1}, White, nil, Stroke{X0: 1, Y0: 2, X1: 3, Y1: 4, Width: 1, Color: White}},
		{"zero_zoom", View{}, White, nil, Stroke{X0: 1, Y0: 2, X1: 3, Y1: 4, Width: 1, Color: White}},
		{"negative_zoom", View{Zoom: -3}, White, nil, Stroke{X0: 1, Y0: 2, X1: 3, Y1: 4, Width: 1, Color: White}},
		{
			"camera_zoom_tint",
			View{CamX: 1, CamY: 2, Zoom: 2},
			Color{R: 255, G: 255, B: 255, A: 128},
			&Material{LineWidth: 1.5, AntiAlias: true, Tint: red},
			Stroke{X0: 0, Y0: 0, X1: 4, Y1: 4, Width: 3, Color: Color{R: 255, A: 128}, AntiAlias: true},
		},
		{
			"zero_width",
			View{Zoom: 2},
			red,
			&Material{Tint: White},
			Stroke{X0: 2, Y0: 4, X1: 6, Y1: 8, Width: 2, Color: red},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.view.Project(V3(1, 2, 0), V3(3, 4, 0), c.c, c.mat)
			if got != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestBackendFlush(t *testing.T) {
	b := NewBackend(WithLayout(LayoutPlanar))
	vb, err := b.CreateVertexBuffer(lineDesc(4))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pos, _ := vb.LockSemantic(SemanticPosition)
	col, _ := vb.LockSemantic(SemanticColor)
	for i := 0; i < 4; i++ {
		pos.SetPosition(i, V3(float32(i), 0, 0))
		col.SetColor(i, Color{G: 255, A: 255})
	}
	vb.UnlockSemantic(SemanticPosition)
	vb.UnlockSemantic(SemanticColor)

	lines, err := b.CreateMesh(MeshDesc{Primitive: PrimitiveLines, VertexBuffers: []VertexBuffer{vb}, NumVertices: 4})
	if err != nil {
		t.Fatalf("create lines: %v", err)
	}
	points, err := b.CreateMesh(MeshDesc{Primitive: PrimitivePoints, VertexBuffers: []VertexBuffer{vb}, NumVertices: 4})
	if err != nil {
		t.Fatalf("create points: %v", err)
	}
	mat := &Material{LineWidth: 2, Tint: White}
	for _, m := range []Mesh{lines, points} {
		if err := b.QueueMeshForRender(MeshContext{Mesh: m, Material: mat}); err != nil {
			t.Fatalf("queue: %v", err)
		}
	}

	var strokes []Stroke
	b.Flush(View{CamX: 1, Zoom: 1}, func(s Stroke) { strokes = append(strokes, s) })
	if len(strokes) != 2 {
		t.Fatalf("expected 2 strokes from the line mesh only, got %d", len(strokes))
	}
	if s := strokes[1]; s.X0 != 1 || s.X1 != 2 || s.Width != 2 || s.Color != (Color{G: 255, A: 255}) {
		t.Fatalf("unexpected stroke %+v", s)
	}
	if n := len(b.Queued()); n != 0 {
		t.Fatalf("expected empty queue after Flush, got %d", n)
	}

	// Without a draw func the queue is still emptied.
	if err := b.QueueMeshForRender(MeshContext{Mesh: lines, Material: mat}); err != nil {
		t.Fatalf("queue: %v", err)
	}
	b.Flush(View{}, nil)
	if n := len(b.Queued()); n != 0 {
		t.Fatalf("expected empty queue after nil Flush, got %d", n)
	}
}
