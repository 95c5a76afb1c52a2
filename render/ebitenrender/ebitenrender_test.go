package ebitenrender

import (
	"testing"

	"github.com/milk9111/linedebug/render"
)

func TestFlushNilScreenDropsQueue(t *testing.T) {
	b := render.NewBackend()
	vb, err := b.CreateVertexBuffer(render.VertexBufferDesc{
		SemanticFormats: [render.NumSemantics]render.Format{render.FormatFloat3, render.FormatColorNative},
		MaxVertices:     2,
	})
	if err != nil {
		t.Fatalf("CreateVertexBuffer: %v", err)
	}
	m, err := b.CreateMesh(render.MeshDesc{Primitive: render.PrimitiveLines, VertexBuffers: []render.VertexBuffer{vb}, NumVertices: 2})
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	if err := b.QueueMeshForRender(render.MeshContext{Mesh: m}); err != nil {
		t.Fatalf("QueueMeshForRender: %v", err)
	}

	Flush(nil, b, render.View{})
	if n := len(b.Queued()); n != 0 {
		t.Fatalf("expected empty queue, got %d", n)
	}
}
