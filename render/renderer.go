package render

import "errors"

var (
	ErrAlreadyLocked = errors.New("render: semantic already locked")
	ErrLocked        = errors.New("render: vertex buffer is locked")
	ErrLockFailed    = errors.New("render: lock failed")
	ErrReleased      = errors.New("render: resource released")
	ErrNoSemantic    = errors.New("render: semantic not present in buffer")
	ErrRange         = errors.New("render: vertex range out of bounds")
	ErrForeign       = errors.New("render: resource belongs to another renderer")
	ErrCreateFailed  = errors.New("render: resource creation failed")
)

// Renderer creates GPU-facing resources and accepts meshes for the current frame.
type Renderer interface {
	CreateVertexBuffer(desc VertexBufferDesc) (VertexBuffer, error)
	CreateMesh(desc MeshDesc) (Mesh, error)
	QueueMeshForRender(ctx MeshContext) error
}

// VertexBuffer is vertex storage that can be mapped per semantic.
type VertexBuffer interface {
	// LockSemantic maps one semantic for CPU writes. Every successful lock
	// must be paired with UnlockSemantic before the buffer is drawn or released.
	LockSemantic(s Semantic) (Region, error)
	UnlockSemantic(s Semantic)
	MaxVertices() int
	Release() error
}

// Mesh draws a vertex range of its buffers as primitives.
type Mesh interface {
	SetVertexBufferRange(first, count int) error
	Range() (first, count int)
	Primitive() Primitive
	VertexBuffers() []VertexBuffer
	Release() error
}
