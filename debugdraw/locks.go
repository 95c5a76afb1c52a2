package debugdraw

import "github.com/milk9111/linedebug/render"

// lockSet tracks the position and color mappings of one vertex buffer.
type lockSet struct {
	buffer    render.VertexBuffer
	positions render.Region
	colors    render.Region
}

// open maps whichever semantics are not mapped yet. It reports whether both
// are held afterwards; a failed lock leaves the other one as it was.
func (l *lockSet) open() (bool, error) {
	if l.buffer == nil {
		return false, nil
	}
	var firstErr error
	if !l.positions.Valid() {
		r, err := l.buffer.LockSemantic(render.SemanticPosition)
		if err != nil {
			firstErr = err
		} else {
			l.positions = r
		}
	}
	if !l.colors.Valid() {
		r, err := l.buffer.LockSemantic(render.SemanticColor)
		if err != nil && firstErr == nil {
			firstErr = err
		} else if err == nil {
			l.colors = r
		}
	}
	return l.held(), firstErr
}

func (l *lockSet) held() bool {
	return l.positions.Valid() && l.colors.Valid()
}

// close unmaps whatever is currently mapped.
func (l *lockSet) close() {
	if l.buffer == nil {
		return
	}
	if l.positions.Valid() {
		l.buffer.UnlockSemantic(render.SemanticPosition)
		l.positions = render.Region{}
	}
	if l.colors.Valid() {
		l.buffer.UnlockSemantic(render.SemanticColor)
		l.colors = render.Region{}
	}
}

// withLocks maps both semantics of buf for the duration of fn and unmaps
// them on every return path.
func withLocks(buf render.VertexBuffer, fn func(l *lockSet) error) error {
	l := &lockSet{buffer: buf}
	defer l.close()
	ok, err := l.open()
	if !ok {
		if err == nil {
			err = render.ErrLockFailed
		}
		return err
	}
	return fn(l)
}
