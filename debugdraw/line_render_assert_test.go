//go:build debugassert

package debugdraw

import (
	"fmt"
	"strings"
	"testing"

	"github.com/milk9111/linedebug/render"
)

func TestFailedGrowthPanics(t *testing.T) {
	b := render.NewBackend()
	lr, _ := newTestLineRender(t, b, WithInitialCapacity(4), WithGrowthSlack(0))
	for i := 0; i < 2; i++ {
		p0, p1, c := lineEnds(i)
		lr.AddLine(p0, p1, c)
	}
	capBefore := lr.Cap()

	b.SetFaults(render.Faults{
		CreateVertexBuffer: func(render.VertexBufferDesc) bool { return true },
	})
	recovered := func() (r any) {
		defer func() { r = recover() }()
		p0, p1, c := lineEnds(2)
		lr.AddLine(p0, p1, c)
		return nil
	}()
	b.SetFaults(render.Faults{})

	if recovered == nil {
		t.Fatalf("expected a panic when the buffer cannot grow")
	}
	if msg := fmt.Sprint(recovered); !strings.Contains(msg, "create vertex buffer") {
		t.Fatalf("unexpected panic %q", msg)
	}
	if lr.Cap() != capBefore || lr.Len() != 4 {
		t.Fatalf("expected the previous buffer to survive, got %d/%d", lr.Len(), lr.Cap())
	}
	if lr.Stats().Failures != 1 {
		t.Fatalf("expected one failure, got %d", lr.Stats().Failures)
	}
	checkVertices(t, lr, 2)
}
