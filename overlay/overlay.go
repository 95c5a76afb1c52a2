// Package overlay runs tengo scripts that draw debug lines each frame.
//
// A script sees three globals: draw, a module with line and cross functions;
// frame, the frame counter; and time, seconds since the runner started.
// Colors are either [r, g, b] or [r, g, b, a] arrays of 0-255 values, or a
// CSS color name such as "red".
package overlay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/linedebug/assets"
	"github.com/milk9111/linedebug/render"
	"golang.org/x/image/colornames"
)

var ErrNilSink = errors.New("overlay: nil line sink")

// Sink receives the lines a script draws.
type Sink interface {
	AddLine(p0, p1 render.Vec3, c render.Color)
	AddCross(p render.Vec3, size float32, c render.Color)
}

// Runner compiles a script asset and runs it once per frame.
type Runner struct {
	sink     Sink
	lease    *assets.Lease
	compiled *tengo.Compiled
	version  int
}

// NewRunner borrows the script at path from m and compiles it.
func NewRunner(sink Sink, m *assets.Manager, path string) (*Runner, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	lease, err := m.Borrow(path, assets.TypeScript)
	if err != nil {
		return nil, fmt.Errorf("overlay: borrow %s: %w", path, err)
	}
	r := &Runner{sink: sink, lease: lease}
	if err := r.compile(); err != nil {
		lease.Release()
		return nil, err
	}
	return r, nil
}

// Run executes the script for one frame. The script is recompiled first if
// its asset was reloaded; a failed recompile keeps running the previous one.
func (r *Runner) Run(ctx context.Context, frame int, seconds float64) error {
	a := r.lease.Asset()
	if a == nil {
		return fmt.Errorf("overlay: run after close")
	}
	var reloadErr error
	if a.Version() != r.version {
		reloadErr = r.compile()
	}
	// The compiler drops globals a script never references.
	if r.compiled.IsDefined("frame") {
		if err := r.compiled.Set("frame", frame); err != nil {
			return fmt.Errorf("overlay: set frame: %w", err)
		}
	}
	if r.compiled.IsDefined("time") {
		if err := r.compiled.Set("time", seconds); err != nil {
			return fmt.Errorf("overlay: set time: %w", err)
		}
	}
	if err := r.compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("overlay: run %s: %w", a.Path(), err)
	}
	return reloadErr
}

// Close returns the script asset.
func (r *Runner) Close() {
	r.lease.Release()
}

func (r *Runner) compile() error {
	a := r.lease.Asset()
	version := a.Version()
	script := tengo.NewScript(a.Source())
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = script.Add("draw", r.drawModule())
	_ = script.Add("frame", 0)
	_ = script.Add("time", 0.0)

	compiled, err := script.Compile()
	if err != nil {
		r.version = version
		return fmt.Errorf("overlay: compile %s: %w", a.Path(), err)
	}
	r.compiled = compiled
	r.version = version
	render.Logger().Debug("overlay compiled", "path", a.Path(), "version", version)
	return nil
}

func (r *Runner) drawModule() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["line"] = &tengo.UserFunction{Name: "line", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 7 {
			return nil, tengo.ErrWrongNumArguments
		}
		p0, err := vec3Arg("line", args[0:3])
		if err != nil {
			return nil, err
		}
		p1, err := vec3Arg("line", args[3:6])
		if err != nil {
			return nil, err
		}
		c, err := colorArg("line", args[6])
		if err != nil {
			return nil, err
		}
		r.sink.AddLine(p0, p1, c)
		return tengo.UndefinedValue, nil
	}}

	values["cross"] = &tengo.UserFunction{Name: "cross", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 5 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := vec3Arg("cross", args[0:3])
		if err != nil {
			return nil, err
		}
		size, ok := tengo.ToFloat64(args[3])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "size", Expected: "float", Found: args[3].TypeName()}
		}
		c, err := colorArg("cross", args[4])
		if err != nil {
			return nil, err
		}
		r.sink.AddCross(p, float32(size), c)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vec3Arg(fn string, args []tengo.Object) (render.Vec3, error) {
	var xyz [3]float32
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return render.Vec3{}, tengo.ErrInvalidArgumentType{
				Name:     fmt.Sprintf("%s argument %d", fn, i+1),
				Expected: "float",
				Found:    a.TypeName(),
			}
		}
		xyz[i] = float32(f)
	}
	return render.V3(xyz[0], xyz[1], xyz[2]), nil
}

func colorArg(fn string, o tengo.Object) (render.Color, error) {
	switch v := o.(type) {
	case *tengo.String:
		c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(v.Value))]
		if !ok {
			return render.Color{}, fmt.Errorf("%s: unknown color %q", fn, v.Value)
		}
		return render.ColorOf(c), nil
	case *tengo.Array:
		return channelsColor(fn, v.Value)
	case *tengo.ImmutableArray:
		return channelsColor(fn, v.Value)
	}
	return render.Color{}, tengo.ErrInvalidArgumentType{Name: fn + " color", Expected: "string or array", Found: o.TypeName()}
}

func channelsColor(fn string, values []tengo.Object) (render.Color, error) {
	if len(values) != 3 && len(values) != 4 {
		return render.Color{}, fmt.Errorf("%s: color needs 3 or 4 channels, got %d", fn, len(values))
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, o := range values {
		n, ok := tengo.ToInt64(o)
		if !ok {
			return render.Color{}, tengo.ErrInvalidArgumentType{Name: fn + " color channel", Expected: "int", Found: o.TypeName()}
		}
		ch[i] = uint8(min(max(n, 0), 255))
	}
	return render.Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
