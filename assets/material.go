package assets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/linedebug/render"
	"gopkg.in/yaml.v3"
)

// Material is a material asset: one render.Material per pass.
type Material struct {
	Name   string
	passes []*render.Material
}

func (m *Material) NumPasses() int {
	if m == nil {
		return 0
	}
	return len(m.passes)
}

// Pass returns pass i, or nil when out of range. The pointer stays valid
// across reloads; reloads update it in place.
func (m *Material) Pass(i int) *render.Material {
	if m == nil || i < 0 || i >= len(m.passes) {
		return nil
	}
	return m.passes[i]
}

type materialSpec struct {
	Name   string     `yaml:"name"`
	Passes []passSpec `yaml:"passes"`
}

type passSpec struct {
	VertexShader string   `yaml:"vertex_shader"`
	LineWidth    float32  `yaml:"line_width"`
	AntiAlias    bool     `yaml:"anti_alias"`
	Tint         hexColor `yaml:"tint"`
}

func parseMaterial(name string, data []byte) (*Material, error) {
	var spec materialSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("assets: unmarshal %s: %w", name, err)
	}
	if len(spec.Passes) == 0 {
		return nil, fmt.Errorf("assets: material %s: %w", name, ErrNoPasses)
	}
	m := &Material{Name: spec.Name}
	if m.Name == "" {
		m.Name = name
	}
	for _, p := range spec.Passes {
		tint := render.White
		if p.Tint.Set {
			tint = p.Tint.Color
		}
		width := p.LineWidth
		if width <= 0 {
			width = 1
		}
		m.passes = append(m.passes, &render.Material{
			Name:         m.Name,
			VertexShader: p.VertexShader,
			LineWidth:    width,
			AntiAlias:    p.AntiAlias,
			Tint:         tint,
		})
	}
	return m, nil
}

// update copies the passes of next into m without replacing the pass pointers.
func (m *Material) update(next *Material) error {
	if len(next.passes) != len(m.passes) {
		return fmt.Errorf("assets: material %s has %d passes, reload has %d: %w", m.Name, len(m.passes), len(next.passes), ErrPassCountChanged)
	}
	m.Name = next.Name
	for i, p := range next.passes {
		*m.passes[i] = *p
	}
	return nil
}

// hexColor decodes "#rrggbb" or "#rrggbbaa". Set is false when the key is
// absent.
type hexColor struct {
	render.Color
	Set bool
}

func (c *hexColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("assets: tint at line %d: %w", value.Line, err)
	}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return fmt.Errorf("assets: tint %q at line %d: want #rrggbb or #rrggbbaa", s, value.Line)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fmt.Errorf("assets: tint %q at line %d: %w", s, value.Line, err)
	}
	c.Color = render.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	c.Set = true
	return nil
}
