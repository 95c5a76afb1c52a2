package assets

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/milk9111/linedebug/render"
)

var (
	ErrUnknownType      = errors.New("assets: unknown asset type")
	ErrTypeMismatch     = errors.New("assets: asset already loaded with another type")
	ErrNoPasses         = errors.New("assets: material has no passes")
	ErrPassCountChanged = errors.New("assets: pass count changed on reload")
	ErrNotLoaded        = errors.New("assets: asset not loaded")
)

// Type identifies how an asset file is decoded.
type Type int

const (
	TypeMaterial Type = iota + 1
	TypeScript
)

func (t Type) String() string {
	switch t {
	case TypeMaterial:
		return "material"
	case TypeScript:
		return "script"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Asset is a loaded, reference counted asset owned by a Manager.
type Asset struct {
	path     string
	typ      Type
	refs     int
	version  int
	material *Material
	source   []byte
}

func (a *Asset) Path() string { return a.path }

func (a *Asset) Type() Type { return a.typ }

// Version increases every time the asset is reloaded.
func (a *Asset) Version() int { return a.version }

// Material returns the decoded material, or nil for other asset types.
func (a *Asset) Material() *Material { return a.material }

// Source returns the raw bytes of a script asset.
func (a *Asset) Source() []byte { return a.source }

// Manager loads assets from the embedded tree, or from an override directory
// on disk, and shares them between borrowers. It is not safe for concurrent
// use; feed watcher events to Reload from the frame loop.
type Manager struct {
	fsys        fs.FS
	overrideDir string
	loaded      map[string]*Asset
}

type ManagerOption func(*Manager)

// WithFS replaces the embedded asset tree.
func WithFS(fsys fs.FS) ManagerOption {
	return func(m *Manager) { m.fsys = fsys }
}

// WithOverrideDir makes files under dir take precedence over embedded ones.
func WithOverrideDir(dir string) ManagerOption {
	return func(m *Manager) { m.overrideDir = dir }
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		fsys:   assetsFS,
		loaded: make(map[string]*Asset),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OverrideDir returns the directory consulted before the embedded tree.
func (m *Manager) OverrideDir() string {
	return m.overrideDir
}

// GetAsset returns the asset at path, loading it on first use. Every
// successful call must be balanced by ReturnAsset.
func (m *Manager) GetAsset(p string, typ Type) (*Asset, error) {
	clean := cleanAssetPath(p)
	if a, ok := m.loaded[clean]; ok {
		if a.typ != typ {
			return nil, fmt.Errorf("assets: get %s as %s: %w", clean, typ, ErrTypeMismatch)
		}
		a.refs++
		return a, nil
	}

	a := &Asset{path: clean, typ: typ}
	if err := m.load(a); err != nil {
		return nil, err
	}
	a.refs = 1
	m.loaded[clean] = a
	render.Logger().Debug("asset loaded", "path", clean, "type", typ.String())
	return a, nil
}

// ReturnAsset drops one reference; the asset is evicted when none remain.
func (m *Manager) ReturnAsset(a *Asset) {
	if a == nil {
		return
	}
	cur, ok := m.loaded[a.path]
	if !ok || cur != a {
		return
	}
	a.refs--
	if a.refs <= 0 {
		delete(m.loaded, a.path)
		render.Logger().Debug("asset evicted", "path", a.path)
	}
}

// Refs reports how many references to path are outstanding.
func (m *Manager) Refs(p string) int {
	if a, ok := m.loaded[cleanAssetPath(p)]; ok {
		return a.refs
	}
	return 0
}

// Reload re-reads a loaded asset. Materials are updated in place so that
// pass pointers held by mesh contexts see the new values.
func (m *Manager) Reload(p string) error {
	clean := relativeTo(m.overrideDir, p)
	a, ok := m.loaded[clean]
	if !ok {
		return fmt.Errorf("assets: reload %s: %w", clean, ErrNotLoaded)
	}

	next := &Asset{path: a.path, typ: a.typ}
	if err := m.load(next); err != nil {
		return err
	}
	switch a.typ {
	case TypeMaterial:
		if err := a.material.update(next.material); err != nil {
			return err
		}
	case TypeScript:
		a.source = next.source
	}
	a.version++
	render.Logger().Info("asset reloaded", "path", clean, "version", a.version)
	return nil
}

func (m *Manager) load(a *Asset) error {
	switch a.typ {
	case TypeMaterial, TypeScript:
	default:
		return fmt.Errorf("assets: load %s: %w", a.path, ErrUnknownType)
	}

	data, err := readAsset(m.fsys, m.overrideDir, a.path)
	if err != nil {
		return fmt.Errorf("assets: load %s: %w", a.path, err)
	}

	switch a.typ {
	case TypeMaterial:
		mat, err := parseMaterial(a.path, data)
		if err != nil {
			return err
		}
		a.material = mat
	case TypeScript:
		a.source = data
	}
	return nil
}
