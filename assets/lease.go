package assets

// Lease is a borrowed asset. The borrower never owns the asset; it hands it
// back with Release.
type Lease struct {
	manager *Manager
	asset   *Asset
}

// Borrow acquires the asset at path for the lifetime of the returned lease.
func (m *Manager) Borrow(path string, typ Type) (*Lease, error) {
	a, err := m.GetAsset(path, typ)
	if err != nil {
		return nil, err
	}
	return &Lease{manager: m, asset: a}, nil
}

// Asset returns the borrowed asset, or nil once released.
func (l *Lease) Asset() *Asset {
	if l == nil {
		return nil
	}
	return l.asset
}

func (l *Lease) Material() *Material {
	if l == nil || l.asset == nil {
		return nil
	}
	return l.asset.Material()
}

// Release returns the asset to its manager. Calling it again is a no-op.
func (l *Lease) Release() {
	if l == nil || l.asset == nil {
		return
	}
	l.manager.ReturnAsset(l.asset)
	l.asset = nil
}
