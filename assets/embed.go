package assets

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed materials/*.yaml scripts/*.tengo
var assetsFS embed.FS

// readAsset reads an asset by assets-relative path, preferring a copy under
// overrideDir when one exists.
func readAsset(fsys fs.FS, overrideDir, clean string) ([]byte, error) {
	if overrideDir != "" {
		if data, err := os.ReadFile(filepath.Join(overrideDir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return fs.ReadFile(fsys, clean)
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		s = s[idx+len("/assets/"):]
	}
	s = strings.TrimPrefix(s, "assets/")
	return strings.TrimPrefix(path.Clean(s), "/")
}

// relativeTo turns a path reported by the file watcher back into an
// assets-relative one.
func relativeTo(dir, p string) string {
	if dir == "" {
		return cleanAssetPath(p)
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return cleanAssetPath(p)
	}
	return cleanAssetPath(rel)
}
