package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Dir is where on-disk overrides are looked up, relative to the working directory.
var Dir = "prefabs"

// Load returns the named prefab, preferring a copy on disk under Dir so edits
// are picked up without a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// LoadScript returns an input script from disk or the embedded scripts.
func LoadScript(name string) ([]byte, error) {
	clean := cleanPath(name)
	clean = strings.TrimPrefix(clean, "scripts/")
	clean = fmt.Sprintf("scripts/%s", clean)
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}
