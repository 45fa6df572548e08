package refactor

import (
	"path"
	"strings"

	"github.com/elmlsp/elmlsp/internal/manifest"
)

// protectedFileBasenames are the root-of-source-directory file names an
// ecosystem-governed project may not rename or move (spec §6). Static
// data, checked by exact name at the refactor-command boundary per spec
// §9's design note.
var protectedFileBasenames = map[string]bool{
	"Env":      true,
	"Types":    true,
	"Frontend": true,
	"Backend":  true,
}

// protectedTypeNames are type names an ecosystem-governed project may
// never rename, regardless of which module declares them (spec §6).
var protectedTypeNames = map[string]bool{
	"FrontendMsg":   true,
	"BackendMsg":    true,
	"ToBackend":     true,
	"ToFrontend":    true,
	"FrontendModel": true,
	"BackendModel":  true,
}

// IsProtectedFile reports whether uri names a root-of-source-directory
// file an ecosystem-governed project refuses to let move/rename touch.
func IsProtectedFile(m *manifest.Manifest, uri string) bool {
	if m == nil || !m.Ecosystem {
		return false
	}
	base := strings.TrimSuffix(path.Base(uri), path.Ext(uri))
	if !protectedFileBasenames[base] {
		return false
	}
	dir := path.Dir(uri)
	for _, sd := range m.SourceDirectories {
		if dir == sd || strings.TrimRight(dir, "/") == strings.TrimRight(sd, "/") {
			return true
		}
	}
	return false
}

// IsProtectedType reports whether name is a type an ecosystem-governed
// project refuses to let rename touch, regardless of its declaring file.
func IsProtectedType(m *manifest.Manifest, name string) bool {
	return m != nil && m.Ecosystem && protectedTypeNames[name]
}
