// Package manifest locates a workspace's project manifest and resolves
// its declared source directories and dependencies (spec §4.G's workspace
// discovery step). Grounded on the teacher's node_modules/@types walk
// (internal/resolver/types_resolver.go's ResolveTypesPackage /
// GetTypesEntryPoint), generalized from a single fixed node_modules layout
// to this ecosystem's PKG_HOME-relative package cache.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of one project manifest file.
type Manifest struct {
	// Dir is the directory containing the manifest file.
	Dir string
	// SourceDirectories are resolved to absolute paths, defaulting to
	// ["src"] relative to Dir when the manifest omits the field.
	SourceDirectories []string
	// Direct and Indirect mirror project.json's dependencies table:
	// package name -> version constraint string.
	Direct   map[string]string
	Indirect map[string]string
	// Ecosystem marks this project as governed by the protected-files
	// convention (spec §3 Non-goals / §9): true when any direct or
	// indirect dependency name carries the reserved ecosystem prefix.
	Ecosystem bool
}

// projectJSON mirrors project.json's on-disk shape.
type projectJSON struct {
	Name              string            `json:"name"`
	SourceDirectories []string          `json:"source-directories"`
	Dependencies      struct {
		Direct   map[string]string `json:"direct"`
		Indirect map[string]string `json:"indirect"`
	} `json:"dependencies"`
}

// projectYAML is an alternate manifest format some workspaces use instead
// of project.json (spec expansion: not every workspace in this ecosystem
// uses the JSON manifest — some pin dependencies via a YAML lockfile-like
// project.yaml, which this loader also understands).
type projectYAML struct {
	Name              string            `yaml:"name"`
	SourceDirectories []string          `yaml:"source-directories"`
	Dependencies      struct {
		Direct   map[string]string `yaml:"direct"`
		Indirect map[string]string `yaml:"indirect"`
	} `yaml:"dependencies"`
}

const ecosystemPrefix = "ecosystem/"

// Load finds and parses the manifest governing dir, walking up parent
// directories until project.json or project.yaml is found (mirrors the
// teacher's walk-up-to-filesystem-root strategy for node_modules/@types).
func Load(dir string) (*Manifest, error) {
	cur := dir
	for {
		if jsonPath := filepath.Join(cur, "project.json"); fileExists(jsonPath) {
			return loadJSON(cur, jsonPath)
		}
		if yamlPath := filepath.Join(cur, "project.yaml"); fileExists(yamlPath) {
			return loadYAML(cur, yamlPath)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("no project.json or project.yaml found above %s", dir)
		}
		cur = parent
	}
}

func loadJSON(dir, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var pj projectJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return build(dir, pj.Name, pj.SourceDirectories, pj.Dependencies.Direct, pj.Dependencies.Indirect), nil
}

func loadYAML(dir, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var py projectYAML
	if err := yaml.Unmarshal(data, &py); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return build(dir, py.Name, py.SourceDirectories, py.Dependencies.Direct, py.Dependencies.Indirect), nil
}

func build(dir, name string, sourceDirs []string, direct, indirect map[string]string) *Manifest {
	if len(sourceDirs) == 0 {
		sourceDirs = []string{"src"}
	}
	abs := make([]string, len(sourceDirs))
	for i, sd := range sourceDirs {
		abs[i] = filepath.Join(dir, sd)
	}
	ecosystem := false
	for _, deps := range []map[string]string{direct, indirect} {
		for pkg := range deps {
			if strings.HasPrefix(pkg, ecosystemPrefix) {
				ecosystem = true
			}
		}
	}
	return &Manifest{
		Dir:               dir,
		SourceDirectories: abs,
		Direct:            direct,
		Indirect:          indirect,
		Ecosystem:         ecosystem,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// PackageHome returns the root directory package sources are cached
// under: $PKG_HOME if set, else a platform home-directory default,
// mirroring the teacher's fixed "node_modules" convention generalized to
// an overridable cache root.
func PackageHome() string {
	if home := os.Getenv("PKG_HOME"); home != "" {
		return home
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".elm", "packages")
	}
	return filepath.Join(".", ".elm", "packages")
}

// ResolvePackageRoot finds the on-disk root of an external dependency by
// name, walking up from fromDir the same way the teacher walks up looking
// for node_modules/@types, then falling back to PackageHome.
func ResolvePackageRoot(pkgName, fromDir string) (string, error) {
	author, name, ver, err := splitPackageSpec(pkgName)
	if err != nil {
		return "", err
	}

	dir := fromDir
	for {
		candidate := filepath.Join(dir, "elm-stuff", "packages", author, name, ver)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	cacheCandidate := filepath.Join(PackageHome(), author, name, ver)
	if info, err := os.Stat(cacheCandidate); err == nil && info.IsDir() {
		return cacheCandidate, nil
	}
	return "", fmt.Errorf("package %s not found from %s or %s", pkgName, fromDir, PackageHome())
}

// splitPackageSpec splits "author/name@version" into its parts; version
// defaults to "latest" if omitted.
func splitPackageSpec(spec string) (author, name, version string, err error) {
	version = "latest"
	if idx := strings.IndexByte(spec, '@'); idx >= 0 {
		version = spec[idx+1:]
		spec = spec[:idx]
	}
	parts := strings.SplitN(spec, "/", 2)
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("invalid package spec %q: expected author/name", spec)
	}
	return parts[0], parts[1], version, nil
}
