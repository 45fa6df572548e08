package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/elmlsp/elmlsp/internal/manifest"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// extractTxtar materializes a txtar archive's files (each a whole
// project.json + source tree, expressed as one literal string) under
// dir, the same format several Go tooling repos in the example pack use
// for multi-file test corpora.
func extractTxtar(t *testing.T, dir, archive string) {
	t.Helper()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		writeFile(t, filepath.Join(dir, f.Name), string(f.Data))
	}
}

func TestLoad_DefaultsSourceDirectoryToSrc(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "project.json"), `{
		"name": "acme/widgets",
		"dependencies": {"direct": {"elm/core": "1.0.0"}, "indirect": {}}
	}`)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src")}, m.SourceDirectories)
	assert.False(t, m.Ecosystem)
	assert.Equal(t, "1.0.0", m.Direct["elm/core"])
}

func TestLoad_EcosystemPrefixDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "project.json"), `{
		"name": "acme/app",
		"dependencies": {"direct": {"ecosystem/core": "1.0.0"}}
	}`)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.True(t, m.Ecosystem)
}

func TestLoad_WalksUpToFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "project.json"), `{"name": "acme/app"}`)
	nested := filepath.Join(root, "src", "Pages", "Deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, err := manifest.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, root, m.Dir)
}

func TestLoad_YamlAlternateFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "project.yaml"), "name: acme/app\nsource-directories:\n  - lib\n")

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "lib")}, m.SourceDirectories)
}

func TestLoad_NotFoundReturnsError(t *testing.T) {
	dir := t.TempDir()
	_, err := manifest.Load(dir)
	assert.Error(t, err)
}

func TestPackageHome_RespectsEnvOverride(t *testing.T) {
	t.Setenv("PKG_HOME", "/custom/pkg/home")
	assert.Equal(t, "/custom/pkg/home", manifest.PackageHome())
}

func TestResolvePackageRoot_FindsElmStuffCache(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "elm-stuff", "packages", "elm", "core", "1.0.0")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	nested := filepath.Join(root, "src", "Deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := manifest.ResolvePackageRoot("elm/core@1.0.0", nested)
	require.NoError(t, err)
	assert.Equal(t, pkgDir, got)
}

func TestResolvePackageRoot_InvalidSpec(t *testing.T) {
	_, err := manifest.ResolvePackageRoot("not-a-valid-spec", t.TempDir())
	assert.Error(t, err)
}

func TestLoad_MultiSourceDirectoryProjectTree(t *testing.T) {
	dir := t.TempDir()
	extractTxtar(t, dir, `
-- project.json --
{
  "name": "acme/app",
  "source-directories": ["src", "tests"],
  "dependencies": {"direct": {"elm/core": "1.0.0"}, "indirect": {}}
}
-- src/App.elm --
module App exposing (main)
main = 1
-- tests/AppTest.elm --
module AppTest exposing (suite)
suite = 1
`)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src"), filepath.Join(dir, "tests")}, m.SourceDirectories)
	assert.Equal(t, "1.0.0", m.Direct["elm/core"])
}
