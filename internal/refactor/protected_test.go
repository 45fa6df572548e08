package refactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elmlsp/elmlsp/internal/manifest"
	"github.com/elmlsp/elmlsp/internal/refactor"
)

func ecosystemManifest() *manifest.Manifest {
	return &manifest.Manifest{
		SourceDirectories: []string{"/proj/src"},
		Ecosystem:         true,
	}
}

func TestIsProtectedFile_RootOfSourceDirBlocked(t *testing.T) {
	m := ecosystemManifest()
	assert.True(t, refactor.IsProtectedFile(m, "/proj/src/Types.elm"))
	assert.True(t, refactor.IsProtectedFile(m, "/proj/src/Frontend.elm"))
}

func TestIsProtectedFile_NestedFileNotBlocked(t *testing.T) {
	m := ecosystemManifest()
	assert.False(t, refactor.IsProtectedFile(m, "/proj/src/Pages/Types.elm"))
}

func TestIsProtectedFile_NonEcosystemProjectNeverBlocks(t *testing.T) {
	m := &manifest.Manifest{SourceDirectories: []string{"/proj/src"}, Ecosystem: false}
	assert.False(t, refactor.IsProtectedFile(m, "/proj/src/Types.elm"))
}

func TestIsProtectedFile_NilManifest(t *testing.T) {
	assert.False(t, refactor.IsProtectedFile(nil, "/proj/src/Types.elm"))
}

func TestIsProtectedType(t *testing.T) {
	m := ecosystemManifest()
	assert.True(t, refactor.IsProtectedType(m, "FrontendMsg"))
	assert.True(t, refactor.IsProtectedType(m, "ToBackend"))
	assert.False(t, refactor.IsProtectedType(m, "SomeOtherType"))
}

func TestIsProtectedType_NonEcosystemProject(t *testing.T) {
	m := &manifest.Manifest{Ecosystem: false}
	assert.False(t, refactor.IsProtectedType(m, "FrontendMsg"))
}
