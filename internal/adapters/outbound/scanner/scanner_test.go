package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
)

func writePom(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte("<project></project>"), 0o644))
}

func TestScan_FoldsLayerSubmodules(t *testing.T) {
	root := t.TempDir()
	writePom(t, root)
	writePom(t, filepath.Join(root, "payments"))
	writePom(t, filepath.Join(root, "payments", "payments-api"))
	writePom(t, filepath.Join(root, "payments", "payments-core"))

	result, err := scanner.New().Scan(root)
	require.NoError(t, err)

	require.Len(t, result.Modules, 2)
	assert.Equal(t, root, result.Modules[0].Path)

	payments := result.Modules[1]
	assert.Equal(t, "payments", payments.BaseName)
	assert.True(t, payments.HasAPI)
	assert.True(t, payments.HasCore)
	assert.False(t, payments.HasSPI)
	assert.False(t, payments.HasFacade)
	assert.True(t, payments.HasSubmodules)
}

func TestScan_NonLayerChildIsModule(t *testing.T) {
	root := t.TempDir()
	writePom(t, filepath.Join(root, "orders"))
	writePom(t, filepath.Join(root, "orders", "billing"))

	result, err := scanner.New().Scan(root)
	require.NoError(t, err)

	require.Len(t, result.Modules, 2)
	assert.Equal(t, "orders", result.Modules[0].BaseName)
	assert.True(t, result.Modules[0].HasSubmodules)
	assert.Equal(t, "billing", result.Modules[1].BaseName)
	assert.False(t, result.Modules[1].HasSubmodules)
}

func TestScan_SkipsBuildAndVCSDirs(t *testing.T) {
	root := t.TempDir()
	writePom(t, root)
	writePom(t, filepath.Join(root, "target", "generated"))
	writePom(t, filepath.Join(root, ".git", "modules"))

	result, err := scanner.New().Scan(root)
	require.NoError(t, err)

	require.Len(t, result.Modules, 1)
	assert.Equal(t, root, result.Modules[0].Path)
}

func TestScan_ExcludePaths(t *testing.T) {
	root := t.TempDir()
	writePom(t, root)
	writePom(t, filepath.Join(root, "legacy"))

	result, err := scanner.New().Scan(root, "legacy")
	require.NoError(t, err)

	require.Len(t, result.Modules, 1)
	assert.False(t, result.Modules[0].HasSubmodules)
}

func TestScan_EmptyTree(t *testing.T) {
	result, err := scanner.New().Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Modules)
}

func TestSourceFiles(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "src", "main", "java", "com", "acme")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "Foo.java"), []byte("class Foo {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "package-info.java"), []byte("package com.acme;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "notes.txt"), []byte("x"), 0o644))

	files := scanner.SourceFiles(root)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(pkg, "Foo.java"), files[0])
}

func TestSourceFiles_MissingRoot(t *testing.T) {
	assert.Empty(t, scanner.SourceFiles(filepath.Join(t.TempDir(), "absent")))
}
