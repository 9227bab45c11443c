package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phdsystems/stratify/internal/domain"
)

var skipDirs = map[string]bool{
	".git":         true,
	".stratify":    true,
	".mvn":         true,
	"target":       true,
	"node_modules": true,
	"src":          true,
}

var layerRoles = []string{domain.RoleAPI, domain.RoleCore, domain.RoleSPI, domain.RoleFacade}

// ModuleScanner implements domain.ProjectScanner by walking the filesystem
// for Maven module descriptors.
type ModuleScanner struct{}

func New() *ModuleScanner {
	return &ModuleScanner{}
}

// Scan builds the module index: every directory carrying a pom.xml becomes a
// module unless it is a layer submodule of another module, in which case it
// is folded into the parent's presence flags.
func (s *ModuleScanner) Scan(projectPath string, excludePaths ...string) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[strings.TrimSuffix(p, "/")] = true
	}

	moduleDirs := map[string]bool{}
	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absPath && (skipDirs[d.Name()] || extraSkip[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == "pom.xml" {
			moduleDirs[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &domain.ScanResult{RootPath: absPath}
	for dir := range moduleDirs {
		if isLayerSubmodule(dir, moduleDirs) {
			continue
		}
		result.Modules = append(result.Modules, buildModuleInfo(dir, moduleDirs))
	}

	sort.Slice(result.Modules, func(i, j int) bool {
		return result.Modules[i].Path < result.Modules[j].Path
	})
	return result, nil
}

// isLayerSubmodule reports whether dir is a <base>-<role> child of another
// module named <base>.
func isLayerSubmodule(dir string, moduleDirs map[string]bool) bool {
	parent := filepath.Dir(dir)
	if !moduleDirs[parent] {
		return false
	}
	base := filepath.Base(parent)
	name := filepath.Base(dir)
	for _, role := range layerRoles {
		if name == base+"-"+role {
			return true
		}
	}
	return false
}

func buildModuleInfo(dir string, moduleDirs map[string]bool) domain.ModuleInfo {
	base := filepath.Base(dir)
	m := domain.ModuleInfo{
		Path:     dir,
		BaseName: base,
	}

	m.HasAPI = moduleDirs[filepath.Join(dir, base+"-"+domain.RoleAPI)]
	m.HasCore = moduleDirs[filepath.Join(dir, base+"-"+domain.RoleCore)]
	m.HasSPI = moduleDirs[filepath.Join(dir, base+"-"+domain.RoleSPI)]
	m.HasFacade = moduleDirs[filepath.Join(dir, base+"-"+domain.RoleFacade)]

	for child := range moduleDirs {
		if filepath.Dir(child) == dir {
			m.HasSubmodules = true
			break
		}
	}
	return m
}

// SourceFiles lists the Java sources under root, excluding package-info
// marker files. Missing roots yield no files and no error.
func SourceFiles(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".java") || d.Name() == "package-info.java" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files
}
