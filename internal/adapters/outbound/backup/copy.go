// Package backup provides the pluggable snapshot strategies that give every
// fixer invocation its atomicity bracket.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/phdsystems/stratify/internal/domain"
)

const snapshotDir = ".stratify/backup"

type manifestEntry struct {
	Path   string `json:"path"`
	Absent bool   `json:"absent,omitempty"`
	File   string `json:"file,omitempty"`
	Mode   uint32 `json:"mode,omitempty"`
}

// CopyStrategy snapshots file content into a sidecar directory under the
// project root. It is the default strategy.
type CopyStrategy struct{}

func NewCopy() *CopyStrategy { return &CopyStrategy{} }

func (s *CopyStrategy) Name() string { return "copy" }

// Backup captures the current content of each file. Files that do not yet
// exist are recorded as absent so rollback can delete them.
func (s *CopyStrategy) Backup(files []string, projectRoot string) (domain.BackupHandle, error) {
	handle := domain.BackupHandle(uuid.NewString())
	dir := filepath.Join(projectRoot, snapshotDir, string(handle))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}

	entries := make([]manifestEntry, 0, len(files))
	for i, path := range files {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			entries = append(entries, manifestEntry{Path: path, Absent: true})
			continue
		}
		if err != nil {
			return "", fmt.Errorf("inspecting %s: %w", path, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("snapshotting %s: %w", path, err)
		}
		name := fmt.Sprintf("%03d.bak", i)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", fmt.Errorf("writing snapshot of %s: %w", path, err)
		}
		entries = append(entries, manifestEntry{Path: path, File: name, Mode: uint32(info.Mode().Perm())})
	}

	manifest, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), manifest, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot manifest: %w", err)
	}
	return handle, nil
}

// Rollback restores every snapshotted file to its backed-up content,
// deleting files that were absent before the fix.
func (s *CopyStrategy) Rollback(handle domain.BackupHandle, files []string, projectRoot string) []domain.RestoreResult {
	dir := filepath.Join(projectRoot, snapshotDir, string(handle))

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return []domain.RestoreResult{{Success: false, Message: "snapshot manifest unreadable: " + err.Error()}}
	}
	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []domain.RestoreResult{{Success: false, Message: "snapshot manifest corrupt: " + err.Error()}}
	}

	results := make([]domain.RestoreResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, restoreEntry(dir, e))
	}
	return results
}

func restoreEntry(dir string, e manifestEntry) domain.RestoreResult {
	res := domain.RestoreResult{TargetPath: e.Path}

	if e.Absent {
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			res.Message = err.Error()
			return res
		}
		res.Success = true
		res.Message = "removed (absent before fix)"
		return res
	}

	res.BackupPath = filepath.Join(dir, e.File)
	data, err := os.ReadFile(res.BackupPath)
	if err != nil {
		res.Message = err.Error()
		return res
	}
	mode := os.FileMode(e.Mode)
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(e.Path, data, mode); err != nil {
		res.Message = err.Error()
		return res
	}
	res.Success = true
	return res
}

// Cleanup discards a successful snapshot.
func (s *CopyStrategy) Cleanup(handle domain.BackupHandle, files []string, projectRoot string) error {
	return os.RemoveAll(filepath.Join(projectRoot, snapshotDir, string(handle)))
}
