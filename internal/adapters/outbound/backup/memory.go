package backup

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/phdsystems/stratify/internal/domain"
)

// MemoryStrategy keeps snapshots in process memory. Cheaper than the copy
// strategy but snapshots do not survive the process; intended for tests and
// short single-run invocations.
type MemoryStrategy struct {
	mu    sync.Mutex
	snaps map[domain.BackupHandle]map[string][]byte // nil slice = absent
}

func NewMemory() *MemoryStrategy {
	return &MemoryStrategy{snaps: make(map[domain.BackupHandle]map[string][]byte)}
}

func (s *MemoryStrategy) Name() string { return "memory" }

func (s *MemoryStrategy) Backup(files []string, projectRoot string) (domain.BackupHandle, error) {
	snap := make(map[string][]byte, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			snap[path] = nil
			continue
		}
		if err != nil {
			return "", fmt.Errorf("snapshotting %s: %w", path, err)
		}
		snap[path] = data
	}

	handle := domain.BackupHandle(uuid.NewString())
	s.mu.Lock()
	s.snaps[handle] = snap
	s.mu.Unlock()
	return handle, nil
}

func (s *MemoryStrategy) Rollback(handle domain.BackupHandle, files []string, projectRoot string) []domain.RestoreResult {
	s.mu.Lock()
	snap, ok := s.snaps[handle]
	s.mu.Unlock()
	if !ok {
		return []domain.RestoreResult{{Success: false, Message: "unknown snapshot handle"}}
	}

	results := make([]domain.RestoreResult, 0, len(snap))
	for path, data := range snap {
		res := domain.RestoreResult{TargetPath: path}
		if data == nil {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				res.Message = err.Error()
			} else {
				res.Success = true
				res.Message = "removed (absent before fix)"
			}
		} else if err := os.WriteFile(path, data, 0o644); err != nil {
			res.Message = err.Error()
		} else {
			res.Success = true
		}
		results = append(results, res)
	}
	return results
}

func (s *MemoryStrategy) Cleanup(handle domain.BackupHandle, files []string, projectRoot string) error {
	s.mu.Lock()
	delete(s.snaps, handle)
	s.mu.Unlock()
	return nil
}
