package backup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/adapters/outbound/backup"
	"github.com/phdsystems/stratify/internal/domain"
)

func strategies(t *testing.T) map[string]domain.BackupStrategy {
	t.Helper()
	return map[string]domain.BackupStrategy{
		"copy":   backup.NewCopy(),
		"memory": backup.NewMemory(),
	}
}

func TestBackupRollback_RestoresContent(t *testing.T) {
	for name, strategy := range strategies(t) {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, "pom.xml")
			original := []byte("<project>original</project>")
			require.NoError(t, os.WriteFile(path, original, 0o644))

			handle, err := strategy.Backup([]string{path}, root)
			require.NoError(t, err)

			require.NoError(t, os.WriteFile(path, []byte("<project>mangled</project>"), 0o644))

			results := strategy.Rollback(handle, []string{path}, root)
			require.Len(t, results, 1)
			assert.True(t, results[0].Success)

			restored, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, restored)
		})
	}
}

func TestBackupRollback_DeletesFilesAbsentBeforeFix(t *testing.T) {
	for name, strategy := range strategies(t) {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, "new-module", "pom.xml")

			handle, err := strategy.Backup([]string{path}, root)
			require.NoError(t, err)

			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte("<project/>"), 0o644))

			results := strategy.Rollback(handle, []string{path}, root)
			require.Len(t, results, 1)
			assert.True(t, results[0].Success)

			_, err = os.Stat(path)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestCopyStrategy_CleanupRemovesSnapshot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	strategy := backup.NewCopy()
	handle, err := strategy.Backup([]string{path}, root)
	require.NoError(t, err)

	snapshotDir := filepath.Join(root, ".stratify", "backup", string(handle))
	_, err = os.Stat(snapshotDir)
	require.NoError(t, err)

	require.NoError(t, strategy.Cleanup(handle, []string{path}, root))
	_, err = os.Stat(snapshotDir)
	assert.True(t, os.IsNotExist(err))
}

func TestCopyStrategy_RollbackUnknownHandle(t *testing.T) {
	results := backup.NewCopy().Rollback(domain.BackupHandle("no-such-handle"), nil, t.TempDir())
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

func TestMemoryStrategy_RollbackUnknownHandle(t *testing.T) {
	results := backup.NewMemory().Rollback(domain.BackupHandle("no-such-handle"), nil, t.TempDir())
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Message, "unknown snapshot handle")
}

func TestNew(t *testing.T) {
	s, err := backup.New("")
	require.NoError(t, err)
	assert.Equal(t, "copy", s.Name())

	s, err = backup.New("memory")
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Name())

	_, err = backup.New("tape")
	assert.Error(t, err)
}
