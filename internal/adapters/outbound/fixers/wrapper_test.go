package fixers_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/adapters/outbound/detector"
	"github.com/phdsystems/stratify/internal/adapters/outbound/fixers"
	"github.com/phdsystems/stratify/internal/domain"
)

func wrapperViolation(root string) domain.StructureViolation {
	return domain.StructureViolation{
		RuleID:   domain.RuleMissingMavenWrapper,
		Severity: domain.SeverityWarning,
		Message:  "build wrapper assets missing: mvnw",
		Location: root,
	}
}

func TestWrapperFixer_InstallsAllAssets(t *testing.T) {
	root := t.TempDir()

	result := fixers.NewWrapper().Fix(wrapperViolation(root), &domain.FixerContext{ProjectRoot: root})

	require.Equal(t, domain.StatusFixed, result.Status)
	assert.Len(t, result.ModifiedFiles, len(detector.WrapperChecklist))

	for _, rel := range detector.WrapperChecklist {
		info, err := os.Stat(filepath.Join(root, rel))
		require.NoError(t, err, rel)
		assert.Greater(t, info.Size(), int64(0), rel)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(root, "mvnw"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0o111, "mvnw should be executable")
	}
}

func TestWrapperFixer_InstallsOnlyMissingAssets(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "mvnw.cmd")
	require.NoError(t, os.WriteFile(existing, []byte("local edits"), 0o644))

	result := fixers.NewWrapper().Fix(wrapperViolation(root), &domain.FixerContext{ProjectRoot: root})

	require.Equal(t, domain.StatusFixed, result.Status)
	assert.Len(t, result.ModifiedFiles, len(detector.WrapperChecklist)-1)
	assert.NotContains(t, result.ModifiedFiles, existing)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(data))
}

func TestWrapperFixer_CompleteChecklistSkips(t *testing.T) {
	root := t.TempDir()
	for _, rel := range detector.WrapperChecklist {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	result := fixers.NewWrapper().Fix(wrapperViolation(root), &domain.FixerContext{ProjectRoot: root})

	assert.Equal(t, domain.StatusSkipped, result.Status)
	assert.Equal(t, "wrapper assets already exist", result.Description)
}

func TestWrapperFixer_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()

	result := fixers.NewWrapper().Fix(wrapperViolation(root), &domain.FixerContext{ProjectRoot: root, DryRun: true})

	assert.Equal(t, domain.StatusDryRun, result.Status)
	assert.Empty(t, result.ModifiedFiles)
	assert.Len(t, result.Diffs, len(detector.WrapperChecklist))

	for _, rel := range detector.WrapperChecklist {
		_, err := os.Stat(filepath.Join(root, rel))
		assert.True(t, os.IsNotExist(err), rel)
	}
}

func TestWrapperFixer_TargetFiles(t *testing.T) {
	root := t.TempDir()
	targets := fixers.NewWrapper().TargetFiles(wrapperViolation(root), &domain.FixerContext{})

	require.Len(t, targets, len(detector.WrapperChecklist))
	assert.Contains(t, targets, filepath.Join(root, "mvnw"))
}
