package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/phdsystems/stratify/internal/adapters/outbound/tui"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run detection whenever the project tree changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runWatch(cmd, absPath, verbose, nil)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	return cmd
}

// runWatch blocks until stop closes (or forever when stop is nil),
// rerunning the check with a debounce after every filesystem event.
func runWatch(cmd *cobra.Command, root string, verbose bool, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	trigger := func() {
		report, err := runCheck(root, verbose)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "check failed: %v\n", err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderCheckReport(report))
	}
	trigger()

	var timer *time.Timer
	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skippedPath(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				_ = addWatchRecursive(watcher, ev.Name)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", werr)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skippedPath(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func skippedPath(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range []string{".git", ".stratify", "target", "node_modules"} {
		if filepath.Base(path) == dir || strings.Contains(path, sep+dir+sep) {
			return true
		}
	}
	return false
}
