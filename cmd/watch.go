package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var watchQuiet bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the catalog in sync with the content directory",
	Long: `Watch the content directory and rebuild the catalog when asset documents change.

This command monitors the content tree for:
  - New asset documents
  - Modified asset documents
  - Deleted or renamed asset documents

Bursts of changes are collapsed into one reindex (watch_debounce_ms in config).

Use --quiet to suppress reindex notifications.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress reindex notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify is not recursive, every folder is watched on its own
	if err := watchTree(watcher, appWorkspace.ContentPath); err != nil {
		return fmt.Errorf("failed to watch content directory: %w", err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Watching content..."))
		fmt.Println(ui.FormatMuted("Watching: " + appWorkspace.ContentPath))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						slog.Warn("Failed to watch new folder", "path", event.Name, "error", err)
					}
					pending = time.After(debounce)
					continue
				}
			}

			if !isAssetDocument(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {
				pending = time.After(debounce)
			}

		case <-pending:
			pending = nil
			watchReindex(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)

		case <-ctx.Done():
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watch stopped"))
			}
			return nil
		}
	}
}

// watchTree adds root and every folder below it to the watcher
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isAssetDocument filters out editor swap files and temporary writes
func isAssetDocument(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return strings.HasSuffix(base, ".yaml")
}

func watchReindex(ctx context.Context) {
	if !watchQuiet {
		fmt.Println(ui.FormatInfo("Content changed, reindexing..."))
	}

	resp, err := indexerService.Execute(ctx, services.ReindexRequest{})
	if err != nil {
		if !watchQuiet {
			fmt.Println(ui.FormatError("Reindex failed: " + err.Error()))
		}
		slog.Error("Reindex failed", "error", err)
		return
	}

	if !watchQuiet {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Catalog updated (%d assets, %d references)",
			resp.TotalAssets, resp.TotalDependencies)))
	}
}
