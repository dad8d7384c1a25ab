package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var (
	doctorFix        bool
	doctorPruneEmpty bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your fxlib workspace",
	Long: `Diagnose issues with your fxlib setup.

Checks for:
  - Workspace and content directories
  - Configuration file
  - Asset catalog freshness
  - Library entries pointing at assets that no longer exist

Use --fix to drop dead library entries, and --prune-empty to also remove
categories left without assets.`,
	Run: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove library entries whose asset no longer exists")
	doctorCmd.Flags().BoolVar(&doctorPruneEmpty, "prune-empty", false, "With --fix, also remove empty categories")
}

func runDoctor(cmd *cobra.Command, args []string) {
	ctx := getContext()

	fmt.Println(ui.FormatTitle("fxlib Doctor"))
	fmt.Println()

	// 1. Workspace structure
	checkStep("Workspace Directory", func() error {
		if !appWorkspace.Exists() {
			return fmt.Errorf("not found at %s", appWorkspace.RootPath)
		}
		return nil
	})

	checkStep("Content Directory", func() error {
		if _, err := os.Stat(appWorkspace.ContentPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appWorkspace.ContentPath)
		}
		return nil
	})

	// 2. Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appWorkspace.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appWorkspace.ConfigPath)
		}
		return nil
	})

	// 3. Catalog
	stats, statsErr := catalogRepo.Stats(ctx)
	checkStep("Asset Catalog", func() error {
		if statsErr != nil {
			return statsErr
		}
		if stats.LastIndexed.IsZero() {
			return fmt.Errorf("never indexed, run 'fxlib reindex'")
		}
		return nil
	})
	if statsErr == nil && !stats.LastIndexed.IsZero() {
		fmt.Printf("    %s\n", ui.StyleMuted.Render(fmt.Sprintf("%d assets, %d references, indexed %s ago",
			stats.Assets, stats.Dependencies, time.Since(stats.LastIndexed).Round(time.Second))))
	}

	checkStep("Catalog Coverage", func() error {
		if statsErr != nil {
			return statsErr
		}
		onDisk, err := contentStore.ListAll(ctx)
		if err != nil {
			return err
		}
		if len(onDisk) != stats.Assets {
			return fmt.Errorf("%d documents on disk, %d catalogued; run 'fxlib reindex'", len(onDisk), stats.Assets)
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking library integrity..."))

	// 4. Library
	checkStep("Library Entries", func() error {
		lib, err := libraryService.Load(ctx)
		if err != nil {
			return err
		}

		missing := 0
		for _, c := range lib.Categories {
			for _, a := range c.Assets {
				if _, err := catalogRepo.ResolveType(ctx, a); err != nil {
					if missing == 0 {
						fmt.Println()
					}
					fmt.Printf("    %s -> %s (Missing)\n", c.Name, a.PackagePath())
					missing++
				}
			}
		}
		if missing > 0 {
			return fmt.Errorf("found %d registered assets that no longer exist", missing)
		}
		return nil
	})

	if !doctorFix {
		return
	}

	fmt.Println()
	resp, err := libraryService.Cleanup(ctx, services.CleanupRequest{RemoveEmptyCategories: doctorPruneEmpty})
	if err != nil {
		fmt.Println(ui.FormatError("Cleanup failed: " + err.Error()))
		return
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Removed %d dead entries and %d empty categories",
		resp.InvalidAssets, resp.EmptyCategories)))
}

func checkStep(name string, check func() error) {
	err := check()
	fmt.Println(ui.FormatCheck(err == nil, name))
	if err != nil {
		fmt.Println("    " + ui.FormatMuted(err.Error()))
	}
}
