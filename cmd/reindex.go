package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var reindexStrict bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the asset catalog",
	Long: `Rebuild the asset catalog by scanning every asset document in the content directory.

This command:
  1. Lists all asset documents below the content directory
  2. Parses them in parallel (max_workers in config)
  3. Records type, copy origin and hard dependencies of each asset
  4. Replaces the catalog in a single transaction

Copies and reference rewrites made by fxlib keep the catalog current on their
own; reindex after editing content outside fxlib, or use 'fxlib watch'.`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexStrict, "strict", false, "Fail on the first unreadable document")
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	fmt.Println(ui.FormatRocket("Reindexing content..."))
	fmt.Println()

	resp, err := indexerService.Execute(ctx, services.ReindexRequest{Strict: reindexStrict})
	if err != nil {
		fmt.Println(ui.FormatError("Reindex failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Catalog rebuilt successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Total Assets", fmt.Sprintf("%d", resp.TotalAssets)))
	fmt.Println(ui.RenderKeyValue("Total References", fmt.Sprintf("%d", resp.TotalDependencies)))
	fmt.Println(ui.RenderKeyValue("Duration", resp.Duration.Round(time.Millisecond).String()))

	if len(resp.Failed) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d documents could not be read:", len(resp.Failed))))
		for _, h := range resp.Failed {
			fmt.Println("  " + h.PackagePath())
		}
	}

	fmt.Println()
	fmt.Println(ui.FormatMuted("Catalog saved to: " + appWorkspace.CatalogPath()))

	return nil
}
