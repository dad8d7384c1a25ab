package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show [asset]",
	Short: "Print the document of an asset",
	Long: `Print the YAML document an asset is stored as, syntax highlighted.

Copies made by fxlib carry an 'origin' field naming the asset they were
duplicated from; the list of other copies of the same origin is shown below
the document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print without highlighting or header")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	h, err := resolveAssetArg(ctx, args, "")
	if err != nil {
		return handleCancelled(err)
	}

	path, err := contentStore.FilePath(h)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println(ui.FormatError("Asset not found: " + h.PackagePath()))
		}
		return fmt.Errorf("failed to read asset document: %w", err)
	}

	if showRaw {
		fmt.Print(string(data))
		return nil
	}

	fmt.Println(ui.FormatTitle(h.PackagePath()))
	fmt.Println(ui.FormatMuted(path))
	fmt.Println()
	fmt.Print(highlight(string(data), "yaml"))

	copies, err := catalogRepo.CopiesOf(ctx, h)
	if err == nil && len(copies) > 0 {
		fmt.Println()
		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("Copies (%d)", len(copies))))
		for _, c := range copies {
			fmt.Println(ui.FormatMuted("  "+ui.IconLink+" ") + c.PackagePath())
		}
	}

	return nil
}
