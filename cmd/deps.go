package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var depsCmd = &cobra.Command{
	Use:   "deps [asset]",
	Short: "List the direct hard dependencies of an asset",
	Long: `List the in-project assets an asset directly depends on, with their types.

Engine and plugin content is left out, as are soft references.
This is exactly the set 'fxlib copy' would follow from this asset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	h, err := resolveAssetArg(ctx, args, "")
	if err != nil {
		return handleCancelled(err)
	}

	refs := graphCopier.Collector().CollectHardReferences(ctx, h)

	fmt.Println(ui.FormatTitle(h.PackagePath()))
	fmt.Println(ui.FormatMuted(string(typeOf(ctx, h))))
	fmt.Println()

	if len(refs) == 0 {
		fmt.Println(ui.FormatInfo("No in-project hard dependencies"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Asset", Width: 50, MaxWidth: 60},
		{Header: "Type", Width: 24},
	})
	for _, r := range refs {
		table.AddRow([]string{r.Handle.PackagePath(), ui.RenderType(r.Type.String())})
	}
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d dependencies", len(refs))))

	return nil
}
