package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var (
	copyTo       string
	copyName     string
	copyRoot     string
	copyCategory string
	copyNoDeps   bool
)

var copyCmd = &cobra.Command{
	Use:   "copy [asset...]",
	Short: "Copy an asset together with everything it references",
	Long: `Copy an asset and its transitive hard dependencies into the library.

Dependencies are routed into type folders below the root path
(Materials/, Textures/, Meshes/, Particles/<category>/, ...) and every copy is
rewritten to reference the other copies instead of the originals.
Assets copied by an earlier run are reused instead of copied again.

With --no-deps the assets are duplicated as-is into a single folder; several
assets get numbered names (<name>_0, <name>_1, ...).

Without an argument a fuzzy finder lists the catalogued assets.`,
	Example: `  fxlib copy /Game/FX/NS_Explosion
  fxlib copy /Game/FX/NS_Explosion --name NS_BigBoom --category Fire
  fxlib copy /Game/FX/T_Smoke /Game/FX/T_Spark --no-deps --to /Game/Backup`,
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().StringVarP(&copyTo, "to", "t", "", "Destination folder of the copied asset")
	copyCmd.Flags().StringVarP(&copyName, "name", "n", "", "Name of the copy (defaults to the source name)")
	copyCmd.Flags().StringVarP(&copyRoot, "root", "r", "", "Library root for dependency folders")
	copyCmd.Flags().StringVarP(&copyCategory, "category", "c", "", "Category used for particle system folders")
	copyCmd.Flags().BoolVar(&copyNoDeps, "no-deps", false, "Duplicate without copying or remapping references")
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var sources []domain.AssetHandle
	if len(args) == 0 {
		h, err := pickAsset(ctx, "")
		if err != nil {
			return handleCancelled(err)
		}
		sources = []domain.AssetHandle{h}
	} else {
		parsed, err := parseHandles(args)
		if err != nil {
			return err
		}
		sources = parsed
	}

	root := copyRoot
	if root == "" {
		root = appConfig.DefaultRootPath
	}
	category := copyCategory
	if category == "" {
		category = appConfig.DefaultCategory
	}

	if copyNoDeps {
		return runPlainCopy(sources, root, category)
	}

	if len(sources) > 1 {
		return fmt.Errorf("copying with references takes a single asset, use 'fxlib register' for several")
	}
	source := sources[0]

	dest := copyTo
	if dest == "" {
		dest = services.DestinationFolder(root, category, typeOf(ctx, source))
	}

	fmt.Println(ui.FormatRocket("Copying " + source.PackagePath() + "..."))
	fmt.Println()

	report, err := graphCopier.CopyWithReport(ctx, source, dest, copyName, root)
	if err != nil {
		fmt.Println(ui.FormatError("Copy failed"))
		return err
	}

	printCopyReport(report)
	copyToClipboard(report.Root.String())
	return nil
}

func runPlainCopy(sources []domain.AssetHandle, root, category string) error {
	ctx := getContext()

	folder := copyTo
	if folder == "" {
		folder = services.DestinationFolder(root, category, typeOf(ctx, sources[0]))
	}
	name := copyName
	if name == "" {
		name = sources[0].LeafName()
	}

	if len(sources) == 1 {
		copied, err := registrationService.CopyAssetWithNewName(ctx, sources[0], folder, name)
		if err != nil {
			fmt.Println(ui.FormatError("Copy failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Copied " + sources[0].PackagePath()))
		fmt.Println(ui.RenderKeyValue("Copy", copied.String()))
		copyToClipboard(copied.String())
		return nil
	}

	copies, err := registrationService.CopyAssets(ctx, sources, folder, name)
	if err != nil {
		fmt.Println(ui.FormatError("Copy failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Copied %d of %d assets", len(copies), len(sources))))
	fmt.Println()
	for _, c := range copies {
		fmt.Println("  " + c.String())
	}
	if len(copies) < len(sources) {
		fmt.Println()
		fmt.Println(ui.FormatWarning("Some assets could not be copied, see the log for details"))
	}
	return nil
}

// printCopyReport renders the outcome of a reference-following copy
func printCopyReport(report *services.CopyReport) {
	fmt.Println(ui.FormatSuccess("Copy complete!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Source", report.Source.String()))
	fmt.Println(ui.RenderKeyValue("Copy", ui.StyleBold.Render(report.Root.String())))
	fmt.Println(ui.RenderKeyValue("Copied", fmt.Sprintf("%d", len(report.Copied))))
	fmt.Println(ui.RenderKeyValue("Reused", fmt.Sprintf("%d", len(report.Reused))))
	fmt.Println(ui.RenderKeyValue("Rewritten", fmt.Sprintf("%d references", report.Rewritten)))
	fmt.Println(ui.RenderKeyValue("Duration", report.Duration.Round(time.Millisecond).String()))
	fmt.Println(ui.FormatMuted("Operation " + report.OperationID))

	if len(report.Copied)+len(report.Reused) > 0 {
		fmt.Println()
		table := ui.NewTable([]ui.TableColumn{
			{Header: "Dependency", Width: 40, MaxWidth: 48},
			{Header: "Copy", Width: 40, MaxWidth: 48},
			{Header: "", Width: 6},
		})
		for _, p := range report.Copied {
			table.AddRow([]string{p.Source.PackagePath(), p.Dest.PackagePath(), "new"})
		}
		for _, p := range report.Reused {
			table.AddRow([]string{p.Source.PackagePath(), p.Dest.PackagePath(), ui.FormatMuted("reused")})
		}
		fmt.Print(table.Render())
	}

	if len(report.Skipped) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d dependencies skipped:", len(report.Skipped))))
		for _, s := range report.Skipped {
			fmt.Printf("  %s %s\n", s.Handle.PackagePath(), ui.FormatMuted("("+s.Reason+")"))
		}
	}
}
