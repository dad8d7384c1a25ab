package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var (
	registerCategory string
	registerName     string
	registerRoot     string
)

var registerCmd = &cobra.Command{
	Use:     "register [system...]",
	Aliases: []string{"reg"},
	Short:   "Add particle systems to the effect library",
	Long: `Copy particle systems with all their references into
<root>/Particles/<category>/ and register the copies in the category.

The category is created when it does not exist yet. Assets that are not
NiagaraSystems are skipped. Registering several systems at once names the
copies <name>_0, <name>_1, ...

Without an argument a fuzzy finder lists the catalogued particle systems.`,
	Example: `  fxlib register /Game/FX/NS_Explosion -c Fire
  fxlib register /Game/FX/NS_Rain /Game/FX/NS_Splash -c Water -n NS_Wet`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerCategory, "category", "c", "", "Library category (created if missing)")
	registerCmd.Flags().StringVarP(&registerName, "name", "n", "", "Name of the registered copy (defaults to the source name)")
	registerCmd.Flags().StringVarP(&registerRoot, "root", "r", "", "Library root path")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var sources []domain.AssetHandle
	if len(args) == 0 {
		h, err := pickAsset(ctx, domain.TypeNiagaraSystem)
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

	req := services.RegisterRequest{
		RootPath:  registerRoot,
		AssetName: registerName,
		Category:  registerCategory,
		Sources:   sources,
	}
	if req.RootPath == "" {
		req.RootPath = appConfig.DefaultRootPath
	}
	if req.Category == "" {
		req.Category = appConfig.DefaultCategory
	}
	if req.AssetName == "" {
		req.AssetName = sources[0].LeafName()
	}

	fmt.Println(ui.FormatRocket(fmt.Sprintf("Registering %d asset(s) in %s...", len(sources), req.Category)))
	fmt.Println()

	resp, err := registrationService.Execute(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Registration failed"))
		return err
	}

	if resp.CategoryCreated {
		fmt.Println(ui.FormatInfo("Created category " + ui.StyleBold.Render(resp.Category)))
	}

	for _, r := range resp.Registered {
		fmt.Println(ui.FormatSuccess(r.Copy.PackagePath()))
		fmt.Println(ui.FormatMuted(fmt.Sprintf("    from %s, %d copied, %d reused, %d skipped",
			r.Source.PackagePath(), len(r.Report.Copied), len(r.Report.Reused), len(r.Report.Skipped))))
	}
	for _, s := range resp.Skipped {
		fmt.Println(ui.FormatWarning(s.Handle.PackagePath() + " skipped"))
		fmt.Println(ui.FormatMuted("    " + s.Reason))
	}

	fmt.Println()
	if len(resp.Registered) == 0 {
		fmt.Println(ui.FormatWarning("Nothing registered"))
		return nil
	}

	fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("%s Registered %d asset(s) in %s", ui.IconEffect, len(resp.Registered), resp.Category)))
	if len(resp.Registered) == 1 {
		copyToClipboard(resp.Registered[0].Copy.String())
	}
	return nil
}
