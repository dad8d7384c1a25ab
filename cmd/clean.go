package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var cleanCatalog bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove logs and cached data",
	Long: `Remove rotated log files from the workspace.

With --catalog the asset catalog database is deleted as well; it is rebuilt
on the next command (auto_reindex) or by 'fxlib reindex'.

Examples:
  fxlib clean            # Remove log files
  fxlib clean --catalog  # Also drop the catalog (fixes a corrupt catalog.db)`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanCatalog, "catalog", false, "Also delete the asset catalog")
}

func runClean(cmd *cobra.Command, args []string) error {
	// The log file is open while the command runs
	if logCloser != nil {
		logCloser.Close()
	}

	fmt.Print(ui.StyleWarning.Render("Cleaning logs... "))
	if err := appWorkspace.CleanLogs(); err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Done"))

	if !cleanCatalog {
		return nil
	}

	fmt.Print(ui.StyleWarning.Render("Removing catalog... "))
	if err := catalogRepo.Close(); err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}
	catalogRepo = nil
	if err := os.Remove(appWorkspace.CatalogPath()); err != nil && !os.IsNotExist(err) {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Done"))
	fmt.Println(ui.FormatMuted("Run 'fxlib reindex' to rebuild it."))

	return nil
}
