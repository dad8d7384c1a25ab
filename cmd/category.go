package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var categoryIcon string

var categoryCmd = &cobra.Command{
	Use:     "category [command]",
	Aliases: []string{"cat"},
	Short:   "Manage library categories",
	Long:    `Create, rename and remove the categories effects are registered under.`,
	RunE:    runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a category",
	Example: `  fxlib category add Magic
  fxlib category add Ice --icon /Game/UI/Icons/T_Ice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := libraryService.AddCategory(getContext(), args[0], categoryIcon)
		if err != nil {
			return err
		}
		if !created {
			fmt.Println(ui.FormatWarning("Category already exists: " + args[0]))
			return nil
		}
		fmt.Println(ui.FormatSuccess("Added category " + ui.StyleBold.Render(args[0])))
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "remove [name]",
	Aliases: []string{"rm"},
	Short:   "Remove a category",
	Long: `Remove a category from the library.

The assets registered in it are not deleted from the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := libraryService.RemoveCategory(getContext(), args[0]); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Removed category " + args[0]))
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := libraryService.RenameCategory(getContext(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Renamed %s to %s", args[0], args[1])))
		return nil
	},
}

var categoryIconCmd = &cobra.Command{
	Use:     "icon [name] [texture]",
	Short:   "Set the icon of a category",
	Example: `  fxlib category icon Fire /Game/UI/Icons/T_Flame`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := libraryService.SetIcon(getContext(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Icon of " + args[0] + " set to " + domain.ParseHandle(args[1]).String()))
		return nil
	},
}

var categoryUnregisterCmd = &cobra.Command{
	Use:   "unregister [name] [asset]",
	Short: "Remove an asset from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		h := domain.ParseHandle(args[1])
		removed, err := libraryService.UnregisterAsset(getContext(), args[0], h)
		if err != nil {
			return err
		}
		if removed == 0 {
			fmt.Println(ui.FormatWarning(h.PackagePath() + " is not registered in " + args[0]))
			return nil
		}
		fmt.Println(ui.FormatSuccess("Unregistered " + h.PackagePath()))
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories",
	RunE:    runCategoryList,
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryIcon, "icon", "", "Icon texture (defaults to /Game/UI/Icons/<name>)")

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryIconCmd)
	categoryCmd.AddCommand(categoryUnregisterCmd)
	categoryCmd.AddCommand(categoryListCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	lib, err := libraryService.Load(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load library"))
		return err
	}

	if len(lib.Categories) == 0 {
		fmt.Println(ui.FormatInfo("No categories. Add one with 'fxlib category add <name>'"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Category", Width: 16},
		{Header: "Assets", Width: 6, Align: "right"},
		{Header: "Icon", Width: 40, MaxWidth: 56},
	})
	for _, c := range lib.Categories {
		table.AddRow([]string{c.Name, fmt.Sprintf("%d", len(c.Assets)), c.Icon.PackagePath()})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d categories, %d assets", len(lib.Categories), lib.TotalAssets())))
	return nil
}
