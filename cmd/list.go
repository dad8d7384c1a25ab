package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var (
	listCategory string
	listCatalog  bool
	listType     string
	listCopies   bool
	listSort     string
	listReverse  bool
	listSearch   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered effects or catalogued assets",
	Long: `List the effects registered in the library, grouped by category.

With --catalog the asset catalog is listed instead; --type narrows it to one
asset type and --copies to assets that are copies of another asset. --search
fuzzy-matches asset names, paths and types.`,
	Example: `  fxlib list
  fxlib list -c Fire
  fxlib list --catalog --type Material --sort deps
  fxlib list --search fire`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list one category")
	listCmd.Flags().BoolVarP(&listCatalog, "catalog", "a", false, "List catalogued assets instead of the library")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Filter catalogued assets by type")
	listCmd.Flags().BoolVar(&listCopies, "copies", false, "Only list catalogued copies")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "path", "Sort catalogued assets by path, name, type or deps")
	listCmd.Flags().BoolVarP(&listReverse, "reverse", "r", false, "Reverse the sort order")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Fuzzy search catalogued assets")
}

func runList(cmd *cobra.Command, args []string) error {
	if listCatalog || listType != "" || listCopies || listSearch != "" {
		return runListCatalog()
	}

	lib, err := libraryService.Load(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load library"))
		return err
	}

	categories := lib.Categories
	if listCategory != "" {
		c := lib.FindCategory(listCategory)
		if c == nil {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, listCategory)
		}
		categories = []domain.Category{*c}
	}

	if lib.TotalAssets() == 0 {
		fmt.Println(ui.FormatInfo("The library is empty"))
		fmt.Println(ui.FormatMuted("Register an effect with: fxlib register <system> -c <category>"))
		return nil
	}

	for _, c := range categories {
		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("%s %s (%d)", ui.IconFolder, c.Name, len(c.Assets))))
		if len(c.Assets) == 0 {
			fmt.Println(ui.FormatMuted("  (empty)"))
		}
		paths := make([]string, 0, len(c.Assets))
		for _, a := range c.Assets {
			paths = append(paths, a.PackagePath())
		}
		fmt.Print(ui.RenderSimpleList(paths))
	}

	return nil
}

func runListCatalog() error {
	ctx := getContext()

	var entries []domain.CatalogEntry
	if listSearch != "" {
		resp, err := listService.Search(ctx, services.SearchRequest{Query: listSearch, Type: domain.TypeTag(listType)})
		if err != nil {
			fmt.Println(ui.FormatError("Failed to read catalog"))
			return err
		}
		entries = resp.Entries
	} else {
		resp, err := listService.Execute(ctx, services.ListRequest{
			Type:       domain.TypeTag(listType),
			CopiesOnly: listCopies,
			SortBy:     listSort,
			Reverse:    listReverse,
		})
		if err != nil {
			fmt.Println(ui.FormatError("Failed to read catalog"))
			return err
		}
		entries = resp.Entries
	}

	if len(entries) == 0 {
		fmt.Println(ui.FormatInfo("No assets found"))
		fmt.Println(ui.FormatMuted("Run 'fxlib reindex' if the content changed outside fxlib"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Asset", Width: 44, MaxWidth: 56},
		{Header: "Type", Width: 20},
		{Header: "Deps", Width: 4, Align: "right"},
		{Header: "Copy Of", Width: 30, MaxWidth: 40},
	})
	for _, e := range entries {
		origin := ""
		if e.Origin.IsValid() {
			origin = e.Origin.PackagePath()
		}
		table.AddRow([]string{
			e.Handle.PackagePath(),
			ui.RenderType(e.Type.String()),
			fmt.Sprintf("%d", len(e.Dependencies)),
			origin,
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d assets", len(entries))))
	return nil
}
