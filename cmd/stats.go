package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show content and library statistics",
	Long: `Analyze the catalog and library and display useful statistics.

Includes:
  - Asset counts per type
  - How many assets are copies made by fxlib
  - The most referenced assets
  - Registered effects per category`,
	RunE: runStats,
}

type typeCount struct {
	tag   domain.TypeTag
	count int
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	entries, err := catalogRepo.Entries(ctx, "")
	if err != nil {
		return err
	}
	lib, err := libraryService.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatRocket("Analyzing content..."))
	fmt.Println()

	// 1. Data Aggregation
	perType := make(map[domain.TypeTag]int)
	inbound := make(map[domain.AssetHandle]int)
	copies, refs := 0, 0
	for _, e := range entries {
		perType[e.Type]++
		if e.Origin.IsValid() {
			copies++
		}
		for _, d := range e.Dependencies {
			inbound[d]++
			refs++
		}
	}

	fmt.Println(ui.RenderKeyValue("Assets", fmt.Sprintf("%d", len(entries))))
	fmt.Println(ui.RenderKeyValue("References", fmt.Sprintf("%d", refs)))
	fmt.Println(ui.RenderKeyValue("Copies", fmt.Sprintf("%d", copies)))
	fmt.Println(ui.RenderKeyValue("Registered Effects", fmt.Sprintf("%d", lib.TotalAssets())))
	fmt.Println()

	// 2. Type distribution
	if len(perType) > 0 {
		counts := make([]typeCount, 0, len(perType))
		for tag, n := range perType {
			counts = append(counts, typeCount{tag, n})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].tag < counts[j].tag
		})

		fmt.Println(ui.StyleHeader.Render("Types"))
		for _, c := range counts {
			bar := strings.Repeat("█", scaleBar(c.count, counts[0].count, 30))
			fmt.Printf("  %-26s %s %d\n", c.tag, ui.StyleInfo.Render(bar), c.count)
		}
		fmt.Println()
	}

	// 3. Most referenced
	if len(inbound) > 0 {
		type refCount struct {
			h domain.AssetHandle
			n int
		}
		top := make([]refCount, 0, len(inbound))
		for h, n := range inbound {
			top = append(top, refCount{h, n})
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].n != top[j].n {
				return top[i].n > top[j].n
			}
			return top[i].h.String() < top[j].h.String()
		})
		if len(top) > 5 {
			top = top[:5]
		}

		fmt.Println(ui.StyleHeader.Render("Most Referenced"))
		for _, t := range top {
			fmt.Printf("  %3d  %s\n", t.n, t.h.PackagePath())
		}
		fmt.Println()
	}

	// 4. Library
	fmt.Println(ui.StyleHeader.Render("Library"))
	for _, c := range lib.Categories {
		fmt.Printf("  %-16s %d\n", c.Name, len(c.Assets))
	}

	return nil
}

// scaleBar maps n onto a bar of at most width cells, never less than one
func scaleBar(n, max, width int) int {
	if max <= 0 || n <= 0 {
		return 0
	}
	w := n * width / max
	if w < 1 {
		w = 1
	}
	return w
}
