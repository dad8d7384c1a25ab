package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var (
	grepCaseSensitive bool
	grepLimit         int
)

var grepCmd = &cobra.Command{
	Use:     "grep [query]",
	Aliases: []string{"g"},
	Short:   "Search asset documents (alias: g)",
	Long: `Search the text of every asset document in the content directory.

With a query, matching lines are printed as asset:line. Without one, every
line is loaded into a fuzzy finder; the selected asset's path is printed and
copied to the clipboard.

Useful for finding soft references, which are not part of the catalog's
dependency table.

Examples:
  fxlib grep T_Fire
  fxlib grep -s "ParticleColor" -n 20
  fxlib grep`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrep,
}

func init() {
	grepCmd.Flags().BoolVarP(&grepCaseSensitive, "case-sensitive", "s", false, "Match case exactly")
	grepCmd.Flags().IntVarP(&grepLimit, "limit", "n", 0, "Maximum number of matches (0 = unlimited)")
}

func runGrep(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	req := services.GrepRequest{CaseSensitive: grepCaseSensitive, MaxResults: grepLimit}
	if len(args) == 1 {
		req.Query = args[0]
	}

	matches, err := grepService.Execute(ctx, req)
	if err != nil {
		return err
	}

	if req.Query != "" {
		if len(matches) == 0 {
			fmt.Println(ui.FormatInfo(fmt.Sprintf("No matches for %q", req.Query)))
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%s:%d  %s\n", ui.StyleAccent.Render(m.Asset.PackagePath()), m.LineNum, strings.TrimSpace(m.Content))
		}
		fmt.Println()
		fmt.Println(ui.FormatMuted(fmt.Sprintf("%d match(es)", len(matches))))
		return nil
	}

	if len(matches) == 0 {
		fmt.Println(ui.FormatWarning("No asset documents found to search."))
		return nil
	}

	idx, err := fuzzyfinder.Find(
		matches,
		func(i int) string {
			m := matches[i]
			return fmt.Sprintf("%s:%d  %s", m.Asset.LeafName(), m.LineNum, strings.TrimSpace(m.Content))
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return generatePreview(matches[i].File, matches[i].LineNum, h)
		}),
	)
	if err != nil {
		fmt.Println(ui.FormatInfo("Search cancelled."))
		return nil
	}

	selected := matches[idx]
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s (line %d)", selected.Asset.String(), selected.LineNum)))
	copyToClipboard(selected.Asset.String())
	return nil
}

// generatePreview shows the lines around a match, sized to the preview pane
func generatePreview(path string, target, height int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ui.FormatError("cannot read " + filepath.Base(path))
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	span := max(height/2-1, 3)
	from := max(target-span, 1)
	to := min(target+span, len(lines))
	gutter := len(strconv.Itoa(to))

	var b strings.Builder
	for n := from; n <= to; n++ {
		num := fmt.Sprintf("%*d", gutter, n)
		if n == target {
			b.WriteString(ui.StyleWarning.Render(num+" ▶ ") + ui.StyleBold.Render(lines[n-1]) + "\n")
			continue
		}
		b.WriteString(ui.FormatMuted(num+" │ "+lines[n-1]) + "\n")
	}
	return b.String()
}
