package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/pkg/ui"
)

var (
	graphDotFormat bool
	graphHTMLPath  string
)

var graphCmd = &cobra.Command{
	Use:   "graph [asset]",
	Short: "Show the dependency graph of an asset",
	Long: `Show every in-project asset reachable from an asset through hard references.

Tree mode (default) prints an indented tree; assets reached a second time are
marked with * instead of being expanded again.

Generate DOT file for visualization:
  fxlib graph /Game/FX/NS_Explosion --dot > graph.dot
  dot -Tpng graph.dot -o graph.png

Generate an interactive HTML page:
  fxlib graph /Game/FX/NS_Explosion --html graph.html

Large graphs are cut at graph_max_nodes (config).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&graphDotFormat, "dot", false, "Output DOT format instead of a tree")
	graphCmd.Flags().StringVar(&graphHTMLPath, "html", "", "Write an interactive force-layout page to this file")
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	root, err := resolveAssetArg(ctx, args, "")
	if err != nil {
		return handleCancelled(err)
	}

	graph, err := graphService.Build(ctx, root, typeOf(ctx, root))
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError("Failed to build graph"))
		return err
	}

	switch {
	case graphDotFormat:
		// Output to stdout (can be piped to file)
		fmt.Print(graphService.GenerateDOT(graph))

	case graphHTMLPath != "":
		f, err := os.Create(graphHTMLPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", graphHTMLPath, err)
		}
		defer f.Close()

		if err := graphService.RenderHTML(graph, f); err != nil {
			fmt.Println(ui.FormatError("Failed to render graph"))
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Graph written (%d assets)", len(graph.Nodes))))
		fmt.Println(ui.RenderKeyValue("File", graphHTMLPath))

	default:
		fmt.Print(graphService.RenderTree(graph))
		fmt.Println()
		fmt.Println(ui.FormatMuted(fmt.Sprintf("%d assets, %d references", len(graph.Nodes), len(graph.Edges))))
		if appConfig.GraphMaxNodes > 0 && len(graph.Nodes) >= appConfig.GraphMaxNodes {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("Graph truncated at %d assets", appConfig.GraphMaxNodes)))
		}
	}

	return nil
}
