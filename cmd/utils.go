package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/pkg/ui"
)

// errSelectionCancelled is returned when the picker is closed without a choice
var errSelectionCancelled = errors.New("selection cancelled")

// resolveAssetArg returns the handle named by args[0], or asks the user to pick
// one from the catalog when no argument was given
func resolveAssetArg(ctx context.Context, args []string, tag domain.TypeTag) (domain.AssetHandle, error) {
	if len(args) > 0 {
		h := domain.ParseHandle(args[0])
		if !h.IsValid() {
			return domain.AssetHandle{}, fmt.Errorf("%w: %q", domain.ErrInvalidHandle, args[0])
		}
		return h, nil
	}
	return pickAsset(ctx, tag)
}

// pickAsset opens a fuzzy finder over the catalog, optionally filtered by type
func pickAsset(ctx context.Context, tag domain.TypeTag) (domain.AssetHandle, error) {
	entries, err := catalogRepo.Entries(ctx, tag)
	if err != nil {
		return domain.AssetHandle{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(entries) == 0 {
		return domain.AssetHandle{}, fmt.Errorf("no assets in the catalog, run 'fxlib reindex' first")
	}

	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			e := entries[i]
			return fmt.Sprintf("%s  [%s]", e.Handle.PackagePath(), e.Type)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return renderEntryPreview(entries[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return domain.AssetHandle{}, errSelectionCancelled
		}
		return domain.AssetHandle{}, err
	}

	return entries[idx].Handle, nil
}

func renderEntryPreview(e domain.CatalogEntry) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("Asset: %s\n", ui.StyleBold.Render(e.Handle.LeafName())))
	s.WriteString(fmt.Sprintf("Path:  %s\n", e.Handle.String()))
	s.WriteString(fmt.Sprintf("Type:  %s\n", e.Type))
	if e.Origin.IsValid() {
		s.WriteString(fmt.Sprintf("Copy of: %s\n", e.Origin.String()))
	}
	s.WriteString("\n")

	if len(e.Dependencies) > 0 {
		s.WriteString(ui.StyleHeader.Render(fmt.Sprintf("Dependencies (%d)", len(e.Dependencies))) + "\n")
		for _, d := range e.Dependencies {
			s.WriteString("  " + d.String() + "\n")
		}
	} else {
		s.WriteString(ui.FormatMuted("No hard dependencies") + "\n")
	}
	return s.String()
}

// handleCancelled reports a cancelled picker and swallows the error
func handleCancelled(err error) error {
	if errors.Is(err, errSelectionCancelled) {
		fmt.Println(ui.FormatMuted("Selection cancelled."))
		return nil
	}
	return err
}

// copyToClipboard copies s when enabled in config
func copyToClipboard(s string) {
	if appConfig == nil || !appConfig.CopyToClipboard {
		return
	}
	if err := clipboard.WriteAll(s); err != nil {
		fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
		return
	}
	fmt.Println(ui.FormatMuted("(Copied to clipboard)"))
}

// highlight renders content with chroma using the configured style
func highlight(content, language string) string {
	if appConfig != nil && !appConfig.SyntaxHighlighting {
		return content
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "monokai"
	if appConfig != nil && appConfig.HighlightStyle != "" {
		styleName = appConfig.HighlightStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}

	return buf.String()
}

// parseHandles converts arguments to handles, rejecting empty paths
func parseHandles(args []string) ([]domain.AssetHandle, error) {
	out := make([]domain.AssetHandle, 0, len(args))
	for _, a := range args {
		h := domain.ParseHandle(a)
		if !h.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidHandle, a)
		}
		out = append(out, h)
	}
	return out, nil
}

// typeOf resolves the type of h through the catalog, "Unknown" when unresolvable
func typeOf(ctx context.Context, h domain.AssetHandle) domain.TypeTag {
	tag, err := catalogRepo.ResolveType(ctx, h)
	if err != nil {
		return domain.TypeUnknown
	}
	return tag
}
