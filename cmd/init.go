package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/adapters/repository"
	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/pkg/ui"
	"github.com/kamal-hamza/fxlib/pkg/workspace"
)

var initContentDir string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the fxlib workspace",
	Long: `Initialize the fxlib workspace directory structure.

This creates the managed workspace at ~/.local/share/fxlib/ with the following structure:
  - Content/     : Asset documents (unless --content points at a project)
  - logs/        : Rotated log files
  - library.yaml : Effect categories and registered assets
  - catalog.db   : Asset catalog, rebuilt by 'fxlib reindex'

The configuration lives at ~/.config/fxlib/config.yaml.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initContentDir, "content", "", "Use an existing project Content directory")
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := workspace.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine workspace location"))
		return err
	}

	if ws.Exists() {
		fmt.Println(ui.FormatWarning("Workspace already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + ws.RootPath))
		return nil
	}

	fmt.Println(ui.FormatRocket("Initializing fxlib workspace..."))
	fmt.Println()

	if initContentDir != "" {
		abs, err := filepath.Abs(initContentDir)
		if err != nil {
			return fmt.Errorf("failed to resolve content directory: %w", err)
		}
		ws.UseContentDir(abs)
	}

	if err := ws.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize workspace"))
		return err
	}

	if err := createDefaultConfig(ws, initContentDir != ""); err != nil {
		// Config is optional, defaults apply without it
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
	} else {
		fmt.Println(ui.FormatSuccess("Configuration created"))
	}

	lib := domain.DefaultLibrary()
	if err := repository.NewFileLibraryRepository(ws.LibraryPath()).Save(getContext(), lib); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create library: " + err.Error()))
	} else {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Library created with %d categories", len(lib.Categories))))
	}

	fmt.Println(ui.FormatSuccess("Workspace initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", ws.RootPath))
	fmt.Println(ui.RenderKeyValue("Content", ws.ContentPath))
	fmt.Println(ui.RenderKeyValue("Config", ws.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Index your content: fxlib reindex"))
	fmt.Println(ui.FormatMuted("  2. Inspect an effect: fxlib deps /Game/FX/NS_Explosion"))
	fmt.Println(ui.FormatMuted("  3. Add it to the library: fxlib register /Game/FX/NS_Explosion -c Fire"))

	return nil
}

func createDefaultConfig(ws *workspace.Workspace, pinContent bool) error {
	contentLine := `# content_dir: ""`
	if pinContent {
		contentLine = fmt.Sprintf("content_dir: %q", ws.ContentPath)
	}

	defaultConfig := `# fxlib Configuration
# This file is optional - all settings have sensible defaults

# Project Content directory (defaults to the workspace Content/ folder)
` + contentLine + `

# Library root that copies are organised under
# default_root_path: "/Game/FXLib/"

# Category used when none is given
# default_category: "Default"

# How an existing asset is recognised as a previous copy: provenance | path
# origin_policy: "provenance"

# Highest numeric suffix tried when a name is taken (Foo_01 .. Foo_99)
# max_numbered_names: 99

# Parallel document parsers used by reindex
# max_workers: 4

# Copy the new asset path to the clipboard after copy/register
# copy_to_clipboard: true

# log_level: "info"
# log_to_file: true
`

	configDir := filepath.Dir(ws.ConfigPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(ws.ConfigPath, []byte(defaultConfig), 0644)
}
