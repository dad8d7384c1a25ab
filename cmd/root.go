package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/internal/adapters/repository"
	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/services"
	"github.com/kamal-hamza/fxlib/internal/logger"
	"github.com/kamal-hamza/fxlib/pkg/config"
	"github.com/kamal-hamza/fxlib/pkg/ui"
	"github.com/kamal-hamza/fxlib/pkg/workspace"
)

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config
	logCloser    io.Closer

	// Services
	graphCopier         *services.GraphCopier
	libraryService      *services.LibraryService
	registrationService *services.RegistrationService
	graphService        *services.GraphService
	indexerService      *services.IndexerService
	grepService         *services.GrepService
	listService         *services.ListService

	// Adapters
	contentStore *repository.FileContentStore
	catalogRepo  *repository.CatalogRepository
	libraryRepo  *repository.FileLibraryRepository

	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fxlib",
	Short: "fxlib - FX asset library and reference-remapping copier",
	Long: ui.StyleTitle.Render("fxlib") + " - FX Asset Library\n\n" +
		"Copy particle systems together with every material, texture and mesh they\n" +
		"depend on, remap the copies to point at each other, and keep the results\n" +
		"organised in a categorised effect library.",
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	RunE:               runDefaultAction,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(grepCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Print debug logs to the console")
}

// skipsInitialization lists commands that run without a workspace
func skipsInitialization(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "init", "version", "help", "completion":
		return true
	}
	return false
}

// readsCatalog reports whether cmd queries the catalog and so wants it built
func readsCatalog(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "reindex", "clean", "config", "grep":
		return false
	}
	return !cmd.HasParent() || cmd.Parent().Name() != "config"
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipsInitialization(cmd) {
		return nil
	}

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = ws

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("Workspace not initialized"))
		fmt.Println(ui.FormatInfo("Run 'fxlib init' to initialize the workspace"))
		os.Exit(1)
	}

	cfg, err := config.Load(appWorkspace.ConfigPath)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load configuration"))
		return err
	}
	appConfig = cfg
	appWorkspace.UseContentDir(appConfig.ContentDir)
	ui.SetTheme(appConfig.ColorTheme)

	if err := initLogging(); err != nil {
		return err
	}

	// Repositories
	contentStore = repository.NewFileContentStore(appWorkspace.ContentPath)
	libraryRepo = repository.NewFileLibraryRepository(appWorkspace.LibraryPath())
	catalogRepo, err = repository.OpenCatalog(appWorkspace.CatalogPath(), contentStore)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to open asset catalog"))
		return err
	}

	// Every copy and rewrite is written through to the catalog
	contentStore.OnChange(func(ctx context.Context, obj *domain.Object) {
		if err := catalogRepo.Upsert(ctx, obj); err != nil {
			slog.Warn("Failed to update catalog", "asset", obj.Handle.String(), "error", err)
		}
	})

	// Services
	graphCopier = services.NewGraphCopier(catalogRepo, contentStore, services.CopierOptions{
		OriginPolicy:     services.ParseOriginPolicy(appConfig.OriginPolicy),
		MaxNumberedNames: appConfig.MaxNumberedNames,
	}, logger.WithComponent("copier"))
	libraryService = services.NewLibraryService(libraryRepo, catalogRepo)
	registrationService = services.NewRegistrationService(graphCopier, catalogRepo, contentStore, libraryRepo, logger.WithComponent("register"))
	graphService = services.NewGraphService(graphCopier.Collector(), appConfig)
	indexerService = services.NewIndexerService(contentStore, catalogRepo, appConfig.MaxWorkers, logger.WithComponent("indexer"))
	grepService = services.NewGrepService(contentStore, contentStore, appConfig.MaxWorkers)
	listService = services.NewListService(catalogRepo)

	if appConfig.AutoReindex && readsCatalog(cmd) {
		ensureCatalog(getContext())
	}

	return nil
}

func initLogging() error {
	logCfg := logger.Config{
		Level:        appConfig.LogLevel,
		ConsoleLevel: "warn",
		JSON:         appConfig.LogJSON,
		NoColor:      os.Getenv("NO_COLOR") != "",
	}
	if verbose {
		logCfg.Level = "debug"
		logCfg.ConsoleLevel = "debug"
	}
	if appConfig.LogToFile {
		logCfg.LogDir = appWorkspace.LogsPath
	}

	closer, err := logger.Init(logCfg)
	if err != nil {
		fmt.Println(ui.FormatWarning("Failed to open log file: " + err.Error()))
		logCfg.LogDir = ""
		if closer, err = logger.Init(logCfg); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
	}
	logCloser = closer
	return nil
}

// ensureCatalog builds the catalog on first use
func ensureCatalog(ctx context.Context) {
	stats, err := catalogRepo.Stats(ctx)
	if err != nil || !stats.LastIndexed.IsZero() {
		return
	}

	fmt.Println(ui.FormatInfo("Building asset catalog..."))
	resp, err := indexerService.Execute(ctx, services.ReindexRequest{})
	if err != nil {
		fmt.Println(ui.FormatWarning("Catalog build failed: " + err.Error()))
		return
	}
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Indexed %d assets", resp.TotalAssets)))
	fmt.Println()
}

// shutdownApp releases the catalog database and flushes the log file
func shutdownApp(cmd *cobra.Command, args []string) error {
	if catalogRepo != nil {
		if err := catalogRepo.Close(); err != nil {
			slog.Warn("Failed to close catalog", "error", err)
		}
	}
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

// runDefaultAction runs the configured command when fxlib is called bare
func runDefaultAction(cmd *cobra.Command, args []string) error {
	switch appConfig.DefaultAction {
	case "categories":
		return runCategoryList(cmd, args)
	case "doctor":
		runDoctor(cmd, args)
		return nil
	default:
		return runList(cmd, args)
	}
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
