package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace represents the managed storage directory for fxlib
type Workspace struct {
	RootPath    string
	ContentPath string
	LogsPath    string
	ConfigPath  string
}

// New creates a new Workspace instance with XDG-compliant paths
func New() (*Workspace, error) {
	rootPath, rootErr := getWorkspaceRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine workspace root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return &Workspace{
		RootPath:    rootPath,
		ContentPath: filepath.Join(rootPath, "Content"),
		LogsPath:    filepath.Join(rootPath, "logs"),
		ConfigPath:  configPath,
	}, nil
}

// getWorkspaceRoot returns the workspace root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getWorkspaceRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "fxlib"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "fxlib"), nil
	}

	return filepath.Join(homeDir, ".local", "share", "fxlib"), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fxlib", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "fxlib-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "fxlib", "config.yaml"), nil
}

// UseContentDir points the workspace at an existing project content directory
func (w *Workspace) UseContentDir(dir string) {
	if dir != "" {
		w.ContentPath = dir
	}
}

// Initialize creates the workspace directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.ContentPath,
		w.LogsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// LibraryPath returns the path of the category library file
func (w *Workspace) LibraryPath() string {
	return filepath.Join(w.RootPath, "library.yaml")
}

// CatalogPath returns the path of the SQLite asset catalog
func (w *Workspace) CatalogPath() string {
	return filepath.Join(w.RootPath, "catalog.db")
}

// CleanLogs removes all rotated log files
func (w *Workspace) CleanLogs() error {
	entries, err := os.ReadDir(w.LogsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read logs directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.LogsPath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
