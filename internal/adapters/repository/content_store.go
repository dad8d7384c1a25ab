package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

const documentExt = ".yaml"

// FileContentStore keeps asset documents as YAML files below a content directory.
// "/Game/FX/T_Fire.T_Fire" lives at <root>/FX/T_Fire.yaml.
type FileContentStore struct {
	root     string
	mu       sync.RWMutex
	loaded   map[domain.AssetHandle]*domain.Object
	onChange func(ctx context.Context, obj *domain.Object)
}

// NewFileContentStore creates a store over the given content directory
func NewFileContentStore(root string) *FileContentStore {
	return &FileContentStore{
		root:   root,
		loaded: make(map[domain.AssetHandle]*domain.Object),
	}
}

// Ensure it implements the interfaces
var (
	_ ports.ContentIndex    = (*FileContentStore)(nil)
	_ ports.ObjectStore     = (*FileContentStore)(nil)
	_ ports.ContentSource   = (*FileContentStore)(nil)
	_ ports.DocumentLocator = (*FileContentStore)(nil)
)

// Root returns the content directory
func (s *FileContentStore) Root() string {
	return s.root
}

// OnChange registers a hook called after every write
func (s *FileContentStore) OnChange(fn func(ctx context.Context, obj *domain.Object)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// relativePath strips the project mount: "/Game/FX/T_Fire" -> "FX/T_Fire"
func relativePath(p string) (string, error) {
	p = domain.NormalizePath(p)
	if p == domain.ProjectMount {
		return "", nil
	}
	prefix := domain.ProjectMount + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", fmt.Errorf("%w: %s is outside %s", domain.ErrInvalidHandle, p, domain.ProjectMount)
	}
	return strings.TrimPrefix(p, prefix), nil
}

// FilePath returns the document path of h
func (s *FileContentStore) FilePath(h domain.AssetHandle) (string, error) {
	if !h.IsValid() {
		return "", domain.ErrInvalidHandle
	}
	rel, err := relativePath(h.PackagePath())
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)+documentExt), nil
}

// DirPath returns the directory backing a content folder
func (s *FileContentStore) DirPath(folder string) (string, error) {
	rel, err := relativePath(folder)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

// HandleForFile maps a document path back to its handle
func (s *FileContentStore) HandleForFile(path string) (domain.AssetHandle, error) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return domain.AssetHandle{}, fmt.Errorf("%s is outside the content directory", path)
	}
	if filepath.Ext(rel) != documentExt {
		return domain.AssetHandle{}, fmt.Errorf("%s is not an asset document", path)
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), documentExt)
	return domain.ParseHandle(domain.ProjectMount + "/" + rel), nil
}

// readFile parses a document. The location on disk decides the handle.
func (s *FileContentStore) readFile(h domain.AssetHandle) (*domain.Object, error) {
	path, err := s.FilePath(h)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, h)
		}
		return nil, fmt.Errorf("failed to read asset file: %w", err)
	}

	var obj domain.Object
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	obj.Handle = h
	if obj.Type == "" {
		obj.Type = domain.TypeUnknown
	}
	return &obj, nil
}

// writeFile stores obj at its document path
func (s *FileContentStore) writeFile(obj *domain.Object) error {
	path, err := s.FilePath(obj.Handle)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write asset file: %w", err)
	}
	return nil
}

// peek returns the loaded object or a fresh read, without caching it
func (s *FileContentStore) peek(h domain.AssetHandle) (*domain.Object, error) {
	s.mu.RLock()
	obj, ok := s.loaded[h]
	s.mu.RUnlock()
	if ok {
		return obj, nil
	}
	return s.readFile(h)
}

// --- ContentIndex ---

func (s *FileContentStore) ResolveType(ctx context.Context, h domain.AssetHandle) (domain.TypeTag, error) {
	obj, err := s.peek(h)
	if err != nil {
		return "", err
	}
	return obj.Type, nil
}

func (s *FileContentStore) GetHardDependencies(ctx context.Context, h domain.AssetHandle) ([]domain.AssetHandle, error) {
	obj, err := s.peek(h)
	if err != nil {
		return nil, err
	}
	return obj.HardDependencies(), nil
}

func (s *FileContentStore) ListChildrenOf(ctx context.Context, folder string) ([]domain.AssetHandle, error) {
	dir, err := s.DirPath(folder)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var children []domain.AssetHandle
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != documentExt {
			continue
		}
		h := domain.NewHandle(folder, strings.TrimSuffix(entry.Name(), documentExt))
		if !h.IsValid() {
			continue
		}
		children = append(children, h)
	}
	return children, nil
}

func (s *FileContentStore) EnsureDirectory(ctx context.Context, folder string) error {
	dir, err := s.DirPath(folder)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// --- ContentSource ---

func (s *FileContentStore) ListAll(ctx context.Context) ([]domain.AssetHandle, error) {
	var handles []domain.AssetHandle
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != documentExt {
			return nil
		}
		h, err := s.HandleForFile(path)
		if err != nil {
			return nil
		}
		handles = append(handles, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content directory: %w", err)
	}

	sort.Slice(handles, func(i, j int) bool { return handles[i].String() < handles[j].String() })
	return handles, nil
}

func (s *FileContentStore) ReadDocument(ctx context.Context, h domain.AssetHandle) (*domain.Object, error) {
	return s.readFile(h)
}

// --- ObjectStore ---

func (s *FileContentStore) Load(ctx context.Context, h domain.AssetHandle) (*domain.Object, error) {
	s.mu.RLock()
	obj, ok := s.loaded[h]
	s.mu.RUnlock()
	if ok {
		return obj, nil
	}

	obj, err := s.readFile(h)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have loaded it meanwhile
	if existing, ok := s.loaded[h]; ok {
		return existing, nil
	}
	s.loaded[h] = obj
	return obj, nil
}

func (s *FileContentStore) Duplicate(ctx context.Context, source domain.AssetHandle, folder, name string) (*domain.Object, error) {
	src, err := s.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	target := domain.NewHandle(folder, name)
	path, err := s.FilePath(target)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.loaded[target]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, target)
	}
	if _, err := os.Stat(path); err == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, target)
	}

	dup := src.DuplicateAs(target)
	if err := s.writeFile(dup); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.loaded[target] = dup
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, dup)
	}
	return dup, nil
}

func (s *FileContentStore) Persist(ctx context.Context, obj *domain.Object) error {
	s.mu.Lock()
	if err := s.writeFile(obj); err != nil {
		s.mu.Unlock()
		return err
	}
	s.loaded[obj.Handle] = obj
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, obj)
	}
	return nil
}

func (s *FileContentStore) IsLoaded(h domain.AssetHandle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loaded[h]
	return ok
}

// Unload drops h from memory so the next Load reads it from disk again
func (s *FileContentStore) Unload(h domain.AssetHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loaded, h)
}

// Create writes a new document, used when importing assets
func (s *FileContentStore) Create(ctx context.Context, obj *domain.Object) error {
	path, err := s.FilePath(obj.Handle)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, obj.Handle)
	}
	return s.Persist(ctx, obj)
}
