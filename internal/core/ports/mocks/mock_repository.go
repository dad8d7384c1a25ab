package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

var (
	_ ports.ContentIndex      = (*MockContentStore)(nil)
	_ ports.ObjectStore       = (*MockContentStore)(nil)
	_ ports.ContentSource     = (*MockContentStore)(nil)
	_ ports.Catalog           = (*MockCatalog)(nil)
	_ ports.CatalogReader     = (*MockCatalog)(nil)
	_ ports.LibraryRepository = (*MockLibraryRepository)(nil)
)

// DuplicateCall records one Duplicate invocation
type DuplicateCall struct {
	Source domain.AssetHandle
	Folder string
	Name   string
}

// MockContentStore is an in-memory project used as both content index and object store
type MockContentStore struct {
	mu      sync.Mutex
	objects map[domain.AssetHandle]*domain.Object
	loaded  map[domain.AssetHandle]bool
	dirs    map[string]bool
	untyped map[domain.AssetHandle]bool

	failDuplicate map[domain.AssetHandle]error
	failEnsure    map[string]error
	failLoad      map[domain.AssetHandle]error
	failPersist   error

	duplicateCalls []DuplicateCall
	persistCalls   []domain.AssetHandle
	ensureCalls    []string
}

// NewMockContentStore creates an empty store
func NewMockContentStore() *MockContentStore {
	return &MockContentStore{
		objects:       make(map[domain.AssetHandle]*domain.Object),
		loaded:        make(map[domain.AssetHandle]bool),
		dirs:          make(map[string]bool),
		untyped:       make(map[domain.AssetHandle]bool),
		failDuplicate: make(map[domain.AssetHandle]error),
		failEnsure:    make(map[string]error),
		failLoad:      make(map[domain.AssetHandle]error),
	}
}

// Add stores an object on "disk" without loading it
func (m *MockContentStore) Add(obj *domain.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.Handle] = obj
	m.dirs[obj.Handle.Folder()] = true
}

// Get returns the stored object without marking it loaded
func (m *MockContentStore) Get(h domain.AssetHandle) (*domain.Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	return obj, ok
}

// SetUntyped hides the type of h from the index so callers must load it
func (m *MockContentStore) SetUntyped(h domain.AssetHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.untyped[h] = true
}

func (m *MockContentStore) ResolveType(ctx context.Context, h domain.AssetHandle) (domain.TypeTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok || m.untyped[h] {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, h)
	}
	return obj.Type, nil
}

func (m *MockContentStore) GetHardDependencies(ctx context.Context, h domain.AssetHandle) ([]domain.AssetHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, h)
	}
	return obj.HardDependencies(), nil
}

func (m *MockContentStore) ListChildrenOf(ctx context.Context, folder string) ([]domain.AssetHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	folder = domain.NormalizePath(folder)
	var children []domain.AssetHandle
	for h := range m.objects {
		if h.Folder() == folder {
			children = append(children, h)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].String() < children[j].String() })
	return children, nil
}

func (m *MockContentStore) EnsureDirectory(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls = append(m.ensureCalls, path)
	if err, ok := m.failEnsure[path]; ok {
		return err
	}
	m.dirs[path] = true
	return nil
}

func (m *MockContentStore) ListAll(ctx context.Context) ([]domain.AssetHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.AssetHandle, 0, len(m.objects))
	for h := range m.objects {
		all = append(all, h)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].String() < all[j].String() })
	return all, nil
}

func (m *MockContentStore) ReadDocument(ctx context.Context, h domain.AssetHandle) (*domain.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failLoad[h]; ok {
		return nil, err
	}
	obj, ok := m.objects[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, h)
	}
	return obj.Clone(), nil
}

func (m *MockContentStore) Load(ctx context.Context, h domain.AssetHandle) (*domain.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failLoad[h]; ok {
		return nil, err
	}
	obj, ok := m.objects[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, h)
	}
	m.loaded[h] = true
	return obj, nil
}

func (m *MockContentStore) Duplicate(ctx context.Context, source domain.AssetHandle, folder, name string) (*domain.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicateCalls = append(m.duplicateCalls, DuplicateCall{Source: source, Folder: folder, Name: name})

	if err, ok := m.failDuplicate[source]; ok {
		return nil, err
	}
	src, ok := m.objects[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, source)
	}
	target := domain.NewHandle(folder, name)
	if _, exists := m.objects[target]; exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, target)
	}

	dup := src.DuplicateAs(target)
	m.objects[target] = dup
	m.loaded[source] = true
	m.loaded[target] = true
	return dup, nil
}

func (m *MockContentStore) Persist(ctx context.Context, obj *domain.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistCalls = append(m.persistCalls, obj.Handle)
	if m.failPersist != nil {
		return m.failPersist
	}
	m.objects[obj.Handle] = obj
	return nil
}

func (m *MockContentStore) IsLoaded(h domain.AssetHandle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded[h]
}

// MarkLoaded puts h in the loaded set without a Load call
func (m *MockContentStore) MarkLoaded(h domain.AssetHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded[h] = true
}

func (m *MockContentStore) SetDuplicateFailure(source domain.AssetHandle, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("duplicate failed for %s", source)
	}
	m.failDuplicate[source] = err
}

func (m *MockContentStore) SetEnsureFailure(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("cannot create %s", path)
	}
	m.failEnsure[path] = err
}

func (m *MockContentStore) SetLoadFailure(h domain.AssetHandle, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("load failed for %s", h)
	}
	m.failLoad[h] = err
}

func (m *MockContentStore) SetPersistFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPersist = err
}

func (m *MockContentStore) GetDuplicateCalls() []DuplicateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]DuplicateCall, len(m.duplicateCalls))
	copy(calls, m.duplicateCalls)
	return calls
}

func (m *MockContentStore) GetPersistCalls() []domain.AssetHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.AssetHandle, len(m.persistCalls))
	copy(calls, m.persistCalls)
	return calls
}

func (m *MockContentStore) GetEnsureCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.ensureCalls))
	copy(calls, m.ensureCalls)
	return calls
}

// Reset clears recorded calls and injected failures
func (m *MockContentStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicateCalls = nil
	m.persistCalls = nil
	m.ensureCalls = nil
	m.failDuplicate = make(map[domain.AssetHandle]error)
	m.failEnsure = make(map[string]error)
	m.failLoad = make(map[domain.AssetHandle]error)
	m.failPersist = nil
}

// --- MockLibraryRepository ---

type MockLibraryRepository struct {
	mu       sync.Mutex
	library  *domain.Library
	saves    int
	failSave error
	failLoad error
}

func NewMockLibraryRepository() *MockLibraryRepository {
	return &MockLibraryRepository{library: domain.DefaultLibrary()}
}

func (m *MockLibraryRepository) Load(ctx context.Context) (*domain.Library, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failLoad != nil {
		return nil, m.failLoad
	}
	lib := &domain.Library{Categories: make([]domain.Category, len(m.library.Categories))}
	for i, c := range m.library.Categories {
		lib.Categories[i] = domain.Category{
			Name:   c.Name,
			Icon:   c.Icon,
			Assets: append([]domain.AssetHandle{}, c.Assets...),
		}
	}
	return lib, nil
}

func (m *MockLibraryRepository) Save(ctx context.Context, lib *domain.Library) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.library = lib
	m.saves++
	return nil
}

// Library returns the last saved library
func (m *MockLibraryRepository) Library() *domain.Library {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.library
}

func (m *MockLibraryRepository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MockLibraryRepository) SetShouldFail(load, save error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = load
	m.failSave = save
}

// --- MockCatalog ---

type MockCatalog struct {
	mu       sync.Mutex
	entries  []domain.CatalogEntry
	replaces int
	failErr  error
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{}
}

func (m *MockCatalog) Replace(ctx context.Context, entries []domain.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.entries = append([]domain.CatalogEntry(nil), entries...)
	m.replaces++
	return nil
}

func (m *MockCatalog) Stats(ctx context.Context) (domain.CatalogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := domain.CatalogStats{Assets: len(m.entries)}
	for _, e := range m.entries {
		stats.Dependencies += len(e.Dependencies)
	}
	return stats, nil
}

// Replaced returns the last replaced entry set
func (m *MockCatalog) Replaced() []domain.CatalogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CatalogEntry(nil), m.entries...)
}

func (m *MockCatalog) Entries(ctx context.Context, tag domain.TypeTag) ([]domain.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []domain.CatalogEntry
	for _, e := range m.entries {
		if tag == "" || e.Type == tag {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockCatalog) SetShouldFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}
