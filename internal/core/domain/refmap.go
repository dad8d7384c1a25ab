package domain

// ReferenceMap records source -> copy pairs produced during one copy operation.
// A key is never remapped once added.
type ReferenceMap struct {
	entries map[AssetHandle]AssetHandle
	order   []AssetHandle
}

// NewReferenceMap creates an empty map
func NewReferenceMap() *ReferenceMap {
	return &ReferenceMap{entries: make(map[AssetHandle]AssetHandle)}
}

// Add records source -> dest. It returns false when source was already mapped;
// the existing destination is kept.
func (m *ReferenceMap) Add(source, dest AssetHandle) bool {
	if _, exists := m.entries[source]; exists {
		return false
	}
	m.entries[source] = dest
	m.order = append(m.order, source)
	return true
}

// Lookup returns the destination of source
func (m *ReferenceMap) Lookup(source AssetHandle) (AssetHandle, bool) {
	dest, ok := m.entries[source]
	return dest, ok
}

// Len returns the number of mapped sources
func (m *ReferenceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Pairs returns the mapping in insertion order
func (m *ReferenceMap) Pairs() []ReferencePair {
	if m == nil {
		return nil
	}
	pairs := make([]ReferencePair, 0, len(m.order))
	for _, src := range m.order {
		pairs = append(pairs, ReferencePair{Source: src, Dest: m.entries[src]})
	}
	return pairs
}

// ReferencePair is one entry of a ReferenceMap
type ReferencePair struct {
	Source AssetHandle
	Dest   AssetHandle
}

// ProcessedSet holds the sources already visited during one copy operation
type ProcessedSet map[AssetHandle]struct{}

// Mark adds h and reports whether it was new
func (s ProcessedSet) Mark(h AssetHandle) bool {
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}

// Has reports whether h was visited
func (s ProcessedSet) Has(h AssetHandle) bool {
	_, ok := s[h]
	return ok
}
