// Package vectors is a small utility for loading and unloading named
// vectors, independent of the retrieval core. Vectors are kept in an owned
// map with explicit existence checks.
package vectors

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"emailrag/internal/domain"
)

// Manager owns a mapping from name to vector.
type Manager struct {
	vectors map[string][]float64
	counter int
}

// Info describes one loaded vector.
type Info struct {
	Name        string
	Length      int
	MemoryBytes int
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{vectors: make(map[string][]float64)}
}

// LoadSlice stores a copy of data under name. An empty name is replaced by
// an auto-generated "vector_N" identifier. The chosen name is returned.
func (m *Manager) LoadSlice(data []float64, name string) string {
	if name == "" {
		name = fmt.Sprintf("vector_%d", m.counter)
		m.counter++
	}
	v := make([]float64, len(data))
	copy(v, data)
	m.vectors[name] = v
	return name
}

// LoadFile reads a JSON array of numbers from path and stores it. An empty
// name defaults to the file base name without extension.
func (m *Manager) LoadFile(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load vector: %w", err)
	}
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("decode vector %s: %w", path, err)
	}
	if name == "" {
		base := filepath.Base(path)
		name = base[:len(base)-len(filepath.Ext(base))]
	}
	m.vectors[name] = v
	return name, nil
}

// SaveFile writes the named vector to path as a JSON array.
func (m *Manager) SaveFile(name, path string) error {
	v, ok := m.vectors[name]
	if !ok {
		return fmt.Errorf("vector %q: %w", name, domain.ErrNotFound)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save vector: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save vector: %w", err)
	}
	return nil
}

// Get returns the named vector.
func (m *Manager) Get(name string) ([]float64, bool) {
	v, ok := m.vectors[name]
	return v, ok
}

// Unload removes the named vector.
func (m *Manager) Unload(name string) error {
	if _, ok := m.vectors[name]; !ok {
		return fmt.Errorf("vector %q: %w", name, domain.ErrNotFound)
	}
	delete(m.vectors, name)
	return nil
}

// UnloadAll removes every vector and returns how many were removed.
func (m *Manager) UnloadAll() int {
	n := len(m.vectors)
	m.vectors = make(map[string][]float64)
	return n
}

// Names lists loaded vector names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.vectors))
	for name := range m.vectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info describes the named vector.
func (m *Manager) Info(name string) (Info, bool) {
	v, ok := m.vectors[name]
	if !ok {
		return Info{}, false
	}
	return Info{Name: name, Length: len(v), MemoryBytes: len(v) * 8}, true
}

// MemoryUsage returns the vector count and total bytes held.
func (m *Manager) MemoryUsage() (count, bytes int) {
	for _, v := range m.vectors {
		bytes += len(v) * 8
	}
	return len(m.vectors), bytes
}
