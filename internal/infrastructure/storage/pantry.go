// Package storage holds the local persistence boundary: a JSON file
// snapshot of the pantry that degrades gracefully to memory-only when
// the disk misbehaves.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// PantryStore keeps the user's pantry ingredients. All reads are served
// from memory; every mutation is snapshotted to disk, and snapshot
// failures are logged but never surfaced.
type PantryStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]common.PantryIngredient
}

// NewPantryStore loads an existing snapshot if present. A corrupt or
// unreadable snapshot starts the store empty rather than failing.
func NewPantryStore(path string) *PantryStore {
	s := &PantryStore{
		path:  path,
		items: make(map[string]common.PantryIngredient),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			common.LogWarn("Failed to read pantry snapshot, starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return s
	}

	var items []common.PantryIngredient
	if err := json.Unmarshal(data, &items); err != nil {
		common.LogWarn("Corrupt pantry snapshot, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
		return s
	}

	for _, item := range items {
		s.items[item.ID] = item
	}
	common.LogInfo("Pantry snapshot loaded",
		zap.String("path", path),
		zap.Int("items", len(items)),
	)
	return s
}

// Add creates a pantry ingredient and persists the snapshot.
func (s *PantryStore) Add(name, quantity, unit string) common.PantryIngredient {
	item := common.PantryIngredient{
		ID:       common.GenerateUUID(),
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Unit:     unit,
		AddedAt:  time.Now(),
	}

	s.mu.Lock()
	s.items[item.ID] = item
	s.persistLocked()
	s.mu.Unlock()

	return item
}

// List returns all pantry ingredients ordered by the time they were
// added.
func (s *PantryStore) List() []common.PantryIngredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.PantryIngredient, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}

// Remove deletes an ingredient by id, reporting whether it existed.
func (s *PantryStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	s.persistLocked()
	return true
}

// Names returns the ingredient names in added order, the shape the
// generation request wants.
func (s *PantryStore) Names() []string {
	items := s.List()
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// persistLocked snapshots to disk. Failure degrades to memory-only.
func (s *PantryStore) persistLocked() {
	items := make([]common.PantryIngredient, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		common.LogWarn("Failed to encode pantry snapshot", zap.Error(err))
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			common.LogWarn("Failed to create pantry directory, keeping in memory",
				zap.String("path", s.path),
				zap.Error(err),
			)
			return
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		common.LogWarn("Failed to write pantry snapshot, keeping in memory",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}
}
