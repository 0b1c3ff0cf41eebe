package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-langtheme/resource"
)

// ErrMemoryStoreRequired signals a missing memory store.
var ErrMemoryStoreRequired = errors.New("store: memory store is required")

// ErrInvalidVariable signals a missing variable name.
var ErrInvalidVariable = errors.New("store: variable name required")

type rowKey struct {
	theme  int
	member int
}

// MemoryStore keeps theme rows in memory for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[rowKey]map[string]string
}

// NewMemoryStore constructs an in-memory row store.
func NewMemoryStore(rows ...Row) *MemoryStore {
	m := &MemoryStore{entries: map[rowKey]map[string]string{}}
	for _, row := range rows {
		_ = m.put(row)
	}
	return m
}

// Rows implements Reader.
func (m *MemoryStore) Rows(_ context.Context, themeIDs, memberIDs []int) ([]Row, error) {
	if m == nil {
		return nil, ErrMemoryStoreRequired
	}
	themes := sortedUnique(themeIDs)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Row
	for _, theme := range themes {
		for _, member := range memberIDs {
			vars := m.entries[rowKey{theme: theme, member: member}]
			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				out = append(out, Row{ThemeID: theme, MemberID: member, Variable: name, Value: vars[name]})
			}
		}
	}
	return out, nil
}

// Set implements Writer.
func (m *MemoryStore) Set(_ context.Context, row Row, _ resource.ActorRef) error {
	if m == nil {
		return ErrMemoryStoreRequired
	}
	return m.put(row)
}

// Unset implements Writer.
func (m *MemoryStore) Unset(_ context.Context, themeID, memberID int, variable string, _ resource.ActorRef) error {
	if m == nil {
		return ErrMemoryStoreRequired
	}
	variable = strings.TrimSpace(variable)
	if variable == "" {
		return ErrInvalidVariable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := rowKey{theme: themeID, member: memberID}
	delete(m.entries[key], variable)
	if len(m.entries[key]) == 0 {
		delete(m.entries, key)
	}
	return nil
}

// Clear removes all stored rows.
func (m *MemoryStore) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[rowKey]map[string]string{}
}

func (m *MemoryStore) put(row Row) error {
	variable := strings.TrimSpace(row.Variable)
	if variable == "" {
		return ErrInvalidVariable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[rowKey]map[string]string{}
	}
	key := rowKey{theme: row.ThemeID, member: row.MemberID}
	if m.entries[key] == nil {
		m.entries[key] = map[string]string{}
	}
	m.entries[key][variable] = row.Value
	return nil
}

func sortedUnique(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

var _ ReadWriter = (*MemoryStore)(nil)
