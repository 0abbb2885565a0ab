package catalog

import (
	"context"
	"sync"

	"valxml/pkg/sentinel"
)

// InMemory is a catalog seeded directly by tests and local runs.
type InMemory struct {
	mu       sync.RWMutex
	versions map[string]MessageVersion
	rules    map[int64][]Rule // keyed by version id
	nextID   int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		versions: make(map[string]MessageVersion),
		rules:    make(map[int64][]Rule),
	}
}

// AddVersion registers a version code and returns the stored row.
func (s *InMemory) AddVersion(code string) MessageVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	v := MessageVersion{ID: s.nextID, VersionCode: code}
	s.versions[code] = v
	return v
}

// AddRule attaches an active rule to a version.
func (s *InMemory) AddRule(versionID int64, field DocumentField, reqs []RequirementRule, formats []DataFormatRule) Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rule := Rule{
		ID:           s.nextID,
		Field:        field,
		VersionID:    versionID,
		IsActive:     true,
		Requirements: reqs,
		Formats:      formats,
	}
	s.rules[versionID] = append(s.rules[versionID], rule)
	return rule
}

// AddInactiveRule attaches a rule that ActiveRules must not return.
func (s *InMemory) AddInactiveRule(versionID int64, field DocumentField) Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rule := Rule{ID: s.nextID, Field: field, VersionID: versionID}
	s.rules[versionID] = append(s.rules[versionID], rule)
	return rule
}

func (s *InMemory) VersionByCode(_ context.Context, code string) (*MessageVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &v, nil
}

func (s *InMemory) ActiveRules(_ context.Context, versionID int64) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []Rule
	for _, r := range s.rules[versionID] {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return active, nil
}
