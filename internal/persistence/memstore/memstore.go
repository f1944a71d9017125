// Package memstore is an in-memory PlayerRepository used by tests and
// by any engine run without a configured durable backend.
package memstore

import (
	"strings"
	"sync"

	"github.com/ambonmud/ambonmud/internal/persistence"
)

type Store struct {
	mu      sync.Mutex
	records map[string]persistence.PlayerRecord
}

func New() *Store {
	return &Store{records: make(map[string]persistence.PlayerRecord)}
}

func (s *Store) FindByName(name string) (persistence.PlayerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[strings.ToLower(name)]
	return rec, ok
}

func (s *Store) Save(record persistence.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[strings.ToLower(record.Name)] = record
	return nil
}

func (s *Store) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[strings.ToLower(name)]
	return ok
}
