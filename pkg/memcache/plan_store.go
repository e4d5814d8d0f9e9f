// pkg/mem/plan_store.go
package mem

import (
	"sync"
	"time"
)

// Plan statuses as exposed to the UI poller.
const (
	StatusGenerating = "generating"
	StatusComplete   = "complete"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
)

// PlanRecord is the session-scoped state of one itinerary generation.
// Nothing here ever touches disk; records expire with their TTL.
type PlanRecord struct {
	ID          string
	Destination string
	Days        int
	Style       string
	ArrivalDate time.Time

	Itinerary   string
	ChunksTotal int
	ChunksDone  int
	Status      string
	Warning     string
	Error       string

	CreatedAt time.Time
}

type PlanStore interface {
	Set(id string, record PlanRecord, ttl time.Duration)

	// Get returns a copy of the record for id if not expired.
	Get(id string) (PlanRecord, bool)

	// Update applies fn to the stored record under the lock.
	// No-op when the record is missing or expired.
	Update(id string, fn func(*PlanRecord))

	Delete(id string)
}

type planEntry struct {
	record    PlanRecord
	expiresAt time.Time
}

type PlanStoreInMemory struct {
	mu   sync.RWMutex
	data map[string]planEntry
	// optional: a background janitor could be added if you want
}

func NewPlanStore() *PlanStoreInMemory {
	return &PlanStoreInMemory{
		data: make(map[string]planEntry),
	}
}

func (s *PlanStoreInMemory) Set(id string, record PlanRecord, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = planEntry{
		record:    record,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *PlanStoreInMemory) Get(id string) (PlanRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return PlanRecord{}, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.data, id) // cleanup expired
		return PlanRecord{}, false
	}
	return e.record, true
}

func (s *PlanStoreInMemory) Update(id string, fn func(*PlanRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok || time.Now().After(e.expiresAt) {
		return
	}
	fn(&e.record)
	s.data[id] = e
}

func (s *PlanStoreInMemory) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}
