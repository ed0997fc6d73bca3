package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the collection in process memory, in insertion order.
// A single RWMutex serializes mutations so id assignment and read-modify-write
// updates never interleave; reads may run concurrently.
type MemoryStore struct {
	mu       sync.RWMutex
	problems []Problem
	nextID   int64
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store. Ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		now:    time.Now,
	}
}

// List returns problems matching filter in storage order.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Problem, 0, len(s.problems))
	for i := range s.problems {
		if filter.Matches(&s.problems[i]) {
			matched = append(matched, s.problems[i])
		}
	}
	return matched, nil
}

// Get returns the problem with the given id.
func (s *MemoryStore) Get(_ context.Context, id int64) (Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Problem{}, ErrProblemNotFound
	}
	return s.problems[idx], nil
}

// Create assigns the next id, stamps timestamps and appends the problem.
func (s *MemoryStore) Create(_ context.Context, problem *Problem) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	stored := *problem
	stored.ID = s.nextID
	stored.Upvotes = 0
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.nextID++
	s.problems = append(s.problems, stored)
	return stored, nil
}

// Update applies the non-nil patch fields and refreshes UpdatedAt.
func (s *MemoryStore) Update(_ context.Context, id int64, patch Patch) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Problem{}, ErrProblemNotFound
	}

	p := &s.problems[idx]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = s.now().UTC()
	return *p, nil
}

// Upvote increments the upvote counter by one and refreshes UpdatedAt.
func (s *MemoryStore) Upvote(_ context.Context, id int64) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Problem{}, ErrProblemNotFound
	}

	p := &s.problems[idx]
	p.Upvotes++
	p.UpdatedAt = s.now().UTC()
	return *p, nil
}

// Delete removes the problem permanently and returns its last snapshot.
// The id is never reassigned.
func (s *MemoryStore) Delete(_ context.Context, id int64) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Problem{}, ErrProblemNotFound
	}

	removed := s.problems[idx]
	s.problems = append(s.problems[:idx], s.problems[idx+1:]...)
	return removed, nil
}

// indexOf returns the position of id in the collection, or -1.
// Callers must hold the lock.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.problems {
		if s.problems[i].ID == id {
			return i
		}
	}
	return -1
}
