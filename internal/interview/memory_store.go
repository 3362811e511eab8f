package interview

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Repository implementation. It backs tests and
// single-node runs where durability is not required.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews map[string]*Interview
	questions  map[string]*CodingQuestion // keyed by interview ID
	closed     bool
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		interviews: make(map[string]*Interview),
		questions:  make(map[string]*CodingQuestion),
	}
}

// Put seeds an interview, bypassing ownership checks. Intended for wiring and
// tests; the CRUD layer owns interview creation in production.
func (s *MemoryStore) Put(itv *Interview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interviews[itv.ID] = cloneInterview(itv)
}

// PutQuestion attaches a coding question to an interview.
func (s *MemoryStore) PutQuestion(interviewID string, q *CodingQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[interviewID] = q
}

// GetByOwner retrieves an interview by ID, checking ownership.
func (s *MemoryStore) GetByOwner(ctx context.Context, userID, interviewID string) (*Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	itv, ok := s.interviews[interviewID]
	if !ok || itv.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	return cloneInterview(itv), nil
}

// Save persists the interview aggregate in one write.
func (s *MemoryStore) Save(ctx context.Context, itv *Interview, userID string) (*Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	existing, ok := s.interviews[itv.ID]
	if !ok || existing.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	saved := cloneInterview(itv)
	saved.UpdatedAt = time.Now().UTC()
	s.interviews[itv.ID] = saved

	return cloneInterview(saved), nil
}

// FindCodingQuestion locates the coding question attached to an interview.
func (s *MemoryStore) FindCodingQuestion(ctx context.Context, itv *Interview) (*CodingQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	q, ok := s.questions[itv.ID]
	if !ok {
		return nil, ErrQuestionNotFound
	}

	return q, nil
}

// MessageCount returns the persisted message count for an interview. Used by
// tests to check turn accounting.
func (s *MemoryStore) MessageCount(interviewID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	itv, ok := s.interviews[interviewID]
	if !ok {
		return 0
	}
	return len(itv.Messages)
}

// Close releases resources held by the repository.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// cloneInterview copies the aggregate so callers cannot mutate stored state.
func cloneInterview(itv *Interview) *Interview {
	out := *itv
	out.Messages = make([]Message, len(itv.Messages))
	copy(out.Messages, itv.Messages)
	if itv.Feedback != nil {
		fb := *itv.Feedback
		out.Feedback = &fb
	}
	return &out
}
