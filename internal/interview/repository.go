package interview

import (
	"context"
	"errors"
)

// Common errors for repository operations.
var (
	// ErrUnauthorized is returned when an interview does not exist or is not
	// owned by the requesting user. The two cases are deliberately not
	// distinguished so existence is not leaked.
	ErrUnauthorized = errors.New("interview not found or not owned by user")
	// ErrQuestionNotFound is returned when an interview has no coding question.
	ErrQuestionNotFound = errors.New("coding question not found")
	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("interview store is closed")
)

// Repository abstracts durable interview persistence.
// Implementations must be safe for concurrent use.
type Repository interface {
	// GetByOwner retrieves an interview by ID, checking ownership.
	// Returns ErrUnauthorized if the interview is missing or owned by a
	// different user.
	GetByOwner(ctx context.Context, userID, interviewID string) (*Interview, error)

	// Save persists the interview aggregate, message log included, in one
	// write. Returns the saved aggregate.
	Save(ctx context.Context, itv *Interview, userID string) (*Interview, error)

	// FindCodingQuestion locates the coding question attached to an
	// interview. Returns ErrQuestionNotFound if there is none.
	FindCodingQuestion(ctx context.Context, itv *Interview) (*CodingQuestion, error)

	// Close releases resources held by the repository.
	Close() error
}
