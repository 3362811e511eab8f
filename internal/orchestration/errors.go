package orchestration

import (
	"errors"

	"github.com/intervue-dev/intervue/internal/interview"
)

// Error taxonomy surfaced to the HTTP layer. None of these are retried or
// swallowed inside orchestration; they propagate to the caller unmodified.
var (
	// ErrUnauthorized is returned when the interview is missing or not owned
	// by the caller. Re-exported from the repository so handlers depend on
	// one package.
	ErrUnauthorized = interview.ErrUnauthorized

	// ErrNoSession is returned when finalizing an interview whose
	// conversation never started in this process.
	ErrNoSession = errors.New("no active session for interview")

	// ErrUpstream marks transcription, resume-loading, or completion
	// failures, including unparseable structured output.
	ErrUpstream = errors.New("upstream dependency failed")

	// ErrPersistence marks a failed durable save. The in-memory session may
	// be ahead of the durable log when this is returned; the next successful
	// turn reconciles it.
	ErrPersistence = errors.New("durable save failed")
)
