package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/intervue-dev/intervue/internal/interview"
	"github.com/intervue-dev/intervue/internal/llm/provider"
	obsmetrics "github.com/intervue-dev/intervue/pkg/observability"
)

// EndInterview finalizes an interview: it summarizes the full cached history
// into a structured feedback verdict, replaces the interview's feedback,
// persists, and evicts the session context.
//
// Finalizing an interview whose conversation never started in this process is
// a usage error; no empty summary is fabricated.
func (o *Orchestrator) EndInterview(ctx context.Context, userID, interviewID string) (*interview.Feedback, error) {
	itv, err := o.repo.GetByOwner(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}

	sc, ok := o.cache.Get(interviewID)
	if !ok {
		obsmetrics.RecordFinalization("no_session")
		return nil, fmt.Errorf("%w: %s", ErrNoSession, interviewID)
	}

	out, err := o.complete(ctx, itv, summaryPrompt(itv, sc))
	if err != nil {
		obsmetrics.RecordFinalization("error")
		return nil, err
	}

	var parsed struct {
		Strengths  string `json:"strengths"`
		Weaknesses string `json:"weaknesses"`
	}
	if err := provider.DecodeJSON(out, &parsed); err != nil {
		// Partial feedback is never saved; an unparseable summary fails the
		// whole call.
		obsmetrics.RecordFinalization("error")
		return nil, fmt.Errorf("%w: parse feedback: %w", ErrUpstream, err)
	}

	// One feedback per interview: finalizing again overwrites.
	itv.Feedback = &interview.Feedback{
		Strengths:  parsed.Strengths,
		Weaknesses: parsed.Weaknesses,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := o.repo.Save(ctx, itv, userID); err != nil {
		obsmetrics.RecordFinalization("error")
		return nil, fmt.Errorf("%w: save feedback: %w", ErrPersistence, err)
	}

	o.cache.Remove(interviewID)
	obsmetrics.SetActiveSessions(o.cache.Len())

	obsmetrics.RecordFinalization("success")
	return itv.Feedback, nil
}
