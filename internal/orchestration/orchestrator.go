// Package orchestration processes conversation turns for in-progress mock
// interviews. It owns the session lifecycle between the HTTP layer and the
// external collaborators: the interview repository, the resume loader, the
// transcriber, and the text-completion provider.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intervue-dev/intervue/internal/interview"
	"github.com/intervue-dev/intervue/internal/llm/provider"
	"github.com/intervue-dev/intervue/internal/observability"
	"github.com/intervue-dev/intervue/internal/resume"
	"github.com/intervue-dev/intervue/internal/session"
	"github.com/intervue-dev/intervue/internal/transcribe"
	obsmetrics "github.com/intervue-dev/intervue/pkg/observability"
)

// Orchestrator drives one conversation turn at a time. It is safe for
// concurrent use across interviews; overlapping turns on the same interview
// may interleave history appends (see session.Context).
type Orchestrator struct {
	repo        interview.Repository
	cache       *session.Cache
	completer   provider.Completer
	transcriber transcribe.Transcriber
	resumes     resume.Loader
}

// New creates an orchestrator over the given collaborators.
func New(
	repo interview.Repository,
	cache *session.Cache,
	completer provider.Completer,
	transcriber transcribe.Transcriber,
	resumes resume.Loader,
) *Orchestrator {
	return &Orchestrator{
		repo:        repo,
		cache:       cache,
		completer:   completer,
		transcriber: transcriber,
		resumes:     resumes,
	}
}

// TurnInput carries one inbound candidate turn. Either AudioPath or Text is
// set; both empty yields an empty-content turn, which is accepted.
type TurnInput struct {
	// AudioPath points at a recorded audio file to transcribe.
	AudioPath string
	// Text is the literal turn content, used when AudioPath is empty.
	Text string
	// Code is an optional code snippet accompanying the turn.
	Code string
	// Kind marks the turn as text or coding. Defaults to text.
	Kind session.TurnKind
}

// TurnResult is returned from ProcessTurn: the candidate turn as recorded and
// the assistant's reply.
type TurnResult struct {
	UserMessageID      string `json:"user_message_id"`
	UserContent        string `json:"user_content"`
	AssistantMessageID string `json:"assistant_message_id"`
	AssistantContent   string `json:"assistant_content"`
}

// StartInterview produces the interview's opening turn. It always reseeds the
// session context from the durable message log (explicit Replace semantics),
// so it doubles as a hard reset for stale or restarted sessions.
func (o *Orchestrator) StartInterview(ctx context.Context, userID, interviewID string) (*session.Turn, error) {
	start := time.Now()

	itv, err := o.repo.GetByOwner(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}

	sc, err := o.initContext(ctx, itv)
	if err != nil {
		obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
		return nil, err
	}
	o.cache.Replace(interviewID, sc)
	obsmetrics.SetActiveSessions(o.cache.Len())

	reply, err := o.complete(ctx, itv, builderFor(itv.Type).BuildPrompt(itv, sc))
	if err != nil {
		obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
		return nil, err
	}

	turn := session.Turn{
		Content:       reply,
		FromAssistant: true,
		Kind:          session.TurnText,
		MessageID:     uuid.New().String(),
	}
	sc.Append(turn)

	itv.Messages = append(itv.Messages, messageFromTurn(interviewID, turn))
	if _, err := o.repo.Save(ctx, itv, userID); err != nil {
		obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
		return nil, fmt.Errorf("%w: save opening turn: %w", ErrPersistence, err)
	}

	obsmetrics.RecordTurn(string(itv.Type), "success", time.Since(start))
	return &turn, nil
}

// ProcessTurn processes one candidate turn: transcribes audio if present,
// lazily builds the session context, appends the candidate turn, asks the
// completion provider for the reply, appends it, and persists both messages
// in one aggregate save.
func (o *Orchestrator) ProcessTurn(ctx context.Context, userID, interviewID string, input TurnInput) (*TurnResult, error) {
	start := time.Now()

	itv, err := o.repo.GetByOwner(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}

	content := input.Text
	if input.AudioPath != "" {
		content, err = o.transcribeAudio(ctx, input.AudioPath)
		if err != nil {
			obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
			return nil, err
		}
	}

	sc, err := o.cache.GetOrCreate(ctx, interviewID, func(ctx context.Context) (*session.Context, error) {
		return o.initContext(ctx, itv)
	})
	if err != nil {
		obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
		return nil, err
	}
	obsmetrics.SetActiveSessions(o.cache.Len())

	if input.Code != "" {
		sc.Code = input.Code
		itv.LastCode = input.Code
	}

	kind := input.Kind
	if kind == "" {
		kind = session.TurnText
	}

	userTurn := session.Turn{
		Content:   content,
		Kind:      kind,
		Code:      input.Code,
		MessageID: uuid.New().String(),
	}
	sc.Append(userTurn)

	reply, err := o.complete(ctx, itv, builderFor(itv.Type).BuildPrompt(itv, sc))
	if err != nil {
		obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
		return nil, err
	}

	assistantTurn := session.Turn{
		Content:       reply,
		FromAssistant: true,
		Kind:          session.TurnText,
		MessageID:     uuid.New().String(),
	}
	sc.Append(assistantTurn)

	// Both new messages go in one aggregate save. On failure the in-memory
	// history is already ahead of the durable log; the next successful turn
	// reconciles it.
	itv.Messages = append(itv.Messages,
		messageFromTurn(interviewID, userTurn),
		messageFromTurn(interviewID, assistantTurn),
	)
	if _, err := o.repo.Save(ctx, itv, userID); err != nil {
		obsmetrics.RecordTurn(string(itv.Type), "error", time.Since(start))
		return nil, fmt.Errorf("%w: save turn: %w", ErrPersistence, err)
	}

	obsmetrics.RecordTurn(string(itv.Type), "success", time.Since(start))
	return &TurnResult{
		UserMessageID:      userTurn.MessageID,
		UserContent:        userTurn.Content,
		AssistantMessageID: assistantTurn.MessageID,
		AssistantContent:   assistantTurn.Content,
	}, nil
}

// initContext builds a fresh session context: downloads and extracts the
// resume, rebuilds the history from the durable log, and, for coding
// archetypes, loads the coding question.
func (o *Orchestrator) initContext(ctx context.Context, itv *interview.Interview) (*session.Context, error) {
	spanCtx, span := observability.StartSpan(ctx, "resume.load", map[string]string{
		"interview.id": itv.ID,
	})
	text, err := o.resumes.Load(spanCtx, itv.ResumeURL)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("%w: load resume: %w", ErrUpstream, err)
	}

	sc := &session.Context{
		ResumeText: text,
		Code:       itv.LastCode,
		History:    session.FromMessages(itv.Messages),
	}

	if itv.Type.IsCoding() {
		q, err := o.repo.FindCodingQuestion(ctx, itv)
		if err != nil && !errors.Is(err, interview.ErrQuestionNotFound) {
			return nil, fmt.Errorf("%w: find coding question: %w", ErrUpstream, err)
		}
		if q != nil {
			sc.QuestionBody = q.Body
		}
	}

	return sc, nil
}

func (o *Orchestrator) transcribeAudio(ctx context.Context, path string) (string, error) {
	spanCtx, span := observability.StartSpan(ctx, "audio.transcribe", nil)
	text, err := o.transcriber.Transcribe(spanCtx, path)
	span.End()
	if err != nil {
		obsmetrics.RecordTranscription("error")
		return "", fmt.Errorf("%w: transcribe audio: %w", ErrUpstream, err)
	}
	obsmetrics.RecordTranscription("success")
	return text, nil
}

func (o *Orchestrator) complete(ctx context.Context, itv *interview.Interview, prompt string) (string, error) {
	spanCtx, span := observability.StartSpan(ctx, "llm.complete", map[string]string{
		"interview.id":   itv.ID,
		"interview.type": string(itv.Type),
		"provider":       o.completer.Name(),
	})
	reply, err := o.completer.Complete(spanCtx, prompt)
	span.End()
	if err != nil {
		obsmetrics.RecordCompletion(o.completer.Name(), "error")
		return "", fmt.Errorf("%w: complete prompt: %w", ErrUpstream, err)
	}
	obsmetrics.RecordCompletion(o.completer.Name(), "success")
	return reply, nil
}

func messageFromTurn(interviewID string, t session.Turn) interview.Message {
	return interview.Message{
		ID:            t.MessageID,
		InterviewID:   interviewID,
		Content:       t.Content,
		FromAssistant: t.FromAssistant,
		Kind:          interview.MessageKind(t.Kind),
		Code:          t.Code,
		CreatedAt:     time.Now().UTC(),
	}
}
