// Package session holds the ephemeral, per-interview working state for
// in-progress conversations, and the process-wide cache that owns it.
package session

import (
	"github.com/intervue-dev/intervue/internal/interview"
)

// TurnKind distinguishes plain text turns from coding turns.
type TurnKind string

const (
	TurnText   TurnKind = "text"
	TurnCoding TurnKind = "coding"
)

// Turn is one exchange unit in a conversation, authored by either the
// candidate or the assistant. It mirrors a durable interview.Message.
type Turn struct {
	Content       string
	FromAssistant bool
	Kind          TurnKind
	Code          string
	MessageID     string
}

// Context is the ephemeral working state of one in-progress interview. It is
// derived state: reconstructible from the durable message log plus the resume
// and question loaders, and never persisted itself.
//
// History mutation is not synchronized beyond the cache's key-level atomicity.
// Two overlapping turns on the same interview may interleave their appends;
// callers accept that (duplicate submits and multi-tab use are rare).
type Context struct {
	// ResumeText is loaded once per cache lifetime and immutable thereafter.
	ResumeText string
	// QuestionBody is set once for coding archetypes.
	QuestionBody string
	// Code is the most recent code snippet submitted, if any.
	Code string
	// History mirrors the durable message log, append-only during a session.
	History []Turn
}

// Append adds a turn to the history.
func (c *Context) Append(t Turn) {
	c.History = append(c.History, t)
}

// FromMessages rebuilds a history from a durable message log, so a restarted
// or previously ended session can be resumed.
func FromMessages(msgs []interview.Message) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, Turn{
			Content:       m.Content,
			FromAssistant: m.FromAssistant,
			Kind:          TurnKind(m.Kind),
			Code:          m.Code,
			MessageID:     m.ID,
		})
	}
	return turns
}
