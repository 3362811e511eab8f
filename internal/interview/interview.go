// Package interview defines the durable domain model for mock interviews:
// the Interview aggregate, its message log, and the feedback summary produced
// at the end of a session.
package interview

import (
	"time"
)

// Type identifies the interview archetype. The archetype decides which
// context is folded into prompts during a conversation.
type Type string

const (
	// TypeGeneral is a plain behavioral/technical interview driven by the
	// candidate's resume and the job description.
	TypeGeneral Type = "general"
	// TypeCodeReview discusses a code snippet the candidate submits.
	TypeCodeReview Type = "code-review"
	// TypeLiveCoding works through a prepared coding question.
	TypeLiveCoding Type = "live-coding"
)

// IsCoding reports whether the archetype involves a coding question.
func (t Type) IsCoding() bool {
	return t == TypeCodeReview || t == TypeLiveCoding
}

// MessageKind distinguishes plain text exchanges from coding exchanges.
type MessageKind string

const (
	KindText   MessageKind = "text"
	KindCoding MessageKind = "coding"
)

// Message is one durable entry in an interview's conversation log.
type Message struct {
	ID            string      `json:"id"`
	InterviewID   string      `json:"interview_id"`
	Content       string      `json:"content"`
	FromAssistant bool        `json:"from_assistant"`
	Kind          MessageKind `json:"kind"`
	Code          string      `json:"code,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Feedback is the structured end-of-interview summary. An interview holds at
// most one Feedback; finalizing again overwrites it.
type Feedback struct {
	Strengths  string    `json:"strengths"`
	Weaknesses string    `json:"weaknesses"`
	CreatedAt  time.Time `json:"created_at"`
}

// CodingQuestion is the prepared task for coding archetypes.
type CodingQuestion struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// Interview is the persistent aggregate. The conversation core only appends
// to Messages, updates LastCode, and replaces Feedback; everything else is
// owned by the CRUD layer.
type Interview struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	Type           Type       `json:"type"`
	JobTitle       string     `json:"job_title"`
	JobDescription string     `json:"job_description"`
	ResumeURL      string     `json:"resume_url"`
	LastCode       string     `json:"last_code,omitempty"`
	Messages       []Message  `json:"messages"`
	Feedback       *Feedback  `json:"feedback,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
