package orchestration

import (
	"strings"

	"github.com/intervue-dev/intervue/internal/interview"
	"github.com/intervue-dev/intervue/internal/session"
)

// PromptBuilder turns the accumulated session context into a single
// completion input. One implementation exists per interview archetype; they
// differ only in which context they fold into the prompt.
type PromptBuilder interface {
	// BuildPrompt renders the next-turn prompt from the current history.
	BuildPrompt(itv *interview.Interview, sc *session.Context) string
}

// builderFor selects the archetype for an interview type. Unknown types fall
// back to the general archetype.
func builderFor(t interview.Type) PromptBuilder {
	switch t {
	case interview.TypeCodeReview:
		return codeReviewBuilder{}
	case interview.TypeLiveCoding:
		return liveCodingBuilder{}
	default:
		return generalBuilder{}
	}
}

// generalBuilder folds transcript, resume, and job description into the
// prompt.
type generalBuilder struct{}

func (generalBuilder) BuildPrompt(itv *interview.Interview, sc *session.Context) string {
	var b strings.Builder
	b.WriteString("You are a professional interviewer conducting a mock interview for the position of ")
	b.WriteString(itv.JobTitle)
	b.WriteString(".\n\nJob description:\n")
	b.WriteString(itv.JobDescription)
	b.WriteString("\n\nCandidate resume:\n")
	b.WriteString(sc.ResumeText)
	writeTranscript(&b, sc.History)
	writeTurnInstruction(&b, sc.History)
	return b.String()
}

// codeReviewBuilder folds transcript, job description, the candidate's code
// snippet, and the task statement into the prompt.
type codeReviewBuilder struct{}

func (codeReviewBuilder) BuildPrompt(itv *interview.Interview, sc *session.Context) string {
	var b strings.Builder
	b.WriteString("You are a professional interviewer running a code-review interview for the position of ")
	b.WriteString(itv.JobTitle)
	b.WriteString(".\n\nJob description:\n")
	b.WriteString(itv.JobDescription)
	if sc.QuestionBody != "" {
		b.WriteString("\n\nTask statement:\n")
		b.WriteString(sc.QuestionBody)
	}
	if sc.Code != "" {
		b.WriteString("\n\nCandidate's current code:\n")
		b.WriteString(sc.Code)
	}
	writeTranscript(&b, sc.History)
	writeTurnInstruction(&b, sc.History)
	return b.String()
}

// liveCodingBuilder folds transcript and the task statement into the prompt.
type liveCodingBuilder struct{}

func (liveCodingBuilder) BuildPrompt(itv *interview.Interview, sc *session.Context) string {
	var b strings.Builder
	b.WriteString("You are a professional interviewer running a live-coding interview.\n")
	if sc.QuestionBody != "" {
		b.WriteString("\nTask statement:\n")
		b.WriteString(sc.QuestionBody)
	}
	if sc.Code != "" {
		b.WriteString("\n\nCandidate's current code:\n")
		b.WriteString(sc.Code)
	}
	writeTranscript(&b, sc.History)
	writeTurnInstruction(&b, sc.History)
	return b.String()
}

// summaryPrompt renders the finalization prompt from the full history, job
// description, and resume, asking for a structured two-field verdict.
func summaryPrompt(itv *interview.Interview, sc *session.Context) string {
	var b strings.Builder
	b.WriteString("The following mock interview for the position of ")
	b.WriteString(itv.JobTitle)
	b.WriteString(" has ended.\n\nJob description:\n")
	b.WriteString(itv.JobDescription)
	b.WriteString("\n\nCandidate resume:\n")
	b.WriteString(sc.ResumeText)
	writeTranscript(&b, sc.History)
	b.WriteString("\n\nSummarize the candidate's performance. Respond with a JSON object ")
	b.WriteString(`with exactly two string fields: "strengths" and "weaknesses".`)
	return b.String()
}

func writeTranscript(b *strings.Builder, history []session.Turn) {
	if len(history) == 0 {
		return
	}
	b.WriteString("\n\nTranscript so far:\n")
	for _, turn := range history {
		if turn.FromAssistant {
			b.WriteString("Interviewer: ")
		} else {
			b.WriteString("Candidate: ")
		}
		b.WriteString(turn.Content)
		b.WriteString("\n")
		if turn.Code != "" && !turn.FromAssistant {
			b.WriteString("Candidate's code:\n")
			b.WriteString(turn.Code)
			b.WriteString("\n")
		}
	}
}

func writeTurnInstruction(b *strings.Builder, history []session.Turn) {
	if len(history) == 0 {
		b.WriteString("\n\nOpen the interview with your first question.")
		return
	}
	b.WriteString("\nContinue the interview, responding to the candidate's most recent message first.")
}
