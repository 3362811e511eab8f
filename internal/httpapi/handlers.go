package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/intervue-dev/intervue/internal/orchestration"
	"github.com/intervue-dev/intervue/internal/session"
	obsmetrics "github.com/intervue-dev/intervue/pkg/observability"
)

// maxAudioBytes caps uploaded audio at 25MB, the transcription API's own
// limit.
const maxAudioBytes = 25 << 20

// Handler holds the orchestrator behind the conversation routes.
type Handler struct {
	orch *orchestration.Orchestrator
}

// NewHandler creates a Handler over the orchestrator.
func NewHandler(orch *orchestration.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

type turnRequest struct {
	Text string `json:"text"`
	Code string `json:"code,omitempty"`
	Kind string `json:"kind,omitempty"`
}

type openingTurnResponse struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StartInterview handles POST /v1/interviews/{id}/start.
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := callerID(w, r)
	if !ok {
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/start", "401", time.Since(start))
		return
	}

	turn, err := h.orch.StartInterview(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		status := writeError(w, err)
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/start", status, time.Since(start))
		return
	}

	writeJSON(w, http.StatusOK, openingTurnResponse{
		MessageID: turn.MessageID,
		Content:   turn.Content,
	})
	obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/start", "200", time.Since(start))
}

// ProcessTurn handles POST /v1/interviews/{id}/turns. The body is either
// multipart form data with an "audio" file part (plus optional "code" and
// "kind" fields), or a JSON turnRequest.
func (h *Handler) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := callerID(w, r)
	if !ok {
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/turns", "401", time.Since(start))
		return
	}

	input, cleanup, err := decodeTurnInput(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/turns", "400", time.Since(start))
		return
	}

	result, err := h.orch.ProcessTurn(r.Context(), userID, r.PathValue("id"), input)
	if err != nil {
		status := writeError(w, err)
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/turns", status, time.Since(start))
		return
	}

	writeJSON(w, http.StatusOK, result)
	obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/turns", "200", time.Since(start))
}

// EndInterview handles POST /v1/interviews/{id}/end.
func (h *Handler) EndInterview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := callerID(w, r)
	if !ok {
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/end", "401", time.Since(start))
		return
	}

	feedback, err := h.orch.EndInterview(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		status := writeError(w, err)
		obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/end", status, time.Since(start))
		return
	}

	writeJSON(w, http.StatusOK, feedback)
	obsmetrics.RecordHTTPRequest(r.Method, "/v1/interviews/{id}/end", "200", time.Since(start))
}

// callerID extracts the authenticated user from the X-User-ID header set by
// the auth layer in front of this service. Writes 401 when absent.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return "", false
	}
	return userID, true
}

// decodeTurnInput reads a turn from the request body. When the body is
// multipart, the audio part is spooled to a temp file and the returned cleanup
// removes it after the handler finishes.
func decodeTurnInput(r *http.Request) (orchestration.TurnInput, func(), error) {
	var input orchestration.TurnInput

	mediaType := r.Header.Get("Content-Type")
	if mediaType == "" {
		return input, nil, fmt.Errorf("missing content type")
	}

	if strings.HasPrefix(mediaType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
			return input, nil, fmt.Errorf("parse multipart form: %w", err)
		}

		file, _, err := r.FormFile("audio")
		if err != nil {
			return input, nil, fmt.Errorf("read audio part: %w", err)
		}
		defer file.Close()

		tmp, err := os.CreateTemp("", "intervue-audio-*.webm")
		if err != nil {
			return input, nil, fmt.Errorf("spool audio: %w", err)
		}
		cleanup := func() { _ = os.Remove(tmp.Name()) }

		if _, err := io.Copy(tmp, io.LimitReader(file, maxAudioBytes)); err != nil {
			tmp.Close()
			return input, cleanup, fmt.Errorf("spool audio: %w", err)
		}
		tmp.Close()

		input.AudioPath = tmp.Name()
		input.Code = r.FormValue("code")
		input.Kind = session.TurnKind(r.FormValue("kind"))
		return input, cleanup, nil
	}

	var req turnRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		return input, nil, fmt.Errorf("decode turn: %w", err)
	}
	input.Text = req.Text
	input.Code = req.Code
	input.Kind = session.TurnKind(req.Kind)
	return input, nil, nil
}

// writeError maps the orchestration error taxonomy onto HTTP statuses and
// returns the status as a string for metrics.
func writeError(w http.ResponseWriter, err error) string {
	var status int
	switch {
	case errors.Is(err, orchestration.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, orchestration.ErrNoSession):
		status = http.StatusBadRequest
	case errors.Is(err, orchestration.ErrUpstream):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		log.Printf("httpapi: request failed: %v", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
	return strconv.Itoa(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httpapi: encode response: %v", err)
	}
}
