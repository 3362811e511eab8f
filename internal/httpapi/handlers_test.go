package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervue-dev/intervue/internal/interview"
	"github.com/intervue-dev/intervue/internal/llm/provider"
	"github.com/intervue-dev/intervue/internal/orchestration"
	"github.com/intervue-dev/intervue/internal/resume"
	"github.com/intervue-dev/intervue/internal/session"
	"github.com/intervue-dev/intervue/internal/transcribe"
)

func newTestServer(t *testing.T) (*httptest.Server, *interview.MemoryStore, *provider.MockCompleter, *session.Cache) {
	t.Helper()

	store := interview.NewMemoryStore()
	store.Put(&interview.Interview{
		ID:             "7",
		OwnerID:        "user-1",
		Type:           interview.TypeGeneral,
		JobTitle:       "Backend Engineer",
		JobDescription: "Build Go services.",
	})

	cache := session.NewCache()
	completer := provider.NewMockCompleter("Tell me about yourself.")
	orch := orchestration.New(
		store,
		cache,
		completer,
		&transcribe.Mock{Transcript: "spoken answer"},
		&resume.Static{Text: "resume text"},
	)

	mux := http.NewServeMux()
	h := NewHandler(orch)
	mux.HandleFunc("POST /v1/interviews/{id}/start", h.StartInterview)
	mux.HandleFunc("POST /v1/interviews/{id}/turns", h.ProcessTurn)
	mux.HandleFunc("POST /v1/interviews/{id}/end", h.EndInterview)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = store.Close() })
	return ts, store, completer, cache
}

func doPost(t *testing.T, url, userID, contentType string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestStartInterviewHandler(t *testing.T) {
	ts, store, _, _ := newTestServer(t)

	resp := doPost(t, ts.URL+"/v1/interviews/7/start", "user-1", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		MessageID string `json:"message_id"`
		Content   string `json:"content"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Tell me about yourself.", out.Content)
	assert.NotEmpty(t, out.MessageID)
	assert.Equal(t, 1, store.MessageCount("7"))
}

func TestProcessTurnHandlerJSON(t *testing.T) {
	ts, _, completer, _ := newTestServer(t)
	completer.Responses = append(completer.Responses, "What stack do you use?")

	doPost(t, ts.URL+"/v1/interviews/7/start", "user-1", "", nil).Body.Close()

	body := []byte(`{"text": "I work on payment systems."}`)
	resp := doPost(t, ts.URL+"/v1/interviews/7/turns", "user-1", "application/json", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out orchestration.TurnResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "I work on payment systems.", out.UserContent)
	assert.Equal(t, "What stack do you use?", out.AssistantContent)
}

func TestProcessTurnHandlerMultipart(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "answer.webm")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake audio bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := doPost(t, ts.URL+"/v1/interviews/7/turns", "user-1", mw.FormDataContentType(), buf.Bytes())
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out orchestration.TurnResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "spoken answer", out.UserContent)
}

func TestEndInterviewHandler(t *testing.T) {
	ts, store, completer, cache := newTestServer(t)
	completer.Responses = append(completer.Responses,
		`{"strengths": "Good depth.", "weaknesses": "Rushed answers."}`)

	doPost(t, ts.URL+"/v1/interviews/7/start", "user-1", "", nil).Body.Close()

	resp := doPost(t, ts.URL+"/v1/interviews/7/end", "user-1", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fb interview.Feedback
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fb))
	assert.Equal(t, "Good depth.", fb.Strengths)
	assert.Equal(t, "Rushed answers.", fb.Weaknesses)

	_, ok := cache.Get("7")
	assert.False(t, ok)

	saved, err := store.GetByOwner(context.Background(), "user-1", "7")
	require.NoError(t, err)
	require.NotNil(t, saved.Feedback)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		path       string
		body       string
		wantStatus int
	}{
		{"missing identity", "", "/v1/interviews/7/start", "", http.StatusUnauthorized},
		{"not owner", "intruder", "/v1/interviews/7/start", "", http.StatusUnauthorized},
		{"unknown interview", "user-1", "/v1/interviews/404/start", "", http.StatusUnauthorized},
		{"end without session", "user-1", "/v1/interviews/7/end", "", http.StatusBadRequest},
		{"malformed turn body", "user-1", "/v1/interviews/7/turns", "{not json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _, _, _ := newTestServer(t)
			resp := doPost(t, ts.URL+tt.path, tt.userID, "application/json", []byte(tt.body))
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	ts, _, completer, _ := newTestServer(t)
	completer.Errors = []error{assert.AnError}

	resp := doPost(t, ts.URL+"/v1/interviews/7/start", "user-1", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.Contains(out.Error, "upstream"))
}
