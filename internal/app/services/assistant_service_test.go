package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/config"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

func newAssistantFixture(t *testing.T, handler http.HandlerFunc) (AssistantService, *httptest.Server, int64) {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	membership := newFakeMembershipStore()
	classrooms := newFakeClassroomStore(membership)
	usernames := newFakeUsernameStore()
	files := newFakeFileStore()
	notes := newFakeNoteStore(files)
	blobs := newFakeBlobStorage()
	classroomSvc := NewClassroomService(classrooms, membership, usernames, notes, files, blobs, zerolog.Nop())

	created, err := classroomSvc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Physics"})
	require.NoError(t, err)
	require.NoError(t, classroomSvc.Join(context.Background(), created.ID, 2))

	cfg := config.AssistantConfig{
		BaseURL:  upstream.URL,
		APIKey:   "test-key",
		Model:    "meta-llama/llama-3.3-70b-instruct:free",
		SiteURL:  "http://localhost:5173",
		SiteName: "EduCollab",
	}
	return NewAssistantService(classrooms, cfg, zerolog.Nop()), upstream, created.ID
}

func completionBody(reply string) string {
	return `{"choices":[{"message":{"role":"assistant","content":"` + reply + `"}}]}`
}

func askRequest() *dto.AssistantRequest {
	return &dto.AssistantRequest{
		Messages: []dto.AssistantMessage{{Role: "user", Content: "Explain Newton's second law"}},
	}
}

func TestAssistantAsk(t *testing.T) {
	var gotPath, gotAuth, gotReferer, gotTitle string
	var gotBody chatCompletionRequest

	svc, _, classroomID := newAssistantFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("F = ma")))
	})

	resp, err := svc.Ask(context.Background(), classroomID, 2, askRequest())
	require.NoError(t, err)
	assert.Equal(t, "F = ma", resp.Reply)
	assert.Equal(t, "meta-llama/llama-3.3-70b-instruct:free", resp.Model)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "http://localhost:5173", gotReferer)
	assert.Equal(t, "EduCollab", gotTitle)
	assert.Equal(t, "meta-llama/llama-3.3-70b-instruct:free", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "Explain Newton's second law", gotBody.Messages[0].Content)
}

func TestAssistantAskModelOverride(t *testing.T) {
	var gotBody chatCompletionRequest
	svc, _, classroomID := newAssistantFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(completionBody("ok")))
	})

	req := askRequest()
	req.Model = "openai/gpt-4o-mini"
	resp, err := svc.Ask(context.Background(), classroomID, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", resp.Model)
	assert.Equal(t, "openai/gpt-4o-mini", gotBody.Model)
}

func TestAssistantAskGates(t *testing.T) {
	svc, _, classroomID := newAssistantFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("ok")))
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		_, err := svc.Ask(context.Background(), classroomID, 99, askRequest())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("missing classroom", func(t *testing.T) {
		_, err := svc.Ask(context.Background(), 42, 1, askRequest())
		assert.ErrorIs(t, err, apperrors.ErrClassroomNotFound)
	})

	t.Run("empty messages", func(t *testing.T) {
		_, err := svc.Ask(context.Background(), classroomID, 1, &dto.AssistantRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestAssistantAskUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "upstream 429",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, classroomID := newAssistantFixture(t, tt.handler)
			_, err := svc.Ask(context.Background(), classroomID, 1, askRequest())
			assert.ErrorIs(t, err, apperrors.ErrUpstream)
		})
	}
}

func TestAssistantAskUnreachableUpstream(t *testing.T) {
	svc, upstream, classroomID := newAssistantFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	upstream.Close()

	_, err := svc.Ask(context.Background(), classroomID, 1, askRequest())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestAssistantAskMissingAPIKey(t *testing.T) {
	membership := newFakeMembershipStore()
	classrooms := newFakeClassroomStore(membership)
	usernames := newFakeUsernameStore()
	files := newFakeFileStore()
	notes := newFakeNoteStore(files)
	blobs := newFakeBlobStorage()
	classroomSvc := NewClassroomService(classrooms, membership, usernames, notes, files, blobs, zerolog.Nop())

	created, err := classroomSvc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Physics"})
	require.NoError(t, err)

	svc := NewAssistantService(classrooms, config.AssistantConfig{BaseURL: "http://localhost:1"}, zerolog.Nop())
	_, err = svc.Ask(context.Background(), created.ID, 1, askRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUpstream)
	assert.NotErrorIs(t, err, apperrors.ErrValidationFailed)
}
