package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, DefaultBreakerConfig(), zap.NewNop())
}

func TestClient_GenerateFlashcards(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"Card","front":"Q","back":"A","materialSubGroupId":"","difficulty":1}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	items, err := client.GenerateFlashcards(context.Background(), "user-token", ports.GenerationRequest{
		FileDownloadURL: "https://cdn.example.com/f.pdf",
		CustomPrompt:    "chapter 2",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", gotAuth)
	assert.Equal(t, "/flashcards/generate", gotPath)
	require.Len(t, items, 1)
	assert.Equal(t, "Card", items[0].Title)
}

func TestClient_GenerateMindmap_GraphArrivesUnderData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Biology",
			"description": "cells",
			"data": {
				"nodes": [{"id":"n1","data":{"label":"Cell"},"position":{"x":0,"y":0}}],
				"edges": []
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	draft, err := client.GenerateMindmap(context.Background(), "token", ports.GenerationRequest{FileDownloadURL: "u"})

	require.NoError(t, err)
	assert.Equal(t, "Biology", draft.Title)
	require.Len(t, draft.Graph.Nodes, 1)
	assert.Equal(t, "Cell", draft.Graph.Nodes[0].Data.Label)
}

func TestClient_Non2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateQuiz(context.Background(), "token", ports.GenerationRequest{FileDownloadURL: "u"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 3
	cfg.FailureThreshold = 0.5
	client := NewClient(server.URL, time.Second, cfg, zap.NewNop())

	for i := 0; i < 5; i++ {
		client.UpdateScore(context.Background(), "token", 20)
	}

	err := client.UpdateScore(context.Background(), "token", 20)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
}

func TestClient_UpdateScoreSendsDelta(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		body = string(buf)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.UpdateScore(context.Background(), "token", 20)

	require.NoError(t, err)
	assert.JSONEq(t, `{"delta":20}`, body)
}

func TestClient_CreateFlashcardsBulk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flashcards/bulk", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"fc-1","title":"Card","materialSubGroupId":"group-7"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	created, err := client.CreateFlashcardsBulk(context.Background(), "token", []ports.CreateFlashcardRequest{
		{Title: "Card", Front: "Q", Back: "A", GroupID: "group-7"},
	})

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "fc-1", created[0].ID)
	assert.Equal(t, "group-7", created[0].GroupID)
}

func TestClient_CreateQuizPersistsInTwoCalls(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/quizzes":
			w.Write([]byte(`{"id":"quiz-9","title":"Chapter quiz","materialSubGroupId":"group-7"}`))
		default:
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	created, err := client.CreateQuiz(context.Background(), "token", ports.CreateQuizRequest{
		Title:   "Chapter quiz",
		GroupID: "group-7",
		Questions: []drafts.QuizQuestion{
			{Description: "Q1", Answers: []drafts.QuizAnswer{{Description: "yes", IsCorrect: true}}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"/quizzes", "/quizzes/quiz-9/questions"}, paths)
	assert.Equal(t, "quiz-9", created.ID)
	require.Len(t, created.Questions, 1)
}

func TestClient_CreateQuizFailsWhenQuestionsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quizzes" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"quiz-9"}`))
			return
		}
		http.Error(w, "bad questions", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateQuiz(context.Background(), "token", ports.CreateQuizRequest{
		Title:     "Chapter quiz",
		GroupID:   "group-7",
		Questions: []drafts.QuizQuestion{{Description: "Q1"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
