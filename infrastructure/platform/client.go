// Package platform is the HTTP client for the study-platform API: the
// generation endpoints, the commit endpoints and the score update. Calls run
// behind a circuit breaker so a struggling platform sheds load fast instead
// of stacking timeouts.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

// BreakerConfig tunes the circuit breaker wrapping platform calls
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns settings tolerant of slow generation calls
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client implements ports.GenerationAPI and ports.PersistenceAPI against the
// platform's REST surface. The caller's bearer token is forwarded unchanged.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a platform client. timeout bounds a single call;
// generation calls are slow, so size it generously.
func NewClient(baseURL string, timeout time.Duration, breakerCfg BreakerConfig, logger *zap.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "platform-api",
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: cb,
		logger:  logger,
	}
}

// GenerateFlashcards implements ports.GenerationAPI
func (c *Client) GenerateFlashcards(ctx context.Context, token string, req ports.GenerationRequest) ([]drafts.FlashcardItem, error) {
	var items []drafts.FlashcardItem
	if err := c.post(ctx, token, "/flashcards/generate", req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GenerateMindmap implements ports.GenerationAPI
func (c *Client) GenerateMindmap(ctx context.Context, token string, req ports.GenerationRequest) (drafts.MindmapDraft, error) {
	var dto generatedMindmapDTO
	if err := c.post(ctx, token, "/mindmaps/generate", req, &dto); err != nil {
		return drafts.MindmapDraft{}, err
	}
	return dto.toDraft(), nil
}

// GenerateQuiz implements ports.GenerationAPI
func (c *Client) GenerateQuiz(ctx context.Context, token string, req ports.GenerationRequest) (drafts.QuizDraft, error) {
	var quiz drafts.QuizDraft
	if err := c.post(ctx, token, "/quizzes/generate", req, &quiz); err != nil {
		return drafts.QuizDraft{}, err
	}
	return quiz, nil
}

// CreateFlashcardsBulk implements ports.PersistenceAPI. The endpoint is
// all-or-nothing; a non-2xx response means nothing from this batch should be
// assumed persisted and the whole commit is resubmitted on retry.
func (c *Client) CreateFlashcardsBulk(ctx context.Context, token string, reqs []ports.CreateFlashcardRequest) ([]ports.PersistedFlashcard, error) {
	var created []ports.PersistedFlashcard
	if err := c.post(ctx, token, "/flashcards/bulk", reqs, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateMindmap implements ports.PersistenceAPI
func (c *Client) CreateMindmap(ctx context.Context, token string, req ports.CreateMindmapRequest) (ports.PersistedMindmap, error) {
	var created ports.PersistedMindmap
	if err := c.post(ctx, token, "/mindmaps", req, &created); err != nil {
		return ports.PersistedMindmap{}, err
	}
	return created, nil
}

// CreateQuiz implements ports.PersistenceAPI. The platform persists quizzes
// in two calls: the quiz header first, then its questions keyed by the
// created id. A failed second call surfaces as a commit failure; the retry
// resubmits both calls.
func (c *Client) CreateQuiz(ctx context.Context, token string, req ports.CreateQuizRequest) (ports.PersistedQuiz, error) {
	header := createQuizDTO{
		Title:       req.Title,
		Description: req.Description,
		GroupID:     req.GroupID,
		Difficulty:  req.Difficulty,
	}
	var created ports.PersistedQuiz
	if err := c.post(ctx, token, "/quizzes", header, &created); err != nil {
		return ports.PersistedQuiz{}, err
	}
	if err := c.post(ctx, token, "/quizzes/"+created.ID+"/questions", req.Questions, nil); err != nil {
		return ports.PersistedQuiz{}, err
	}
	created.Questions = req.Questions
	return created, nil
}

// UpdateScore implements ports.PersistenceAPI
func (c *Client) UpdateScore(ctx context.Context, token string, delta int) error {
	return c.post(ctx, token, "/users/score", scoreUpdateDTO{Delta: delta}, nil)
}

// post sends one JSON request through the breaker and decodes the response
// into out when out is non-nil.
func (c *Client) post(ctx context.Context, token, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.NewInternalError("encoding request for "+path, err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("platform returned %d for %s: %s", resp.StatusCode, path, truncate(data, 256))
		}
		return data, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return pkgerrors.NewExternalError("platform temporarily unavailable", err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	data := result.([]byte)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return pkgerrors.NewInternalError("decoding response from "+path, err)
	}
	return nil
}

func truncate(data []byte, max int) string {
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
