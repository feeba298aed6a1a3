// Package ports defines the interfaces the application layer consumes.
// Implementations live in infrastructure; the review pipeline only ever sees
// these contracts.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
)

// StoredFile describes one object in a user's storage folder
type StoredFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StorageClient is the object-storage collaborator. Uploads land in a
// per-user folder and resolve to a public retrieval URL the generation
// endpoints can download from.
type StorageClient interface {
	UploadFile(ctx context.Context, userID, filename string, data io.Reader) (string, error)
	ListFiles(ctx context.Context, userID string) ([]StoredFile, error)
	DeleteFile(ctx context.Context, userID, filename string) error
}

// GenerationRequest is the body sent to the generation endpoints
type GenerationRequest struct {
	FileDownloadURL string `json:"fileDownloadUrl"`
	CustomPrompt    string `json:"customPrompt,omitempty"`
}

// GenerationAPI covers the remote model endpoints, one per artifact kind.
// The caller's bearer token is passed through unchanged.
type GenerationAPI interface {
	GenerateFlashcards(ctx context.Context, token string, req GenerationRequest) ([]drafts.FlashcardItem, error)
	GenerateMindmap(ctx context.Context, token string, req GenerationRequest) (drafts.MindmapDraft, error)
	GenerateQuiz(ctx context.Context, token string, req GenerationRequest) (drafts.QuizDraft, error)
}

// PersistenceAPI covers the commit endpoints and the score bump that follows
// a successful generation.
type PersistenceAPI interface {
	CreateFlashcardsBulk(ctx context.Context, token string, reqs []CreateFlashcardRequest) ([]PersistedFlashcard, error)
	CreateMindmap(ctx context.Context, token string, req CreateMindmapRequest) (PersistedMindmap, error)
	CreateQuiz(ctx context.Context, token string, req CreateQuizRequest) (PersistedQuiz, error)
	UpdateScore(ctx context.Context, token string, delta int) error
}

// CacheKey identifies one cached list of persisted artifacts
type CacheKey struct {
	Resource  string
	GroupID   string
	SubjectID string
}

// QueryCache is the shared cache the list views read. Only the commit
// pipeline's success path may append to it; writes to the same key are
// serialized by the implementation.
type QueryCache interface {
	Get(ctx context.Context, key CacheKey) ([]Artifact, bool)
	Set(ctx context.Context, key CacheKey, items []Artifact)
	Append(ctx context.Context, key CacheKey, items ...Artifact)
	Invalidate(ctx context.Context, key CacheKey)
}
