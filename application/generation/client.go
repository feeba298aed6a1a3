// Package generation orchestrates "upload source document, request
// generation, normalize the response" as one unit of work feeding the review
// pipeline.
package generation

import (
	"context"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

// SourceDocument is the transient handle to a user-selected file. It is
// consumed exactly once by Upload and never persisted by this subsystem.
type SourceDocument struct {
	Name    string
	Size    int64
	Content io.Reader
}

// generationScoreBump is awarded after every successful generation
const generationScoreBump = 20

// Client uploads source documents and turns generation responses into
// drafts. At most one generation call may be in flight per client; a client
// belongs to exactly one review session.
type Client struct {
	storage     ports.StorageClient
	api         ports.GenerationAPI
	persistence ports.PersistenceAPI
	logger      *zap.Logger
	inFlight    atomic.Bool
}

// NewClient creates a generation client
func NewClient(
	storage ports.StorageClient,
	api ports.GenerationAPI,
	persistence ports.PersistenceAPI,
	logger *zap.Logger,
) *Client {
	return &Client{
		storage:     storage,
		api:         api,
		persistence: persistence,
		logger:      logger,
	}
}

// Upload sends the source document to object storage and returns the public
// retrieval URL the generation endpoints download from. Storage failures
// surface as UploadFailed with the document name attached; the caller keeps
// its file reference so the step can be retried.
func (c *Client) Upload(ctx context.Context, userID string, doc SourceDocument) (string, error) {
	if doc.Content == nil || doc.Name == "" {
		return "", pkgerrors.NewValidationError("source document requires a name and content")
	}

	url, err := c.storage.UploadFile(ctx, userID, doc.Name, doc.Content)
	if err != nil {
		return "", pkgerrors.NewUploadFailedError("uploading source document", err).
			WithDetails(map[string]interface{}{"file": doc.Name, "size": doc.Size})
	}

	c.logger.Info("source document uploaded",
		zap.String("file", doc.Name),
		zap.Int64("size", doc.Size),
	)
	return url, nil
}

// Generate calls the kind-specific generation endpoint and normalizes the
// response into a draft, stamping every produced item with targetGroupID so
// commit needs no extra context. A second call while one is pending is
// rejected; re-invoking after a failure starts a clean, independent attempt.
func (c *Client) Generate(
	ctx context.Context,
	token string,
	kind drafts.DraftKind,
	fileDownloadURL string,
	customPrompt string,
	targetGroupID string,
) (drafts.GeneratedDraft, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return drafts.GeneratedDraft{}, pkgerrors.NewConflictError("a generation request is already in flight for this session")
	}
	defer c.inFlight.Store(false)

	req := ports.GenerationRequest{
		FileDownloadURL: fileDownloadURL,
		CustomPrompt:    customPrompt,
	}

	var draft drafts.GeneratedDraft
	switch kind {
	case drafts.KindFlashcards:
		items, err := c.api.GenerateFlashcards(ctx, token, req)
		if err != nil {
			return drafts.GeneratedDraft{}, pkgerrors.NewGenerationFailedError("generating flashcards", err)
		}
		for i := range items {
			items[i].GroupID = targetGroupID
		}
		draft = drafts.NewFlashcardsDraft(items)

	case drafts.KindMindmap:
		mindmap, err := c.api.GenerateMindmap(ctx, token, req)
		if err != nil {
			return drafts.GeneratedDraft{}, pkgerrors.NewGenerationFailedError("generating mindmap", err)
		}
		mindmap.GroupID = targetGroupID
		draft = drafts.NewMindmapDraft(mindmap)

	case drafts.KindQuiz:
		quiz, err := c.api.GenerateQuiz(ctx, token, req)
		if err != nil {
			return drafts.GeneratedDraft{}, pkgerrors.NewGenerationFailedError("generating quiz", err)
		}
		quiz.GroupID = targetGroupID
		draft = drafts.NewQuizDraft(quiz)

	default:
		return drafts.GeneratedDraft{}, pkgerrors.NewValidationError("unknown draft kind: " + string(kind))
	}

	// Generation cost is real work for the user; bump their score. The bump
	// is best-effort and never fails the workflow.
	if err := c.persistence.UpdateScore(ctx, token, generationScoreBump); err != nil {
		c.logger.Warn("score update after generation failed", zap.Error(err))
	}

	c.logger.Info("draft generated",
		zap.String("kind", string(kind)),
		zap.Int("items", draft.ItemCount()),
		zap.String("group_id", targetGroupID),
	)
	return draft, nil
}
