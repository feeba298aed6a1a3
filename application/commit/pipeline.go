// Package commit turns an approved draft into persisted platform artifacts
// and keeps the shared query cache consistent with what was written.
package commit

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

// Cache resource names, shared with the list endpoints
const (
	ResourceFlashcards = "flashcards"
	ResourceMindmaps   = "mindmaps"
	ResourceQuizzes    = "quizzes"
)

// Result reports what a successful commit persisted
type Result struct {
	Kind      drafts.DraftKind `json:"kind"`
	Artifacts []ports.Artifact `json:"artifacts"`
	CacheKey  ports.CacheKey   `json:"-"`
}

// Pipeline persists approved drafts. The cache is only touched after the
// platform confirms the write; a failed commit leaves both the draft and the
// cache exactly as they were.
type Pipeline struct {
	persistence ports.PersistenceAPI
	cache       ports.QueryCache
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewPipeline creates a commit pipeline
func NewPipeline(persistence ports.PersistenceAPI, cache ports.QueryCache, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		persistence: persistence,
		cache:       cache,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Commit dispatches on the draft kind, persists through the matching
// endpoint and appends the returned artifacts to the cache entry the list
// views read. subjectID is only meaningful for mindmaps and quizzes.
func (p *Pipeline) Commit(ctx context.Context, token string, draft drafts.GeneratedDraft, subjectID string) (Result, error) {
	switch draft.Kind {
	case drafts.KindFlashcards:
		return p.commitFlashcards(ctx, token, draft.Flashcards)
	case drafts.KindMindmap:
		return p.commitMindmap(ctx, token, draft.Mindmap, subjectID)
	case drafts.KindQuiz:
		return p.commitQuiz(ctx, token, draft.Quiz, subjectID)
	default:
		return Result{}, pkgerrors.NewValidationError("cannot commit draft of unknown kind: " + string(draft.Kind))
	}
}

func (p *Pipeline) commitFlashcards(ctx context.Context, token string, items []drafts.FlashcardItem) (Result, error) {
	if len(items) == 0 {
		return Result{}, pkgerrors.NewValidationError("cannot commit an empty flashcard draft")
	}

	reqs := make([]ports.CreateFlashcardRequest, 0, len(items))
	for _, item := range items {
		req := ports.CreateFlashcardRequest{
			Title:      item.Title,
			Front:      item.Front,
			Back:       item.Back,
			GroupID:    item.GroupID,
			Difficulty: item.Difficulty,
		}
		if err := p.validate.Struct(req); err != nil {
			return Result{}, pkgerrors.NewValidationError("flashcard failed validation: " + err.Error())
		}
		reqs = append(reqs, req)
	}

	created, err := p.persistence.CreateFlashcardsBulk(ctx, token, reqs)
	if err != nil {
		return Result{}, pkgerrors.NewCommitFailedError("persisting flashcards", err)
	}

	key := ports.CacheKey{Resource: ResourceFlashcards, GroupID: reqs[0].GroupID}
	artifacts := make([]ports.Artifact, len(created))
	for i, c := range created {
		artifacts[i] = c
	}
	p.cache.Append(ctx, key, artifacts...)

	p.logger.Info("flashcards committed",
		zap.Int("count", len(created)),
		zap.String("group_id", key.GroupID),
	)
	return Result{Kind: drafts.KindFlashcards, Artifacts: artifacts, CacheKey: key}, nil
}

func (p *Pipeline) commitMindmap(ctx context.Context, token string, m *drafts.MindmapDraft, subjectID string) (Result, error) {
	if m == nil {
		return Result{}, pkgerrors.NewValidationError("mindmap draft is empty")
	}

	req := ports.CreateMindmapRequest{
		Title:       m.Title,
		Description: m.Description,
		SubjectID:   subjectID,
		GroupID:     m.GroupID,
		Data:        m.Graph,
		Difficulty:  m.Difficulty,
	}
	if err := p.validate.Struct(req); err != nil {
		return Result{}, pkgerrors.NewValidationError("mindmap failed validation: " + err.Error())
	}

	created, err := p.persistence.CreateMindmap(ctx, token, req)
	if err != nil {
		return Result{}, pkgerrors.NewCommitFailedError("persisting mindmap", err)
	}

	key := ports.CacheKey{Resource: ResourceMindmaps, GroupID: m.GroupID, SubjectID: subjectID}
	p.cache.Append(ctx, key, created)

	p.logger.Info("mindmap committed",
		zap.String("mindmap_id", created.ID),
		zap.String("group_id", key.GroupID),
		zap.String("subject_id", key.SubjectID),
	)
	return Result{Kind: drafts.KindMindmap, Artifacts: []ports.Artifact{created}, CacheKey: key}, nil
}

func (p *Pipeline) commitQuiz(ctx context.Context, token string, q *drafts.QuizDraft, subjectID string) (Result, error) {
	if q == nil {
		return Result{}, pkgerrors.NewValidationError("quiz draft is empty")
	}

	req := ports.CreateQuizRequest{
		Title:       q.Title,
		Description: q.Description,
		GroupID:     q.GroupID,
		Difficulty:  q.Difficulty,
		Questions:   q.Questions,
	}
	if err := p.validate.Struct(req); err != nil {
		return Result{}, pkgerrors.NewValidationError("quiz failed validation: " + err.Error())
	}

	created, err := p.persistence.CreateQuiz(ctx, token, req)
	if err != nil {
		return Result{}, pkgerrors.NewCommitFailedError("persisting quiz", err)
	}

	key := ports.CacheKey{Resource: ResourceQuizzes, GroupID: q.GroupID, SubjectID: subjectID}
	p.cache.Append(ctx, key, created)

	p.logger.Info("quiz committed",
		zap.String("quiz_id", created.ID),
		zap.Int("questions", len(created.Questions)),
		zap.String("group_id", key.GroupID),
	)
	return Result{Kind: drafts.KindQuiz, Artifacts: []ports.Artifact{created}, CacheKey: key}, nil
}
