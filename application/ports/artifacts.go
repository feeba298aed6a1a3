package ports

import (
	"time"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
)

// Artifact is anything the platform has persisted and handed back with a
// server-assigned id. Cache entries hold artifacts.
type Artifact interface {
	ArtifactID() string
	ArtifactKind() drafts.DraftKind
}

// PersistedFlashcard is a flashcard as returned by the bulk-create endpoint
type PersistedFlashcard struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Front      string            `json:"front"`
	Back       string            `json:"back"`
	GroupID    string            `json:"materialSubGroupId"`
	UserID     string            `json:"userId"`
	Difficulty drafts.Difficulty `json:"difficulty"`
}

// ArtifactID implements Artifact
func (f PersistedFlashcard) ArtifactID() string { return f.ID }

// ArtifactKind implements Artifact
func (f PersistedFlashcard) ArtifactKind() drafts.DraftKind { return drafts.KindFlashcards }

// PersistedMindmap is a mindmap as returned by the create endpoint
type PersistedMindmap struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	SubjectID   string                   `json:"subjectId"`
	GroupID     string                   `json:"materialSubGroupId"`
	UserID      string                   `json:"userId"`
	Data        aggregates.GraphSnapshot `json:"data"`
	Difficulty  drafts.Difficulty        `json:"difficulty"`
	DateCreated time.Time                `json:"dateCreated"`
}

// ArtifactID implements Artifact
func (m PersistedMindmap) ArtifactID() string { return m.ID }

// ArtifactKind implements Artifact
func (m PersistedMindmap) ArtifactKind() drafts.DraftKind { return drafts.KindMindmap }

// PersistedQuiz is a quiz as returned after question attachment
type PersistedQuiz struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	GroupID     string                `json:"materialSubGroupId"`
	UserID      string                `json:"userId"`
	Difficulty  drafts.Difficulty     `json:"difficulty"`
	Questions   []drafts.QuizQuestion `json:"questions"`
}

// ArtifactID implements Artifact
func (q PersistedQuiz) ArtifactID() string { return q.ID }

// ArtifactKind implements Artifact
func (q PersistedQuiz) ArtifactKind() drafts.DraftKind { return drafts.KindQuiz }

// CreateFlashcardRequest is one element of the bulk-create body
type CreateFlashcardRequest struct {
	Title      string            `json:"title" validate:"required"`
	Front      string            `json:"front" validate:"required"`
	Back       string            `json:"back" validate:"required"`
	GroupID    string            `json:"materialSubGroupId" validate:"required"`
	Difficulty drafts.Difficulty `json:"difficulty" validate:"min=0,max=2"`
}

// CreateMindmapRequest is the create body for an approved mindmap draft
type CreateMindmapRequest struct {
	Title       string                   `json:"title" validate:"required"`
	Description string                   `json:"description"`
	SubjectID   string                   `json:"subjectId" validate:"required"`
	GroupID     string                   `json:"materialSubGroupId" validate:"required"`
	Data        aggregates.GraphSnapshot `json:"data"`
	Difficulty  drafts.Difficulty        `json:"difficulty" validate:"min=0,max=2"`
}

// CreateQuizRequest is the create body for an approved quiz draft; questions
// are attached in a second call keyed by the created quiz id.
type CreateQuizRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	GroupID     string                `json:"materialSubGroupId" validate:"required"`
	Difficulty  drafts.Difficulty     `json:"difficulty" validate:"min=0,max=2"`
	Questions   []drafts.QuizQuestion `json:"questions" validate:"min=1,dive"`
}
