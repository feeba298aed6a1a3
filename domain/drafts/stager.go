package drafts

import (
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

// DraftStager owns the mutable copy of a generated draft during review.
// Every operation is synchronous and local; the stager never touches the
// network and the shared cache never sees draft state. For mindmaps the graph
// portion lives in a MindmapGraph aggregate and snapshots embed its
// projection.
type DraftStager struct {
	draft GeneratedDraft
	graph *aggregates.MindmapGraph
}

// NewDraftStager copies the draft into a stager. A mindmap draft is rejected
// if its graph snapshot is inconsistent (dangling edges, duplicate ids).
func NewDraftStager(draft GeneratedDraft) (*DraftStager, error) {
	s := &DraftStager{draft: draft.clone()}
	if draft.Kind == KindMindmap && draft.Mindmap != nil {
		graph, err := aggregates.FromSnapshot(draft.Mindmap.Graph)
		if err != nil {
			return nil, err
		}
		s.graph = graph
	}
	return s, nil
}

// Kind returns the draft's discriminator
func (s *DraftStager) Kind() DraftKind {
	return s.draft.Kind
}

// ItemCount returns the number of index-addressable items
func (s *DraftStager) ItemCount() int {
	if s.draft.Kind == KindMindmap && s.graph != nil {
		return s.graph.NodeCount()
	}
	return s.draft.ItemCount()
}

// Graph exposes the live graph aggregate for mindmap drafts, nil otherwise.
// Graph mutations are part of the review session and show up in the next
// snapshot.
func (s *DraftStager) Graph() *aggregates.MindmapGraph {
	return s.graph
}

// ReplaceFlashcard swaps the flashcard at index
func (s *DraftStager) ReplaceFlashcard(index int, item FlashcardItem) error {
	if s.draft.Kind != KindFlashcards {
		return pkgerrors.NewValidationError("draft does not contain flashcards")
	}
	if index < 0 || index >= len(s.draft.Flashcards) {
		return pkgerrors.NewDraftIndexOutOfRangeError(index, len(s.draft.Flashcards))
	}
	s.draft.Flashcards[index] = item
	return nil
}

// ReplaceQuestion swaps the quiz question at index
func (s *DraftStager) ReplaceQuestion(index int, question QuizQuestion) error {
	if s.draft.Kind != KindQuiz || s.draft.Quiz == nil {
		return pkgerrors.NewValidationError("draft does not contain a quiz")
	}
	if index < 0 || index >= len(s.draft.Quiz.Questions) {
		return pkgerrors.NewDraftIndexOutOfRangeError(index, len(s.draft.Quiz.Questions))
	}
	s.draft.Quiz.Questions[index] = question
	return nil
}

// RemoveItem drops the item at index. Flashcard drafts lose a card, quiz
// drafts lose a question; mindmap items are graph nodes and are removed
// through the graph aggregate instead.
func (s *DraftStager) RemoveItem(index int) error {
	switch s.draft.Kind {
	case KindFlashcards:
		if index < 0 || index >= len(s.draft.Flashcards) {
			return pkgerrors.NewDraftIndexOutOfRangeError(index, len(s.draft.Flashcards))
		}
		s.draft.Flashcards = append(s.draft.Flashcards[:index], s.draft.Flashcards[index+1:]...)
		return nil
	case KindQuiz:
		if s.draft.Quiz == nil || index < 0 || index >= len(s.draft.Quiz.Questions) {
			length := 0
			if s.draft.Quiz != nil {
				length = len(s.draft.Quiz.Questions)
			}
			return pkgerrors.NewDraftIndexOutOfRangeError(index, length)
		}
		s.draft.Quiz.Questions = append(s.draft.Quiz.Questions[:index], s.draft.Quiz.Questions[index+1:]...)
		return nil
	default:
		return pkgerrors.NewValidationError("mindmap items are removed through graph operations")
	}
}

// RemoveWhere drops every flashcard matching the predicate and returns how
// many were removed.
func (s *DraftStager) RemoveWhere(match func(FlashcardItem) bool) int {
	if s.draft.Kind != KindFlashcards {
		return 0
	}
	kept := s.draft.Flashcards[:0]
	removed := 0
	for _, item := range s.draft.Flashcards {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.draft.Flashcards = kept
	return removed
}

// SetMindmapMeta fills in the reviewer-supplied title, description and
// difficulty before commit.
func (s *DraftStager) SetMindmapMeta(title, description string, difficulty Difficulty) error {
	if s.draft.Kind != KindMindmap || s.draft.Mindmap == nil {
		return pkgerrors.NewValidationError("draft does not contain a mindmap")
	}
	s.draft.Mindmap.Title = title
	s.draft.Mindmap.Description = description
	s.draft.Mindmap.Difficulty = difficulty
	return nil
}

// Snapshot returns a deep copy of the current draft state. For mindmaps the
// graph portion is the aggregate's current projection.
func (s *DraftStager) Snapshot() GeneratedDraft {
	out := s.draft.clone()
	if out.Kind == KindMindmap && out.Mindmap != nil && s.graph != nil {
		out.Mindmap.Graph = s.graph.Snapshot()
	}
	return out
}
