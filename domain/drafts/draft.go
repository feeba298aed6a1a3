package drafts

import (
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
)

// Difficulty mirrors the platform's numeric difficulty enum
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// DraftKind discriminates the payload of a GeneratedDraft
type DraftKind string

const (
	KindFlashcards DraftKind = "flashcards"
	KindMindmap    DraftKind = "mindmap"
	KindQuiz       DraftKind = "quiz"
)

// FlashcardItem is one generated flashcard awaiting review. Items are
// addressed by their index in the draft until commit assigns server ids.
type FlashcardItem struct {
	Title      string     `json:"title"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	GroupID    string     `json:"materialSubGroupId"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuizAnswer is one candidate answer of a quiz question
type QuizAnswer struct {
	Description string `json:"description"`
	IsCorrect   bool   `json:"isCorrect"`
}

// QuizQuestion is one generated quiz question
type QuizQuestion struct {
	Description string       `json:"description"`
	Answers     []QuizAnswer `json:"answers"`
}

// QuizDraft is a generated quiz awaiting review
type QuizDraft struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	GroupID     string         `json:"materialSubGroupId"`
	Difficulty  Difficulty     `json:"difficulty"`
	Questions   []QuizQuestion `json:"questions"`
}

// MindmapDraft is a generated mindmap awaiting review
type MindmapDraft struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	GroupID     string                   `json:"materialSubGroupId"`
	Difficulty  Difficulty               `json:"difficulty"`
	Graph       aggregates.GraphSnapshot `json:"graph"`
}

// GeneratedDraft is the tagged union over the three generated payload shapes.
// Exactly one payload field matching Kind is set.
type GeneratedDraft struct {
	Kind       DraftKind       `json:"kind"`
	Flashcards []FlashcardItem `json:"flashcards,omitempty"`
	Mindmap    *MindmapDraft   `json:"mindmap,omitempty"`
	Quiz       *QuizDraft      `json:"quiz,omitempty"`
}

// NewFlashcardsDraft wraps generated flashcards in a draft
func NewFlashcardsDraft(items []FlashcardItem) GeneratedDraft {
	return GeneratedDraft{Kind: KindFlashcards, Flashcards: items}
}

// NewMindmapDraft wraps a generated mindmap in a draft
func NewMindmapDraft(m MindmapDraft) GeneratedDraft {
	return GeneratedDraft{Kind: KindMindmap, Mindmap: &m}
}

// NewQuizDraft wraps a generated quiz in a draft
func NewQuizDraft(q QuizDraft) GeneratedDraft {
	return GeneratedDraft{Kind: KindQuiz, Quiz: &q}
}

// ItemCount returns the number of index-addressable items in the draft.
// For a mindmap that is the node count; edits there go through the graph.
func (d GeneratedDraft) ItemCount() int {
	switch d.Kind {
	case KindFlashcards:
		return len(d.Flashcards)
	case KindQuiz:
		if d.Quiz == nil {
			return 0
		}
		return len(d.Quiz.Questions)
	case KindMindmap:
		if d.Mindmap == nil {
			return 0
		}
		return len(d.Mindmap.Graph.Nodes)
	}
	return 0
}

// clone returns a deep copy so stager mutations never leak into snapshots
// handed to callers.
func (d GeneratedDraft) clone() GeneratedDraft {
	out := GeneratedDraft{Kind: d.Kind}
	if d.Flashcards != nil {
		out.Flashcards = make([]FlashcardItem, len(d.Flashcards))
		copy(out.Flashcards, d.Flashcards)
	}
	if d.Mindmap != nil {
		m := *d.Mindmap
		m.Graph = cloneSnapshot(d.Mindmap.Graph)
		out.Mindmap = &m
	}
	if d.Quiz != nil {
		q := *d.Quiz
		q.Questions = make([]QuizQuestion, len(d.Quiz.Questions))
		for i, question := range d.Quiz.Questions {
			answers := make([]QuizAnswer, len(question.Answers))
			copy(answers, question.Answers)
			q.Questions[i] = QuizQuestion{Description: question.Description, Answers: answers}
		}
		out.Quiz = &q
	}
	return out
}

func cloneSnapshot(s aggregates.GraphSnapshot) aggregates.GraphSnapshot {
	out := aggregates.GraphSnapshot{
		Nodes: make([]aggregates.NodeSnapshot, len(s.Nodes)),
		Edges: make([]aggregates.EdgeSnapshot, len(s.Edges)),
	}
	copy(out.Nodes, s.Nodes)
	copy(out.Edges, s.Edges)
	return out
}
