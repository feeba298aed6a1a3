package drafts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

func flashcardsDraft() GeneratedDraft {
	return NewFlashcardsDraft([]FlashcardItem{
		{Title: "One", Front: "Q1", Back: "A1", GroupID: "g1"},
		{Title: "Two", Front: "Q2", Back: "A2", GroupID: "g1"},
		{Title: "Three", Front: "Q3", Back: "A3", GroupID: "g1"},
	})
}

func mindmapDraft() GeneratedDraft {
	return NewMindmapDraft(MindmapDraft{
		GroupID: "g1",
		Graph: aggregates.GraphSnapshot{
			Nodes: []aggregates.NodeSnapshot{
				{ID: "n1", Data: aggregates.NodeData{Label: "Root"}},
				{ID: "n2", Data: aggregates.NodeData{Label: "Child"}},
			},
			Edges: []aggregates.EdgeSnapshot{{ID: "e1", Source: "n1", Target: "n2"}},
		},
	})
}

func quizDraft() GeneratedDraft {
	return NewQuizDraft(QuizDraft{
		Title:   "Quiz",
		GroupID: "g1",
		Questions: []QuizQuestion{
			{Description: "Q1", Answers: []QuizAnswer{{Description: "yes", IsCorrect: true}}},
			{Description: "Q2", Answers: []QuizAnswer{{Description: "no"}}},
		},
	})
}

func TestStagerCopiesTheDraft(t *testing.T) {
	original := flashcardsDraft()
	stager, err := NewDraftStager(original)
	require.NoError(t, err)

	require.NoError(t, stager.ReplaceFlashcard(0, FlashcardItem{Title: "Edited", Front: "Q", Back: "A", GroupID: "g1"}))

	// the caller's draft is untouched
	assert.Equal(t, "One", original.Flashcards[0].Title)
	assert.Equal(t, "Edited", stager.Snapshot().Flashcards[0].Title)
}

func TestSnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	stager, err := NewDraftStager(flashcardsDraft())
	require.NoError(t, err)

	before := stager.Snapshot()
	require.NoError(t, stager.RemoveItem(0))

	assert.Len(t, before.Flashcards, 3)
	assert.Equal(t, 2, stager.ItemCount())
}

func TestReplaceFlashcardBounds(t *testing.T) {
	stager, err := NewDraftStager(flashcardsDraft())
	require.NoError(t, err)

	err = stager.ReplaceFlashcard(3, FlashcardItem{Title: "x"})
	require.Error(t, err)
	appErr := pkgerrors.AsAppError(err)
	assert.Equal(t, pkgerrors.ErrorTypeDraftIndexOutOfRange, appErr.Type)

	err = stager.ReplaceFlashcard(-1, FlashcardItem{Title: "x"})
	assert.Error(t, err)
}

func TestReplaceFlashcardRejectsWrongKind(t *testing.T) {
	stager, err := NewDraftStager(quizDraft())
	require.NoError(t, err)

	err = stager.ReplaceFlashcard(0, FlashcardItem{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrorTypeValidation, pkgerrors.AsAppError(err).Type)
}

func TestQuizQuestionEditing(t *testing.T) {
	stager, err := NewDraftStager(quizDraft())
	require.NoError(t, err)

	replacement := QuizQuestion{Description: "Edited", Answers: []QuizAnswer{{Description: "maybe", IsCorrect: true}}}
	require.NoError(t, stager.ReplaceQuestion(1, replacement))
	require.NoError(t, stager.RemoveItem(0))

	snapshot := stager.Snapshot()
	require.Len(t, snapshot.Quiz.Questions, 1)
	assert.Equal(t, "Edited", snapshot.Quiz.Questions[0].Description)
}

func TestRemoveWhereFiltersFlashcards(t *testing.T) {
	stager, err := NewDraftStager(flashcardsDraft())
	require.NoError(t, err)

	removed := stager.RemoveWhere(func(item FlashcardItem) bool {
		return item.Title == "Two"
	})

	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, stager.ItemCount())
	for _, item := range stager.Snapshot().Flashcards {
		assert.NotEqual(t, "Two", item.Title)
	}
}

func TestRemoveItemRejectedForMindmaps(t *testing.T) {
	stager, err := NewDraftStager(mindmapDraft())
	require.NoError(t, err)

	err = stager.RemoveItem(0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrorTypeValidation, pkgerrors.AsAppError(err).Type)
}

func TestMindmapGraphEditsShowUpInSnapshot(t *testing.T) {
	stager, err := NewDraftStager(mindmapDraft())
	require.NoError(t, err)
	graph := stager.Graph()
	require.NotNil(t, graph)

	position, err := valueobjects.NewPosition(150, 90)
	require.NoError(t, err)
	added, err := graph.AddNode("New idea", position)
	require.NoError(t, err)
	assert.Equal(t, 3, stager.ItemCount())

	snapshot := stager.Snapshot()
	require.Len(t, snapshot.Mindmap.Graph.Nodes, 3)
	assert.Equal(t, added.String(), snapshot.Mindmap.Graph.Nodes[2].ID)
}

func TestSetMindmapMeta(t *testing.T) {
	stager, err := NewDraftStager(mindmapDraft())
	require.NoError(t, err)

	require.NoError(t, stager.SetMindmapMeta("Biology", "Cell structure", DifficultyHard))
	snapshot := stager.Snapshot()
	assert.Equal(t, "Biology", snapshot.Mindmap.Title)
	assert.Equal(t, "Cell structure", snapshot.Mindmap.Description)
	assert.Equal(t, DifficultyHard, snapshot.Mindmap.Difficulty)

	flashStager, err := NewDraftStager(flashcardsDraft())
	require.NoError(t, err)
	assert.Error(t, flashStager.SetMindmapMeta("x", "y", DifficultyEasy))
}

func TestNewDraftStagerRejectsInconsistentMindmap(t *testing.T) {
	broken := NewMindmapDraft(MindmapDraft{
		Graph: aggregates.GraphSnapshot{
			Nodes: []aggregates.NodeSnapshot{{ID: "n1", Data: aggregates.NodeData{Label: "A"}}},
			Edges: []aggregates.EdgeSnapshot{{ID: "e1", Source: "n1", Target: "missing"}},
		},
	})

	_, err := NewDraftStager(broken)
	assert.Error(t, err)
}

func TestGraphIsNilForNonMindmapDrafts(t *testing.T) {
	stager, err := NewDraftStager(flashcardsDraft())
	require.NoError(t, err)
	assert.Nil(t, stager.Graph())
}
