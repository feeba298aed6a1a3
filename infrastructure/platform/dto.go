package platform

import (
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
)

// Wire DTOs for the study-platform API. The mindmap endpoints carry the
// graph under "data"; internally the draft calls it Graph.

type generatedMindmapDTO struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	GroupID     string                   `json:"materialSubGroupId"`
	Difficulty  drafts.Difficulty        `json:"difficulty"`
	Data        aggregates.GraphSnapshot `json:"data"`
}

func (d generatedMindmapDTO) toDraft() drafts.MindmapDraft {
	return drafts.MindmapDraft{
		Title:       d.Title,
		Description: d.Description,
		GroupID:     d.GroupID,
		Difficulty:  d.Difficulty,
		Graph:       d.Data,
	}
}

type scoreUpdateDTO struct {
	Delta int `json:"delta"`
}

// createQuizDTO is the quiz header; questions follow in a second call keyed by
// the created quiz id.
type createQuizDTO struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	GroupID     string            `json:"materialSubGroupId"`
	Difficulty  drafts.Difficulty `json:"difficulty"`
}
