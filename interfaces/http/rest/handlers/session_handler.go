package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/workflow"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	"github.com/gabigoranov/Study-Platform-sub000/interfaces/http/rest/middleware"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/auth"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/common"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/utils"
)

const (
	maxJSONBody   = 1 << 20  // 1 MiB
	maxUploadSize = 25 << 20 // 25 MiB, platform rejects larger source documents
)

// SessionHandler drives review sessions over HTTP
type SessionHandler struct {
	workflow *workflow.ReviewWorkflow
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(wf *workflow.ReviewWorkflow, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{workflow: wf, logger: logger}
}

// CreateSessionRequest is the body for opening a review session
type CreateSessionRequest struct {
	Kind         string `json:"kind" validate:"required,oneof=flashcards mindmap quiz"`
	GroupID      string `json:"groupId" validate:"required"`
	SubjectID    string `json:"subjectId,omitempty"`
	CustomPrompt string `json:"customPrompt,omitempty" validate:"max=2000"`
}

// ReplaceItemRequest carries the replacement for one draft item. Exactly one
// payload field must be set, matching the session's kind.
type ReplaceItemRequest struct {
	Flashcard *drafts.FlashcardItem `json:"flashcard,omitempty"`
	Question  *drafts.QuizQuestion  `json:"question,omitempty"`
}

// MindmapMetaRequest updates the reviewed mindmap's header fields
type MindmapMetaRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Difficulty  drafts.Difficulty `json:"difficulty"`
}

// PlacementRequest starts the placement gesture with a label
type PlacementRequest struct {
	Label string `json:"label"`
}

// ViewportDTO mirrors the client's pan/zoom state
type ViewportDTO struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Zoom    float64 `json:"zoom"`
}

// ConfirmPlacementRequest finalizes the gesture with a canvas click
type ConfirmPlacementRequest struct {
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Viewport ViewportDTO `json:"viewport"`
}

// UpdateNodeRequest moves or renames a node
type UpdateNodeRequest struct {
	Label    *string `json:"label,omitempty"`
	Position *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position,omitempty"`
}

// ConnectRequest adds an edge
type ConnectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req CreateSessionRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.workflow.Open(user.UserID, drafts.DraftKind(req.Kind), req.GroupID, req.SubjectID, req.CustomPrompt)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, view)
}

// Get handles GET /sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.View(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// Upload handles POST /sessions/{sessionID}/upload. The document arrives as
// multipart form data under "file" and triggers the async upload+generate
// run; the response reflects the uploading state, not the outcome.
func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid multipart body: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing file field")
		return
	}
	defer file.Close()

	view, err := h.workflow.Upload(
		chi.URLParam(r, "sessionID"),
		middleware.BearerToken(r.Context()),
		header.Filename,
		file,
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusAccepted, view)
}

// ReplaceItem handles PUT /sessions/{sessionID}/items/{index}
func (h *SessionHandler) ReplaceItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid item index")
		return
	}

	var req ReplaceItemRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	var view workflow.View
	switch {
	case req.Flashcard != nil:
		view, err = h.workflow.ReplaceFlashcard(sessionID, index, *req.Flashcard)
	case req.Question != nil:
		view, err = h.workflow.ReplaceQuestion(sessionID, index, *req.Question)
	default:
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Provide a flashcard or a question")
		return
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /sessions/{sessionID}/items/{index}
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid item index")
		return
	}
	view, err := h.workflow.RemoveItem(chi.URLParam(r, "sessionID"), index)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// UpdateMindmapMeta handles PUT /sessions/{sessionID}/mindmap
func (h *SessionHandler) UpdateMindmapMeta(w http.ResponseWriter, r *http.Request) {
	var req MindmapMetaRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	view, err := h.workflow.SetMindmapMeta(chi.URLParam(r, "sessionID"), req.Title, req.Description, req.Difficulty)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// StartPlacement handles POST /sessions/{sessionID}/graph/placement
func (h *SessionHandler) StartPlacement(w http.ResponseWriter, r *http.Request) {
	var req PlacementRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.workflow.StartPlacement(sessionID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	view, err := h.workflow.ProvideLabel(sessionID, req.Label)
	if err != nil {
		// roll the gesture back so a bad label doesn't wedge the session
		h.workflow.CancelPlacement(sessionID)
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// ConfirmPlacement handles POST /sessions/{sessionID}/graph/placement/confirm
func (h *SessionHandler) ConfirmPlacement(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPlacementRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	screen, err := valueobjects.NewPosition(req.X, req.Y)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	transform, err := valueobjects.NewViewTransform(req.Viewport.OffsetX, req.Viewport.OffsetY, req.Viewport.Zoom)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	view, err := h.workflow.PlaceNode(chi.URLParam(r, "sessionID"), screen, transform)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// CancelPlacement handles DELETE /sessions/{sessionID}/graph/placement
func (h *SessionHandler) CancelPlacement(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.CancelPlacement(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// UpdateNode handles PUT /sessions/{sessionID}/graph/nodes/{nodeID}
func (h *SessionHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req UpdateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	nodeID := chi.URLParam(r, "nodeID")

	var view workflow.View
	var err error
	switch {
	case req.Position != nil:
		var pos valueobjects.Position
		pos, err = valueobjects.NewPosition(req.Position.X, req.Position.Y)
		if err == nil {
			view, err = h.workflow.MoveGraphNode(sessionID, nodeID, pos)
		}
	case req.Label != nil:
		view, err = h.workflow.RenameGraphNode(sessionID, nodeID, *req.Label)
	default:
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Provide a label or a position")
		return
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// RemoveNode handles DELETE /sessions/{sessionID}/graph/nodes/{nodeID}
func (h *SessionHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.RemoveGraphNode(chi.URLParam(r, "sessionID"), chi.URLParam(r, "nodeID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// Connect handles POST /sessions/{sessionID}/graph/edges
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	view, err := h.workflow.ConnectNodes(chi.URLParam(r, "sessionID"), req.Source, req.Target)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// RemoveEdge handles DELETE /sessions/{sessionID}/graph/edges/{edgeID}
func (h *SessionHandler) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.RemoveGraphEdge(chi.URLParam(r, "sessionID"), chi.URLParam(r, "edgeID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// AutoLayout handles POST /sessions/{sessionID}/graph/layout
func (h *SessionHandler) AutoLayout(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.AutoLayout(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// Commit handles POST /sessions/{sessionID}/commit
func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.Commit(r.Context(), chi.URLParam(r, "sessionID"), middleware.BearerToken(r.Context()))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// Retry handles POST /sessions/{sessionID}/retry
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	view, err := h.workflow.Retry(r.Context(), chi.URLParam(r, "sessionID"), middleware.BearerToken(r.Context()))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusAccepted, view)
}

// Cancel handles DELETE /sessions/{sessionID}
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Cancel(chi.URLParam(r, "sessionID")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
