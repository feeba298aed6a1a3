package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/auth"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/common"
)

// FileHandler exposes a user's uploaded source documents
type FileHandler struct {
	storage ports.StorageClient
	logger  *zap.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(storage ports.StorageClient, logger *zap.Logger) *FileHandler {
	return &FileHandler{storage: storage, logger: logger}
}

// List handles GET /files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	files, err := h.storage.ListFiles(r.Context(), user.UserID)
	if err != nil {
		h.logger.Error("failed to list files", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	if files == nil {
		files = []ports.StoredFile{}
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

// Delete handles DELETE /files/{filename}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	filename := chi.URLParam(r, "filename")
	if err := h.storage.DeleteFile(r.Context(), user.UserID, filename); err != nil {
		h.logger.Error("failed to delete file",
			zap.String("user_id", user.UserID),
			zap.String("filename", filename),
			zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
