package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/domain/services"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/common"
)

// PresetHandler serves the starter graphs a client can seed the editor with
type PresetHandler struct {
	logger *zap.Logger
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(logger *zap.Logger) *PresetHandler {
	return &PresetHandler{logger: logger}
}

// List handles GET /presets
func (h *PresetHandler) List(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": services.PresetKinds(),
	})
}

// Get handles GET /presets/{kind}
func (h *PresetHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind := services.PresetKind(chi.URLParam(r, "kind"))
	snapshot, ok := services.Preset(kind)
	if !ok {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown preset: "+string(kind))
		return
	}
	common.RespondJSON(w, http.StatusOK, snapshot)
}
