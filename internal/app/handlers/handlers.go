package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ilya-burinskiy/repairguides/internal/app/logger"
	"github.com/ilya-burinskiy/repairguides/internal/app/storage"
)

type Handlers struct {
	store storage.Storage
}

func NewHandlers(store storage.Storage) Handlers {
	return Handlers{store: store}
}

// Check storage connectivity
func (h Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logger.Log.Info("storage ping failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Info("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": message})
}
