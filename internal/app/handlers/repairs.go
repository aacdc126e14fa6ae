package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ilya-burinskiy/repairguides/internal/app/logger"
	"github.com/ilya-burinskiy/repairguides/internal/app/services"
)

const (
	fetchFailedMessage = "Failed to fetch repair guides"
	saveFailedMessage  = "Failed to save repair guides"
	savedMessage       = "Repair guides saved successfully"
)

// Get repair guides of a device from the catalog
func (h Handlers) GetRepairGuides(fetcher services.GuideFetcher) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		device := chi.URLParam(r, "device")
		payload, err := fetcher.Fetch(r.Context(), device)
		if err != nil {
			logger.Log.Info("failed to fetch repair guides",
				zap.String("device", device),
				zap.Error(err),
			)
			writeError(w, fetchFailedMessage)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(payload); err != nil {
			logger.Log.Info("failed to write repair guides", zap.Error(err))
		}
	}
}

// Save repair guides of a device found in the catalog
func (h Handlers) SaveRepairGuides(persister services.GuidePersister) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		device := chi.URLParam(r, "device")
		if err := persister.Persist(r.Context(), device); err != nil {
			fields := []zap.Field{zap.String("device", device), zap.Error(err)}
			var persistErr *services.PersistError
			if errors.As(err, &persistErr) {
				fields = append(fields, zap.Int("failed_guide_index", persistErr.Index))
			}
			logger.Log.Info("failed to save repair guides", fields...)
			writeError(w, saveFailedMessage)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": savedMessage})
	}
}
