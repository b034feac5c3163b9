package registration

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/sharktamer/gtsnotifier/pkg/app/errors"
	"github.com/sharktamer/gtsnotifier/pkg/app/httpserver"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the registration service on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/watches", httpserver.HandleError(h.register))
	r.Delete("/watches/{profileID}", httpserver.HandleError(h.remove))
}

// register handles watch entry creation requests
func (h *HTTP) register(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req RegisterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusCreated, resp)
	return nil
}

// remove handles watch entry removal requests
func (h *HTTP) remove(w http.ResponseWriter, r *http.Request) error {
	profileID := chi.URLParam(r, "profileID")

	if err := h.service.Remove(r.Context(), profileID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
