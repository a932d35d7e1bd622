package flights

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "holidayplanner/pkg/errors"
	httputil "holidayplanner/pkg/http"
	"holidayplanner/pkg/logger"
	"holidayplanner/pkg/sanitizer"
)

type SearchResponse struct {
	Flights []Flight `json:"flights"`
}

type FlightHandler struct {
	provider Provider
	log      *logger.Logger
}

func NewFlightHandler(provider Provider, log *logger.Logger) *FlightHandler {
	return &FlightHandler{
		provider: provider,
		log:      log,
	}
}

func (h *FlightHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	destination := sanitizer.TrimAndNormalize(r.URL.Query().Get("destination"))
	if destination == "" {
		if err := httputil.WriteError(w, apperrors.InvalidInput("'destination' query parameter is required").
			WithDetails(map[string]any{"field": "destination"})); err != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", err)
		}
		return
	}

	records, err := h.provider.Search(r.Context(), destination)
	if err != nil {
		h.log.Error("Flight provider failed",
			"destination", destination,
			"error", err,
		)
		if writeErr := httputil.WriteError(w, apperrors.Unavailable("Flight search")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	flights, skipped := AdaptFlights(records)
	if skipped > 0 {
		h.log.Warn("Skipped malformed provider flights",
			"destination", destination,
			"skipped", skipped,
		)
	}

	if err := httputil.WriteJSON(w, http.StatusOK, SearchResponse{Flights: flights}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Search", "operation", "WriteJSON", "error", err)
	}
}

func (h *FlightHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/flights", h.Search)
}
