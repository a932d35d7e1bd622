package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"holidayplanner/internal/holidays/service"
	"holidayplanner/pkg/auth"
	apperrors "holidayplanner/pkg/errors"
	httputil "holidayplanner/pkg/http"
	"holidayplanner/pkg/logger"
	"holidayplanner/pkg/model"
)

type SubscribeResponse struct {
	Message         string `json:"message"`
	SubscriberCount int    `json:"subscriberCount"`
}

type HolidayHandler struct {
	service service.HolidayService
	log     *logger.Logger
}

func NewHolidayHandler(service service.HolidayService, log *logger.Logger) *HolidayHandler {
	return &HolidayHandler{
		service: service,
		log:     log,
	}
}

func (h *HolidayHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// actor reads the caller placed on the context by the auth middleware.
func (h *HolidayHandler) actor(w http.ResponseWriter, r *http.Request, handler string) (auth.Actor, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Not authorized, no token"))
		return auth.Actor{}, false
	}
	return actor, true
}

func (h *HolidayHandler) pathID(w http.ResponseWriter, ps httprouter.Params, handler string) (string, bool) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, handler, apperrors.InvalidInput("ID parameter is required"))
		return "", false
	}
	return id, true
}

func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r, "List")
	if !ok {
		return
	}

	views, err := h.service.List(r.Context(), actor, r.URL.Query().Get("sort"))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, views); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r, "GetByID")
	if !ok {
		return
	}
	id, ok := h.pathID(w, ps, "GetByID")
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r, "Create")
	if !ok {
		return
	}

	var in model.HolidayInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	holiday, err := h.service.Create(r.Context(), actor, &in)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, holiday); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *HolidayHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r, "Update")
	if !ok {
		return
	}
	id, ok := h.pathID(w, ps, "Update")
	if !ok {
		return
	}

	var updates model.HolidayUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	holiday, err := h.service.Update(r.Context(), actor, id, &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, holiday); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r, "Delete")
	if !ok {
		return
	}
	id, ok := h.pathID(w, ps, "Delete")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: service.MsgDeleted}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Delete", "operation", "WriteJSON", "error", err)
	}
}

func (h *HolidayHandler) Subscribe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r, "Subscribe")
	if !ok {
		return
	}
	id, ok := h.pathID(w, ps, "Subscribe")
	if !ok {
		return
	}

	count, err := h.service.Subscribe(r.Context(), actor, id)
	if err != nil {
		h.writeError(w, "Subscribe", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, SubscribeResponse{
		Message:         service.MsgSubscribed,
		SubscriberCount: count,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Subscribe", "operation", "WriteJSON", "error", err)
	}
}

func (h *HolidayHandler) Clone(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r, "Clone")
	if !ok {
		return
	}
	id, ok := h.pathID(w, ps, "Clone")
	if !ok {
		return
	}

	clone, err := h.service.Clone(r.Context(), actor, id)
	if err != nil {
		h.writeError(w, "Clone", err)
		return
	}

	if err := httputil.WriteCreated(w, clone); err != nil {
		h.log.Error("failed to write created response", "handler", "Clone", "operation", "WriteCreated", "error", err)
	}
}

func (h *HolidayHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/holidays", h.List)
	router.POST("/api/v1/holidays", h.Create)
	router.GET("/api/v1/holidays/id/:id", h.GetByID)
	router.PUT("/api/v1/holidays/id/:id", h.Update)
	router.PATCH("/api/v1/holidays/id/:id", h.Update)
	router.DELETE("/api/v1/holidays/id/:id", h.Delete)
	router.POST("/api/v1/holidays/id/:id/subscribe", h.Subscribe)
	router.POST("/api/v1/holidays/id/:id/clone", h.Clone)
}
