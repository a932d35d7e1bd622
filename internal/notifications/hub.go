package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/olahol/melody"

	"holidayplanner/pkg/auth"
	apperrors "holidayplanner/pkg/errors"
	httputil "holidayplanner/pkg/http"
	"holidayplanner/pkg/kafka"
	"holidayplanner/pkg/logger"
)

const sessionUserKey = "user_id"

// Push is the frame sent to a connected subscriber.
type Push struct {
	Type    string              `json:"type"`
	Message string              `json:"message"`
	Holiday HolidayUpdatedEvent `json:"holiday"`
}

// Hub pushes holiday updates to the websocket sessions of their subscribers.
type Hub struct {
	m        *melody.Melody
	verifier *auth.Verifier
	log      *logger.Logger
}

func NewHub(verifier *auth.Verifier, log *logger.Logger) *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{m: m, verifier: verifier, log: log}

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		log.Info("Notification client connected", "user_id", userID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		log.Info("Notification client disconnected", "user_id", userID)
	})
	m.HandleError(func(s *melody.Session, err error) {
		userID, _ := s.Get(sessionUserKey)
		log.Warn("Notification websocket error", "user_id", userID, "error", err)
	})

	return h
}

// Connect upgrades an authenticated request. Browsers cannot set headers on
// websocket requests, so a token query parameter is accepted too.
func (h *Hub) Connect(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := h.verifier.FromRequest(r, true)
	if err != nil {
		h.log.Warn("Websocket authentication failed", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Not authorized, token failed")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Connect", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.m.HandleRequestWithKeys(w, r, map[string]any{sessionUserKey: actor.ID}); err != nil {
		h.log.Error("Failed to upgrade websocket", "user_id", actor.ID, "error", err)
	}
}

// Broadcast sends evt to every connected session whose user subscribes to
// the holiday.
func (h *Hub) Broadcast(evt HolidayUpdatedEvent) error {
	payload, err := json.Marshal(Push{
		Type:    EventTypeHolidayUpdated,
		Message: "Holiday " + evt.Name + " was updated",
		Holiday: evt,
	})
	if err != nil {
		return err
	}

	return h.m.BroadcastFilter(payload, func(s *melody.Session) bool {
		userID, ok := s.Get(sessionUserKey)
		if !ok {
			return false
		}
		id, _ := userID.(string)
		return evt.Addresses(id)
	})
}

// HandleMessage is the Kafka handler feeding the hub. Malformed payloads are
// permanent failures and go to the DLQ.
func (h *Hub) HandleMessage(ctx context.Context, msg kafka.Message) error {
	if eventType := msg.GetEventType(); eventType != EventTypeHolidayUpdated {
		h.log.Debug("Ignoring event", "event_type", eventType, "event_id", msg.GetEventID())
		return nil
	}

	var evt HolidayUpdatedEvent
	if err := msg.DecodeValue(&evt); err != nil {
		return err
	}

	if err := h.Broadcast(evt); err != nil {
		return kafka.NewTransientError("failed to broadcast holiday update", err)
	}

	h.log.Info("Pushed holiday update",
		"holiday_id", evt.HolidayID,
		"subscribers", len(evt.Subscribers),
		"event_id", msg.GetEventID(),
		"correlation_id", msg.GetCorrelationID(),
	)
	return nil
}

// Name and Deliver let the hub act as an in-process Sink when Kafka is off.
func (h *Hub) Name() string { return "websocket" }

func (h *Hub) Deliver(_ context.Context, evt HolidayUpdatedEvent) error {
	return h.Broadcast(evt)
}

func (h *Hub) Close() error {
	return h.m.Close()
}

func (h *Hub) RegisterRoutes(router *httprouter.Router) {
	router.GET("/ws/notifications", h.Connect)
}
