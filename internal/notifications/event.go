package notifications

import (
	"time"

	"holidayplanner/pkg/model"
	"holidayplanner/pkg/sanitizer"
)

const (
	EventTypeHolidayUpdated = "holiday.updated"
	SchemaVersion           = "1"

	HeaderOwnerID = "owner-id"
)

// HolidayUpdatedEvent is what subscribers learn about a change. It carries
// the subscriber list so downstream consumers can route without a lookup.
type HolidayUpdatedEvent struct {
	HolidayID     string    `json:"holidayId"`
	Name          string    `json:"name"`
	Destination   string    `json:"destination"`
	OwnerID       string    `json:"ownerId"`
	Subscribers   []string  `json:"subscribers"`
	UpdatedAt     time.Time `json:"updatedAt"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

func NewHolidayUpdatedEvent(h *model.Holiday, correlationID string) HolidayUpdatedEvent {
	updatedAt := h.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	return HolidayUpdatedEvent{
		HolidayID:     h.ID,
		Name:          h.Name,
		Destination:   h.Destination,
		OwnerID:       h.OwnerID,
		Subscribers:   sanitizer.NormalizeIdentifiers(h.Subscribers),
		UpdatedAt:     updatedAt,
		CorrelationID: correlationID,
	}
}

// Addresses reports whether userID should hear about the event.
func (e HolidayUpdatedEvent) Addresses(userID string) bool {
	if userID == "" {
		return false
	}
	for _, s := range e.Subscribers {
		if s == userID {
			return true
		}
	}
	return false
}
