package service

import (
	"holidayplanner/pkg/auth"
	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/model"
)

type Action string

const (
	ActionRead      Action = "read"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionSubscribe Action = "subscribe"
	ActionClone     Action = "clone"
)

// Authorize decides whether actor may perform action on h. It has no side
// effects and must run before any write.
func Authorize(actor auth.Actor, h *model.Holiday, action Action) error {
	switch action {
	case ActionUpdate:
		if actor.ID == h.OwnerID {
			return nil
		}
		return apperrors.Forbidden("Not authorized to update this holiday")
	case ActionDelete:
		if actor.ID == h.OwnerID || actor.IsAdmin() {
			return nil
		}
		return apperrors.Forbidden("Not authorized to delete this holiday")
	case ActionRead, ActionSubscribe, ActionClone:
		return nil
	default:
		return apperrors.Forbidden("Unknown action")
	}
}

// canSeeSubscribers reports whether the subscriber identities may be shown.
func canSeeSubscribers(actor auth.Actor, h *model.Holiday) bool {
	return actor.ID == h.OwnerID || actor.IsAdmin()
}
