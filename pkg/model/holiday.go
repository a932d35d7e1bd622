package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical calendar-date wire format.
	DateLayout = "2006-01-02"

	CopyNamePrefix = "Copy of "

	// BudgetAlertThreshold is exclusive: a budget of exactly this amount does
	// not raise an alert.
	BudgetAlertThreshold = 3000.0
)

// Holiday is the persisted holiday record. OwnerID is assigned once at
// creation and never rewritten by an update.
type Holiday struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	Name            string    `json:"name" bson:"name"`
	Destination     string    `json:"destination" bson:"destination"`
	StartDate       time.Time `json:"startDate" bson:"start_date"`
	EndDate         time.Time `json:"endDate" bson:"end_date"`
	Description     string    `json:"description" bson:"description"`
	OwnerID         string    `json:"ownerId" bson:"owner_id"`
	Subscribers     []string  `json:"subscribers" bson:"subscribers"`
	ExpectedWeather string    `json:"expectedWeather,omitempty" bson:"expected_weather,omitempty"`
	BudgetLimit     float64   `json:"budgetLimit" bson:"budget_limit"`
	ClonedFrom      string    `json:"clonedFrom,omitempty" bson:"cloned_from,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// HolidayInput is the create payload. Dates stay strings until validated so
// a malformed value can be reported per field.
type HolidayInput struct {
	Name            string   `json:"name" validate:"required"`
	Destination     string   `json:"destination" validate:"required"`
	StartDate       string   `json:"startDate" validate:"required,calendar_date"`
	EndDate         string   `json:"endDate" validate:"required,calendar_date"`
	Description     string   `json:"description" validate:"required"`
	ExpectedWeather string   `json:"expectedWeather"`
	BudgetLimit     *float64 `json:"budgetLimit"`
}

// HolidayUpdate is a merge-patch: nil fields keep their stored value.
type HolidayUpdate struct {
	Name            *string  `json:"name" validate:"omitnil,min=1"`
	Destination     *string  `json:"destination" validate:"omitnil,min=1"`
	StartDate       *string  `json:"startDate" validate:"omitnil,calendar_date"`
	EndDate         *string  `json:"endDate" validate:"omitnil,calendar_date"`
	Description     *string  `json:"description" validate:"omitnil,min=1"`
	ExpectedWeather *string  `json:"expectedWeather"`
	BudgetLimit     *float64 `json:"budgetLimit"`
}

// ParseCalendarDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// the calendar date it names at UTC midnight.
func ParseCalendarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NewHoliday builds an entity from a validated create payload. The owner is
// always the caller, whatever the payload says.
func NewHoliday(in *HolidayInput, ownerID string) (*Holiday, error) {
	start, err := ParseCalendarDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseCalendarDate(in.EndDate)
	if err != nil {
		return nil, err
	}

	h := &Holiday{
		Name:            in.Name,
		Destination:     in.Destination,
		StartDate:       start,
		EndDate:         end,
		Description:     in.Description,
		OwnerID:         ownerID,
		Subscribers:     []string{},
		ExpectedWeather: in.ExpectedWeather,
	}
	if in.BudgetLimit != nil {
		h.BudgetLimit = *in.BudgetLimit
	}
	return h, nil
}

// Merge returns a copy of h with every supplied field of u applied. Dates in
// u must already be validated.
func (h *Holiday) Merge(u *HolidayUpdate) (*Holiday, error) {
	merged := h.Copy()

	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.Destination != nil {
		merged.Destination = *u.Destination
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.ExpectedWeather != nil {
		merged.ExpectedWeather = *u.ExpectedWeather
	}
	if u.BudgetLimit != nil {
		merged.BudgetLimit = *u.BudgetLimit
	}
	if u.StartDate != nil {
		d, err := ParseCalendarDate(*u.StartDate)
		if err != nil {
			return nil, err
		}
		merged.StartDate = d
	}
	if u.EndDate != nil {
		d, err := ParseCalendarDate(*u.EndDate)
		if err != nil {
			return nil, err
		}
		merged.EndDate = d
	}
	return merged, nil
}

// Copy returns a deep copy sharing no mutable state with h.
func (h *Holiday) Copy() *Holiday {
	c := *h
	c.Subscribers = append([]string(nil), h.Subscribers...)
	if c.Subscribers == nil {
		c.Subscribers = []string{}
	}
	return &c
}

// Clone seeds a new, unsaved holiday from h. The clone gets no identifier,
// no subscribers and a name marking it as a copy.
func (h *Holiday) Clone() *Holiday {
	return &Holiday{
		Name:            CopyNamePrefix + h.Name,
		Destination:     h.Destination,
		StartDate:       h.StartDate,
		EndDate:         h.EndDate,
		Description:     h.Description,
		OwnerID:         h.OwnerID,
		Subscribers:     []string{},
		ExpectedWeather: h.ExpectedWeather,
		BudgetLimit:     h.BudgetLimit,
		ClonedFrom:      h.ID,
	}
}

func (h *Holiday) HasSubscriber(userID string) bool {
	for _, s := range h.Subscribers {
		if s == userID {
			return true
		}
	}
	return false
}

// CheckInvariants reports violations of the stored-record rules. It runs on
// the final entity, after any merge.
func (h *Holiday) CheckInvariants() FieldErrors {
	var errs FieldErrors
	if h.BudgetLimit < 0 {
		errs = append(errs, FieldError{Field: "budgetLimit", Message: "budgetLimit cannot be negative"})
	}
	if !h.StartDate.IsZero() && !h.EndDate.IsZero() && h.EndDate.Before(h.StartDate) {
		errs = append(errs, FieldError{Field: "endDate", Message: MsgDateOrder})
	}
	return errs
}
