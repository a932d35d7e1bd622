package model

// HolidayView is the read-side projection of a Holiday. It is never
// persisted. Subscribers shadows the embedded field so the list can be
// withheld from readers who do not own the holiday; a nil pointer means
// withheld, an empty list is still rendered as [].
type HolidayView struct {
	Holiday
	Subscribers     *[]string `json:"subscribers,omitempty"`
	SubscriberCount int       `json:"subscriberCount"`
	WeatherInfo     string    `json:"weatherInfo,omitempty"`
	BudgetAlert     bool      `json:"budgetAlert,omitempty"`
}

// Decorate derives presentation fields from the stored record only. BudgetAlert
// is left false (and so omitted) unless the budget is above the threshold.
func Decorate(h *Holiday) HolidayView {
	src := h.Copy()
	view := HolidayView{
		Holiday:         *src,
		Subscribers:     &src.Subscribers,
		SubscriberCount: len(src.Subscribers),
	}
	if src.ExpectedWeather != "" {
		view.WeatherInfo = src.ExpectedWeather
	}
	if src.BudgetLimit > BudgetAlertThreshold {
		view.BudgetAlert = true
	}
	return view
}

// Redacted drops the subscriber identities while keeping the count.
func (v HolidayView) Redacted() HolidayView {
	v.Subscribers = nil
	v.Holiday.Subscribers = nil
	return v
}
