package testutil

import "time"

// HolidayBuilder assembles create payloads in the JSON shape the API accepts.
type HolidayBuilder struct {
	body map[string]any
}

func NewHolidayBuilder() *HolidayBuilder {
	start := time.Now().UTC().AddDate(0, 1, 0)
	return &HolidayBuilder{
		body: map[string]any{
			"name":        "Summer Trip",
			"destination": "Crete",
			"description": "A week on the beach",
			"startDate":   start.Format("2006-01-02"),
			"endDate":     start.AddDate(0, 0, 7).Format("2006-01-02"),
			"budgetLimit": 1500.0,
		},
	}
}

func (b *HolidayBuilder) WithName(name string) *HolidayBuilder {
	b.body["name"] = name
	return b
}

func (b *HolidayBuilder) WithDestination(destination string) *HolidayBuilder {
	b.body["destination"] = destination
	return b
}

func (b *HolidayBuilder) WithDates(start, end string) *HolidayBuilder {
	b.body["startDate"] = start
	b.body["endDate"] = end
	return b
}

func (b *HolidayBuilder) WithBudget(limit float64) *HolidayBuilder {
	b.body["budgetLimit"] = limit
	return b
}

func (b *HolidayBuilder) WithWeather(weather string) *HolidayBuilder {
	b.body["expectedWeather"] = weather
	return b
}

func (b *HolidayBuilder) Without(field string) *HolidayBuilder {
	delete(b.body, field)
	return b
}

func (b *HolidayBuilder) Build() map[string]any {
	out := make(map[string]any, len(b.body))
	for k, v := range b.body {
		out[k] = v
	}
	return out
}
