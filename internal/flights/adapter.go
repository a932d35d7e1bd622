package flights

import (
	"strings"
	"time"

	"holidayplanner/pkg/sanitizer"
)

const defaultCurrency = "EUR"

// ProviderFlight is the record shape returned by the upstream flight search.
type ProviderFlight struct {
	FlightID string `json:"flight_id"`
	Carrier  struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"carrier"`
	Departure struct {
		Airport string `json:"airport"`
		At      string `json:"at"`
	} `json:"departure"`
	Fare struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"fare"`
}

// Flight is the fixed shape served to clients.
type Flight struct {
	ID            string    `json:"id"`
	Airline       string    `json:"airline"`
	DepartureTime time.Time `json:"departureTime"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
}

// AdaptFlight maps a provider record onto Flight. It is pure: the airline
// falls back to the carrier code, the currency is upper-cased with a
// default, and prices are rounded to cents. The boolean is false when the
// departure time cannot be parsed.
func AdaptFlight(p ProviderFlight) (Flight, bool) {
	departure, err := time.Parse(time.RFC3339, strings.TrimSpace(p.Departure.At))
	if err != nil {
		return Flight{}, false
	}

	airline := sanitizer.TrimAndNormalize(p.Carrier.Name)
	if airline == "" {
		airline = strings.ToUpper(strings.TrimSpace(p.Carrier.Code))
	}

	currency := strings.ToUpper(strings.TrimSpace(p.Fare.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return Flight{
		ID:            strings.TrimSpace(p.FlightID),
		Airline:       airline,
		DepartureTime: departure.UTC(),
		Price:         sanitizer.RoundAmount(p.Fare.Amount),
		Currency:      currency,
	}, true
}

// AdaptFlights adapts every usable record and reports how many were skipped.
func AdaptFlights(records []ProviderFlight) ([]Flight, int) {
	flights := make([]Flight, 0, len(records))
	skipped := 0
	for _, r := range records {
		f, ok := AdaptFlight(r)
		if !ok {
			skipped++
			continue
		}
		flights = append(flights, f)
	}
	return flights, skipped
}
