package flights

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"time"

	"holidayplanner/pkg/client"
)

// Provider looks up flights to a destination in the upstream shape.
type Provider interface {
	Search(ctx context.Context, destination string) ([]ProviderFlight, error)
}

type mockCarrier struct {
	code string
	name string
}

var mockCarriers = []mockCarrier{
	{"AF", "Air France"},
	{"LH", "Lufthansa"},
	{"BA", "British Airways"},
}

// MockProvider fabricates a deterministic set of flights per destination.
type MockProvider struct {
	now func() time.Time
}

func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

func (p *MockProvider) Search(ctx context.Context, destination string) ([]ProviderFlight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(destination)))
	seed := h.Sum32()

	base := p.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	code := destinationCode(destination)

	records := make([]ProviderFlight, 0, len(mockCarriers))
	for i, c := range mockCarriers {
		var r ProviderFlight
		r.FlightID = fmt.Sprintf("%s%d-%s", c.code, 100+int(seed%800)+i, code)
		r.Carrier.Code = c.code
		r.Carrier.Name = c.name
		r.Departure.Airport = code
		r.Departure.At = base.Add(time.Duration(6+i*4) * time.Hour).Format(time.RFC3339)
		r.Fare.Amount = float64(120+int(seed%300)+i*45) + 0.99
		r.Fare.Currency = "eur"
		records = append(records, r)
	}
	return records, nil
}

func destinationCode(destination string) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(destination) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
		}
		if len(letters) == 3 {
			break
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return string(letters)
}

type providerResponse struct {
	Data []ProviderFlight `json:"data"`
}

// HTTPProvider queries a flight search service over HTTP.
type HTTPProvider struct {
	client *client.HttpClient
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{client: client.NewHttpClient(baseURL, timeout)}
}

func (p *HTTPProvider) Search(ctx context.Context, destination string) ([]ProviderFlight, error) {
	resp, err := p.client.GET(ctx, "/flights", url.Values{"destination": {destination}})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight provider returned status %d", resp.StatusCode)
	}

	var body providerResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode flight provider response: %w", err)
	}
	return body.Data, nil
}
