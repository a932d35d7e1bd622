package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"holidayplanner/pkg/auth"
)

// Client wraps http.Client with test-friendly methods. Requests carry a
// bearer token for the selected user.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	secret     []byte
	token      string
}

func NewClient(baseURL, secret string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		secret: []byte(secret),
	}
}

// As returns a copy of the client authenticated as userID with role.
func (c *Client) As(t *testing.T, userID string, role auth.Role) *Client {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	clone := *c
	clone.token = signed
	return &clone
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (c *Client) GET(t *testing.T, path string) *Response {
	t.Helper()
	return c.request(t, http.MethodGet, path, nil)
}

func (c *Client) POST(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.request(t, http.MethodPost, path, body)
}

func (c *Client) PUT(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.request(t, http.MethodPut, path, body)
}

func (c *Client) DELETE(t *testing.T, path string) *Response {
	t.Helper()
	return c.request(t, http.MethodDelete, path, nil)
}

func (c *Client) request(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return &Response{Response: resp, Body: respBody}
}

// WaitForHealthy polls the health endpoint until the service is ready.
func (c *Client) WaitForHealthy(t *testing.T, maxWait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		resp, err := c.HTTPClient.Get(c.BaseURL + "/ready")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		<-ticker.C
	}

	t.Fatalf("service did not become healthy within %v", maxWait)
}

func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}
