package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

const bearerScheme = "Bearer"

// Claims accepts both the subject claim and a legacy "id" claim for the
// user identifier.
type Claims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) actorID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(30*time.Second),
		),
	}, nil
}

// Verify checks the signature and time claims of token and returns the actor
// it identifies.
func (v *Verifier) Verify(token string) (Actor, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	actor := Actor{ID: strings.TrimSpace(claims.actorID()), Role: ParseRole(claims.Role)}
	if !actor.Valid() {
		return Actor{}, fmt.Errorf("%w: no user identifier", ErrInvalidToken)
	}
	return actor, nil
}

// FromRequest authenticates r using its Authorization header. When
// allowQuery is set, a "token" query parameter is accepted as a fallback for
// clients that cannot set headers, such as browser websockets.
func (v *Verifier) FromRequest(r *http.Request, allowQuery bool) (Actor, error) {
	token, err := BearerToken(r)
	if errors.Is(err, ErrMissingToken) && allowQuery {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
		if token != "" {
			err = nil
		}
	}
	if err != nil {
		return Actor{}, err
	}
	return v.Verify(token)
}

func BearerToken(r *http.Request) (string, error) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 0 {
		return "", ErrMissingToken
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return parts[1], nil
}
