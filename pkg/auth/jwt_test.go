package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "holiday-planner-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestVerifier_Verify(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name      string
		token     string
		wantActor Actor
		wantErr   bool
	}{
		{
			name:      "subject claim",
			token:     sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: future}}),
			wantActor: Actor{ID: "u1", Role: RoleUser},
		},
		{
			name:      "legacy id claim with admin role",
			token:     sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{UserID: "u2", Role: "admin"}),
			wantActor: Actor{ID: "u2", Role: RoleAdmin},
		},
		{
			name:      "unknown role falls back to user",
			token:     sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{UserID: "u3", Role: "superuser"}),
			wantActor: Actor{ID: "u3", Role: RoleUser},
		},
		{
			name:    "expired",
			token:   sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}}),
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   sign(t, jwt.SigningMethodHS256, []byte("another-secret-entirely"), &Claims{UserID: "u1"}),
			wantErr: true,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, jwt.SigningMethodHS512, []byte(testSecret), &Claims{UserID: "u1"}),
			wantErr: true,
		},
		{
			name:    "no identifier",
			token:   sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{Role: "admin"}),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not.a.token",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := v.Verify(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActor, actor)
		})
	}
}

func TestVerifier_FromRequest(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{UserID: "u1"})

	r := httptest.NewRequest("GET", "/api/v1/holidays", nil)
	_, err = v.FromRequest(r, false)
	assert.ErrorIs(t, err, ErrMissingToken)

	r.Header.Set("Authorization", "Token "+token)
	_, err = v.FromRequest(r, false)
	assert.ErrorIs(t, err, ErrInvalidToken)

	r.Header.Set("Authorization", "bearer "+token)
	actor, err := v.FromRequest(r, false)
	require.NoError(t, err)
	assert.Equal(t, "u1", actor.ID)

	ws := httptest.NewRequest("GET", "/ws/notifications?token="+token, nil)
	_, err = v.FromRequest(ws, false)
	assert.ErrorIs(t, err, ErrMissingToken)
	actor, err = v.FromRequest(ws, true)
	require.NoError(t, err)
	assert.Equal(t, "u1", actor.ID)
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("   ")
	assert.Error(t, err)
}

func TestActorContext(t *testing.T) {
	ctx := WithActor(httptest.NewRequest("GET", "/", nil).Context(), Actor{ID: "u1", Role: RoleAdmin})

	actor, ok := ActorFrom(ctx)
	require.True(t, ok)
	assert.True(t, actor.IsAdmin())

	_, ok = ActorFrom(httptest.NewRequest("GET", "/", nil).Context())
	assert.False(t, ok)
}
