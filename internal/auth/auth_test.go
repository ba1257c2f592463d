package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-0123456789abcdef"

func TestNewService_RejectsWeakSecrets(t *testing.T) {
	_, err := NewService("", false)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewService("short", false)
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewService(testSecret, false)
	assert.NoError(t, err)
}

func TestIssueAndVerifyToken(t *testing.T) {
	s, err := NewService(testSecret, false)
	require.NoError(t, err)

	want := Identity{ID: 7, Correo: "admin@farmacia.com", IDRol: 1, NombreCompleto: "Administrador Sistema"}
	tok, err := s.IssueToken(want)
	require.NoError(t, err)

	got := s.VerifyToken(tok)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestVerifyToken_InvalidInputs(t *testing.T) {
	s, err := NewService(testSecret, false)
	require.NoError(t, err)

	assert.Nil(t, s.VerifyToken("not-a-token"))
	assert.Nil(t, s.VerifyToken(""))

	// Token signed with a different key.
	other, err := NewService("another-secret-key-0123456789abcdef", false)
	require.NoError(t, err)
	tok, err := other.IssueToken(Identity{ID: 1})
	require.NoError(t, err)
	assert.Nil(t, s.VerifyToken(tok))

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Identity: Identity{ID: 1},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.Nil(t, s.VerifyToken(signed))
}

func TestCookieRoundTrip(t *testing.T) {
	s, err := NewService(testSecret, false)
	require.NoError(t, err)

	tok, err := s.IssueToken(Identity{ID: 3, Correo: "empleado@farmacia.com"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.SetCookie(rec, tok)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, int(TokenTTL/time.Second), cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	id := s.FromRequest(req)
	require.NotNil(t, id)
	assert.Equal(t, int64(3), id.ID)

	// No cookie at all resolves to nil.
	assert.Nil(t, s.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}
