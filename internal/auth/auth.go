package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret = errors.New("secret key cannot be empty")
	ErrWeakSecret  = errors.New("secret key must be at least 32 bytes")
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// TokenTTL is the fixed validity window of issued tokens.
const TokenTTL = 7 * 24 * time.Hour

// Identity is the authenticated user as encoded in the session token.
type Identity struct {
	ID             int64  `json:"id"`
	Correo         string `json:"correo"`
	IDRol          int64  `json:"idRol"`
	NombreCompleto string `json:"nombreCompleto"`
}

type claims struct {
	Identity
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens and manages the session cookie.
type Service struct {
	secret []byte
	secure bool
}

// NewService creates a token service. The secure flag marks issued cookies
// Secure, which should be on everywhere except local development.
func NewService(secret string, secure bool) (*Service, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	return &Service{secret: []byte(secret), secure: secure}, nil
}

// IssueToken signs a token embedding the identity, valid for TokenTTL.
func (s *Service) IssueToken(id Identity) (string, error) {
	now := time.Now()
	c := claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

// VerifyToken returns the identity encoded in the token, or nil if the token
// is malformed, expired or carries a bad signature. It never fails loudly:
// callers treat every verification failure like a missing token.
func (s *Service) VerifyToken(tokenString string) *Identity {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	c, ok := token.Claims.(*claims)
	if !ok {
		return nil
	}
	id := c.Identity
	return &id
}

// FromRequest resolves the identity from the request's session cookie.
func (s *Service) FromRequest(r *http.Request) *Identity {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return s.VerifyToken(cookie.Value)
}

// SetCookie attaches the session cookie to the response.
func (s *Service) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenTTL / time.Second),
	})
}

// ClearCookie expires the session cookie.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
