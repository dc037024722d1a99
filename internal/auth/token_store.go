package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// TokenSessionName is the gorilla session holding the coupon API token
const TokenSessionName = "token"

const tokenKey = "token"

var (
	ErrUndecodableToken = errors.New("token could not be decoded")
	ErrExpiredToken     = errors.New("token already expired")
)

// TokenStore keeps the coupon API token in its own cookie session whose lifetime
// follows the token's exp claim.
type TokenStore struct {
	store  sessions.Store
	secure bool
	now    func() time.Time
}

// NewTokenStore creates a token store; secure marks the cookie HTTPS-only
func NewTokenStore(store sessions.Store, secure bool) *TokenStore {
	return &TokenStore{
		store:  store,
		secure: secure,
		now:    time.Now,
	}
}

// Save stores token and returns the claims it carried
func (s *TokenStore) Save(w http.ResponseWriter, r *http.Request, token string) (*DisplayClaims, error) {
	claims, ok := ReadClaims(token)
	if !ok {
		return nil, ErrUndecodableToken
	}

	maxAge := 0
	if !claims.ExpiresAt.IsZero() {
		remaining := claims.ExpiresAt.Sub(s.now())
		if remaining <= 0 {
			return nil, ErrExpiredToken
		}
		maxAge = int(remaining.Seconds())
		if maxAge == 0 {
			maxAge = 1
		}
	}

	session, err := s.store.Get(r, TokenSessionName)
	if err != nil && session == nil {
		return nil, err
	}
	session.Options = s.options(maxAge)
	session.Values[tokenKey] = token
	if err := session.Save(r, w); err != nil {
		return nil, err
	}
	return claims, nil
}

// Token returns the stored token, empty when none
func (s *TokenStore) Token(r *http.Request) string {
	session, err := s.store.Get(r, TokenSessionName)
	if err != nil || session == nil {
		return ""
	}
	token, _ := session.Values[tokenKey].(string)
	return token
}

// Clear removes the token cookie
func (s *TokenStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, TokenSessionName)
	if err != nil && session == nil {
		return err
	}
	delete(session.Values, tokenKey)
	session.Options = s.options(-1)
	return session.Save(r, w)
}

func (s *TokenStore) options(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
