// Package session keeps the navigator session in a signed client-side cookie
package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog"

	"github.com/okra-platform/rowview/internal/navigator"
)

// CookieName is the name of the session cookie
const CookieName = "rowview_session"

// hashKey signs every session cookie. It is fixed so sessions survive restarts.
var hashKey = []byte("rowview-session-signing-key-v1-0123456789abcdef")

// Options control cookie attributes
type Options struct {
	Secure bool
	// MaxAge in seconds; also bounds how old a signed value may be
	MaxAge int
}

// Store reads and writes navigator sessions as signed cookies
type Store struct {
	codec  *securecookie.SecureCookie
	opts   Options
	logger zerolog.Logger
}

// NewStore creates a cookie store
func NewStore(opts Options, logger zerolog.Logger) *Store {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	if opts.MaxAge > 0 {
		codec.MaxAge(opts.MaxAge)
	}

	return &Store{
		codec:  codec,
		opts:   opts,
		logger: logger.With().Str("component", "session-store").Logger(),
	}
}

// Load returns the session carried by r.
// A missing, expired or tampered cookie yields the empty session.
func (s *Store) Load(r *http.Request) navigator.Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return navigator.Session{}
	}

	var sess navigator.Session
	if err := s.codec.Decode(CookieName, cookie.Value, &sess); err != nil {
		s.logger.Debug().Err(err).Msg("discarding invalid session cookie")
		return navigator.Session{}
	}
	return sess
}

// Save writes sess to the response as the session cookie
func (s *Store) Save(w http.ResponseWriter, sess navigator.Session) error {
	value, err := s.codec.Encode(CookieName, sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   s.opts.MaxAge,
		Secure:   s.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
