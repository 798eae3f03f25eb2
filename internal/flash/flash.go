// Package flash carries one-shot messages across a redirect in a signed cookie.
package flash

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CategorySuccess = "success"
	CategoryError   = "error"

	cookieName = "flash"
	maxAge     = 5 * time.Minute
)

type Message struct {
	Category string
	Text     string
}

type claims struct {
	Category string `json:"cat"`
	Text     string `json:"msg"`
	jwt.RegisteredClaims
}

// Store signs flash cookies with HS256.
type Store struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewStore(secret string, secure bool) *Store {
	return &Store{
		secret: []byte(secret),
		secure: secure,
		now:    time.Now,
	}
}

func (s *Store) Success(w http.ResponseWriter, text string) {
	s.Set(w, CategorySuccess, text)
}

func (s *Store) Error(w http.ResponseWriter, text string) {
	s.Set(w, CategoryError, text)
}

// Set replaces any pending message.
func (s *Store) Set(w http.ResponseWriter, category, text string) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Category: category,
		Text:     text,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

// Pop returns the pending message and clears the cookie. A missing, expired
// or tampered cookie yields nil.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}

	s.clear(w)

	msg, err := s.parse(cookie.Value)
	if err != nil {
		return nil
	}
	return msg
}

func (s *Store) parse(value string) (*Message, error) {
	var c claims
	_, err := jwt.ParseWithClaims(value, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	if c.Text == "" {
		return nil, errors.New("empty flash message")
	}

	return &Message{Category: c.Category, Text: c.Text}, nil
}

func (s *Store) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
