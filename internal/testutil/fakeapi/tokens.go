package fakeapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of credentials issued by login and register.
const DefaultTokenTTL = time.Hour

var errUnknownToken = errors.New("unknown token")

type claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// signToken must be called with s.mu held.
func (s *Server) signToken(userID int64, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        strconv.FormatInt(s.id(), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	s.tokens[signed] = userID
	return signed
}

// userFromToken validates signature and expiry and checks the token was not
// revoked. It must be called with s.mu held.
func (s *Server) userFromToken(tokenString string) (int64, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	if id, ok := s.tokens[tokenString]; !ok || id != c.UserID {
		return 0, errUnknownToken
	}
	return c.UserID, nil
}

// IssueTokenTTL creates a credential for an existing account that expires
// after ttl; a negative ttl yields an already expired token.
func (s *Server) IssueTokenTTL(userID int64, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signToken(userID, ttl)
}
