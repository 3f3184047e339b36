// Package auth issues and validates the signed session tokens that
// authenticate API requests.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL bounds a token's lifetime when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrExpired is returned when a token's expiry instant has passed.
	ErrExpired = errors.New("token expired")

	// ErrInvalid is returned for any other validation failure: bad
	// signature, structural corruption, wrong signing method, or a
	// missing subject.
	ErrInvalid = errors.New("token invalid")
)

// TokenService signs and verifies HS256 JWTs bound to a user identity.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService around the process-wide
// secret. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue returns a signed token carrying the user id as subject, valid
// from now until now+ttl.
func (s *TokenService) Issue(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the user id the
// token was issued for.
func (s *TokenService) Validate(tokenString string) (int, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalid
	}
	if !token.Valid {
		return 0, ErrInvalid
	}

	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return 0, ErrInvalid
	}
	return userID, nil
}
