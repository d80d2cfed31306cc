// Package token issues and verifies the bearer tokens that carry the acting user id.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the outcome of verifying a bearer token.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusExpired
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusExpired:
		return "expired"
	default:
		return "internal"
	}
}

// Result carries the verification status and, when valid, the token subject.
type Result struct {
	Status Status
	UserID uint
	Err    error
}

// Valid reports whether the token was accepted.
func (r Result) Valid() bool {
	return r.Status == StatusValid
}

// Issuer signs tokens for authenticated users.
type Issuer interface {
	Issue(userID uint) (string, time.Time, error)
}

// Verifier decodes and checks bearer tokens.
type Verifier interface {
	Verify(raw string) Result
}

// Manager is the HS256 implementation of Issuer and Verifier.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) Issue(userID uint) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("token secret is not configured")
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *Manager) Verify(raw string) Result {
	if len(m.secret) == 0 {
		return Result{Status: StatusInternal, Err: errors.New("token secret is not configured")}
	}
	if raw == "" {
		return Result{Status: StatusInvalid, Err: errors.New("token is empty")}
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Result{Status: StatusExpired, Err: err}
		}
		return Result{Status: StatusInvalid, Err: err}
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return Result{Status: StatusInvalid, Err: fmt.Errorf("invalid subject %q", claims.Subject)}
	}

	return Result{Status: StatusValid, UserID: uint(userID)}
}
