package jwt

import (
	"errors"
	"strings"
	"time"

	"hiresight/internal/domain/user"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrNoSecret     = errors.New("jwt secret is not configured")
)

// Subject is what gets encoded into a credential at login.
type Subject struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   user.Role
}

type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	Issue(sub Subject) (string, time.Time, error)
	Verify(tokenString string) (Claims, error)
	TTL() time.Duration
}

type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) (*HMACService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	if expiresIn <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}, nil
}

func (s *HMACService) TTL() time.Duration {
	return s.expiresIn
}

func (s *HMACService) Issue(sub Subject) (string, time.Time, error) {
	if sub.UserID == uuid.Nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	if _, ok := user.ParseRole(string(sub.Role)); !ok {
		return "", time.Time{}, ErrTokenInvalid
	}

	now := s.now().UTC()
	exp := now.Add(s.expiresIn)

	c := Claims{
		UserID: sub.UserID,
		Name:   sub.Name,
		Email:  sub.Email,
		Role:   sub.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sub.UserID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, ErrTokenMissing
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.UserID == uuid.Nil || c.Subject != c.UserID.String() {
		return Claims{}, ErrTokenInvalid
	}
	role, ok := user.ParseRole(string(c.Role))
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	c.Role = role

	return c, nil
}
