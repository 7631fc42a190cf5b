package game

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const hostRole = "host"

// HostClaims authorize mutations of one game session.
type HostClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig holds host token signing configuration.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration // default: 24 hours
	Issuer string
}

// TokenManager issues and validates host tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "quiz-board"
	}
	return &TokenManager{secret: cfg.Secret, ttl: cfg.TTL, issuer: cfg.Issuer, now: time.Now}
}

// Issue signs a host token for sessionID.
func (m *TokenManager) Issue(sessionID string) (string, error) {
	now := m.now()
	claims := HostClaims{
		SessionID: sessionID,
		Role:      hostRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate checks the signature, expiry and that the token belongs to sessionID.
func (m *TokenManager) Validate(tokenString, sessionID string) (*HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &HostClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*HostClaims)
	if !ok || !token.Valid || claims.Role != hostRole || claims.SessionID != sessionID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
