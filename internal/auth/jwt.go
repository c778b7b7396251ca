package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

type (
	Claims struct {
		Role string `json:"role"`
		jwt.RegisteredClaims
	}

	// Principal is the identity resolved from a bearer credential.
	Principal struct {
		Email string
		Role  string
	}

	// Manager issues and verifies HS256 tokens. Tokens carry no expiry unless
	// a TTL is configured.
	Manager struct {
		secret []byte
		ttl    time.Duration
		now    func() time.Time
	}
)

func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required but was empty")
	}
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

func (m *Manager) GenerateToken(email, role string) (string, error) {
	now := m.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (m *Manager) ValidateToken(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, errors.Wrap(apperr.ErrAuthentication, "missing bearer token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(apperr.ErrAuthentication, "token expired")
		}
		return nil, errors.Wrap(apperr.ErrAuthentication, "invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.Wrap(apperr.ErrAuthentication, "invalid token claims")
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}
	return &Principal{Email: claims.Subject, Role: role}, nil
}
