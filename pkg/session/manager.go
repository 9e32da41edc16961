package session

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "parc-info/pkg/errors"
)

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Manager issues and resolves session tokens. The cookie value is a signed
// JWT whose jti is the server-side session id; a token only resolves while
// its signature is valid AND the session still exists in the store, so
// logout revokes immediately.
type Manager struct {
	store     Store
	secretKey []byte
	ttl       time.Duration
	logger    *zap.Logger
}

func NewManager(store Store, secretKey string, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		store:     store,
		secretKey: []byte(secretKey),
		ttl:       ttl,
		logger:    logger,
	}
}

// Create persists the identity and returns the signed token for the cookie.
func (m *Manager) Create(ctx context.Context, identity Identity) (string, error) {
	sessionID := uuid.New().String()

	if err := m.store.Save(ctx, sessionID, identity, m.ttl); err != nil {
		return "", err
	}

	now := time.Now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secretKey)
	if err != nil {
		_ = m.store.Delete(ctx, sessionID)
		return "", err
	}
	return token, nil
}

// Resolve validates the token and loads the identity from the store.
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	sessionID, err := m.parseSessionID(token)
	if err != nil {
		return nil, err
	}

	identity, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrSessionExpired) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return identity, nil
}

// Destroy removes the server-side session; the cookie becomes useless even
// if the client keeps it.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sessionID, err := m.parseSessionID(token)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, sessionID)
}

func (m *Manager) parseSessionID(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return m.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrSessionExpired
		}
		m.logger.Debug("session token rejected", zap.Error(err))
		return "", apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", apperrors.ErrInvalidToken
	}
	return claims.ID, nil
}
