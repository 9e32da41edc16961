package session

import (
	"context"
	"time"
)

// Identity is the resolved caller: everything handlers are allowed to know
// about the current session. It is passed explicitly through the request
// context, never read from package-level state.
type Identity struct {
	UserID      uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Departement string `json:"departement"`
	Fonction    string `json:"fonction"`
}

// Store persists session identities keyed by an opaque session id.
// Implementations: in-memory (tests, single node) and Redis.
type Store interface {
	Save(ctx context.Context, sessionID string, identity Identity, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Identity, error)
	Delete(ctx context.Context, sessionID string) error
}
