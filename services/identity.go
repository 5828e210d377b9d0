package services

import (
	"context"

	"checkout-service/models"
)

// SessionProvider abstracts the persisted-session store so the auth check
// is testable without a global store.
type SessionProvider interface {
	Get(ctx context.Context, token string) (*models.Customer, error)
}

// IdentityGate checks for an authenticated session before any network
// activity. It has no side effects beyond the check.
type IdentityGate struct {
	sessions SessionProvider
}

func NewIdentityGate(sessions SessionProvider) *IdentityGate {
	return &IdentityGate{sessions: sessions}
}

// Verify returns the session's customer, or ErrAuthMissing when no
// authenticated session exists.
func (g *IdentityGate) Verify(ctx context.Context, token string) (*models.Customer, error) {
	customer, err := g.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.ID == "" {
		return nil, ErrAuthMissing
	}
	return customer, nil
}
