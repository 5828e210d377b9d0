package services

import (
	"context"
	"testing"

	"checkout-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityGate_Verify(t *testing.T) {
	gate := NewIdentityGate(&mockSessions{customer: &models.Customer{ID: "user-1", Name: "Asha"}})

	customer, err := gate.Verify(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "user-1", customer.ID)
}

func TestIdentityGate_NoSession(t *testing.T) {
	gate := NewIdentityGate(&mockSessions{})

	_, err := gate.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuthMissing)
}

func TestIdentityGate_AnonymousSession(t *testing.T) {
	gate := NewIdentityGate(&mockSessions{customer: &models.Customer{}})

	_, err := gate.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrAuthMissing)
}

func TestIdentityGate_StoreError(t *testing.T) {
	gate := NewIdentityGate(&mockSessions{err: assert.AnError})

	_, err := gate.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, assert.AnError)
}
