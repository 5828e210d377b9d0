package database

import (
	"context"
	"encoding/json"
	"fmt"

	"checkout-service/models"

	"github.com/redis/go-redis/v9"
)

// SessionStore is the persisted-session collaborator: a single JSON value
// per token holding {id, name, email}. Absence means unauthenticated.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) getKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Get returns the customer for a session token, or nil when no session exists.
func (s *SessionStore) Get(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, nil
	}
	data, err := s.client.Get(ctx, s.getKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := json.Unmarshal([]byte(data), &customer); err != nil {
		return nil, err
	}
	// Some producers write the id as "_id"
	if customer.ID == "" {
		var legacy struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal([]byte(data), &legacy); err == nil {
			customer.ID = legacy.ID
		}
	}
	return &customer, nil
}
