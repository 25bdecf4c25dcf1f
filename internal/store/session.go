package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated identity carried by a token. Handlers and
// services depend only on this, not on how the front end stores it.
type Session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// SessionStore is the injected session capability: issue a token for a
// session, resolve a token, revoke a token.
type SessionStore interface {
	Set(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Clear(ctx context.Context, token string) error
}

// KVSessionStore keeps sessions in the KV store with a TTL.
type KVSessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewKVSessionStore(kv KV, ttl time.Duration) *KVSessionStore {
	return &KVSessionStore{kv: kv, ttl: ttl}
}

var _ SessionStore = (*KVSessionStore)(nil)

func sessionKey(token string) string { return "session:" + token }

func (s *KVSessionStore) Set(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey(token), string(payload), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *KVSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrMiss
	}
	val, err := s.kv.Get(ctx, sessionKey(token))
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *KVSessionStore) Clear(ctx context.Context, token string) error {
	return s.kv.Del(ctx, sessionKey(token))
}
