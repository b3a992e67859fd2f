package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitdash/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitdash-session||"
	tokensSetKey     = "fitdash-sessions"
	tokenLength      = 35
)

var ErrNoSession = errors.New("session not found")

type Session struct {
	PrincipalID string    `json:"principalId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionStore keeps login sessions in redis: one key per token holding the
// session, plus a set of all tokens used by ScanAndClean.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewSessionStore(ttl time.Duration, redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (s *SessionStore) Create(ctx context.Context, principalID string, createdAt time.Time) (string, error) {
	if principalID == "" {
		return "", errors.New("principal id empty")
	}

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	sessionJson, err := json.Marshal(Session{
		PrincipalID: principalID,
		CreatedAt:   createdAt.UTC(),
	})
	if err != nil {
		return "", err
	}

	if err := s.redisClient.Set(ctx, sessionKey(token), string(sessionJson), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: set session: %w", ErrUnavailable, err)
	}

	// add token to the set of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("%w: add session token: %w", ErrUnavailable, err)
	}

	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	val, err := s.redisClient.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %w", ErrUnavailable, err)
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	// redis expires the key, but ttl could have been shortened since
	if time.Since(session.CreatedAt) > s.ttl {
		return nil, ErrNoSession
	}

	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: delete session: %w", ErrUnavailable, err)
	}

	// remove token from the set of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, fmt.Errorf("%w: remove session token: %w", ErrUnavailable, err)
	}

	return deleted > 0, nil
}

// ScanAndClean will run through all sessions, and drop the tokens whose session
// is gone or too old
func (s *SessionStore) ScanAndClean(ctx context.Context) {
	sessionTokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("session store, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("session store, scan and clean abort, no sessions")
		return
	}

	log.Debugf("session store, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		_, err := s.Get(ctx, token)
		switch {
		case errors.Is(err, ErrNoSession):
			toRemove = append(toRemove, token)
		case err != nil:
			log.Errorf("session store, scan and clean token: %s", err)
		}
	}

	for _, token := range toRemove {
		if _, err := s.Delete(ctx, token); err != nil {
			log.Errorf("session store, clean token: %s", err)
		}
	}
	log.Debugf("session store, scan and clean done, removed %d sessions", len(toRemove))
}
