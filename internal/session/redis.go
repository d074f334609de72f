package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a TTL so abandoned conversations
// age out across restarts. Update is serialized per process with a mutex;
// the bot runs as a single writer per user.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration

	mu sync.Mutex

	defaultLanguage string
	onFirstSeen     func(userID int64)
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr            string
	Password        string
	DB              int
	TTL             time.Duration
	DefaultLanguage string
	OnFirstSeen     func(userID int64)
}

// NewRedisStore constructs a Redis-backed Store and verifies connectivity.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = "uz"
	}
	return &RedisStore{
		client:          client,
		ttl:             ttl,
		defaultLanguage: lang,
		onFirstSeen:     opts.OnFirstSeen,
	}, nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (r *RedisStore) load(ctx context.Context, userID int64) (UserSession, bool, error) {
	data, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return UserSession{
			UserID:             userID,
			Pending:            PendingNone,
			LanguagePreference: r.defaultLanguage,
		}, false, nil
	}
	if err != nil {
		return UserSession{}, false, fmt.Errorf("get session: %w", err)
	}
	var sess UserSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return UserSession{}, false, fmt.Errorf("decode session: %w", err)
	}
	return sess, true, nil
}

func (r *RedisStore) save(ctx context.Context, sess UserSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(sess.UserID), data, r.ttl).Err()
}

// Get returns the user's session, creating and persisting defaults if absent.
func (r *RedisStore) Get(ctx context.Context, userID int64) (UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, found, err := r.load(ctx, userID)
	if err != nil {
		return UserSession{}, err
	}
	if !found {
		if err := r.save(ctx, sess); err != nil {
			return UserSession{}, err
		}
		if r.onFirstSeen != nil {
			r.onFirstSeen(userID)
		}
	}
	return sess, nil
}

// Update loads, mutates, and writes back the session as one guarded step.
func (r *RedisStore) Update(ctx context.Context, userID int64, mutate func(*UserSession)) (UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, found, err := r.load(ctx, userID)
	if err != nil {
		return UserSession{}, err
	}
	if mutate != nil {
		mutate(&sess)
	}
	if err := r.save(ctx, sess); err != nil {
		return UserSession{}, err
	}
	if !found && r.onFirstSeen != nil {
		r.onFirstSeen(userID)
	}
	return sess, nil
}
