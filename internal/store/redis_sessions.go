package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/redis/go-redis/v9"
)

// RedisSessions stores import sessions as JSON with a TTL, so they expire
// without a janitor and survive server restarts.
type RedisSessions struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessions keys sessions under "<prefix>:session:<id>". A
// non-positive ttl uses core.DefaultSessionTTL.
func NewRedisSessions(client *redis.Client, prefix string, ttl time.Duration) *RedisSessions {
	if ttl <= 0 {
		ttl = core.DefaultSessionTTL
	}
	if prefix == "" {
		prefix = "importguess"
	}
	return &RedisSessions{client: client, prefix: prefix, ttl: ttl}
}

// ConnectRedis parses cfg.URL and verifies the server answers.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisSessions) key(id string) string {
	return r.prefix + ":session:" + id
}

func (r *RedisSessions) Get(ctx context.Context, id string) (*core.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess core.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Put stores sess and restarts its TTL.
func (r *RedisSessions) Put(ctx context.Context, sess *core.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sess.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *RedisSessions) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
