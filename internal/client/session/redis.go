package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the session keys.
const DefaultRedisPrefix = "agentdesk:session:"

// RedisStore persists the session in three Redis string keys. Writes go
// through MULTI/EXEC and reads through a single MGET, both atomic on the
// server.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) keys() []string {
	return []string{r.prefix + KeyAccessToken, r.prefix + KeyRefreshToken, r.prefix + KeyUser}
}

func (r *RedisStore) Get(ctx context.Context) (*State, error) {
	vals, err := r.rdb.MGet(ctx, r.keys()...).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	st, ok := decodeState(asBytes(vals[0]), asBytes(vals[1]), asBytes(vals[2]))
	if !ok {
		return nil, nil
	}
	return st, nil
}

func (r *RedisStore) Set(ctx context.Context, pair CredentialPair, user User) error {
	if err := validate(pair, user); err != nil {
		return err
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	k := r.keys()
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, k[0], pair.AccessToken, 0)
		p.Set(ctx, k[1], pair.RefreshToken, 0)
		p.Set(ctx, k[2], userJSON, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.keys()...).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *RedisStore) AccessToken(ctx context.Context) (string, error) {
	st, err := r.Get(ctx)
	if err != nil || st == nil {
		return "", err
	}
	return st.Pair.AccessToken, nil
}

func (r *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	st, err := r.Get(ctx)
	if err != nil || st == nil {
		return "", err
	}
	return st.Pair.RefreshToken, nil
}

func asBytes(v any) []byte {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return []byte(s)
}
