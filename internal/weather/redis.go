package weather

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "weather:"

// RedisStore keeps cache entries in Redis with the TTL mapped onto key
// expiry, so entries survive process restarts. Any Redis failure is treated
// as a cache miss; the provider call covers for it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: CacheTTL}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Payload, bool) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return Payload{}, false
	}
	if err != nil {
		log.Printf("[WEATHER]: redis get %q: %v", key, err)
		return Payload{}, false
	}

	var p Payload
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		log.Printf("[WEATHER]: redis entry %q is malformed: %v", key, err)
		return Payload{}, false
	}
	return p, true
}

func (s *RedisStore) Set(ctx context.Context, key string, p Payload) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("[WEATHER]: marshal cache entry %q: %v", key, err)
		return
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err(); err != nil {
		log.Printf("[WEATHER]: redis set %q: %v", key, err)
	}
}
