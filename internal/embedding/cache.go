package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
)

// Cache stores vectors by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Set(ctx context.Context, key string, vec []float64) error
}

// Cached serves repeated texts from a Cache and forwards misses to the
// wrapped encoder. Cached vectors of the wrong dimension count as misses.
type Cached struct {
	inner Encoder
	cache Cache
}

// NewCached wraps inner with cache.
func NewCached(inner Encoder, cache Cache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

// Encode returns the cached vector for text or computes and stores it.
func (c *Cached) Encode(ctx context.Context, text string) ([]float64, error) {
	key := c.key(text)
	if vec, ok := c.lookup(ctx, key); ok {
		return vec, nil
	}

	vec, err := c.inner.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, vec)
	return vec, nil
}

// EncodeBatch serves hits from the cache and encodes all misses in one call.
func (c *Cached) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var (
		missTexts []string
		missIdx   []int
	)
	for i, t := range texts {
		if vec, ok := c.lookup(ctx, c.key(t)); ok {
			out[i] = vec
			continue
		}
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.inner.EncodeBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, &EncoderFailure{Message: fmt.Sprintf("expected %d vectors, got %d", len(missTexts), len(vecs))}
	}
	for j, vec := range vecs {
		out[missIdx[j]] = vec
		_ = c.cache.Set(ctx, c.key(missTexts[j]), vec)
	}
	return out, nil
}

func (c *Cached) Dimension() int { return c.inner.Dimension() }

func (c *Cached) Version() string { return c.inner.Version() }

func (c *Cached) key(text string) string {
	sum := sha1.Sum([]byte(text))
	return c.inner.Version() + ":" + hex.EncodeToString(sum[:])
}

func (c *Cached) lookup(ctx context.Context, key string) ([]float64, bool) {
	vec, ok, err := c.cache.Get(ctx, key)
	if err != nil || !ok || len(vec) != c.inner.Dimension() {
		return nil, false
	}
	return vec, true
}

// MemoryCache is a bounded in-process Cache. When full, the least recently
// used entry is evicted; Get counts as a use.
type MemoryCache struct {
	entries *lru.Cache
}

// NewMemoryCache creates a MemoryCache holding at most capacity vectors.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 10000
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New(capacity)
	return &MemoryCache{entries: entries}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]float64, bool, error) {
	v, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	vec := v.([]float64)
	out := make([]float64, len(vec))
	copy(out, vec)
	return out, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, vec []float64) error {
	stored := make([]float64, len(vec))
	copy(stored, vec)
	m.entries.Add(key, stored)
	return nil
}

// Len returns the number of cached vectors.
func (m *MemoryCache) Len() int {
	return m.entries.Len()
}

// RedisCache stores vectors in Redis as little-endian float64 blobs.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: rdb, prefix: "ranker:emb:", ttl: ttl}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]float64, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached embedding: %w", err)
	}
	vec, err := decodeVector(raw)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, vec []float64) error {
	if err := r.client.Set(ctx, r.prefix+key, encodeVector(vec), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache embedding: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func encodeVector(vec []float64) []byte {
	buf := make([]byte, 8*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	return buf
}

func decodeVector(raw []byte) ([]float64, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("corrupt cached embedding of %d bytes", len(raw))
	}
	vec := make([]float64, len(raw)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return vec, nil
}
