package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"grounded-qa-be/pkg/websearch"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 10 * time.Minute
	keyPrefix  = "websearch:"
)

// Searcher serves repeated queries from Redis and falls through to the
// wrapped provider on a miss or on any Redis error.
type Searcher struct {
	next websearch.Provider
	rdb  redis.Cmdable
	ttl  time.Duration
	// OnError receives Redis failures; they never fail a search.
	OnError func(op string, err error)
}

var _ websearch.Provider = (*Searcher)(nil)

func New(next websearch.Provider, rdb redis.Cmdable, ttl time.Duration) *Searcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Searcher{next: next, rdb: rdb, ttl: ttl}
}

func (s *Searcher) Name() string { return s.next.Name() }

func Key(provider string, k int, q string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(q), " "))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", provider, k, normalized)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (s *Searcher) Discover(ctx context.Context, q string, k int) ([]websearch.Result, error) {
	if s.rdb == nil {
		return s.next.Discover(ctx, q, k)
	}
	key := Key(s.next.Name(), k, q)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []websearch.Result
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			return cached, nil
		}
		s.report("decode", jsonErr)
	case !errors.Is(err, redis.Nil):
		s.report("get", err)
	}

	results, err := s.next.Discover(ctx, q, k)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(results)
	if err != nil {
		s.report("encode", err)
		return results, nil
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.report("set", err)
	}
	return results, nil
}

func (s *Searcher) report(op string, err error) {
	if s.OnError != nil {
		s.OnError(op, err)
	}
}
