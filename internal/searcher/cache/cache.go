// Package cache memoises evaluated searches in Redis. Keys are namespaced by
// the record set's fingerprint, so results from a different input file are
// never served.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/logger"
	pkgredis "github.com/Adithya-Monish-Kumar-K/people-search/pkg/redis"
)

const keyPrefix = "search:"

// Store is the subset of *pkgredis.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Key identifies one search against one record set.
type Key struct {
	Dataset  string
	Strategy string
	Terms    []string
}

type QueryCache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func New(store Store, ttl time.Duration) *QueryCache {
	return &QueryCache{
		store:  store,
		ttl:    ttl,
		logger: logger.WithComponent("query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, key Key) ([]int, bool) {
	k := buildKey(key)
	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", k, "error", err)
		}
		return nil, false
	}
	var positions []int
	if err := json.Unmarshal([]byte(data), &positions); err != nil {
		c.logger.Error("cache unmarshal failed", "key", k, "error", err)
		return nil, false
	}
	c.logger.Debug("cache hit", "strategy", key.Strategy, "key", k)
	return positions, true
}

func (c *QueryCache) Set(ctx context.Context, key Key, positions []int) {
	k := buildKey(key)
	data, err := json.Marshal(positions)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", k, "error", err)
		return
	}
	if err := c.store.Set(ctx, k, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", k, "error", err)
	}
}

// GetOrCompute returns the cached positions for key, or runs computeFn once
// per key across concurrent callers and caches its result. The boolean
// reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	key Key,
	computeFn func() ([]int, error),
) ([]int, bool, error) {
	if positions, ok := c.Get(ctx, key); ok {
		return positions, true, nil
	}
	val, err, _ := c.group.Do(buildKey(key), func() (interface{}, error) {
		positions, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, positions)
		return positions, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]int), false, nil
}

// buildKey hashes the upper-cased strategy and the normalised terms. Each
// field is length-prefixed, so no term content can shift a field boundary.
func buildKey(key Key) string {
	h := sha256.New()
	writeField(h, strings.ToUpper(key.Strategy))
	for _, term := range normalizeTerms(key.Terms) {
		writeField(h, term)
	}
	return fmt.Sprintf("%s%s:%x", keyPrefix, key.Dataset, h.Sum(nil)[:16])
}

func writeField(h hash.Hash, field string) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(field)))
	h.Write(lenBuf[:])
	h.Write([]byte(field))
}

// normalizeTerms sorts and dedupes terms. Every strategy treats the query as
// a set, so order and repetition never change the result.
func normalizeTerms(terms []string) []string {
	uniq := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		uniq[t] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for t := range uniq {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)
	return sorted
}
