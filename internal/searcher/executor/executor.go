package executor

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/metrics"
)

type SearchResult struct {
	Query        string   `json:"query"`
	Strategy     string   `json:"strategy"`
	Terms        []string `json:"terms"`
	Positions    []int    `json:"positions"`
	TotalRecords int      `json:"total_records"`
	CacheHit     bool     `json:"cache_hit"`
}

// ResultCache memoises evaluated positions.
type ResultCache interface {
	GetOrCompute(ctx context.Context, key cache.Key, computeFn func() ([]int, error)) ([]int, bool, error)
}

// Tracker receives one event per completed search.
type Tracker interface {
	Track(event analytics.SearchEvent)
}

type Executor struct {
	index   *index.InvertedIndex
	cache   ResultCache
	tracker Tracker
	metrics *metrics.Metrics
}

type Option func(*Executor)

func WithCache(c ResultCache) Option {
	return func(e *Executor) { e.cache = c }
}

func WithTracker(t Tracker) Option {
	return func(e *Executor) { e.tracker = t }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

func New(ix *index.InvertedIndex, opts ...Option) *Executor {
	e := &Executor{index: ix}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics != nil {
		e.metrics.RecordsIndexed.Set(float64(ix.Len()))
		e.metrics.IndexTerms.Set(float64(ix.Terms()))
	}
	return e
}

// Execute evaluates plan against the index. Cache failures fall back to
// direct evaluation, so a valid plan always yields a result.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan) *SearchResult {
	start := time.Now()
	total := e.index.Len()
	evaluate := func() []int {
		return Evaluate(e.index.Query(plan.Terms), plan.Strategy, total)
	}

	var positions []int
	cacheHit := false
	if e.cache != nil {
		key := cache.Key{
			Dataset:  e.index.Fingerprint(),
			Strategy: plan.Strategy.String(),
			Terms:    plan.Terms,
		}
		var err error
		positions, cacheHit, err = e.cache.GetOrCompute(ctx, key, func() ([]int, error) {
			return evaluate(), nil
		})
		if err != nil {
			logger.FromContext(ctx).Warn("cached search failed, evaluating directly", "error", err)
			positions = evaluate()
			cacheHit = false
		}
	} else {
		positions = evaluate()
	}
	elapsed := time.Since(start)

	result := &SearchResult{
		Query:        plan.RawQuery,
		Strategy:     plan.Strategy.String(),
		Terms:        plan.Terms,
		Positions:    positions,
		TotalRecords: total,
		CacheHit:     cacheHit,
	}
	e.observe(ctx, result, elapsed)
	return result
}

// Records returns the records at positions, in the given order.
func (e *Executor) Records(positions []int) []string {
	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		if rec, ok := e.index.Record(pos); ok {
			out = append(out, rec)
		}
	}
	return out
}

// AllRecords returns every record in original order.
func (e *Executor) AllRecords() []string {
	return e.index.Records()
}

func (e *Executor) observe(ctx context.Context, result *SearchResult, elapsed time.Duration) {
	matches := len(result.Positions)
	if e.metrics != nil {
		resultType := "hit"
		if matches == 0 {
			resultType = "zero_result"
		}
		cacheStatus := "none"
		if e.cache != nil {
			cacheStatus = "miss"
			if result.CacheHit {
				cacheStatus = "hit"
				e.metrics.CacheHitsTotal.Inc()
			} else {
				e.metrics.CacheMissesTotal.Inc()
			}
		}
		e.metrics.SearchQueriesTotal.WithLabelValues(result.Strategy, resultType).Inc()
		e.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(elapsed.Seconds())
		e.metrics.SearchResultsCount.Observe(float64(matches))
	}

	log := logger.FromContext(ctx).With("component", "query-executor")
	log.Info("query executed",
		"strategy", result.Strategy,
		"terms", result.Terms,
		"results", matches,
		"total_records", result.TotalRecords,
		"cache_hit", result.CacheHit,
		"latency", elapsed,
	)

	if e.tracker == nil {
		return
	}
	sessionID, _ := logger.SessionID(ctx)
	e.tracker.Track(analytics.SearchEvent{
		Type:          analytics.EventTypeFor(matches),
		SessionID:     sessionID,
		Dataset:       e.index.Fingerprint(),
		Strategy:      result.Strategy,
		Terms:         result.Terms,
		TotalRecords:  result.TotalRecords,
		Matches:       matches,
		LatencyMicros: elapsed.Microseconds(),
		CacheHit:      result.CacheHit,
		Timestamp:     time.Now().UTC(),
	})
}
