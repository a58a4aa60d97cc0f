package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/resilience"
)

type recordingSink struct {
	name string
	err  error

	mu     sync.Mutex
	events []SearchEvent
	calls  int
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(_ context.Context, event SearchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) snapshot() ([]SearchEvent, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SearchEvent(nil), s.events...), s.calls
}

func sampleEvent(session string) SearchEvent {
	return SearchEvent{
		Type:         EventSearch,
		SessionID:    session,
		Strategy:     "ANY",
		Terms:        []string{"alice"},
		TotalRecords: 3,
		Matches:      2,
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func fastRetry() resilience.Backoff {
	return resilience.Backoff{Attempts: 1, Initial: time.Millisecond}
}

func TestCollectorDeliversToEverySink(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	c := NewCollector(CollectorConfig{Retry: fastRetry()}, m, a, b)
	c.Start(context.Background())

	c.Track(sampleEvent("s1"))
	c.Track(sampleEvent("s2"))
	c.Close()

	for _, sink := range []*recordingSink{a, b} {
		events, _ := sink.snapshot()
		require.Len(t, events, 2)
		assert.Equal(t, "s1", events[0].SessionID)
		assert.Equal(t, "s2", events[1].SessionID)
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AnalyticsEventsTotal.WithLabelValues("a", "ok")))
}

func TestCollectorFailingSinkDoesNotBlockOthers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	bad := &recordingSink{name: "bad", err: errors.New("broker down")}
	good := &recordingSink{name: "good"}
	c := NewCollector(CollectorConfig{
		Retry:   fastRetry(),
		Breaker: resilience.BreakerSettings{Failures: 1, Cooldown: time.Hour},
	}, m, bad, good)
	c.Start(context.Background())

	for i := 0; i < 3; i++ {
		c.Track(sampleEvent("s"))
	}
	c.Close()

	events, _ := good.snapshot()
	assert.Len(t, events, 3)
	// the breaker opens after the first failure, so the sink is called once
	_, calls := bad.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.AnalyticsEventsTotal.WithLabelValues("bad", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BreakerTransitions.WithLabelValues("bad", "open")))

	report := c.Health(context.Background())
	assert.Equal(t, health.StatusDegraded, report.Status)
	assert.Equal(t, "circuit bad open", report.Message)
}

func TestCollectorHealthyWithClosedBreakers(t *testing.T) {
	c := NewCollector(CollectorConfig{Retry: fastRetry()}, nil, &recordingSink{name: "a"})
	report := c.Health(context.Background())
	assert.Equal(t, health.StatusUp, report.Status)
}

func TestCollectorRetriesTransientFailures(t *testing.T) {
	flaky := &flakySink{failures: 2}
	c := NewCollector(CollectorConfig{
		Retry: resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: time.Millisecond},
	}, nil, flaky)
	c.Start(context.Background())
	c.Track(sampleEvent("s"))
	c.Close()

	assert.Equal(t, 3, flaky.calls)
	assert.True(t, flaky.delivered)
}

func TestCollectorDoesNotRetryCancelledSend(t *testing.T) {
	sink := &recordingSink{name: "a", err: fmt.Errorf("publishing: %w", context.Canceled)}
	c := NewCollector(CollectorConfig{
		Retry: resilience.Backoff{Attempts: 5, Initial: time.Millisecond},
	}, nil, sink)
	c.Start(context.Background())
	c.Track(sampleEvent("s"))
	c.Close()

	_, calls := sink.snapshot()
	assert.Equal(t, 1, calls)
}

type flakySink struct {
	failures  int
	calls     int
	delivered bool
}

func (s *flakySink) Name() string { return "flaky" }

func (s *flakySink) Send(_ context.Context, _ SearchEvent) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("leader not available")
	}
	s.delivered = true
	return nil
}

func TestCollectorDropsWhenFull(t *testing.T) {
	sink := &recordingSink{name: "a"}
	c := NewCollector(CollectorConfig{BufferSize: 1, Retry: fastRetry()}, nil, sink)

	c.Track(sampleEvent("kept"))
	c.Track(sampleEvent("dropped"))
	c.Start(context.Background())
	c.Close()

	events, _ := sink.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "kept", events[0].SessionID)
}

func TestCollectorTrackAfterClose(t *testing.T) {
	sink := &recordingSink{name: "a"}
	c := NewCollector(CollectorConfig{Retry: fastRetry()}, nil, sink)
	c.Close()
	c.Close()

	assert.NotPanics(t, func() { c.Track(sampleEvent("late")) })
}

func TestCollectorDrainsOnCancel(t *testing.T) {
	sink := &recordingSink{name: "a"}
	c := NewCollector(CollectorConfig{Retry: fastRetry()}, nil, sink)
	c.Track(sampleEvent("queued"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Start(ctx)
	c.Close()

	events, _ := sink.snapshot()
	assert.Len(t, events, 1)
}

type published struct {
	key   string
	value any
}

type fakePublisher struct {
	messages []published
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, value any) error {
	p.messages = append(p.messages, published{key: key, value: value})
	return nil
}

func TestKafkaSinkKeysBySession(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewKafkaSink(pub)

	require.NoError(t, sink.Send(context.Background(), sampleEvent("session-7")))
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "session-7", pub.messages[0].key)
	assert.Equal(t, sampleEvent("session-7"), pub.messages[0].value)
	assert.Equal(t, "kafka", sink.Name())
}

type fakeExecer struct {
	query string
	args  []any
	err   error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.query = query
	f.args = args
	return nil, f.err
}

func TestPostgresSinkInsertsEvent(t *testing.T) {
	db := &fakeExecer{}
	sink := NewPostgresSink(db)

	event := sampleEvent("s9")
	require.NoError(t, sink.Send(context.Background(), event))
	assert.Equal(t, insertEventSQL, db.query)
	require.Len(t, db.args, 6)
	assert.Equal(t, "s9", db.args[0])
	assert.Equal(t, "search", db.args[1])
	assert.Equal(t, "ANY", db.args[2])
	assert.Equal(t, 2, db.args[3])

	var decoded SearchEvent
	require.NoError(t, json.Unmarshal(db.args[4].([]byte), &decoded))
	assert.Equal(t, event, decoded)
}

func TestPostgresSinkWrapsError(t *testing.T) {
	boom := errors.New("connection refused")
	sink := NewPostgresSink(&fakeExecer{err: boom})
	err := sink.Send(context.Background(), sampleEvent("s"))
	assert.ErrorIs(t, err, boom)
}

func TestEventTypeFor(t *testing.T) {
	assert.Equal(t, EventZeroResult, EventTypeFor(0))
	assert.Equal(t, EventSearch, EventTypeFor(4))
}
