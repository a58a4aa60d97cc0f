// Package analytics tracks completed searches and delivers them to optional
// sinks (Kafka, PostgreSQL) off the interactive path.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/resilience"
)

type CollectorConfig struct {
	BufferSize     int
	PublishTimeout time.Duration
	// Retry.Retryable defaults to retryableDelivery. Retry.OnRetry is
	// replaced per sink.
	Retry resilience.Backoff
	// Breaker.OnTransition is replaced by the collector.
	Breaker resilience.BreakerSettings
}

type guardedSink struct {
	sink    Sink
	breaker *resilience.CircuitBreaker
}

// Collector buffers events and hands them to every sink from a single
// background goroutine. Track never blocks the caller.
type Collector struct {
	cfg     CollectorConfig
	sinks   []guardedSink
	eventCh chan SearchEvent
	metrics *metrics.Metrics
	logger  *slog.Logger
	done    chan struct{}

	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewCollector(cfg CollectorConfig, m *metrics.Metrics, sinks ...Sink) *Collector {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = retryableDelivery
	}
	c := &Collector{
		cfg:     cfg,
		eventCh: make(chan SearchEvent, cfg.BufferSize),
		metrics: m,
		logger:  logger.WithComponent("analytics-collector"),
		done:    make(chan struct{}),
	}
	breaker := cfg.Breaker
	breaker.OnTransition = c.onBreakerTransition
	c.sinks = make([]guardedSink, 0, len(sinks))
	for _, s := range sinks {
		c.sinks = append(c.sinks, guardedSink{
			sink:    s,
			breaker: resilience.NewCircuitBreaker(s.Name(), breaker),
		})
	}
	return c
}

// retryableDelivery stops retrying once the breaker has opened or the
// collector is shutting down.
func retryableDelivery(err error) bool {
	return !errors.Is(err, resilience.ErrCircuitOpen) && !errors.Is(err, context.Canceled)
}

func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.deliver(ctx, event)
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh), "sinks", len(c.sinks))
}

// Track queues event for delivery. Events are dropped when the buffer is full
// or the collector is closed.
func (c *Collector) Track(event SearchEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
		c.count("all", "dropped")
	}
}

// Close stops accepting events and waits until queued events are delivered.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.eventCh)
	started := c.started
	c.mu.Unlock()
	if started {
		<-c.done
	}
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (c *Collector) deliver(ctx context.Context, event SearchEvent) {
	var g errgroup.Group
	for _, gs := range c.sinks {
		gs := gs
		g.Go(func() error {
			policy := c.cfg.Retry
			policy.OnRetry = func(attempt int, err error, wait time.Duration) {
				c.logger.Warn("search event delivery failed, retrying",
					"sink", gs.sink.Name(),
					"attempt", attempt,
					"wait", wait,
					"error", err,
				)
			}
			err := policy.Retry(ctx, func() error {
				return gs.breaker.Execute(func() error {
					sendCtx, cancel := context.WithTimeout(ctx, c.cfg.PublishTimeout)
					defer cancel()
					return gs.sink.Send(sendCtx, event)
				})
			})
			if err != nil {
				c.logger.Error("failed to deliver search event",
					"sink", gs.sink.Name(),
					"session_id", event.SessionID,
					"error", err,
				)
				c.count(gs.sink.Name(), "error")
				return err
			}
			c.count(gs.sink.Name(), "ok")
			return nil
		})
	}
	_ = g.Wait()
}

// Health reports degraded while any sink's breaker is not closed. Its
// signature matches health.Check.
func (c *Collector) Health(_ context.Context) health.ComponentHealth {
	var tripped []string
	for _, gs := range c.sinks {
		if state := gs.breaker.State(); state != resilience.StateClosed {
			tripped = append(tripped, fmt.Sprintf("%s %s", gs.sink.Name(), state))
		}
	}
	if len(tripped) == 0 {
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d sinks", len(c.sinks))}
	}
	sort.Strings(tripped)
	return health.ComponentHealth{
		Status:  health.StatusDegraded,
		Message: "circuit " + strings.Join(tripped, ", "),
	}
}

func (c *Collector) onBreakerTransition(tr resilience.Transition) {
	log := c.logger.With("sink", tr.Breaker, "from", tr.From.String(), "to", tr.To.String())
	if tr.To == resilience.StateOpen {
		log.Warn("analytics sink circuit opened", "consecutive_failures", tr.Failures)
	} else {
		log.Info("analytics sink circuit changed state")
	}
	if c.metrics != nil {
		c.metrics.BreakerTransitions.WithLabelValues(tr.Breaker, tr.To.String()).Inc()
	}
}

func (c *Collector) count(sink, status string) {
	if c.metrics == nil {
		return
	}
	c.metrics.AnalyticsEventsTotal.WithLabelValues(sink, status).Inc()
}
