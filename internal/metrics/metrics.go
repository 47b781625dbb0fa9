// Package metrics exports tick loop statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "locosim"

// Collector holds the tick loop metrics. It satisfies ai.Observer.
type Collector struct {
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	controllers  prometheus.Gauge
	blocked      prometheus.Gauge
	braking      prometheus.Gauge
	arrivals     prometheus.Counter
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ticks_total",
			Help:      "Logic frames simulated.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent ticking every controller once.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		controllers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "controllers",
			Help:      "Active movement controllers.",
		}),
		blocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "blocked_units",
			Help:      "Units turning in place to face their goal.",
		}),
		braking: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "braking_units",
			Help:      "Units braking toward their goal.",
		}),
		arrivals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "arrivals_total",
			Help:      "Units that reached their final goal.",
		}),
	}

	for _, m := range []prometheus.Collector{c.ticks, c.tickDuration, c.controllers, c.blocked, c.braking, c.arrivals} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}
	return c, nil
}

// ObserveTick records one tick manager step.
func (c *Collector) ObserveTick(d time.Duration, controllers, blocked, braking, arrivals int) {
	c.ticks.Inc()
	c.tickDuration.Observe(d.Seconds())
	c.controllers.Set(float64(controllers))
	c.blocked.Set(float64(blocked))
	c.braking.Set(float64(braking))
	if arrivals > 0 {
		c.arrivals.Add(float64(arrivals))
	}
}

// Handler returns the /metrics handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics endpoint listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving metrics on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down metrics server: %w", err)
	}
	slog.Info("metrics endpoint stopped", "address", addr)
	return nil
}
