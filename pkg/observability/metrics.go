package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/granchi/hollywood/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by engine events.
type Metrics struct {
	actions      prometheus.Counter
	cycles       prometheus.Histogram
	exceptions   *prometheus.CounterVec
	actorsLive   prometheus.Gauge
	actorsStart  *prometheus.CounterVec
	actorsStop   *prometheus.CounterVec
	terminations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hollywood_actions_total",
			Help: "Total number of actions dequeued by the engine",
		}),
		cycles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hollywood_cycle_duration_seconds",
			Help:    "Time spent applying an action and reconciling actors",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		exceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hollywood_exceptions_total",
			Help: "Total number of failed model transitions",
		}, []string{"recovered"}),
		actorsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hollywood_actors_live",
			Help: "Number of live actors",
		}),
		actorsStart: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hollywood_actors_started_total",
			Help: "Total number of actors started",
		}, []string{"role"}),
		actorsStop: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hollywood_actors_stopped_total",
			Help: "Total number of actors stopped",
		}, []string{"role"}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hollywood_terminations_total",
			Help: "Total number of engine runs ended, by reason",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{
		m.actions, m.cycles, m.exceptions, m.actorsLive, m.actorsStart, m.actorsStop, m.terminations,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns the lifecycle hooks updating the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(_ context.Context, _ *domain.ActionEvent) {
			m.actions.Inc()
		},
		OnModel: func(_ context.Context, e *domain.ModelEvent) {
			// The initial Model has no cycle.
			if e.Duration > 0 {
				m.cycles.Observe(e.Duration.Seconds())
			}
		},
		OnException: func(_ context.Context, e *domain.ExceptionEvent) {
			m.exceptions.WithLabelValues(strconv.FormatBool(e.Recovered)).Inc()
		},
		OnActorStart: func(_ context.Context, e *domain.ActorEvent) {
			m.actorsLive.Inc()
			m.actorsStart.WithLabelValues(string(e.Role)).Inc()
		},
		OnActorStop: func(_ context.Context, e *domain.ActorEvent) {
			m.actorsLive.Dec()
			m.actorsStop.WithLabelValues(string(e.Role)).Inc()
		},
		OnTerminate: func(_ context.Context, e *domain.TerminateEvent) {
			m.terminations.WithLabelValues(string(e.Reason)).Inc()
		},
	}
}
