package granter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jrsteele09/go-grant-engine/oauth2"
)

var (
	grantsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "token_grants_total",
		Help: "Token grant executions by grant type and result",
	}, []string{"grant_type", "result"})

	grantDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "token_grant_duration_seconds",
		Help:    "Token grant execution latency by grant type",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"grant_type"})
)

// RegisterMetrics registers the grant metrics on the given registry (or
// default if nil). Double registration is tolerated so tests can share a
// process-wide registry.
func RegisterMetrics(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{grantsTotal, grantDuration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

func observeGrant(grantType string, err error, elapsed time.Duration) {
	result := "success"
	if err != nil {
		result = oauth2.Response(err).Error
	}
	grantsTotal.WithLabelValues(grantType, result).Inc()
	grantDuration.WithLabelValues(grantType).Observe(elapsed.Seconds())
}

func observeUnsupported(grantType string) {
	grantsTotal.WithLabelValues(grantType, "unsupported_grant_type").Inc()
}
