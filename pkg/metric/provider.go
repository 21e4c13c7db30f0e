package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Provider struct {
	success prometheus.Counter
	fails   prometheus.Counter
	io      prometheus.Observer
}

func (p *Provider) SuccessInc() {
	p.success.Inc()
}

func (p *Provider) FailsInc() {
	p.fails.Inc()
}

// NewIOTimer starts measuring an upstream call. The returned function stops
// the timer and records the observation.
func (p *Provider) NewIOTimer() func() {
	start := time.Now()
	return func() {
		p.io.Observe(float64(time.Since(start).Nanoseconds()))
	}
}
