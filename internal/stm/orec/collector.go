package orec

import "github.com/prometheus/client_golang/prometheus"

// Collector exports an STM's counters to Prometheus.
type Collector struct {
	stm *STM

	commits      *prometheus.Desc
	aborts       *prometheus.Desc
	cancels      *prometheus.Desc
	scopeCancels *prometheus.Desc
	validations  *prometheus.Desc
	extensions   *prometheus.Desc
}

// NewCollector returns a collector for s. It still needs to be registered
// with a prometheus registry.
func NewCollector(namespace string, s *STM) *Collector {
	fq := func(name string) string {
		return prometheus.BuildFQName(namespace, "stm", name)
	}
	return &Collector{
		stm:          s,
		commits:      prometheus.NewDesc(fq("commits_total"), "Committed transactions.", []string{"mode"}, nil),
		aborts:       prometheus.NewDesc(fq("aborts_total"), "Conflict aborts.", []string{"reason"}, nil),
		cancels:      prometheus.NewDesc(fq("cancels_total"), "Transactions cancelled by the caller.", nil, nil),
		scopeCancels: prometheus.NewDesc(fq("scope_cancels_total"), "Cancelled nested scopes.", nil, nil),
		validations:  prometheus.NewDesc(fq("validations_total"), "Watchdog and sampler triggered validations.", nil, nil),
		extensions:   prometheus.NewDesc(fq("extensions_total"), "Snapshot extensions.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commits
	ch <- c.aborts
	ch <- c.cancels
	ch <- c.scopeCancels
	ch <- c.validations
	ch <- c.extensions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stm.Stats()
	ch <- prometheus.MustNewConstMetric(c.commits, prometheus.CounterValue, float64(s.CommitsRO), "ro")
	ch <- prometheus.MustNewConstMetric(c.commits, prometheus.CounterValue, float64(s.CommitsRW), "rw")
	for reason, n := range s.Aborts {
		ch <- prometheus.MustNewConstMetric(c.aborts, prometheus.CounterValue, float64(n), reason)
	}
	ch <- prometheus.MustNewConstMetric(c.cancels, prometheus.CounterValue, float64(s.Cancels))
	ch <- prometheus.MustNewConstMetric(c.scopeCancels, prometheus.CounterValue, float64(s.ScopeCancels))
	ch <- prometheus.MustNewConstMetric(c.validations, prometheus.CounterValue, float64(s.Validations))
	ch <- prometheus.MustNewConstMetric(c.extensions, prometheus.CounterValue, float64(s.Extensions))
}

var _ prometheus.Collector = (*Collector)(nil)
