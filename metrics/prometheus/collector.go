// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package prometheus adapts a metrics.Registry to prometheus.Collector, so
// the runloop's counters/gauges/meters/histograms can be scraped the same
// way go-ethereum exposes its own metrics to an operator's Prometheus.
package prometheus

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/category-labs/monad-sub002/metrics"
)

// Collector bridges a metrics.Registry into prometheus.Collector.
type Collector struct {
	namespace string
	reg       metrics.Registry
}

// NewCollector returns a prometheus.Collector for reg. namespace prefixes
// every exported metric name ("monad_fiber_retries_total", say).
func NewCollector(namespace string, reg metrics.Registry) *Collector {
	return &Collector{namespace: namespace, reg: reg}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Descriptions are emitted lazily from Collect since the metric set is
	// dynamic (fibers/pages register metrics by address at runtime).
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Each(func(name string, i interface{}) {
		fqName := c.fqName(name)
		switch m := i.(type) {
		case metrics.Counter:
			ch <- mustConst(fqName, prometheus.CounterValue, float64(m.Count()))
		case metrics.Gauge:
			ch <- mustConst(fqName, prometheus.GaugeValue, float64(m.Value()))
		case metrics.GaugeFloat64:
			ch <- mustConst(fqName, prometheus.GaugeValue, m.Value())
		case metrics.Meter:
			snap := m.Snapshot()
			ch <- mustConst(fqName+"_total", prometheus.CounterValue, float64(snap.Count()))
			ch <- mustConst(fqName+"_rate1", prometheus.GaugeValue, snap.Rate1())
			ch <- mustConst(fqName+"_rate5", prometheus.GaugeValue, snap.Rate5())
			ch <- mustConst(fqName+"_rate15", prometheus.GaugeValue, snap.Rate15())
		case metrics.Histogram:
			snap := m.Snapshot()
			ch <- mustConst(fqName+"_count", prometheus.CounterValue, float64(snap.Count()))
			ch <- mustConst(fqName+"_sum", prometheus.CounterValue, float64(snap.Sum()))
			for _, q := range []float64{0.5, 0.9, 0.99} {
				ch <- mustConst(fmt.Sprintf("%s_p%d", fqName, int(q*100)), prometheus.GaugeValue, snap.Percentile(q))
			}
		case metrics.Timer:
			snap := m.Snapshot()
			ch <- mustConst(fqName+"_count", prometheus.CounterValue, float64(snap.Count()))
			ch <- mustConst(fqName+"_rate1", prometheus.GaugeValue, snap.Rate1())
			for _, q := range []float64{0.5, 0.9, 0.99} {
				ch <- mustConst(fmt.Sprintf("%s_p%d", fqName, int(q*100)), prometheus.GaugeValue, snap.Percentile(q))
			}
		}
	})
}

func (c *Collector) fqName(name string) string {
	sanitized := strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(name)
	if c.namespace == "" {
		return sanitized
	}
	return c.namespace + "_" + sanitized
}

func mustConst(fqName string, valueType prometheus.ValueType, value float64) prometheus.Metric {
	desc := prometheus.NewDesc(fqName, fqName, nil, nil)
	return prometheus.MustNewConstMetric(desc, valueType, value)
}
