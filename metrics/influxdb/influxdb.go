// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package influxdb periodically pushes a metrics.Registry to an InfluxDB v1
// server, the same shape go-ethereum's own metrics/influxdb reporter uses
// for long-running node dashboards.
package influxdb

import (
	"fmt"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"

	"github.com/category-labs/monad-sub002/log"
	"github.com/category-labs/monad-sub002/metrics"
)

// Config holds the connection parameters for an InfluxDB v1 push target.
type Config struct {
	Endpoint string
	Database string
	Username string
	Password string

	Namespace string
	Tags      map[string]string
}

// reporter owns the periodic push loop against one InfluxDB endpoint.
type reporter struct {
	reg      metrics.Registry
	interval time.Duration
	cfg      Config
	client   client.Client
}

// InfluxDBWithTags starts a reporter goroutine that pushes reg to cfg.Endpoint
// every interval until ctx-less caller calls the returned stop function.
func InfluxDBWithTags(reg metrics.Registry, interval time.Duration, cfg Config) (stop func(), err error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.Endpoint,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("influxdb: %w", err)
	}
	rep := &reporter{reg: reg, interval: interval, cfg: cfg, client: c}

	done := make(chan struct{})
	go rep.loop(done)
	return func() { close(done); c.Close() }, nil
}

func (r *reporter) loop(done <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			if err := r.send(now.Unix()); err != nil {
				log.Warn("InfluxDB push failed", "err", err)
			}
		}
	}
}

func (r *reporter) send(now int64) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{Database: r.cfg.Database})
	if err != nil {
		return err
	}
	ts := time.Unix(now, 0)

	r.reg.Each(func(name string, i interface{}) {
		measurement := r.cfg.Namespace + name
		switch m := i.(type) {
		case metrics.Counter:
			r.addPoint(bp, measurement, "count", float64(m.Count()), ts)
		case metrics.Gauge:
			r.addPoint(bp, measurement, "gauge", float64(m.Value()), ts)
		case metrics.GaugeFloat64:
			r.addPoint(bp, measurement, "gauge", m.Value(), ts)
		case metrics.Meter:
			snap := m.Snapshot()
			fields := map[string]interface{}{
				"count":  snap.Count(),
				"m1":     snap.Rate1(),
				"m5":     snap.Rate5(),
				"m15":    snap.Rate15(),
				"mean":   snap.RateMean(),
			}
			r.addFields(bp, measurement, fields, ts)
		case metrics.Histogram:
			snap := m.Snapshot()
			ps := snap.Percentiles([]float64{0.5, 0.75, 0.95, 0.99, 0.999})
			fields := map[string]interface{}{
				"count": snap.Count(), "max": snap.Max(), "mean": snap.Mean(),
				"min": snap.Min(), "stddev": snap.StdDev(),
				"p50": ps[0], "p75": ps[1], "p95": ps[2], "p99": ps[3], "p999": ps[4],
			}
			r.addFields(bp, measurement, fields, ts)
		case metrics.Timer:
			snap := m.Snapshot()
			ps := snap.Percentiles([]float64{0.5, 0.75, 0.95, 0.99, 0.999})
			fields := map[string]interface{}{
				"count": snap.Count(), "max": snap.Max(), "mean": snap.Mean(),
				"min": snap.Min(), "stddev": snap.StdDev(),
				"p50": ps[0], "p75": ps[1], "p95": ps[2], "p99": ps[3], "p999": ps[4],
				"m1": snap.Rate1(), "m5": snap.Rate5(), "m15": snap.Rate15(),
			}
			r.addFields(bp, measurement, fields, ts)
		}
	})

	return r.client.Write(bp)
}

func (r *reporter) addPoint(bp client.BatchPoints, measurement, field string, value float64, ts time.Time) {
	r.addFields(bp, measurement, map[string]interface{}{field: value}, ts)
}

func (r *reporter) addFields(bp client.BatchPoints, measurement string, fields map[string]interface{}, ts time.Time) {
	pt, err := client.NewPoint(measurement, r.cfg.Tags, fields, ts)
	if err != nil {
		log.Warn("InfluxDB point build failed", "measurement", measurement, "err", err)
		return
	}
	bp.AddPoint(pt)
}
