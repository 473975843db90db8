// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package metrics

import "time"

// Timer combines a Histogram of durations with a Meter of call rate — the
// shape used for "block commit latency" and "per-tx validate latency".
type Timer interface {
	Count() int64
	Max() int64
	Mean() float64
	Min() int64
	Percentile(float64) float64
	Percentiles([]float64) []float64
	Rate1() float64
	Rate5() float64
	Rate15() float64
	RateMean() float64
	Snapshot() Timer
	StdDev() float64
	Sum() int64
	Time(func())
	Update(time.Duration)
	UpdateSince(time.Time)
	Variance() float64
}

func NewTimer() Timer {
	if !Enabled {
		return NilTimer{}
	}
	return &StandardTimer{
		histogram: NewHistogram(NewUniformSample(1028)),
		meter:     NewMeter(),
	}
}

func NewRegisteredTimer(name string, r Registry) Timer {
	t := NewTimer()
	registerOrNil(r, name, t)
	return t
}

type StandardTimer struct {
	histogram Histogram
	meter     Meter
}

func (t *StandardTimer) Count() int64  { return t.histogram.Count() }
func (t *StandardTimer) Max() int64    { return t.histogram.Max() }
func (t *StandardTimer) Mean() float64 { return t.histogram.Mean() }
func (t *StandardTimer) Min() int64    { return t.histogram.Min() }
func (t *StandardTimer) Percentile(p float64) float64         { return t.histogram.Percentile(p) }
func (t *StandardTimer) Percentiles(ps []float64) []float64   { return t.histogram.Percentiles(ps) }
func (t *StandardTimer) StdDev() float64  { return t.histogram.StdDev() }
func (t *StandardTimer) Sum() int64       { return t.histogram.Sum() }
func (t *StandardTimer) Variance() float64 { return t.histogram.Variance() }

func (t *StandardTimer) Rate1() float64    { return t.meter.Rate1() }
func (t *StandardTimer) Rate5() float64    { return t.meter.Rate5() }
func (t *StandardTimer) Rate15() float64   { return t.meter.Rate15() }
func (t *StandardTimer) RateMean() float64 { return t.meter.RateMean() }

func (t *StandardTimer) Update(d time.Duration) {
	t.histogram.Update(int64(d))
	t.meter.Mark(1)
}

func (t *StandardTimer) UpdateSince(start time.Time) {
	t.Update(time.Since(start))
}

func (t *StandardTimer) Time(f func()) {
	start := time.Now()
	f()
	t.UpdateSince(start)
}

func (t *StandardTimer) Snapshot() Timer {
	return &timerSnapshot{histogram: t.histogram.Snapshot(), meter: t.meter.Snapshot()}
}

type timerSnapshot struct {
	histogram Histogram
	meter     Meter
}

func (t *timerSnapshot) Count() int64  { return t.histogram.Count() }
func (t *timerSnapshot) Max() int64    { return t.histogram.Max() }
func (t *timerSnapshot) Mean() float64 { return t.histogram.Mean() }
func (t *timerSnapshot) Min() int64    { return t.histogram.Min() }
func (t *timerSnapshot) Percentile(p float64) float64       { return t.histogram.Percentile(p) }
func (t *timerSnapshot) Percentiles(ps []float64) []float64 { return t.histogram.Percentiles(ps) }
func (t *timerSnapshot) StdDev() float64  { return t.histogram.StdDev() }
func (t *timerSnapshot) Sum() int64       { return t.histogram.Sum() }
func (t *timerSnapshot) Variance() float64 { return t.histogram.Variance() }
func (t *timerSnapshot) Rate1() float64    { return t.meter.Rate1() }
func (t *timerSnapshot) Rate5() float64    { return t.meter.Rate5() }
func (t *timerSnapshot) Rate15() float64   { return t.meter.Rate15() }
func (t *timerSnapshot) RateMean() float64 { return t.meter.RateMean() }
func (t *timerSnapshot) Time(func())            { panic("Time called on a timerSnapshot") }
func (t *timerSnapshot) Update(time.Duration)   { panic("Update called on a timerSnapshot") }
func (t *timerSnapshot) UpdateSince(time.Time)  { panic("UpdateSince called on a timerSnapshot") }
func (t *timerSnapshot) Snapshot() Timer        { return t }

type NilTimer struct{}

func (NilTimer) Count() int64  { return 0 }
func (NilTimer) Max() int64    { return 0 }
func (NilTimer) Mean() float64 { return 0 }
func (NilTimer) Min() int64    { return 0 }
func (NilTimer) Percentile(float64) float64        { return 0 }
func (NilTimer) Percentiles(ps []float64) []float64 { return make([]float64, len(ps)) }
func (NilTimer) Rate1() float64    { return 0 }
func (NilTimer) Rate5() float64    { return 0 }
func (NilTimer) Rate15() float64   { return 0 }
func (NilTimer) RateMean() float64 { return 0 }
func (n NilTimer) Snapshot() Timer { return n }
func (NilTimer) StdDev() float64   { return 0 }
func (NilTimer) Sum() int64        { return 0 }
func (NilTimer) Time(f func())     { f() }
func (NilTimer) Update(time.Duration)  {}
func (NilTimer) UpdateSince(time.Time) {}
func (NilTimer) Variance() float64     { return 0 }
