// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Meter tracks an event rate (committed transactions/sec, bytes read/sec)
// as a mean rate since the meter was created plus three EWMA windows.
type Meter interface {
	Mark(int64)
	Count() int64
	Rate1() float64
	Rate5() float64
	Rate15() float64
	RateMean() float64
	Snapshot() Meter
	Stop()
}

func NewMeter() Meter {
	if !Enabled {
		return NilMeter{}
	}
	m := &StandardMeter{
		count:     atomic.Int64{},
		a1:        NewEWMA1(),
		a5:        NewEWMA5(),
		a15:       NewEWMA15(),
		startTime: time.Now(),
		stopped:   make(chan struct{}),
	}
	go m.tickLoop()
	return m
}

func NewRegisteredMeter(name string, r Registry) Meter {
	m := NewMeter()
	registerOrNil(r, name, m)
	return m
}

type StandardMeter struct {
	count     atomic.Int64
	a1, a5, a15 EWMA
	startTime time.Time

	mu      sync.Mutex
	stopped chan struct{}
	once    sync.Once
}

func (m *StandardMeter) tickLoop() {
	t := time.NewTicker(tickInterval * time.Second)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.a1.Tick()
			m.a5.Tick()
			m.a15.Tick()
		case <-m.stopped:
			return
		}
	}
}

func (m *StandardMeter) Mark(n int64) {
	m.count.Add(n)
	m.a1.Update(n)
	m.a5.Update(n)
	m.a15.Update(n)
}

func (m *StandardMeter) Count() int64 { return m.count.Load() }

func (m *StandardMeter) RateMean() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.Count()) / elapsed
}

func (m *StandardMeter) Rate1() float64  { return m.a1.Rate() }
func (m *StandardMeter) Rate5() float64  { return m.a5.Rate() }
func (m *StandardMeter) Rate15() float64 { return m.a15.Rate() }

func (m *StandardMeter) Stop() {
	m.once.Do(func() { close(m.stopped) })
}

func (m *StandardMeter) Snapshot() Meter {
	return &meterSnapshot{
		count: m.Count(), rate1: m.Rate1(), rate5: m.Rate5(),
		rate15: m.Rate15(), rateMean: m.RateMean(),
	}
}

type meterSnapshot struct {
	count                           int64
	rate1, rate5, rate15, rateMean float64
}

func (m *meterSnapshot) Mark(int64)          { panic("Mark called on a meterSnapshot") }
func (m *meterSnapshot) Count() int64        { return m.count }
func (m *meterSnapshot) Rate1() float64      { return m.rate1 }
func (m *meterSnapshot) Rate5() float64      { return m.rate5 }
func (m *meterSnapshot) Rate15() float64     { return m.rate15 }
func (m *meterSnapshot) RateMean() float64   { return m.rateMean }
func (m *meterSnapshot) Stop()               {}
func (m *meterSnapshot) Snapshot() Meter     { return m }

type NilMeter struct{}

func (NilMeter) Mark(int64)       {}
func (NilMeter) Count() int64     { return 0 }
func (NilMeter) Rate1() float64   { return 0 }
func (NilMeter) Rate5() float64   { return 0 }
func (NilMeter) Rate15() float64  { return 0 }
func (NilMeter) RateMean() float64 { return 0 }
func (NilMeter) Stop()            {}
func (n NilMeter) Snapshot() Meter { return n }
