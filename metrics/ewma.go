// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// EWMA is an exponentially-weighted moving average, the classic UNIX
// load-average decay used here to smooth Meter's 1/5/15-"minute" rates
// (ticked every tickInterval = 5 seconds, per the teacher's own convention).
type EWMA interface {
	Rate() float64
	Snapshot() EWMA
	Tick()
	Update(int64)
}

const tickInterval = 5 // seconds between Tick calls

// NewEWMA constructs a new EWMA with the given smoothing alpha.
func NewEWMA(alpha float64) EWMA {
	return &StandardEWMA{alpha: alpha}
}

func alphaFor(periodSeconds float64) float64 {
	return 1 - math.Exp(-tickInterval/periodSeconds)
}

// NewEWMA1 is the 1-minute-window decay constant from the original
// UNIX loadavg paper, ticked every tickInterval seconds.
func NewEWMA1() EWMA { return NewEWMA(alphaFor(60)) }

// NewEWMA5 is the 5-minute-window decay constant.
func NewEWMA5() EWMA { return NewEWMA(alphaFor(60 * 5)) }

// NewEWMA15 is the 15-minute-window decay constant.
func NewEWMA15() EWMA { return NewEWMA(alphaFor(60 * 15)) }

type StandardEWMA struct {
	uncounted atomic.Int64
	alpha     float64

	mu        sync.Mutex
	rate      float64
	init      bool
}

func (a *StandardEWMA) Update(n int64) { a.uncounted.Add(n) }

func (a *StandardEWMA) Tick() {
	count := a.uncounted.Swap(0)
	instantRate := float64(count) / tickInterval

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.init {
		a.rate += a.alpha * (instantRate - a.rate)
	} else {
		a.rate = instantRate
		a.init = true
	}
}

// Rate returns the current smoothed rate in events per second.
func (a *StandardEWMA) Rate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rate
}

func (a *StandardEWMA) Snapshot() EWMA {
	return ewmaSnapshot(a.Rate())
}

type ewmaSnapshot float64

func (e ewmaSnapshot) Rate() float64   { return float64(e) }
func (e ewmaSnapshot) Tick()           {}
func (e ewmaSnapshot) Update(int64)    {}
func (e ewmaSnapshot) Snapshot() EWMA  { return e }
