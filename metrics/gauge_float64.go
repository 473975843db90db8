// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package metrics

import (
	"math"
	"sync/atomic"
)

// GaugeFloat64 is Gauge for fractional values (hit ratios, gas-per-second).
type GaugeFloat64 interface {
	Snapshot() GaugeFloat64
	Update(float64)
	Value() float64
}

func NewGaugeFloat64() GaugeFloat64 {
	if !Enabled {
		return NilGaugeFloat64{}
	}
	return &StandardGaugeFloat64{}
}

func NewRegisteredGaugeFloat64(name string, r Registry) GaugeFloat64 {
	g := NewGaugeFloat64()
	registerOrNil(r, name, g)
	return g
}

type StandardGaugeFloat64 struct {
	bits atomic.Uint64
}

func (g *StandardGaugeFloat64) Update(v float64) { g.bits.Store(math.Float64bits(v)) }
func (g *StandardGaugeFloat64) Value() float64   { return math.Float64frombits(g.bits.Load()) }
func (g *StandardGaugeFloat64) Snapshot() GaugeFloat64 {
	return GaugeFloat64Snapshot(g.Value())
}

type GaugeFloat64Snapshot float64

func (g GaugeFloat64Snapshot) Value() float64 { return float64(g) }
func (g GaugeFloat64Snapshot) Update(float64)  { panic("Update called on a GaugeFloat64Snapshot") }
func (g GaugeFloat64Snapshot) Snapshot() GaugeFloat64 { return g }

type NilGaugeFloat64 struct{}

func (NilGaugeFloat64) Update(float64)              {}
func (NilGaugeFloat64) Value() float64              { return 0 }
func (n NilGaugeFloat64) Snapshot() GaugeFloat64    { return n }
