// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package metrics

// Histogram tracks the distribution of a stream of int64 values (per-tx
// gas used, fiber retry counts) via an underlying Sample.
type Histogram interface {
	Clear()
	Count() int64
	Max() int64
	Mean() float64
	Min() int64
	Percentile(float64) float64
	Percentiles([]float64) []float64
	Sample() Sample
	Snapshot() Histogram
	StdDev() float64
	Sum() int64
	Update(int64)
	Variance() float64
}

func NewHistogram(s Sample) Histogram {
	if !Enabled {
		return NilHistogram{}
	}
	return &StandardHistogram{sample: s}
}

func NewRegisteredHistogram(name string, r Registry, s Sample) Histogram {
	h := NewHistogram(s)
	registerOrNil(r, name, h)
	return h
}

type StandardHistogram struct {
	sample Sample
}

func (h *StandardHistogram) Clear()               { h.sample.Clear() }
func (h *StandardHistogram) Count() int64          { return h.sample.Count() }
func (h *StandardHistogram) Max() int64            { return h.sample.Max() }
func (h *StandardHistogram) Mean() float64         { return h.sample.Mean() }
func (h *StandardHistogram) Min() int64            { return h.sample.Min() }
func (h *StandardHistogram) Percentile(p float64) float64 { return h.sample.Percentile(p) }
func (h *StandardHistogram) Percentiles(ps []float64) []float64 { return h.sample.Percentiles(ps) }
func (h *StandardHistogram) Sample() Sample        { return h.sample }
func (h *StandardHistogram) StdDev() float64       { return h.sample.StdDev() }
func (h *StandardHistogram) Sum() int64            { return h.sample.Sum() }
func (h *StandardHistogram) Update(v int64)        { h.sample.Update(v) }
func (h *StandardHistogram) Variance() float64     { return h.sample.Variance() }

func (h *StandardHistogram) Snapshot() Histogram {
	return &StandardHistogram{sample: snapshotSample(h.sample)}
}

// snapshotSample materialises the current reservoir into a fixed,
// non-mutating Sample so a reporter can read it without racing Update.
func snapshotSample(s Sample) Sample {
	return &frozenSample{values: s.Values()}
}

type frozenSample struct {
	values []int64
}

func (f *frozenSample) Clear()                          { panic("Clear called on a frozen sample") }
func (f *frozenSample) Count() int64                     { return int64(len(f.values)) }
func (f *frozenSample) Min() int64                       { return sampleStats(f.values).min }
func (f *frozenSample) Max() int64                       { return sampleStats(f.values).max }
func (f *frozenSample) Sum() int64                       { return sampleStats(f.values).sum }
func (f *frozenSample) Size() int                        { return len(f.values) }
func (f *frozenSample) Update(int64)                     { panic("Update called on a frozen sample") }
func (f *frozenSample) Values() []int64 {
	out := make([]int64, len(f.values))
	copy(out, f.values)
	return out
}
func (f *frozenSample) Mean() float64 {
	st := sampleStats(f.values)
	if st.n == 0 {
		return 0
	}
	return float64(st.sum) / float64(st.n)
}
func (f *frozenSample) Variance() float64 {
	u := &UniformSample{values: f.values, count: int64(len(f.values))}
	return u.Variance()
}
func (f *frozenSample) StdDev() float64 {
	u := &UniformSample{values: f.values, count: int64(len(f.values))}
	return u.StdDev()
}
func (f *frozenSample) Percentile(p float64) float64 {
	u := &UniformSample{values: f.values, count: int64(len(f.values))}
	return u.Percentile(p)
}
func (f *frozenSample) Percentiles(ps []float64) []float64 {
	u := &UniformSample{values: f.values, count: int64(len(f.values))}
	return u.Percentiles(ps)
}

type NilHistogram struct{}

func (NilHistogram) Clear()                            {}
func (NilHistogram) Count() int64                       { return 0 }
func (NilHistogram) Max() int64                          { return 0 }
func (NilHistogram) Mean() float64                       { return 0 }
func (NilHistogram) Min() int64                          { return 0 }
func (NilHistogram) Percentile(float64) float64          { return 0 }
func (NilHistogram) Percentiles(ps []float64) []float64  { return make([]float64, len(ps)) }
func (NilHistogram) Sample() Sample                      { return NewUniformSample(0) }
func (n NilHistogram) Snapshot() Histogram               { return n }
func (NilHistogram) StdDev() float64                      { return 0 }
func (NilHistogram) Sum() int64                           { return 0 }
func (NilHistogram) Update(int64)                         {}
func (NilHistogram) Variance() float64                    { return 0 }
