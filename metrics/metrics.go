// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package metrics instruments the runloop, scheduler, and storage engine:
// per-fiber execution counts, retry rates, page-cache hit ratios, commit
// latency. It follows the rcrowley/go-metrics shape go-ethereum's own
// metrics package is built on (Counter/Gauge/Meter/Histogram/Timer backed
// by a Registry), with Prometheus and InfluxDB reporters as the egress
// paths — both already present in go.mod as the domain metrics stack.
package metrics

// Enabled gates whether instrumentation calls do real work. It is set once
// at process startup (mirroring the teacher's own global flag) rather than
// threaded through every call site, since metrics are an ambient concern
// every fiber and scheduler loop touches.
var Enabled = false

// EnabledExpensive additionally gates metrics whose collection cost is
// non-trivial (per-slot page cache histograms, for instance) so a
// production node can run cheap counters without paying for the expensive
// ones.
var EnabledExpensive = false
