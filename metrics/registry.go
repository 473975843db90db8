// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package metrics

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a name -> metric map, the unit the Prometheus and InfluxDB
// reporters iterate to produce an export.
type Registry interface {
	Each(func(string, interface{}))
	Get(string) interface{}
	GetOrRegister(string, func() interface{}) interface{}
	Register(string, interface{}) error
	Unregister(string)
}

// NewRegistry returns an empty, concurrency-safe Registry.
func NewRegistry() Registry {
	return &StandardRegistry{metrics: make(map[string]interface{})}
}

// DefaultRegistry is a process-wide Registry. The NewRegistered*
// constructors never write into it: they register into the Registry they
// are given, and register nothing when that Registry is nil. Every call
// site in this module threads its own Registry explicitly.
var DefaultRegistry = NewRegistry()

type StandardRegistry struct {
	mu      sync.RWMutex
	metrics map[string]interface{}
}

func (r *StandardRegistry) Each(f func(string, interface{})) {
	r.mu.RLock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	for _, name := range names {
		r.mu.RLock()
		v, ok := r.metrics[name]
		r.mu.RUnlock()
		if ok {
			f(name, v)
		}
	}
}

func (r *StandardRegistry) Get(name string) interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metrics[name]
}

func (r *StandardRegistry) Register(name string, metric interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[name]; ok {
		return fmt.Errorf("metrics: %q already registered", name)
	}
	r.metrics[name] = metric
	return nil
}

func (r *StandardRegistry) GetOrRegister(name string, makeMetric func() interface{}) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.metrics[name]; ok {
		return v
	}
	v := makeMetric()
	r.metrics[name] = v
	return v
}

func (r *StandardRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.metrics, name)
}

// registerOrNil registers metric under name, ignoring a duplicate-name
// error: the New*/NewRegistered* constructors are called unconditionally
// from init-time wiring code where a second call with the same name is a
// harmless re-registration rather than a bug worth surfacing.
func registerOrNil(r Registry, name string, metric interface{}) {
	if r == nil {
		return
	}
	_ = r.Register(name, metric)
}
