// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/category-labs/monad-sub002/metrics"
)

// Handler returns an http.Handler serving reg's metrics in the Prometheus
// text exposition format, for wiring into the runloop's debug HTTP mux
// alongside pprof the way go-ethereum's node package does.
func Handler(namespace string, reg metrics.Registry) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(namespace, reg))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}
