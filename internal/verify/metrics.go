// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "guessverify"

// Metrics of one rank, kept in their own registry.
type Metrics struct {
	registry *prometheus.Registry

	Generated  prometheus.Counter
	Hashed     prometheus.Counter
	Cracked    prometheus.Counter
	Pending    prometheus.Gauge
	Iterations prometheus.Counter
	GlobalHash prometheus.Gauge
}

// NewMetrics creates the metrics of rank.
func NewMetrics(rank int) *Metrics {
	labels := prometheus.Labels{"rank": strconv.Itoa(rank)}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "generated_total",
			Help:        "Guesses generated by this rank.",
			ConstLabels: labels,
		}),
		Hashed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "hashed_total",
			Help:        "Guesses hashed by this rank.",
			ConstLabels: labels,
		}),
		Cracked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cracked_total",
			Help:        "Guesses of this rank found in the known set.",
			ConstLabels: labels,
		}),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "pending_guesses",
			Help:        "Guesses queued for hashing.",
			ConstLabels: labels,
		}),
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "iterations_total",
			Help:        "Coordinator iterations completed.",
			ConstLabels: labels,
		}),
		GlobalHash: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "global_hashed",
			Help:        "Guesses hashed over all ranks, as last agreed.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(m.Generated, m.Hashed, m.Cracked, m.Pending, m.Iterations, m.GlobalHash)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return MetricsHandler(m)
}

// MetricsHandler serves the metrics of several ranks of one process.
func MetricsHandler(ms ...*Metrics) http.Handler {
	g := make(prometheus.Gatherers, 0, len(ms))
	for _, m := range ms {
		g = append(g, m.registry)
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Registry - for tests and embedding
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
