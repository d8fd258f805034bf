package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pgconfig",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route pattern and status code.",
	}, []string{"route", "status"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pgconfig",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration for noted route pattern.",
	}, []string{"route"})
	catalogVersions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pgconfig",
		Subsystem: "catalog",
		Name:      "versions_loaded",
		Help:      "PostgreSQL versions with a loaded snapshot.",
	})
	reloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pgconfig",
		Subsystem: "catalog",
		Name:      "reloads_total",
		Help:      "Catalog reloads since process start.",
	})
)
