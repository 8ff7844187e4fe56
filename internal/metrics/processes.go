// Package metrics exposes Prometheus metrics for the process supervisor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smazurov/procnode/internal/events"
)

var (
	processSpawns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "procnode",
		Subsystem: "processes",
		Name:      "spawns_total",
		Help:      "Total number of processes spawned",
	})

	processExits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "procnode",
		Subsystem: "processes",
		Name:      "exits_total",
		Help:      "Total number of processes that exited on their own",
	})

	processKills = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "procnode",
		Subsystem: "processes",
		Name:      "kills_total",
		Help:      "Total number of processes terminated explicitly",
	})

	processesRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "procnode",
		Subsystem: "processes",
		Name:      "running",
		Help:      "Number of currently managed processes",
	})

	outputLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procnode",
		Subsystem: "processes",
		Name:      "output_lines_total",
		Help:      "Total output lines pumped from managed processes",
	}, []string{"stream"})
)

// Observe subscribes the metrics to the event bus. Returns an
// unsubscribe function that detaches all handlers.
func Observe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(events.ProcessSpawnedEvent) {
			processSpawns.Inc()
			processesRunning.Inc()
		}),
		bus.Subscribe(func(events.ProcessExitEvent) {
			processExits.Inc()
			processesRunning.Dec()
		}),
		bus.Subscribe(func(events.ProcessKilledEvent) {
			processKills.Inc()
			processesRunning.Dec()
		}),
		bus.Subscribe(func(events.ProcessStdoutEvent) {
			outputLines.WithLabelValues("stdout").Inc()
		}),
		bus.Subscribe(func(events.ProcessStderrEvent) {
			outputLines.WithLabelValues("stderr").Inc()
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
