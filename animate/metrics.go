package animate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: stream
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinydisplay",
		Subsystem: "animate",
		Name:      "renders_total",
		Help:      "Total frames produced by animators",
	}, []string{"stream"})

	// Labels: stream
	forcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinydisplay",
		Subsystem: "animate",
		Name:      "forces_total",
		Help:      "Total forced renders",
	}, []string{"stream"})

	// Labels: stream
	fpsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tinydisplay",
		Subsystem: "animate",
		Name:      "fps",
		Help:      "Measured frames per second",
	}, []string{"stream"})
)
