package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	controlMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lichtwerk",
		Subsystem: "control",
		Name:      "mutations_total",
		Help:      "State mutations by operation and result",
	}, []string{"operation", "result"})

	statePower = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lichtwerk",
		Subsystem: "state",
		Name:      "power",
		Help:      "1 when the strip is switched on",
	})

	stateBrightness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lichtwerk",
		Subsystem: "state",
		Name:      "brightness",
		Help:      "Current brightness (0-255)",
	})

	stateSpeed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lichtwerk",
		Subsystem: "state",
		Name:      "speed",
		Help:      "Current effect speed (1-100)",
	})
)

// Mutation results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
)

// RecordMutation counts one control operation.
func RecordMutation(operation, result string) {
	controlMutations.WithLabelValues(operation, result).Inc()
}

// SetState mirrors the committed state into gauges.
func SetState(power bool, brightness, speed int) {
	if power {
		statePower.Set(1)
	} else {
		statePower.Set(0)
	}
	stateBrightness.Set(float64(brightness))
	stateSpeed.Set(float64(speed))
}
