package metrics

import (
	"math"
	"sync/atomic"

	"code.cloudfoundry.org/lager"
)

//go:generate counterfeiter . Gauge

type Gauge interface {
	Update(lager.Logger, float32)
}

// gauge keeps the float64 bit pattern of the latest reading.
type gauge struct {
	name        string
	environment string
	bits        atomic.Uint64
}

func (g *gauge) Update(logger lager.Logger, reading float32) {
	g.bits.Store(math.Float64bits(float64(reading)))

	logger.Debug("gauged", lager.Data{
		"metric":  g.name,
		"env":     g.environment,
		"reading": reading,
	})
}

func (g *gauge) value() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *gauge) reset() {
	g.bits.Store(0)
}

type nullGauge struct{}

func (nullGauge) Update(lager.Logger, float32) {}
