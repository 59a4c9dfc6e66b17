package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of an editing session. It
// satisfies the recorder interfaces of the selector and the editor.
type Collector struct {
	gatherer prometheus.Gatherer

	Selections      *prometheus.CounterVec
	SelectionMisses *prometheus.CounterVec
	VehicleWrites   *prometheus.CounterVec
	SettingsApplied *prometheus.CounterVec
	SettingsSkipped *prometheus.CounterVec
}

// NewCollector registers the editor metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	c.Selections, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rve_selections_total",
		Help: "Selections that resolved to an entry, labeled by hierarchy level.",
	}, []string{"level"}))
	if err != nil {
		return nil, err
	}
	c.SelectionMisses, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rve_selection_misses_total",
		Help: "Selections that fell back or resolved to nothing, labeled by hierarchy level.",
	}, []string{"level"}))
	if err != nil {
		return nil, err
	}
	c.VehicleWrites, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rve_vehicle_writes_total",
		Help: "Single attribute writes on the selected vehicle, labeled by attribute.",
	}, []string{"attribute"}))
	if err != nil {
		return nil, err
	}
	c.SettingsApplied, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rve_settings_applied_total",
		Help: "Vehicles a settings snapshot was applied to, labeled by scope.",
	}, []string{"scope"}))
	if err != nil {
		return nil, err
	}
	c.SettingsSkipped, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rve_settings_skipped_total",
		Help: "Propagation targets skipped because the vehicle vanished, labeled by scope.",
	}, []string{"scope"}))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) Selection(level string) {
	if c != nil {
		c.Selections.WithLabelValues(level).Inc()
	}
}

func (c *Collector) SelectionMiss(level string) {
	if c != nil {
		c.SelectionMisses.WithLabelValues(level).Inc()
	}
}

func (c *Collector) VehicleWrite(attribute string) {
	if c != nil {
		c.VehicleWrites.WithLabelValues(attribute).Inc()
	}
}

func (c *Collector) SettingsApply(scope string, applied, skipped int) {
	if c == nil {
		return
	}
	c.SettingsApplied.WithLabelValues(scope).Add(float64(applied))
	c.SettingsSkipped.WithLabelValues(scope).Add(float64(skipped))
}

// Handler exposes the gathered metrics over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return cv, nil
}
