package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	registry  Registry
	namespace string
}

// NewCollector exposes the registry to Prometheus. The set of instruments
// grows at runtime, so the collector is unchecked and describes nothing.
func NewCollector(registry Registry, namespace string) prometheus.Collector {
	return &collector{
		registry:  registry,
		namespace: namespace,
	}
}

func (c *collector) Describe(chan<- *prometheus.Desc) {}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.registry.Snapshot()
	labels := prometheus.Labels{"environment": snapshot.Environment}

	for name, value := range snapshot.Counters {
		desc := prometheus.NewDesc(c.fqName(name, "total"), "counter "+name, nil, labels)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value))
	}

	for name, value := range snapshot.Gauges {
		desc := prometheus.NewDesc(c.fqName(name, ""), "gauge "+name, nil, labels)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value)
	}

	for name, value := range snapshot.Timers {
		desc := prometheus.NewDesc(c.fqName(name, "seconds"), "timer "+name, nil, labels)
		ch <- prometheus.MustNewConstSummary(desc, uint64(value.Count), value.TotalSeconds, nil)
	}
}

var nameReplacer = strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")

func (c *collector) fqName(name, suffix string) string {
	return prometheus.BuildFQName(c.namespace, "", nameReplacer.Replace(name)+suffixOf(suffix))
}

func suffixOf(suffix string) string {
	if suffix == "" {
		return ""
	}

	return "_" + suffix
}
