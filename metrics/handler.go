package metrics

import (
	"encoding/json"
	"net/http"

	"code.cloudfoundry.org/lager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tedsuo/rata"
)

const (
	GetSnapshot  = "get_snapshot"
	ResetMetrics = "reset_metrics"
	Prometheus   = "prometheus"
)

var AdminRoutes = rata.Routes{
	{Name: GetSnapshot, Method: "GET", Path: "/admin/metrics"},
	{Name: ResetMetrics, Method: "POST", Path: "/admin/metrics/reset"},
	{Name: Prometheus, Method: "GET", Path: "/metrics"},
}

func NewAdminHandler(logger lager.Logger, registry Registry, namespace string) (http.Handler, error) {
	logger = logger.Session("metrics-admin")

	promRegistry := prometheus.NewRegistry()
	if err := promRegistry.Register(NewCollector(registry, namespace)); err != nil {
		logger.Error("failed-to-register-collector", err)
		return nil, err
	}

	return rata.NewRouter(AdminRoutes, rata.Handlers{
		GetSnapshot:  &snapshotHandler{logger: logger, registry: registry},
		ResetMetrics: &resetHandler{logger: logger, registry: registry},
		Prometheus:   promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	})
}

type snapshotHandler struct {
	logger   lager.Logger
	registry Registry
}

func (h *snapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.registry.Snapshot()); err != nil {
		h.logger.Error("failed-to-encode-snapshot", err)
	}
}

type resetHandler struct {
	logger   lager.Logger
	registry Registry
}

func (h *resetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.registry.Reset()
	h.logger.Info("reset")

	w.WriteHeader(http.StatusNoContent)
}
