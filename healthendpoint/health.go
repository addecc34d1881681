package healthendpoint

import (
	"fmt"

	"code.cloudfoundry.org/lager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/http_server"
)

// RegisterCollectors registers the engine's instruments, optionally along
// with the default process and Go runtime collectors.
func RegisterCollectors(registrar prometheus.Registerer, collectors []prometheus.Collector, includeDefault bool, logger lager.Logger) {
	if includeDefault {
		if err := registrar.Register(prometheus.NewGoCollector()); err != nil {
			logger.Error("failed-to-register-go-collector", err)
		}
	}

	for _, collector := range collectors {
		if err := registrar.Register(collector); err != nil {
			logger.Error("failed-to-register-collector", err, lager.Data{"collector": collector})
		}
	}
}

// NewServer serves the metrics endpoint as an ifrit runner.
func NewServer(logger lager.Logger, port int, gatherer prometheus.Gatherer) (ifrit.Runner, error) {
	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	logger.Info("new-health-server", lager.Data{"addr": addr})
	return http_server.New(addr, handler), nil
}
