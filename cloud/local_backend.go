package cloud

import (
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
)

// LocalBackend is an in-process provisioning backend for the reference
// daemon and integration-style tests. Resizing takes wall-clock time
// proportional to the instance delta, like a real provisioner would.
type LocalBackend struct {
	logger             lager.Logger
	clock              clock.Clock
	perInstanceLatency time.Duration
}

func NewLocalBackend(logger lager.Logger, clock clock.Clock, perInstanceLatency time.Duration) *LocalBackend {
	return &LocalBackend{
		logger:             logger.Session("local-backend"),
		clock:              clock,
		perInstanceLatency: perInstanceLatency,
	}
}

func (b *LocalBackend) Resize(region string, fromInstances, toInstances int) error {
	delta := toInstances - fromInstances
	if delta < 0 {
		delta = -delta
	}
	b.clock.Sleep(time.Duration(delta) * b.perInstanceLatency)
	b.logger.Info("resized", lager.Data{"region": region, "from": fromInstances, "to": toInstances})
	return nil
}
