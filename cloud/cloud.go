package cloud

import (
	"capacityengine/models"
)

// MetricsProvider supplies one telemetry sample for a region. Production
// implementations source real telemetry; the simulated provider in this
// package is a stand-in for demos and the reference daemon.
type MetricsProvider interface {
	Sample(region string, instanceCount int) (*models.MetricSample, error)
}

// ProvisioningBackend applies an instance-count change to a region. Calls
// may fail or take wall-clock time proportional to the delta; the engine
// bounds them with a timeout. Idempotency across a retried timeout is the
// backend's responsibility.
type ProvisioningBackend interface {
	Resize(region string, fromInstances, toInstances int) error
}
