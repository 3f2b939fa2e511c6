package gourmet

import (
	"context"

	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
)

// Aggregate health values reported in HealthStatus.Status.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// HealthStatus is the outcome of Client.Health.
type HealthStatus struct {
	Status string            // HealthOK, HealthDegraded or HealthError
	Checks map[string]string // "database", "llm" -> "ok" or "error"
}

// Ready reports whether the client can serve searches. A degraded model
// backend still counts: the pipeline falls back to local parsing.
func (h HealthStatus) Ready() bool {
	return h.Checks["database"] == string(healthuc.CheckOK)
}

// Health probes the record store and, when it can report, the model backend.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	out := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		out.Checks[name] = string(res)
	}
	return out
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
