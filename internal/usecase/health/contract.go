package health

import "context"

// DBPinger checks record store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks model backend availability.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
