package services

import (
	"context"
	"time"

	"github.com/sergejsb/authgate/internal/logging"
)

// Version is stamped at build time (-ldflags "-X ...services.Version=v1.2.3").
var Version = "dev"

const pingTimeout = 2 * time.Second

// HealthReport is the connectivity probe result.
type HealthReport struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Version   string    `json:"version"`
}

// pinger is the subset of *sql.DB used by the probe.
type pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService reports whether the credential store is reachable.
type HealthService struct {
	db     pinger
	logger logging.Logger
}

func NewHealthService(db pinger, logger logging.Logger) *HealthService {
	return &HealthService{db: db, logger: logger.With("module", "health_service")}
}

// Check pings the database with a short timeout. A failed ping yields a
// degraded report, never an error; the caller always gets a status body.
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	report := &HealthReport{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
		Version:   Version,
	}

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "database health check failed", "error", err)
		report.Status = "degraded"
		report.Database = "disconnected"
	}

	return report
}
