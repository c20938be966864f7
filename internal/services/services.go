package services

import (
	"log/slog"
	"time"

	"github.com/joshua-takyi/rendez/internal/media"
	"github.com/joshua-takyi/rendez/internal/metrics"
)

// Clock returns the current instant. Services take it as a dependency so
// tests can pin time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// Deps carries the collaborators every service shares.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Uploader media.Uploader
	Clock    Clock
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return systemClock()
	}
	return d.Clock().UTC()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
