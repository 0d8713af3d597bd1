package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/roda-da-vida/internal/application"
)

// ServiceFactory assists tests with constructing application services over a
// harness using a deterministic clock.
type ServiceFactory struct {
	Clock  *Clock
	Logger *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{Clock: NewClock(time.Time{})}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithLogger overrides the logger handed to services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services bundles every application service.
type Services struct {
	LifeAreas   *application.LifeAreaService
	Scores      *application.ScoreService
	ActionItems *application.ActionItemService
	Resets      *application.ResetService
}

// NewServices builds every service over the harness repositories.
func (f *ServiceFactory) NewServices(h *SQLiteHarness) Services {
	now := f.Clock.NowFunc()
	return Services{
		LifeAreas:   application.NewLifeAreaServiceWithLogger(h.LifeAreas, now, f.Logger),
		Scores:      application.NewScoreServiceWithLogger(h.Scores, h.LifeAreas, now, f.Logger),
		ActionItems: application.NewActionItemServiceWithLogger(h.ActionItems, now, f.Logger),
		Resets:      application.NewResetServiceWithLogger(h.Resets, f.Logger),
	}
}
