package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/partline/partline/internal/event_bus"
	"github.com/partline/partline/internal/utils"
	"github.com/partline/partline/pkg/partlog"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// ProcessLog runs the aggregation engine over an ordered event
	// stream, stores the resulting report and returns it.
	ProcessLog(ctx context.Context, events []partlog.RawEvent, opts Options) (Report, error)
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context) ([]Header, error)
	DeleteReport(ctx context.Context, id string) error
}

// Header identifies a stored report without its rows.
type Header struct {
	ID         string
	CreatedAt  time.Time
	EventCount int
	DayCount   int
}

type ServiceImpl struct {
	repo  Repository
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		repo:  repo,
		bus:   bus,
		clock: &utils.SystemClock{},
	}
}

func (s *ServiceImpl) ProcessLog(ctx context.Context, events []partlog.RawEvent, opts Options) (Report, error) {
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	if opts.ValidateOrder {
		if err := partlog.CheckOrdered(events); err != nil {
			return Report{}, err
		}
	}

	normalized := make([]NormalizedEvent, 0, len(events))
	days := make([]DaySummary, 0)
	aggregator := NewAggregator(opts)
	for i, raw := range events {
		event, err := Normalize(raw, opts)
		if err != nil {
			return Report{}, fmt.Errorf("event %d: %w", i+1, err)
		}
		emitted, err := aggregator.Push(&event)
		if err != nil {
			return Report{}, err
		}
		if emitted != nil {
			days = append(days, *emitted)
		}
		normalized = append(normalized, event)
	}
	final, err := aggregator.Close()
	if err != nil {
		return Report{}, err
	}
	if final != nil {
		days = append(days, *final)
	}

	result := Report{
		ID:        uuid.NewString(),
		CreatedAt: s.clock.Now(),
		Events:    normalized,
		Days:      days,
	}

	if err := s.repo.StoreReport(ctx, result); err != nil {
		return Report{}, fmt.Errorf("failed to store report: %w", err)
	}
	log.Infof("Processed part log into report %s: %d events over %d days", result.ID, len(normalized), len(days))

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ReportProcessedEvent, event_bus.ReportProcessed{
		ReportID:   result.ID,
		EventCount: len(normalized),
		DayCount:   len(days),
	})); err != nil {
		log.Warnf("Failed to publish report processed event: %v", err)
	}

	return result, nil
}

func (s *ServiceImpl) GetReport(ctx context.Context, id string) (Report, error) {
	return s.repo.GetReport(ctx, id)
}

func (s *ServiceImpl) ListReports(ctx context.Context) ([]Header, error) {
	return s.repo.ListReports(ctx)
}

func (s *ServiceImpl) DeleteReport(ctx context.Context, id string) error {
	return s.repo.DeleteReport(ctx, id)
}
