package app

import (
	"database/sql"
	"fmt"

	"github.com/partline/partline/internal/config"
	"github.com/partline/partline/internal/event_bus"
	"github.com/partline/partline/pkg/report"
	"github.com/partline/partline/pkg/shift"
	"github.com/partline/partline/pkg/timeclock"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	ReportRepo     report.Repository
	ReportService  report.Service
	ReportRenderer report.Renderer
	ReportHandler  *report.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	defaultOpts, err := reportOptions(cfg.Report)
	if err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	deps.Bus = event_bus.NewEventBus()
	deps.Bus.Subscribe(event_bus.ReportProcessedEvent, func(e event_bus.Event) error {
		if processed, ok := e.Data.(event_bus.ReportProcessed); ok {
			log.Infof("Report %s ready: %d events, %d day summaries",
				processed.ReportID, processed.EventCount, processed.DayCount)
		}
		return nil
	})

	repo := report.NewRepository(db)
	deps.ReportRepo = repo
	deps.ReportService = report.NewService(repo, deps.Bus)
	deps.ReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.ReportRenderer, defaultOpts)

	return deps, nil
}

// reportOptions parses the configured report defaults into typed options
// and validates them, so a bad configuration fails startup instead of
// the first request.
func reportOptions(cfg config.Report) (report.Options, error) {
	schedule := shift.Schedule{}
	windows := []struct {
		name   string
		value  string
		target *timeclock.TimeOfDay
	}{
		{"dayShiftStart", cfg.DayShiftStart, &schedule.Day.Start},
		{"dayShiftEnd", cfg.DayShiftEnd, &schedule.Day.End},
		{"nightShiftStart", cfg.NightShiftStart, &schedule.Night.Start},
		{"nightShiftEnd", cfg.NightShiftEnd, &schedule.Night.End},
	}
	for _, w := range windows {
		parsed, err := timeclock.Parse(w.value)
		if err != nil {
			return report.Options{}, fmt.Errorf("%s: %w", w.name, err)
		}
		*w.target = parsed
	}

	opts := report.Options{
		Schedule:      schedule,
		IdlePolicy:    report.IdlePolicy(cfg.IdlePolicy),
		WorkingHours:  cfg.WorkingHours,
		ValidateOrder: cfg.ValidateOrder,
	}
	if cfg.EarlyMorningCutoff != "" {
		cutoff, err := timeclock.Parse(cfg.EarlyMorningCutoff)
		if err != nil {
			return report.Options{}, fmt.Errorf("earlyMorningCutoff: %w", err)
		}
		opts.EarlyMorningCutoff = &cutoff
	}

	if err := opts.Validate(); err != nil {
		return report.Options{}, err
	}
	return opts, nil
}
