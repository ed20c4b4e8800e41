package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/partline/partline/pkg/shift"
	"github.com/partline/partline/pkg/timeclock"
	log "github.com/sirupsen/logrus"
)

const dayLayout = "2006-01-02"

type Repository interface {
	StoreReport(ctx context.Context, report Report) error
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context) ([]Header, error)
	DeleteReport(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// StoreReport persists a report with its event rows and day summaries in
// one transaction. Durations are stored as integer seconds.
func (r *RepositoryImpl) StoreReport(ctx context.Context, report Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO report (id, created_at) VALUES ($1, $2)",
		report.ID, report.CreatedAt.Unix(),
	)
	if err != nil {
		err := fmt.Errorf("could not insert report: %w", err)
		log.Error(err)
		return err
	}

	eventStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_event
			(report_id, seq, part_name, calendar_day, start_time, finish_time,
			 run_time, idle_time, production_time, deviation, shift)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		err := fmt.Errorf("could not prepare event insert: %w", err)
		log.Error(err)
		return err
	}
	defer eventStmt.Close()

	for seq, event := range report.Events {
		_, err := eventStmt.ExecContext(ctx,
			report.ID, seq, event.PartName, event.CalendarDay.Format(dayLayout),
			event.StartTime.Seconds(), event.FinishTime.Seconds(),
			int(event.RunTime.Seconds()), int(event.IdleTime.Seconds()),
			int(event.ProductionTime.Seconds()), int(event.Deviation.Seconds()),
			string(event.Shift),
		)
		if err != nil {
			err := fmt.Errorf("could not insert event %d: %w", seq, err)
			log.Error(err)
			return err
		}
	}

	dayStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_day
			(report_id, position, day, total_run_time, total_idle_time,
			 total_production_time, total_deviation, efficiency_ratio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		err := fmt.Errorf("could not prepare day insert: %w", err)
		log.Error(err)
		return err
	}
	defer dayStmt.Close()

	for position, day := range report.Days {
		_, err := dayStmt.ExecContext(ctx,
			report.ID, position, day.Day.Format(dayLayout),
			int(day.TotalRunTime.Seconds()), int(day.TotalIdleTime.Seconds()),
			int(day.TotalProductionTime.Seconds()), int(day.TotalDeviation.Seconds()),
			day.EfficiencyRatio,
		)
		if err != nil {
			err := fmt.Errorf("could not insert day summary %d: %w", position, err)
			log.Error(err)
			return err
		}
	}

	return tx.Commit()
}

func (r *RepositoryImpl) GetReport(ctx context.Context, id string) (Report, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, created_at FROM report WHERE id = $1", id)

	var report Report
	var createdAtUnix int64
	if err := row.Scan(&report.ID, &createdAtUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrReportNotFound
		}
		err := fmt.Errorf("failed to read report: %w", err)
		log.Error(err)
		return Report{}, err
	}
	report.CreatedAt = time.Unix(createdAtUnix, 0)

	events, err := r.readEvents(ctx, id)
	if err != nil {
		return Report{}, err
	}
	report.Events = events

	days, err := r.readDays(ctx, id)
	if err != nil {
		return Report{}, err
	}
	report.Days = days

	return report, nil
}

func (r *RepositoryImpl) readEvents(ctx context.Context, reportID string) ([]NormalizedEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT part_name, calendar_day, start_time, finish_time,
			   run_time, idle_time, production_time, deviation, shift
		FROM report_event WHERE report_id = $1 ORDER BY seq`, reportID)
	if err != nil {
		err := fmt.Errorf("failed to read report events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var events []NormalizedEvent
	for rows.Next() {
		var event NormalizedEvent
		var day, shiftName string
		var startSeconds, finishSeconds int
		var runSeconds, idleSeconds, productionSeconds, deviationSeconds int64
		err := rows.Scan(&event.PartName, &day, &startSeconds, &finishSeconds,
			&runSeconds, &idleSeconds, &productionSeconds, &deviationSeconds, &shiftName)
		if err != nil {
			err := fmt.Errorf("failed to scan report event: %w", err)
			log.Error(err)
			return nil, err
		}
		event.CalendarDay, err = time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored calendar day %q: %w", day, err)
		}
		event.StartTime = timeclock.TimeOfDay(startSeconds)
		event.FinishTime = timeclock.TimeOfDay(finishSeconds)
		event.RunTime = time.Duration(runSeconds) * time.Second
		event.IdleTime = time.Duration(idleSeconds) * time.Second
		event.ProductionTime = time.Duration(productionSeconds) * time.Second
		event.Deviation = time.Duration(deviationSeconds) * time.Second
		event.Shift = shift.Shift(shiftName)
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) readDays(ctx context.Context, reportID string) ([]DaySummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, total_run_time, total_idle_time, total_production_time,
			   total_deviation, efficiency_ratio
		FROM report_day WHERE report_id = $1 ORDER BY position`, reportID)
	if err != nil {
		err := fmt.Errorf("failed to read report days: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var days []DaySummary
	for rows.Next() {
		var summary DaySummary
		var day string
		var runSeconds, idleSeconds, productionSeconds, deviationSeconds int64
		var ratio sql.NullFloat64
		err := rows.Scan(&day, &runSeconds, &idleSeconds, &productionSeconds,
			&deviationSeconds, &ratio)
		if err != nil {
			err := fmt.Errorf("failed to scan day summary: %w", err)
			log.Error(err)
			return nil, err
		}
		if ratio.Valid {
			summary.EfficiencyRatio = &ratio.Float64
		}
		summary.Day, err = time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored day %q: %w", day, err)
		}
		summary.TotalRunTime = time.Duration(runSeconds) * time.Second
		summary.TotalIdleTime = time.Duration(idleSeconds) * time.Second
		summary.TotalProductionTime = time.Duration(productionSeconds) * time.Second
		summary.TotalDeviation = time.Duration(deviationSeconds) * time.Second
		days = append(days, summary)
	}
	return days, rows.Err()
}

func (r *RepositoryImpl) ListReports(ctx context.Context) ([]Header, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.created_at,
			   (SELECT COUNT(*) FROM report_event e WHERE e.report_id = r.id),
			   (SELECT COUNT(*) FROM report_day d WHERE d.report_id = r.id)
		FROM report r ORDER BY r.created_at DESC`)
	if err != nil {
		err := fmt.Errorf("failed to list reports: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var headers []Header
	for rows.Next() {
		var header Header
		var createdAtUnix int64
		if err := rows.Scan(&header.ID, &createdAtUnix, &header.EventCount, &header.DayCount); err != nil {
			err := fmt.Errorf("failed to scan report header: %w", err)
			log.Error(err)
			return nil, err
		}
		header.CreatedAt = time.Unix(createdAtUnix, 0)
		headers = append(headers, header)
	}
	return headers, rows.Err()
}

func (r *RepositoryImpl) DeleteReport(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM report WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not delete report: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}
