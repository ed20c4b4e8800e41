package report

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/partline/partline/internal/test_utils"
	"github.com/partline/partline/pkg/shift"
	"github.com/partline/partline/pkg/timeclock"
	"github.com/stretchr/testify/assert"
)

func setupTestRepository(t *testing.T) (context.Context, Repository, *sql.DB) {
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	repository := NewRepository(db)
	return ctx, repository, db
}

func sampleReport() Report {
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	ratio := 0.28125
	return Report{
		ID:        "9f2c7a15-1111-2222-3333-444455556666",
		CreatedAt: time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC),
		Events: []NormalizedEvent{
			{
				PartName:       "Bracket-A",
				CalendarDay:    day,
				StartTime:      timeclock.TimeOfDay(8 * 3600),
				FinishTime:     timeclock.TimeOfDay(9*3600 + 1800),
				RunTime:        90 * time.Minute,
				ProductionTime: time.Hour,
				Deviation:      -30 * time.Minute,
				IdleTime:       0,
				Shift:          shift.Day,
			},
			{
				PartName:       "Bracket-B",
				CalendarDay:    day,
				StartTime:      timeclock.TimeOfDay(9*3600 + 2400),
				FinishTime:     timeclock.TimeOfDay(11 * 3600),
				RunTime:        80 * time.Minute,
				ProductionTime: 75 * time.Minute,
				Deviation:      -5 * time.Minute,
				IdleTime:       10 * time.Minute,
				Shift:          shift.Day,
			},
		},
		Days: []DaySummary{
			{
				Day:                 day,
				TotalRunTime:        170 * time.Minute,
				TotalIdleTime:       10 * time.Minute,
				TotalProductionTime: 135 * time.Minute,
				TotalDeviation:      -35 * time.Minute,
				EfficiencyRatio:     &ratio,
			},
		},
	}
}

func TestRepositoryImpl_StoreAndGetReport(t *testing.T) {
	// given
	ctx, repo, _ := setupTestRepository(t)
	original := sampleReport()

	// when
	err := repo.StoreReport(ctx, original)
	assert.NoError(t, err)
	stored, err := repo.GetReport(ctx, original.ID)

	// then
	assert.NoError(t, err)
	assert.Equal(t, original.ID, stored.ID)
	assert.Equal(t, original.CreatedAt.Unix(), stored.CreatedAt.Unix())
	assert.Equal(t, original.Events, stored.Events)
	assert.Equal(t, original.Days, stored.Days)
}

func TestRepositoryImpl_StoreAndGetReport_NoEfficiencyRatio(t *testing.T) {
	// given: a day summarized without configured working hours
	ctx, repo, _ := setupTestRepository(t)
	original := sampleReport()
	original.Days[0].EfficiencyRatio = nil

	// when
	assert.NoError(t, repo.StoreReport(ctx, original))
	stored, err := repo.GetReport(ctx, original.ID)

	// then: the absent ratio round-trips as absent, not as zero
	assert.NoError(t, err)
	assert.Nil(t, stored.Days[0].EfficiencyRatio)
}

func TestRepositoryImpl_GetReport_NotFound(t *testing.T) {
	ctx, repo, _ := setupTestRepository(t)

	_, err := repo.GetReport(ctx, "no-such-report")

	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestRepositoryImpl_ListReports(t *testing.T) {
	// given
	ctx, repo, _ := setupTestRepository(t)
	first := sampleReport()
	second := sampleReport()
	second.ID = "0b1d5f27-7777-8888-9999-aaaabbbbcccc"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	assert.NoError(t, repo.StoreReport(ctx, first))
	assert.NoError(t, repo.StoreReport(ctx, second))

	// when
	headers, err := repo.ListReports(ctx)

	// then: newest first, with row counts
	assert.NoError(t, err)
	assert.Len(t, headers, 2)
	assert.Equal(t, second.ID, headers[0].ID)
	assert.Equal(t, first.ID, headers[1].ID)
	assert.Equal(t, 2, headers[0].EventCount)
	assert.Equal(t, 1, headers[0].DayCount)
}

func TestRepositoryImpl_DeleteReport(t *testing.T) {
	// given
	ctx, repo, db := setupTestRepository(t)
	original := sampleReport()
	assert.NoError(t, repo.StoreReport(ctx, original))

	// when
	err := repo.DeleteReport(ctx, original.ID)

	// then: report and its rows are gone
	assert.NoError(t, err)
	_, err = repo.GetReport(ctx, original.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	// the delete cascades to the child tables
	assert.Equal(t, 0, countRows(t, db, "report_event", original.ID))
	assert.Equal(t, 0, countRows(t, db, "report_day", original.ID))

	// deleting again reports not found
	assert.ErrorIs(t, repo.DeleteReport(ctx, original.ID), ErrReportNotFound)
}

func countRows(t *testing.T, db *sql.DB, table, reportID string) int {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE report_id = $1", reportID).Scan(&count)
	assert.NoError(t, err)
	return count
}
