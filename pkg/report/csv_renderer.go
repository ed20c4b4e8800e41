package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/partline/partline/pkg/timeclock"
	log "github.com/sirupsen/logrus"
)

// Renderer turns a report into a presentation format.
type Renderer interface {
	RenderReport(report Report) (string, error)
}

// CsvReportRendererImpl renders a report as CSV: a master section with
// every event row, then one section per day ending in a Totals row.
// Durations are written as decimal hours.
type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

var columnHeader = []string{
	"Part Name", "Date", "Start Time", "Finish Time",
	"Total Run Time (hours)", "Idle Time (hours)",
	"Production Time (hours)", "PT-TRT (hours)", "Shift",
}

func (r *CsvReportRendererImpl) RenderReport(report Report) (string, error) {
	data := make([][]string, 0, len(report.Events)+len(report.Days)*3+2)
	data = append(data, columnHeader)
	for _, event := range report.Events {
		data = append(data, eventRow(event))
	}

	for _, summary := range report.Days {
		data = append(data, []string{""})
		data = append(data, append([]string{summary.Day.Format(dayLayout)}, make([]string, len(columnHeader)-1)...))
		data = append(data, columnHeader)
		for _, event := range report.Events {
			if event.CalendarDay.Equal(summary.Day) {
				data = append(data, eventRow(event))
			}
		}
		data = append(data, totalsRow(summary))
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func eventRow(event NormalizedEvent) []string {
	return []string{
		event.PartName,
		event.CalendarDay.Format(dayLayout),
		event.StartTime.String(),
		event.FinishTime.String(),
		hoursToString(timeclock.DecimalHours(event.RunTime)),
		hoursToString(timeclock.DecimalHours(event.IdleTime)),
		hoursToString(timeclock.DecimalHours(event.ProductionTime)),
		hoursToString(timeclock.DecimalHours(event.Deviation)),
		string(event.Shift),
	}
}

func totalsRow(summary DaySummary) []string {
	row := []string{
		"Totals", "", "", "",
		hoursToString(timeclock.DecimalHours(summary.TotalRunTime)),
		hoursToString(timeclock.DecimalHours(summary.TotalIdleTime)),
		hoursToString(timeclock.DecimalHours(summary.TotalProductionTime)),
		hoursToString(timeclock.DecimalHours(summary.TotalDeviation)),
	}
	if summary.EfficiencyRatio != nil {
		row = append(row, "Efficiency: "+hoursToString(*summary.EfficiencyRatio))
	} else {
		row = append(row, "")
	}
	return row
}

func hoursToString(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
