package event_bus

// ReportProcessedEvent is published after a part log has been aggregated
// and stored.
const ReportProcessedEvent EventType = "report.processed"

type ReportProcessed struct {
	ReportID   string
	EventCount int
	DayCount   int
}
