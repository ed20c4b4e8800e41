package report

import (
	"context"
)

// stubReportRepo is an in-memory Repository used by tests.
type stubReportRepo struct {
	reports map[string]Report
	order   []string

	failStore error
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: map[string]Report{}}
}

func (s *stubReportRepo) StoreReport(_ context.Context, report Report) error {
	if s.failStore != nil {
		return s.failStore
	}
	s.reports[report.ID] = report
	s.order = append(s.order, report.ID)
	return nil
}

func (s *stubReportRepo) GetReport(_ context.Context, id string) (Report, error) {
	report, ok := s.reports[id]
	if !ok {
		return Report{}, ErrReportNotFound
	}
	return report, nil
}

func (s *stubReportRepo) ListReports(_ context.Context) ([]Header, error) {
	headers := make([]Header, 0, len(s.order))
	for _, id := range s.order {
		report := s.reports[id]
		headers = append(headers, Header{
			ID:         report.ID,
			CreatedAt:  report.CreatedAt,
			EventCount: len(report.Events),
			DayCount:   len(report.Days),
		})
	}
	return headers, nil
}

func (s *stubReportRepo) DeleteReport(_ context.Context, id string) error {
	if _, ok := s.reports[id]; !ok {
		return ErrReportNotFound
	}
	delete(s.reports, id)
	for i, storedID := range s.order {
		if storedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubReportRepo) reset() {
	s.reports = map[string]Report{}
	s.order = nil
	s.failStore = nil
}
