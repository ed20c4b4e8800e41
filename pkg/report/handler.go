package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/partline/partline/internal/rest"
	"github.com/partline/partline/pkg/partlog"
	"github.com/partline/partline/pkg/shift"
	"github.com/partline/partline/pkg/timeclock"
	log "github.com/sirupsen/logrus"
)

// maxLogSize bounds uploaded part log documents.
const maxLogSize = 32 << 20

type EventDTO struct {
	PartName       string  `json:"partName"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	FinishTime     string  `json:"finishTime"`
	RunTime        float64 `json:"runTime"`
	IdleTime       float64 `json:"idleTime"`
	ProductionTime float64 `json:"productionTime"`
	Deviation      float64 `json:"deviation"`
	Shift          string  `json:"shift"`
}

type DaySummaryDTO struct {
	Date                string   `json:"date"`
	TotalRunTime        float64  `json:"totalRunTime"`
	TotalIdleTime       float64  `json:"totalIdleTime"`
	TotalProductionTime float64  `json:"totalProductionTime"`
	TotalDeviation      float64  `json:"totalDeviation"`
	EfficiencyRatio     *float64 `json:"efficiencyRatio,omitempty"`
}

type ReportDTO struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"createdAt"`
	Events    []EventDTO      `json:"events"`
	Days      []DaySummaryDTO `json:"days"`
}

type HeaderDTO struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"createdAt"`
	EventCount int    `json:"eventCount"`
	DayCount   int    `json:"dayCount"`
}

type Handler struct {
	service     Service
	renderer    Renderer
	defaultOpts Options
}

func NewHandler(service Service, renderer Renderer, defaultOpts Options) *Handler {
	return &Handler{service: service, renderer: renderer, defaultOpts: defaultOpts}
}

// ProcessReport ingests an XML part log, runs aggregation and stores the
// result. Query parameters can override the configured shift windows,
// early-morning cutoff, working hours, and idle policy for this run.
func (h *Handler) ProcessReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Processing part log upload")

	opts, err := h.optionsFromQuery(r)
	if err != nil {
		writeBadRequest(w, "Invalid report options", err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLogSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	events, err := partlog.Parse(body)
	if err != nil {
		writeBadRequest(w, "Invalid part log", err.Error())
		return
	}

	result, err := h.service.ProcessLog(r.Context(), events, opts)
	if err != nil {
		if isClientError(err) {
			writeBadRequest(w, "Could not process part log", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(reportToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["reportId"]

	result, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		rendered, err := h.renderer.RenderReport(result)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(rendered)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reportToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	headers, err := h.service.ListReports(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]HeaderDTO, 0, len(headers))
	for _, header := range headers {
		response = append(response, HeaderDTO{
			ID:         header.ID,
			CreatedAt:  header.CreatedAt.Format(time.RFC3339),
			EventCount: header.EventCount,
			DayCount:   header.DayCount,
		})
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["reportId"]

	if err := h.service.DeleteReport(r.Context(), id); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) optionsFromQuery(r *http.Request) (Options, error) {
	opts := h.defaultOpts
	query := r.URL.Query()

	windows := map[string]*timeclock.TimeOfDay{
		"dayStart":   &opts.Schedule.Day.Start,
		"dayEnd":     &opts.Schedule.Day.End,
		"nightStart": &opts.Schedule.Night.Start,
		"nightEnd":   &opts.Schedule.Night.End,
	}
	for name, target := range windows {
		if value := query.Get(name); value != "" {
			parsed, err := timeclock.Parse(value)
			if err != nil {
				return Options{}, err
			}
			*target = parsed
		}
	}

	if value := query.Get("cutoff"); value != "" {
		parsed, err := timeclock.Parse(value)
		if err != nil {
			return Options{}, err
		}
		opts.EarlyMorningCutoff = &parsed
	}
	if value := query.Get("workingHours"); value != "" {
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Options{}, fmt.Errorf("malformed workingHours %q", value)
		}
		opts.WorkingHours = hours
	}
	if value := query.Get("idlePolicy"); value != "" {
		opts.IdlePolicy = IdlePolicy(value)
	}

	return opts, nil
}

func isClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, shift.ErrInvalidSchedule) ||
		errors.Is(err, partlog.ErrUnorderedLog) ||
		errors.Is(err, partlog.ErrMalformedTimestamp) ||
		errors.Is(err, partlog.ErrMissingField)
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func reportToDTO(result Report) ReportDTO {
	events := make([]EventDTO, 0, len(result.Events))
	for _, event := range result.Events {
		events = append(events, EventDTO{
			PartName:       event.PartName,
			Date:           event.CalendarDay.Format(dayLayout),
			StartTime:      event.StartTime.String(),
			FinishTime:     event.FinishTime.String(),
			RunTime:        timeclock.DecimalHours(event.RunTime),
			IdleTime:       timeclock.DecimalHours(event.IdleTime),
			ProductionTime: timeclock.DecimalHours(event.ProductionTime),
			Deviation:      timeclock.DecimalHours(event.Deviation),
			Shift:          string(event.Shift),
		})
	}
	days := make([]DaySummaryDTO, 0, len(result.Days))
	for _, day := range result.Days {
		days = append(days, DaySummaryDTO{
			Date:                day.Day.Format(dayLayout),
			TotalRunTime:        timeclock.DecimalHours(day.TotalRunTime),
			TotalIdleTime:       timeclock.DecimalHours(day.TotalIdleTime),
			TotalProductionTime: timeclock.DecimalHours(day.TotalProductionTime),
			TotalDeviation:      timeclock.DecimalHours(day.TotalDeviation),
			EfficiencyRatio:     day.EfficiencyRatio,
		})
	}
	return ReportDTO{
		ID:        result.ID,
		CreatedAt: result.CreatedAt.Format(time.RFC3339),
		Events:    events,
		Days:      days,
	}
}
