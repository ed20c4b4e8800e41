package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Reports
	r.HandleFunc("/api/report", deps.ReportHandler.ProcessReport).Methods("POST")
	r.HandleFunc("/api/report", deps.ReportHandler.ListReports).Methods("GET")
	r.HandleFunc("/api/report/{reportId}", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/report/{reportId}", deps.ReportHandler.DeleteReport).Methods("DELETE")
}
