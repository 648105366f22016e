package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Navigation
	r.HandleFunc("/api/week", deps.TrackerHandler.GetWeek).Methods("GET")
	r.HandleFunc("/api/navigation/step", deps.TrackerHandler.StepWeek).Methods("POST")
	r.HandleFunc("/api/navigation/jump", deps.TrackerHandler.JumpToWeek).Methods("POST")
	r.HandleFunc("/api/navigation/year", deps.TrackerHandler.JumpToYear).Methods("POST")
	r.HandleFunc("/api/navigation/today", deps.TrackerHandler.ResetWeek).Methods("POST")

	// Worksheet
	r.HandleFunc("/api/worksheet", deps.WorksheetHandler.GetWorksheet).Methods("GET")

	// Entries
	r.HandleFunc("/api/entry", deps.TrackerHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/entry", deps.TrackerHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/entry/position/{index}", deps.TrackerHandler.GetEntryAt).Methods("GET")
	r.HandleFunc("/api/entry/{entryId}", deps.TrackerHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/entry/{entryId}", deps.TrackerHandler.DeleteEntry).Methods("DELETE")

	// Org hierarchy
	r.HandleFunc("/api/org", deps.TrackerHandler.GetOrg).Methods("GET")
	r.HandleFunc("/api/org/manager", deps.TrackerHandler.AddManager).Methods("POST")
	r.HandleFunc("/api/org/manager/{managerId}", deps.TrackerHandler.RenameManager).Methods("PUT")
	r.HandleFunc("/api/org/manager/{managerId}", deps.TrackerHandler.RemoveManager).Methods("DELETE")
	r.HandleFunc("/api/org/manager/{managerId}/supervisor", deps.TrackerHandler.AddSupervisor).Methods("POST")
	r.HandleFunc("/api/org/supervisor/{supervisorId}", deps.TrackerHandler.RenameSupervisor).Methods("PUT")
	r.HandleFunc("/api/org/supervisor/{supervisorId}", deps.TrackerHandler.RemoveSupervisor).Methods("DELETE")
	r.HandleFunc("/api/org/supervisor/{supervisorId}/employee", deps.TrackerHandler.AddEmployee).Methods("POST")
	r.HandleFunc("/api/org/employee/{employeeId}", deps.TrackerHandler.UpdateEmployee).Methods("PUT")
	r.HandleFunc("/api/org/employee/{employeeId}", deps.TrackerHandler.RemoveEmployee).Methods("DELETE")

	// Rates
	r.HandleFunc("/api/rate", deps.TrackerHandler.ListRates).Methods("GET")
	r.HandleFunc("/api/rate", deps.TrackerHandler.AddRate).Methods("POST")
	r.HandleFunc("/api/rate/{location}", deps.TrackerHandler.UpdateRate).Methods("PUT")
	r.HandleFunc("/api/rate/{location}", deps.TrackerHandler.DeleteRate).Methods("DELETE")

	// Years and budgets
	r.HandleFunc("/api/year", deps.TrackerHandler.ListYears).Methods("GET")
	r.HandleFunc("/api/year", deps.TrackerHandler.AddYear).Methods("POST")
	r.HandleFunc("/api/year/{year}", deps.TrackerHandler.SaveYear).Methods("PUT")
	r.HandleFunc("/api/year/{year}/week-one", deps.TrackerHandler.SetWeekOneStart).Methods("PUT")
	r.HandleFunc("/api/year/{year}/budget", deps.TrackerHandler.RemoveYearBudget).Methods("DELETE")

	// Exports
	r.HandleFunc("/api/export/week.csv", deps.ReportHandler.ExportCSV).Methods("GET")
	r.HandleFunc("/api/export/week.xlsx", deps.ReportHandler.ExportXLSX).Methods("GET")
}
