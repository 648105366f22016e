package tracker

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/overtrack/overtrack/internal/rest"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/org"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type WeekDTO struct {
	Key    string   `json:"key"`
	Year   int      `json:"year"`
	Number int      `json:"number"`
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Range  string   `json:"range"`
	Days   []string `json:"days"`
	Offset int      `json:"offset"`
	Moved  *bool    `json:"moved,omitempty"`
}

type EntryDTO struct {
	ID             string            `json:"id"`
	WeekKey        string            `json:"weekKey"`
	ManagerID      string            `json:"managerId,omitempty"`
	ManagerName    string            `json:"managerName"`
	SupervisorID   string            `json:"supervisorId,omitempty"`
	SupervisorName string            `json:"supervisorName"`
	EmployeeID     string            `json:"employeeId,omitempty"`
	EmployeeName   string            `json:"employeeName"`
	Program        string            `json:"program"`
	Location       string            `json:"location"`
	Reason         string            `json:"reason"`
	Hours          []decimal.Decimal `json:"hours"`
	TotalHours     decimal.Decimal   `json:"totalHours"`
	Cost           decimal.Decimal   `json:"cost"`
}

// EntryRequest names the employee either by ids or by the three names.
type EntryRequest struct {
	WeekKey        string            `json:"weekKey" validate:"omitempty,weekkey"`
	ManagerID      string            `json:"managerId" validate:"omitempty,uuid"`
	ManagerName    string            `json:"managerName"`
	SupervisorID   string            `json:"supervisorId" validate:"omitempty,uuid"`
	SupervisorName string            `json:"supervisorName"`
	EmployeeID     string            `json:"employeeId" validate:"omitempty,uuid"`
	EmployeeName   string            `json:"employeeName"`
	Program        string            `json:"program"`
	Location       string            `json:"location"`
	Reason         string            `json:"reason"`
	Hours          []decimal.Decimal `json:"hours" validate:"len=7"`
}

type StepRequest struct {
	Direction int `json:"direction" validate:"oneof=-1 1"`
}

type JumpRequest struct {
	WeekKey string `json:"weekKey" validate:"required,weekkey"`
}

type YearRequest struct {
	Year int `json:"year" validate:"required,min=1,max=9999"`
}

type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

type EmployeeRequest struct {
	Name         string `json:"name" validate:"required"`
	RateLocation string `json:"rateLocation"`
}

type EmployeeDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RateLocation string    `json:"rateLocation"`
}

type SupervisorDTO struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Employees []EmployeeDTO `json:"employees"`
}

type ManagerDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Supervisors []SupervisorDTO `json:"supervisors"`
}

type RateDTO struct {
	Location string          `json:"location" validate:"required"`
	Hourly   decimal.Decimal `json:"hourly"`
}

type HourlyRequest struct {
	Hourly *decimal.Decimal `json:"hourly" validate:"required"`
}

type YearDTO struct {
	Year         int             `json:"year"`
	Budget       decimal.Decimal `json:"budget"`
	HasBudget    bool            `json:"hasBudget"`
	WeekOneStart string          `json:"weekOneStart"`
	Configured   bool            `json:"configured"`
	WeeksInYear  int             `json:"weeksInYear"`
}

type SaveYearRequest struct {
	Budget       *decimal.Decimal `json:"budget" validate:"required"`
	WeekOneStart string           `json:"weekOneStart" validate:"omitempty,datetime=2006-01-02"`
}

type WeekOneRequest struct {
	WeekOneStart string `json:"weekOneStart" validate:"required,datetime=2006-01-02"`
}

type Handler struct {
	service  Service
	validate *rest.Validator
}

func NewHandler(service Service) *Handler {
	v := rest.NewValidator()
	if err := v.RegisterRule("weekkey", func(value string) bool {
		_, err := fiscal.ParseWeekNumber(value)
		return err == nil
	}); err != nil {
		log.Fatalf("failed to register week key rule: %v", err)
	}
	return &Handler{service: service, validate: v}
}

func WeekToDTO(week fiscal.Week, offset int) WeekDTO {
	days := week.Days()
	dto := WeekDTO{
		Key:    week.Key(),
		Year:   week.Number.Year,
		Number: week.Number.Week,
		Start:  week.Start.Format(fiscal.DateLayout),
		End:    week.End.Format(fiscal.DateLayout),
		Range:  week.Range(),
		Days:   make([]string, 0, len(days)),
		Offset: offset,
	}
	for _, d := range days {
		dto.Days = append(dto.Days, d.Format(fiscal.DateLayout))
	}
	return dto
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func EntryToDTO(e ledger.Entry) EntryDTO {
	return EntryDTO{
		ID:             e.ID.String(),
		WeekKey:        e.WeekKey,
		ManagerID:      idString(e.Attribution.ManagerID),
		ManagerName:    e.Attribution.ManagerName,
		SupervisorID:   idString(e.Attribution.SupervisorID),
		SupervisorName: e.Attribution.SupervisorName,
		EmployeeID:     idString(e.Attribution.EmployeeID),
		EmployeeName:   e.Attribution.EmployeeName,
		Program:        e.Metadata.Program,
		Location:       e.Metadata.Location,
		Reason:         e.Metadata.Reason,
		Hours:          e.Hours[:],
		TotalHours:     e.Hours.Total(),
		Cost:           e.Cost,
	}
}

func optionalID(value string) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (req EntryRequest) ref() org.Ref {
	return org.Ref{
		ManagerID:      optionalID(req.ManagerID),
		ManagerName:    req.ManagerName,
		SupervisorID:   optionalID(req.SupervisorID),
		SupervisorName: req.SupervisorName,
		EmployeeID:     optionalID(req.EmployeeID),
		EmployeeName:   req.EmployeeName,
	}
}

func (req EntryRequest) hours() ledger.Hours {
	var hours ledger.Hours
	copy(hours[:], req.Hours)
	return hours
}

func (req EntryRequest) metadata() ledger.Metadata {
	return ledger.Metadata{Program: req.Program, Location: req.Location, Reason: req.Reason}
}

func ManagersToDTO(managers []org.Manager) []ManagerDTO {
	out := make([]ManagerDTO, 0, len(managers))
	for _, m := range managers {
		md := ManagerDTO{ID: m.ID, Name: m.Name, Supervisors: make([]SupervisorDTO, 0, len(m.Supervisors))}
		for _, s := range m.Supervisors {
			sd := SupervisorDTO{ID: s.ID, Name: s.Name, Employees: make([]EmployeeDTO, 0, len(s.Employees))}
			for _, e := range s.Employees {
				sd.Employees = append(sd.Employees, EmployeeDTO{ID: e.ID, Name: e.Name, RateLocation: e.RateLocation})
			}
			md.Supervisors = append(md.Supervisors, sd)
		}
		out = append(out, md)
	}
	return out
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		rest.WriteBadRequest(w, "Invalid "+name, "Value must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func pathYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		rest.WriteBadRequest(w, "Invalid year", err.Error())
		return 0, false
	}
	return year, true
}

// GetWeek godoc
// @Summary Get the active week
// @Description Returns the active week, or the week at the given offset from today without changing the active week
// @Tags Navigation
// @Produce json
// @Param offset query int false "Week offset from today"
// @Success 200 {object} WeekDTO
// @Router /api/week [get]
func (handler *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting week")
	w.Header().Set("Content-Type", "application/json")

	state := handler.service.Snapshot()
	offset := state.WeekOffset
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			rest.WriteBadRequest(w, "Invalid offset", err.Error())
			return
		}
		offset = parsed
	}
	week := state.Calendar.Resolve(handler.service.Today(), offset)
	rest.WriteJSON(w, http.StatusOK, WeekToDTO(week, offset))
}

// StepWeek godoc
// @Summary Move the active week one step
// @Tags Navigation
// @Accept json
// @Produce json
// @Param step body StepRequest true "Direction, -1 or 1"
// @Success 200 {object} WeekDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/navigation/step [post]
func (handler *Handler) StepWeek(w http.ResponseWriter, r *http.Request) {
	log.Debug("Stepping week")
	var req StepRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	moved, err := handler.service.StepWeek(r.Context(), req.Direction)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeActiveWeek(w, &moved)
}

func (handler *Handler) JumpToWeek(w http.ResponseWriter, r *http.Request) {
	log.Debug("Jumping to week")
	var req JumpRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	week, err := fiscal.ParseWeekNumber(req.WeekKey)
	if err != nil {
		rest.WriteBadRequest(w, "Invalid week key", err.Error())
		return
	}
	if err := handler.service.JumpToWeek(r.Context(), week); err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeActiveWeek(w, nil)
}

func (handler *Handler) JumpToYear(w http.ResponseWriter, r *http.Request) {
	log.Debug("Jumping to year")
	var req YearRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.JumpToYear(r.Context(), req.Year); err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeActiveWeek(w, nil)
}

func (handler *Handler) ResetWeek(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting week to today")
	if err := handler.service.ResetWeek(r.Context()); err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeActiveWeek(w, nil)
}

func (handler *Handler) writeActiveWeek(w http.ResponseWriter, moved *bool) {
	dto := WeekToDTO(handler.service.ActiveWeek())
	dto.Moved = moved
	rest.WriteJSON(w, http.StatusOK, dto)
}

// ListEntries godoc
// @Summary List entries
// @Description Lists the entries of one week, or every entry in stored order
// @Tags Entry
// @Produce json
// @Param week query string false "Week key, e.g. 2026-W03"
// @Success 200 {array} EntryDTO
// @Router /api/entry [get]
func (handler *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing entries")
	w.Header().Set("Content-Type", "application/json")

	state := handler.service.Snapshot()
	entries := state.Ledger.Entries()
	if weekKey := r.URL.Query().Get("week"); weekKey != "" {
		if _, err := fiscal.ParseWeekNumber(weekKey); err != nil {
			rest.WriteBadRequest(w, "Invalid week key", err.Error())
			return
		}
		entries = state.Ledger.ForWeek(weekKey)
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, out)
}

// CreateEntry godoc
// @Summary Add an overtime entry
// @Description Costs the hours at the employee's rate. A blank week key means the active week.
// @Tags Entry
// @Accept json
// @Produce json
// @Param entry body EntryRequest true "Entry"
// @Success 201 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/entry [post]
func (handler *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating entry")
	var req EntryRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	entry, err := handler.service.AddEntry(r.Context(), NewEntry{
		WeekKey:  req.WeekKey,
		Employee: req.ref(),
		Hours:    req.hours(),
		Metadata: req.metadata(),
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EntryToDTO(entry))
}

func (handler *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating entry")
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	var req EntryRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	entry, err := handler.service.UpdateEntry(r.Context(), id, EntryChange{
		Employee: req.ref(),
		Hours:    req.hours(),
		Metadata: req.metadata(),
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EntryToDTO(entry))
}

func (handler *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting entry")
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	if err := handler.service.DeleteEntry(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEntryAt returns the entry at a position of the full stored sequence.
func (handler *Handler) GetEntryAt(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting entry by position")
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		rest.WriteBadRequest(w, "Invalid index", err.Error())
		return
	}
	entry, err := handler.service.EntryAt(index)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EntryToDTO(entry))
}

// GetOrg godoc
// @Summary Get the org tree
// @Tags Org
// @Produce json
// @Success 200 {array} ManagerDTO
// @Router /api/org [get]
func (handler *Handler) GetOrg(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting org tree")
	rest.WriteJSON(w, http.StatusOK, ManagersToDTO(handler.service.Snapshot().Org.Managers()))
}

func (handler *Handler) AddManager(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding manager")
	var req NameRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	m, err := handler.service.AddManager(r.Context(), req.Name)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ManagersToDTO([]org.Manager{m})[0])
}

func (handler *Handler) RenameManager(w http.ResponseWriter, r *http.Request) {
	log.Debug("Renaming manager")
	id, ok := pathID(w, r, "managerId")
	if !ok {
		return
	}
	var req NameRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.RenameManager(r.Context(), id, req.Name); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) RemoveManager(w http.ResponseWriter, r *http.Request) {
	log.Debug("Removing manager")
	id, ok := pathID(w, r, "managerId")
	if !ok {
		return
	}
	if err := handler.service.RemoveManager(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) AddSupervisor(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding supervisor")
	managerID, ok := pathID(w, r, "managerId")
	if !ok {
		return
	}
	var req NameRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	s, err := handler.service.AddSupervisor(r.Context(), managerID, req.Name)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, SupervisorDTO{ID: s.ID, Name: s.Name, Employees: []EmployeeDTO{}})
}

func (handler *Handler) RenameSupervisor(w http.ResponseWriter, r *http.Request) {
	log.Debug("Renaming supervisor")
	id, ok := pathID(w, r, "supervisorId")
	if !ok {
		return
	}
	var req NameRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.RenameSupervisor(r.Context(), id, req.Name); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) RemoveSupervisor(w http.ResponseWriter, r *http.Request) {
	log.Debug("Removing supervisor")
	id, ok := pathID(w, r, "supervisorId")
	if !ok {
		return
	}
	if err := handler.service.RemoveSupervisor(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding employee")
	supervisorID, ok := pathID(w, r, "supervisorId")
	if !ok {
		return
	}
	var req EmployeeRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	e, err := handler.service.AddEmployee(r.Context(), supervisorID, req.Name, req.RateLocation)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EmployeeDTO{ID: e.ID, Name: e.Name, RateLocation: e.RateLocation})
}

func (handler *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating employee")
	id, ok := pathID(w, r, "employeeId")
	if !ok {
		return
	}
	var req EmployeeRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.UpdateEmployee(r.Context(), id, req.Name, req.RateLocation); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	log.Debug("Removing employee")
	id, ok := pathID(w, r, "employeeId")
	if !ok {
		return
	}
	if err := handler.service.RemoveEmployee(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRates godoc
// @Summary List hourly rates
// @Description Rates in declaration order. The first one is the fallback for unknown locations.
// @Tags Rate
// @Produce json
// @Success 200 {array} RateDTO
// @Router /api/rate [get]
func (handler *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing rates")
	rates := handler.service.Snapshot().Rates.All()
	out := make([]RateDTO, 0, len(rates))
	for _, rt := range rates {
		out = append(out, RateDTO{Location: rt.Location, Hourly: rt.Hourly})
	}
	rest.WriteJSON(w, http.StatusOK, out)
}

func (handler *Handler) AddRate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding rate")
	var req RateDTO
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.AddRate(r.Context(), req.Location, req.Hourly); err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, req)
}

func (handler *Handler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating rate")
	location := mux.Vars(r)["location"]
	var req HourlyRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.UpdateRate(r.Context(), location, *req.Hourly); err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, RateDTO{Location: location, Hourly: *req.Hourly})
}

func (handler *Handler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting rate")
	if err := handler.service.DeleteRate(r.Context(), mux.Vars(r)["location"]); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// YearsOf lists every year that has a budget or a configured week-1 start.
func YearsOf(state *State) []YearDTO {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, y := range append(state.Budgets.Years(), state.Calendar.Years()...) {
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	slices.Sort(years)

	out := make([]YearDTO, 0, len(years))
	for _, y := range years {
		out = append(out, YearDTO{
			Year:         y,
			Budget:       state.Budgets.Amount(y),
			HasBudget:    state.Budgets.Has(y),
			WeekOneStart: state.Calendar.WeekOneStart(y).Format(fiscal.DateLayout),
			Configured:   state.Calendar.IsConfigured(y),
			WeeksInYear:  state.Calendar.WeeksInYear(y),
		})
	}
	return out
}

// ListYears godoc
// @Summary List configured years
// @Tags Year
// @Produce json
// @Success 200 {array} YearDTO
// @Router /api/year [get]
func (handler *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing years")
	rest.WriteJSON(w, http.StatusOK, YearsOf(handler.service.Snapshot()))
}

func (handler *Handler) AddYear(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding year")
	var req YearRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	if err := handler.service.AddYear(r.Context(), req.Year); err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeYear(w, http.StatusCreated, req.Year)
}

// SaveYear godoc
// @Summary Save the budget and week-1 start of a year
// @Description A missing week-1 start keeps the configured one, or sets January 1 for a new year
// @Tags Year
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param year body SaveYearRequest true "Year settings"
// @Success 200 {object} YearDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/year/{year} [put]
func (handler *Handler) SaveYear(w http.ResponseWriter, r *http.Request) {
	log.Debug("Saving year")
	year, ok := pathYear(w, r)
	if !ok {
		return
	}
	var req SaveYearRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	var start time.Time
	if req.WeekOneStart != "" {
		start, _ = fiscal.ParseDate(req.WeekOneStart)
	}
	if err := handler.service.SaveYear(r.Context(), year, *req.Budget, start); err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeYear(w, http.StatusOK, year)
}

func (handler *Handler) SetWeekOneStart(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting week-1 start")
	year, ok := pathYear(w, r)
	if !ok {
		return
	}
	var req WeekOneRequest
	if !rest.DecodeBody(w, r, handler.validate, &req) {
		return
	}
	start, _ := fiscal.ParseDate(req.WeekOneStart)
	if err := handler.service.SetWeekOneStart(r.Context(), year, start); err != nil {
		rest.WriteError(w, err)
		return
	}
	handler.writeYear(w, http.StatusOK, year)
}

func (handler *Handler) RemoveYearBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Removing year budget")
	year, ok := pathYear(w, r)
	if !ok {
		return
	}
	if err := handler.service.RemoveYearBudget(r.Context(), year); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) writeYear(w http.ResponseWriter, status int, year int) {
	for _, y := range YearsOf(handler.service.Snapshot()) {
		if y.Year == year {
			rest.WriteJSON(w, status, y)
			return
		}
	}
	rest.WriteJSON(w, status, nil)
}
