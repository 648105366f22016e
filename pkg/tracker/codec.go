package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/pkg/budget"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/org"
	"github.com/overtrack/overtrack/pkg/rate"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const documentVersion = 1

type document struct {
	Version       int                        `json:"version"`
	WeekOneStarts map[string]string          `json:"weekOneStarts"`
	Budgets       map[string]decimal.Decimal `json:"budgets"`
	Rates         []rateDoc                  `json:"rates"`
	Managers      []managerDoc               `json:"managers"`
	Entries       []entryDoc                 `json:"entries"`
	WeekOffset    int                        `json:"weekOffset"`
}

type rateDoc struct {
	Location string          `json:"location"`
	Hourly   decimal.Decimal `json:"hourly"`
}

type managerDoc struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Supervisors []supervisorDoc `json:"supervisors"`
}

type supervisorDoc struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Employees []employeeDoc `json:"employees"`
}

type employeeDoc struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RateLocation string    `json:"rateLocation"`
}

type entryDoc struct {
	ID             uuid.UUID          `json:"id"`
	WeekKey        string             `json:"weekKey"`
	ManagerID      uuid.UUID          `json:"managerId"`
	ManagerName    string             `json:"managerName"`
	SupervisorID   uuid.UUID          `json:"supervisorId"`
	SupervisorName string             `json:"supervisorName"`
	EmployeeID     uuid.UUID          `json:"employeeId"`
	EmployeeName   string             `json:"employeeName"`
	Program        string             `json:"program"`
	Location       string             `json:"location"`
	Reason         string             `json:"reason"`
	Hours          [7]decimal.Decimal `json:"hours"`
	Cost           decimal.Decimal    `json:"cost"`
}

// Encode serializes the state to the current document format.
func Encode(s *State) ([]byte, error) {
	doc := document{
		Version:       documentVersion,
		WeekOneStarts: make(map[string]string),
		Budgets:       make(map[string]decimal.Decimal),
		Rates:         []rateDoc{},
		Managers:      []managerDoc{},
		Entries:       []entryDoc{},
		WeekOffset:    s.WeekOffset,
	}
	for year, start := range s.Calendar.Anchors() {
		doc.WeekOneStarts[strconv.Itoa(year)] = start.Format(fiscal.DateLayout)
	}
	for year, amount := range s.Budgets.All() {
		doc.Budgets[strconv.Itoa(year)] = amount
	}
	for _, r := range s.Rates.All() {
		doc.Rates = append(doc.Rates, rateDoc{Location: r.Location, Hourly: r.Hourly})
	}
	for _, m := range s.Org.Managers() {
		md := managerDoc{ID: m.ID, Name: m.Name, Supervisors: []supervisorDoc{}}
		for _, sv := range m.Supervisors {
			sd := supervisorDoc{ID: sv.ID, Name: sv.Name, Employees: []employeeDoc{}}
			for _, e := range sv.Employees {
				sd.Employees = append(sd.Employees, employeeDoc{ID: e.ID, Name: e.Name, RateLocation: e.RateLocation})
			}
			md.Supervisors = append(md.Supervisors, sd)
		}
		doc.Managers = append(doc.Managers, md)
	}
	for _, e := range s.Ledger.Entries() {
		doc.Entries = append(doc.Entries, entryDoc{
			ID:             e.ID,
			WeekKey:        e.WeekKey,
			ManagerID:      e.Attribution.ManagerID,
			ManagerName:    e.Attribution.ManagerName,
			SupervisorID:   e.Attribution.SupervisorID,
			SupervisorName: e.Attribution.SupervisorName,
			EmployeeID:     e.Attribution.EmployeeID,
			EmployeeName:   e.Attribution.EmployeeName,
			Program:        e.Metadata.Program,
			Location:       e.Metadata.Location,
			Reason:         e.Metadata.Reason,
			Hours:          e.Hours,
			Cost:           e.Cost,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

// Decode parses a stored document. Documents written before versioning are upgraded,
// and migrated reports whether that happened so the caller can store the new shape.
func Decode(data []byte) (state *State, migrated bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, fmt.Errorf("parse state: unsupported JSON format")
	}

	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, false, fmt.Errorf("parse state: %w", err)
	}
	if probe.Version == nil {
		state, err := decodeLegacy(trimmed)
		if err != nil {
			return nil, false, fmt.Errorf("migrate legacy state: %w", err)
		}
		return state, true, nil
	}
	if *probe.Version != documentVersion {
		return nil, false, fmt.Errorf("parse state: unsupported document version %d", *probe.Version)
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, false, fmt.Errorf("parse state: %w", err)
	}
	state, err = fromDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return state, false, nil
}

func fromDocument(doc document) (*State, error) {
	s := emptyState()
	s.WeekOffset = doc.WeekOffset

	if err := loadAnchors(s.Calendar, doc.WeekOneStarts); err != nil {
		return nil, err
	}
	if err := loadBudgets(s.Budgets, doc.Budgets); err != nil {
		return nil, err
	}

	if len(doc.Rates) > 0 {
		rates := make([]rate.Rate, 0, len(doc.Rates))
		for _, r := range doc.Rates {
			rates = append(rates, rate.Rate{Location: r.Location, Hourly: r.Hourly})
		}
		table, err := rate.NewTable(rates...)
		if err != nil {
			return nil, fmt.Errorf("parse rates: %w", err)
		}
		s.Rates = table
	}

	managers := make([]org.Manager, 0, len(doc.Managers))
	for _, md := range doc.Managers {
		m := org.Manager{ID: ensureID(md.ID), Name: md.Name, Supervisors: []org.Supervisor{}}
		for _, sd := range md.Supervisors {
			sv := org.Supervisor{ID: ensureID(sd.ID), Name: sd.Name, Employees: []org.Employee{}}
			for _, ed := range sd.Employees {
				sv.Employees = append(sv.Employees, org.Employee{ID: ensureID(ed.ID), Name: ed.Name, RateLocation: ed.RateLocation})
			}
			m.Supervisors = append(m.Supervisors, sv)
		}
		managers = append(managers, m)
	}
	s.Org = org.NewHierarchy(managers...)

	entries := make([]ledger.Entry, 0, len(doc.Entries))
	for _, ed := range doc.Entries {
		entries = append(entries, ledger.Entry{
			ID:      ensureID(ed.ID),
			WeekKey: ed.WeekKey,
			Attribution: ledger.Attribution{
				ManagerID:      ed.ManagerID,
				ManagerName:    ed.ManagerName,
				SupervisorID:   ed.SupervisorID,
				SupervisorName: ed.SupervisorName,
				EmployeeID:     ed.EmployeeID,
				EmployeeName:   ed.EmployeeName,
			},
			Metadata: ledger.Metadata{Program: ed.Program, Location: ed.Location, Reason: ed.Reason},
			Hours:    ed.Hours,
			Cost:     ed.Cost,
		})
	}
	s.Ledger = ledger.New(entries...)
	return s, nil
}

// loadAnchors accepts year keys as strings. Anchors outside their own year are dropped
// since the resolver relies on them lying inside it.
func loadAnchors(calendar *fiscal.Calendar, anchors map[string]string) error {
	years := make([]string, 0, len(anchors))
	for year := range anchors {
		years = append(years, year)
	}
	slices.Sort(years)
	for _, key := range years {
		year, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("parse week-1 start: invalid year %q", key)
		}
		start, err := fiscal.ParseDate(anchors[key])
		if err != nil {
			log.Warnf("ignoring week-1 start %q of %d: %v", anchors[key], year, err)
			continue
		}
		if err := calendar.SetWeekOneStart(year, start); err != nil {
			log.Warnf("ignoring week-1 start of %d: %v", year, err)
		}
	}
	return nil
}

func loadBudgets(table *budget.Table, budgets map[string]decimal.Decimal) error {
	for key, amount := range budgets {
		year, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("parse budgets: invalid year %q", key)
		}
		if err := table.Set(year, amount); err != nil {
			return fmt.Errorf("parse budgets: %w", err)
		}
	}
	return nil
}

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
