package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/org"
	"github.com/overtrack/overtrack/pkg/rate"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// mexicoFactor derives the Mexico rate from a single legacy scalar rate.
var mexicoFactor = decimal.RequireFromString("0.87")

// legacyDocument is the unversioned shape: managers were "ll5s", supervisors "ll6s",
// and entries referenced the tree by name only.
type legacyDocument struct {
	BudgetsByYear  map[string]decimal.Decimal `json:"budgetsByYear"`
	WeekStartDates map[string]string          `json:"weekStartDates"`
	Rates          json.RawMessage            `json:"rates"`
	Rate           *decimal.Decimal           `json:"rate"`
	LL5s           []legacyManager            `json:"ll5s"`
	Entries        []legacyEntry              `json:"entries"`
}

type legacyManager struct {
	Name string             `json:"name"`
	LL6s []legacySupervisor `json:"ll6s"`
}

type legacySupervisor struct {
	Name      string            `json:"name"`
	Employees []json.RawMessage `json:"employees"`
}

type legacyEntry struct {
	WeekKey string            `json:"weekKey"`
	LL5     string            `json:"ll5"`
	LL6     string            `json:"ll6"`
	Emp     string            `json:"emp"`
	Prog    string            `json:"prog"`
	Loc     string            `json:"loc"`
	Reason  string            `json:"reason"`
	Cost    decimal.Decimal   `json:"cost"`
	Hrs     []decimal.Decimal `json:"hrs"`
}

func decodeLegacy(data []byte) (*State, error) {
	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	s := emptyState()
	if err := loadAnchors(s.Calendar, doc.WeekStartDates); err != nil {
		return nil, err
	}
	if err := loadBudgets(s.Budgets, doc.BudgetsByYear); err != nil {
		return nil, err
	}

	rates, err := legacyRates(doc)
	if err != nil {
		return nil, err
	}
	s.Rates = rates

	managers := make([]org.Manager, 0, len(doc.LL5s))
	for _, lm := range doc.LL5s {
		m := org.Manager{ID: uuid.New(), Name: lm.Name, Supervisors: []org.Supervisor{}}
		for _, ls := range lm.LL6s {
			sv := org.Supervisor{ID: uuid.New(), Name: ls.Name, Employees: []org.Employee{}}
			for _, raw := range ls.Employees {
				e, err := legacyEmployee(raw, rates.First().Location)
				if err != nil {
					return nil, fmt.Errorf("parse employee of %s: %w", ls.Name, err)
				}
				sv.Employees = append(sv.Employees, e)
			}
			m.Supervisors = append(m.Supervisors, sv)
		}
		managers = append(managers, m)
	}
	s.Org = org.NewHierarchy(managers...)

	entries := make([]ledger.Entry, 0, len(doc.Entries))
	for _, le := range doc.Entries {
		attribution := ledger.Attribution{ManagerName: le.LL5, SupervisorName: le.LL6, EmployeeName: le.Emp}
		if p, err := s.Org.Locate(org.Ref{ManagerName: le.LL5, SupervisorName: le.LL6, EmployeeName: le.Emp}); err == nil {
			attribution = attributionOf(p)
		}
		var hours ledger.Hours
		for i := range hours {
			hours[i] = decimal.Zero
			if i < len(le.Hrs) {
				hours[i] = le.Hrs[i]
			}
		}
		entries = append(entries, ledger.Entry{
			ID:          uuid.New(),
			WeekKey:     le.WeekKey,
			Attribution: attribution,
			Metadata:    ledger.Metadata{Program: le.Prog, Location: le.Loc, Reason: le.Reason}.WithDefaults(),
			Hours:       hours,
			Cost:        le.Cost,
		})
	}
	s.Ledger = ledger.New(entries...)
	return s, nil
}

// legacyRates reads the rate object in its written order, since the first location is
// the fallback. A document with only a scalar rate gets US and a derived Mexico rate;
// one with neither gets the defaults.
func legacyRates(doc legacyDocument) (*rate.Table, error) {
	raw := bytes.TrimSpace(doc.Rates)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if doc.Rate != nil {
			return rate.NewTable(
				rate.Rate{Location: "US", Hourly: *doc.Rate},
				rate.Rate{Location: "Mexico", Hourly: doc.Rate.Mul(mexicoFactor)},
			)
		}
		return rate.DefaultTable(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("parse rates: expected an object")
	}
	table := &rate.Table{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse rates: %w", err)
		}
		location, _ := tok.(string)
		var hourly decimal.Decimal
		if err := dec.Decode(&hourly); err != nil {
			return nil, fmt.Errorf("parse rate of %s: %w", location, err)
		}
		if err := table.Add(location, hourly); err != nil {
			log.Warnf("ignoring stored rate %q: %v", location, err)
		}
	}
	if table.Len() == 0 {
		return rate.DefaultTable(), nil
	}
	return table, nil
}

// legacyEmployee accepts both a bare name and a {name, rateLocation} object.
func legacyEmployee(raw json.RawMessage, defaultLocation string) (org.Employee, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return org.Employee{ID: uuid.New(), Name: name, RateLocation: defaultLocation}, nil
	}
	var obj struct {
		Name         string `json:"name"`
		RateLocation string `json:"rateLocation"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return org.Employee{}, err
	}
	location := strings.TrimSpace(obj.RateLocation)
	if location == "" {
		location = defaultLocation
	}
	return org.Employee{ID: uuid.New(), Name: obj.Name, RateLocation: location}, nil
}

func attributionOf(p org.Placement) ledger.Attribution {
	return ledger.Attribution{
		ManagerID:      p.ManagerID,
		ManagerName:    p.ManagerName,
		SupervisorID:   p.SupervisorID,
		SupervisorName: p.SupervisorName,
		EmployeeID:     p.EmployeeID,
		EmployeeName:   p.EmployeeName,
	}
}
