package org

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/overtrack/overtrack/pkg/rate"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Hierarchy is the manager > supervisor > employee tree.
// Names need not be unique; every node is addressed by its generated id.
type Hierarchy struct {
	managers []Manager
}

func NewHierarchy(managers ...Manager) *Hierarchy {
	h := &Hierarchy{}
	for _, m := range managers {
		h.managers = append(h.managers, m.clone())
	}
	return h
}

// Managers returns a deep copy of the tree.
func (h *Hierarchy) Managers() []Manager {
	out := make([]Manager, 0, len(h.managers))
	for _, m := range h.managers {
		out = append(out, m.clone())
	}
	return out
}

func (h *Hierarchy) Clone() *Hierarchy {
	return &Hierarchy{managers: h.Managers()}
}

func cleanName(level string, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.Validation("name", "%s name must not be blank", level)
	}
	return name, nil
}

func rateLocation(rates *rate.Table, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return rates.First().Location, nil
	}
	if _, ok := rates.Lookup(location); !ok {
		return "", errs.Validation("rateLocation", "unknown rate location %q, expected one of %v", location, rates.Locations())
	}
	return location, nil
}

func (h *Hierarchy) manager(id uuid.UUID) (*Manager, error) {
	for i := range h.managers {
		if h.managers[i].ID == id {
			return &h.managers[i], nil
		}
	}
	return nil, errs.NotFound("manager %s not found", id)
}

func (h *Hierarchy) supervisor(id uuid.UUID) (*Supervisor, *Manager, error) {
	for i := range h.managers {
		m := &h.managers[i]
		for j := range m.Supervisors {
			if m.Supervisors[j].ID == id {
				return &m.Supervisors[j], m, nil
			}
		}
	}
	return nil, nil, errs.NotFound("supervisor %s not found", id)
}

func (h *Hierarchy) employee(id uuid.UUID) (*Employee, *Supervisor, error) {
	for i := range h.managers {
		for j := range h.managers[i].Supervisors {
			s := &h.managers[i].Supervisors[j]
			for k := range s.Employees {
				if s.Employees[k].ID == id {
					return &s.Employees[k], s, nil
				}
			}
		}
	}
	return nil, nil, errs.NotFound("employee %s not found", id)
}

func (h *Hierarchy) AddManager(name string) (Manager, error) {
	name, err := cleanName("manager", name)
	if err != nil {
		return Manager{}, err
	}
	m := Manager{ID: uuid.New(), Name: name, Supervisors: []Supervisor{}}
	h.managers = append(h.managers, m)
	return m, nil
}

func (h *Hierarchy) RenameManager(id uuid.UUID, name string) error {
	name, err := cleanName("manager", name)
	if err != nil {
		return err
	}
	m, err := h.manager(id)
	if err != nil {
		return err
	}
	m.Name = name
	return nil
}

// RemoveManager drops the manager with all supervisors and employees under it.
func (h *Hierarchy) RemoveManager(id uuid.UUID) error {
	i := slices.IndexFunc(h.managers, func(m Manager) bool { return m.ID == id })
	if i < 0 {
		return errs.NotFound("manager %s not found", id)
	}
	h.managers = slices.Delete(h.managers, i, i+1)
	return nil
}

func (h *Hierarchy) AddSupervisor(managerID uuid.UUID, name string) (Supervisor, error) {
	name, err := cleanName("supervisor", name)
	if err != nil {
		return Supervisor{}, err
	}
	m, err := h.manager(managerID)
	if err != nil {
		return Supervisor{}, err
	}
	s := Supervisor{ID: uuid.New(), Name: name, Employees: []Employee{}}
	m.Supervisors = append(m.Supervisors, s)
	return s, nil
}

func (h *Hierarchy) RenameSupervisor(id uuid.UUID, name string) error {
	name, err := cleanName("supervisor", name)
	if err != nil {
		return err
	}
	s, _, err := h.supervisor(id)
	if err != nil {
		return err
	}
	s.Name = name
	return nil
}

func (h *Hierarchy) RemoveSupervisor(id uuid.UUID) error {
	_, m, err := h.supervisor(id)
	if err != nil {
		return err
	}
	m.Supervisors = slices.DeleteFunc(m.Supervisors, func(s Supervisor) bool { return s.ID == id })
	return nil
}

// AddEmployee adds an employee under a supervisor. A blank location takes the
// first declared rate.
func (h *Hierarchy) AddEmployee(supervisorID uuid.UUID, name string, location string, rates *rate.Table) (Employee, error) {
	name, err := cleanName("employee", name)
	if err != nil {
		return Employee{}, err
	}
	location, err = rateLocation(rates, location)
	if err != nil {
		return Employee{}, err
	}
	s, _, err := h.supervisor(supervisorID)
	if err != nil {
		return Employee{}, err
	}
	e := Employee{ID: uuid.New(), Name: name, RateLocation: location}
	s.Employees = append(s.Employees, e)
	return e, nil
}

// UpdateEmployee sets name and rate location together.
func (h *Hierarchy) UpdateEmployee(id uuid.UUID, name string, location string, rates *rate.Table) error {
	name, err := cleanName("employee", name)
	if err != nil {
		return err
	}
	location, err = rateLocation(rates, location)
	if err != nil {
		return err
	}
	e, _, err := h.employee(id)
	if err != nil {
		return err
	}
	e.Name = name
	e.RateLocation = location
	return nil
}

func (h *Hierarchy) RemoveEmployee(id uuid.UUID) error {
	_, s, err := h.employee(id)
	if err != nil {
		return err
	}
	s.Employees = slices.DeleteFunc(s.Employees, func(e Employee) bool { return e.ID == id })
	return nil
}

// Locate resolves ref to a placement. Unknown ids and unmatched names are NotFound;
// a level given neither by id nor by name is a validation error.
func (h *Hierarchy) Locate(ref Ref) (Placement, error) {
	var m *Manager
	switch {
	case ref.ManagerID != uuid.Nil:
		found, err := h.manager(ref.ManagerID)
		if err != nil {
			return Placement{}, err
		}
		m = found
	case strings.TrimSpace(ref.ManagerName) != "":
		name := strings.TrimSpace(ref.ManagerName)
		i := slices.IndexFunc(h.managers, func(m Manager) bool { return m.Name == name })
		if i < 0 {
			return Placement{}, errs.NotFound("manager %q not found", name)
		}
		m = &h.managers[i]
	default:
		return Placement{}, errs.Validation("manager", "manager is required")
	}

	var s *Supervisor
	switch {
	case ref.SupervisorID != uuid.Nil:
		i := slices.IndexFunc(m.Supervisors, func(s Supervisor) bool { return s.ID == ref.SupervisorID })
		if i < 0 {
			return Placement{}, errs.NotFound("supervisor %s not found under %s", ref.SupervisorID, m.Name)
		}
		s = &m.Supervisors[i]
	case strings.TrimSpace(ref.SupervisorName) != "":
		name := strings.TrimSpace(ref.SupervisorName)
		i := slices.IndexFunc(m.Supervisors, func(s Supervisor) bool { return s.Name == name })
		if i < 0 {
			return Placement{}, errs.NotFound("supervisor %q not found under %s", name, m.Name)
		}
		s = &m.Supervisors[i]
	default:
		return Placement{}, errs.Validation("supervisor", "supervisor is required")
	}

	var e *Employee
	switch {
	case ref.EmployeeID != uuid.Nil:
		i := slices.IndexFunc(s.Employees, func(e Employee) bool { return e.ID == ref.EmployeeID })
		if i < 0 {
			return Placement{}, errs.NotFound("employee %s not found under %s", ref.EmployeeID, s.Name)
		}
		e = &s.Employees[i]
	case strings.TrimSpace(ref.EmployeeName) != "":
		name := strings.TrimSpace(ref.EmployeeName)
		i := slices.IndexFunc(s.Employees, func(e Employee) bool { return e.Name == name })
		if i < 0 {
			return Placement{}, errs.NotFound("employee %q not found under %s", name, s.Name)
		}
		e = &s.Employees[i]
	default:
		return Placement{}, errs.Validation("employee", "employee is required")
	}

	return Placement{
		ManagerID:      m.ID,
		ManagerName:    m.Name,
		SupervisorID:   s.ID,
		SupervisorName: s.Name,
		EmployeeID:     e.ID,
		EmployeeName:   e.Name,
		RateLocation:   e.RateLocation,
	}, nil
}

// RateFor returns the hourly rate of the referenced employee. Any miss along the way
// falls back to the first declared rate instead of failing.
func (h *Hierarchy) RateFor(rates *rate.Table, ref Ref) decimal.Decimal {
	p, err := h.Locate(ref)
	if err != nil {
		first := rates.First()
		log.Warnf("cannot place employee (%v), using %s rate %s", err, first.Location, first.Hourly)
		return first.Hourly
	}
	return rates.Resolve(p.RateLocation)
}

// ResolveEmployeeRate walks the tree by names, taking the first match on each level.
func (h *Hierarchy) ResolveEmployeeRate(rates *rate.Table, managerName, supervisorName, employeeName string) decimal.Decimal {
	return h.RateFor(rates, Ref{ManagerName: managerName, SupervisorName: supervisorName, EmployeeName: employeeName})
}

// Count returns the number of managers, supervisors and employees.
func (h *Hierarchy) Count() (managers, supervisors, employees int) {
	for _, m := range h.managers {
		supervisors += len(m.Supervisors)
		for _, s := range m.Supervisors {
			employees += len(s.Employees)
		}
	}
	return len(h.managers), supervisors, employees
}
