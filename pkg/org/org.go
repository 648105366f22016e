package org

import (
	"slices"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID
	Name         string
	RateLocation string
}

type Supervisor struct {
	ID        uuid.UUID
	Name      string
	Employees []Employee
}

type Manager struct {
	ID          uuid.UUID
	Name        string
	Supervisors []Supervisor
}

// Ref points at an employee. Ids win when set; otherwise names are matched and the
// first node with a matching name is taken.
type Ref struct {
	ManagerID      uuid.UUID
	ManagerName    string
	SupervisorID   uuid.UUID
	SupervisorName string
	EmployeeID     uuid.UUID
	EmployeeName   string
}

// Placement is a resolved employee together with its chain of command.
type Placement struct {
	ManagerID      uuid.UUID
	ManagerName    string
	SupervisorID   uuid.UUID
	SupervisorName string
	EmployeeID     uuid.UUID
	EmployeeName   string
	RateLocation   string
}

func (m Manager) clone() Manager {
	m.Supervisors = slices.Clone(m.Supervisors)
	for i := range m.Supervisors {
		m.Supervisors[i].Employees = slices.Clone(m.Supervisors[i].Employees)
	}
	return m
}

// DefaultHierarchy is the sample tree a new tracker starts with.
func DefaultHierarchy() *Hierarchy {
	employee := func(name, location string) Employee {
		return Employee{ID: uuid.New(), Name: name, RateLocation: location}
	}
	return NewHierarchy(
		Manager{ID: uuid.New(), Name: "Damian Off", Supervisors: []Supervisor{
			{ID: uuid.New(), Name: "Rick Adamo", Employees: []Employee{
				employee("John Doe", "US"),
				employee("Jane Smith", "US"),
			}},
			{ID: uuid.New(), Name: "Dave Huddle", Employees: []Employee{
				employee("Staff A", "US"),
				employee("Staff B", "Mexico"),
			}},
		}},
		Manager{ID: uuid.New(), Name: "Raju V.", Supervisors: []Supervisor{
			{ID: uuid.New(), Name: "Supervisor X", Employees: []Employee{
				employee("Team member", "US"),
			}},
		}},
	)
}
