package org

import (
	"testing"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/overtrack/overtrack/pkg/rate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) (*Hierarchy, Manager, Supervisor, Employee) {
	t.Helper()
	h := NewHierarchy()
	m, err := h.AddManager("Ana")
	require.NoError(t, err)
	s, err := h.AddSupervisor(m.ID, "Bo")
	require.NoError(t, err)
	e, err := h.AddEmployee(s.ID, "Cy", "Mexico", rate.DefaultTable())
	require.NoError(t, err)
	return h, m, s, e
}

func TestHierarchy_Add(t *testing.T) {
	t.Run("should build a three level tree", func(t *testing.T) {
		// given
		h, m, s, e := buildTree(t)

		// when
		managers := h.Managers()

		// then
		require.Len(t, managers, 1)
		assert.Equal(t, m.ID, managers[0].ID)
		require.Len(t, managers[0].Supervisors, 1)
		assert.Equal(t, s.ID, managers[0].Supervisors[0].ID)
		assert.Equal(t, []Employee{e}, managers[0].Supervisors[0].Employees)
		assert.Equal(t, "Mexico", e.RateLocation)
	})

	t.Run("should reject blank names at every level", func(t *testing.T) {
		h, m, s, _ := buildTree(t)

		_, err := h.AddManager("  ")
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = h.AddSupervisor(m.ID, "")
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = h.AddEmployee(s.ID, "\t", "US", rate.DefaultTable())
		assert.ErrorIs(t, err, errs.ErrValidation)

		managers, supervisors, employees := h.Count()
		assert.Equal(t, []int{1, 1, 1}, []int{managers, supervisors, employees})
	})

	t.Run("should default the rate location to the first rate", func(t *testing.T) {
		h, _, s, _ := buildTree(t)

		e, err := h.AddEmployee(s.ID, "Dee", "", rate.DefaultTable())

		require.NoError(t, err)
		assert.Equal(t, "US", e.RateLocation)
	})

	t.Run("should reject unknown rate locations and parents", func(t *testing.T) {
		h, _, s, _ := buildTree(t)

		_, err := h.AddEmployee(s.ID, "Dee", "Atlantis", rate.DefaultTable())
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.ErrorContains(t, err, `unknown rate location "Atlantis", expected one of [US Mexico]`)
		_, err = h.AddEmployee(uuid.New(), "Dee", "US", rate.DefaultTable())
		assert.ErrorIs(t, err, errs.ErrNotFound)
		_, err = h.AddSupervisor(uuid.New(), "Eve")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("should allow duplicate names", func(t *testing.T) {
		h, _, _, _ := buildTree(t)

		_, err := h.AddManager("Ana")

		require.NoError(t, err)
		managers, _, _ := h.Count()
		assert.Equal(t, 2, managers)
	})
}

func TestHierarchy_RenameAndUpdate(t *testing.T) {
	h, m, s, e := buildTree(t)

	require.NoError(t, h.RenameManager(m.ID, " Anna "))
	require.NoError(t, h.RenameSupervisor(s.ID, "Bob"))
	require.NoError(t, h.UpdateEmployee(e.ID, "Cyril", "US", rate.DefaultTable()))

	placement, err := h.Locate(Ref{EmployeeID: e.ID, SupervisorID: s.ID, ManagerID: m.ID})
	require.NoError(t, err)
	assert.Equal(t, Placement{
		ManagerID: m.ID, ManagerName: "Anna",
		SupervisorID: s.ID, SupervisorName: "Bob",
		EmployeeID: e.ID, EmployeeName: "Cyril",
		RateLocation: "US",
	}, placement)

	assert.ErrorIs(t, h.RenameManager(uuid.New(), "X"), errs.ErrNotFound)
	assert.ErrorIs(t, h.RenameSupervisor(s.ID, " "), errs.ErrValidation)
	assert.ErrorIs(t, h.UpdateEmployee(e.ID, "Cyril", "Mars", rate.DefaultTable()), errs.ErrValidation)
}

func TestHierarchy_Remove(t *testing.T) {
	t.Run("should cascade when removing a manager", func(t *testing.T) {
		h, m, _, e := buildTree(t)

		require.NoError(t, h.RemoveManager(m.ID))

		managers, supervisors, employees := h.Count()
		assert.Equal(t, []int{0, 0, 0}, []int{managers, supervisors, employees})
		assert.ErrorIs(t, h.RemoveEmployee(e.ID), errs.ErrNotFound)
	})

	t.Run("should remove a supervisor with its employees", func(t *testing.T) {
		h, m, s, _ := buildTree(t)
		other, err := h.AddSupervisor(m.ID, "Other")
		require.NoError(t, err)

		require.NoError(t, h.RemoveSupervisor(s.ID))

		managers := h.Managers()
		require.Len(t, managers[0].Supervisors, 1)
		assert.Equal(t, other.ID, managers[0].Supervisors[0].ID)
	})

	t.Run("should remove a single employee", func(t *testing.T) {
		h, _, _, e := buildTree(t)

		require.NoError(t, h.RemoveEmployee(e.ID))

		_, _, employees := h.Count()
		assert.Equal(t, 0, employees)
		assert.ErrorIs(t, h.RemoveSupervisor(uuid.New()), errs.ErrNotFound)
	})
}

func TestHierarchy_Locate(t *testing.T) {
	h, m, s, e := buildTree(t)

	t.Run("should locate by names", func(t *testing.T) {
		placement, err := h.Locate(Ref{ManagerName: "Ana", SupervisorName: "Bo", EmployeeName: " Cy "})

		require.NoError(t, err)
		assert.Equal(t, e.ID, placement.EmployeeID)
		assert.Equal(t, s.ID, placement.SupervisorID)
		assert.Equal(t, m.ID, placement.ManagerID)
	})

	t.Run("should not find an employee under another supervisor", func(t *testing.T) {
		other, err := h.AddSupervisor(m.ID, "Other")
		require.NoError(t, err)

		_, err = h.Locate(Ref{ManagerID: m.ID, SupervisorID: other.ID, EmployeeID: e.ID})

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("should require every level", func(t *testing.T) {
		_, err := h.Locate(Ref{ManagerName: "Ana", EmployeeName: "Cy"})

		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestHierarchy_RateFor(t *testing.T) {
	h, _, _, _ := buildTree(t)
	rates := rate.DefaultTable()

	t.Run("should use the employee's rate location", func(t *testing.T) {
		hourly := h.ResolveEmployeeRate(rates, "Ana", "Bo", "Cy")

		assert.True(t, decimal.NewFromInt(48).Equal(hourly))
	})

	t.Run("should fall back to the first rate for unknown names", func(t *testing.T) {
		hourly := h.ResolveEmployeeRate(rates, "Ana", "Bo", "Nobody")

		assert.True(t, decimal.NewFromInt(55).Equal(hourly))
	})

	t.Run("should fall back when the employee's location was deleted", func(t *testing.T) {
		// given
		trimmed := rates.Clone()
		require.NoError(t, trimmed.Delete("Mexico"))

		// when
		hourly := h.ResolveEmployeeRate(trimmed, "Ana", "Bo", "Cy")

		// then
		assert.True(t, decimal.NewFromInt(55).Equal(hourly))
	})
}

func TestHierarchy_Clone(t *testing.T) {
	h, _, s, _ := buildTree(t)
	clone := h.Clone()

	_, err := clone.AddEmployee(s.ID, "Dee", "US", rate.DefaultTable())
	require.NoError(t, err)

	_, _, original := h.Count()
	_, _, cloned := clone.Count()
	assert.Equal(t, 1, original)
	assert.Equal(t, 2, cloned)
}

func TestDefaultHierarchy(t *testing.T) {
	h := DefaultHierarchy()

	managers, supervisors, employees := h.Count()

	assert.Equal(t, []int{2, 3, 5}, []int{managers, supervisors, employees})
	assert.True(t, decimal.NewFromInt(48).Equal(h.ResolveEmployeeRate(rate.DefaultTable(), "Damian Off", "Dave Huddle", "Staff B")))
}
