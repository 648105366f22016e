package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/blobstore"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/overtrack/overtrack/internal/event_bus"
	"github.com/overtrack/overtrack/internal/utils"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/org"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "overtime-tracker-v3"

type flakyStore struct {
	*blobstore.Memory
	failSaves bool
}

func (f *flakyStore) Save(ctx context.Context, key string, data []byte) error {
	if f.failSaves {
		return errors.New("disk full")
	}
	return f.Memory.Save(ctx, key, data)
}

type fixture struct {
	ctx     context.Context
	service *ServiceImpl
	store   *flakyStore
	clock   *utils.MockClock
	events  []StateChanged
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: &flakyStore{Memory: blobstore.NewMemory()},
		clock: utils.NewMockClock(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)),
	}
	bus := event_bus.NewEventBus()
	event_bus.SubscribeTyped(bus, event_bus.StateChanged, func(e event_bus.EventT[StateChanged]) error {
		f.events = append(f.events, e.Data)
		return nil
	})
	service, err := NewService(f.ctx, f.store, testKey, bus, f.clock, SeedFunc("", f.clock.Now()))
	require.NoError(t, err)
	f.service = service
	return f
}

func hours(values ...int64) ledger.Hours {
	var h ledger.Hours
	for i := range h {
		h[i] = decimal.Zero
	}
	for i, v := range values {
		h[i] = decimal.NewFromInt(v)
	}
	return h
}

func activeKey(service *ServiceImpl) string {
	week, _ := service.ActiveWeek()
	return week.Key()
}

func johnDoe() org.Ref {
	return org.Ref{ManagerName: "Damian Off", SupervisorName: "Rick Adamo", EmployeeName: "John Doe"}
}

func TestNewService(t *testing.T) {
	t.Run("should seed and store a default tracker", func(t *testing.T) {
		// given
		f := setupService(t)

		// when
		state := f.service.Snapshot()

		// then
		assert.True(t, decimal.NewFromInt(1_000_000).Equal(state.Budgets.Amount(2026)))
		assert.Equal(t, "2026-W03", activeKey(f.service))
		_, err := f.store.Load(f.ctx, testKey)
		assert.NoError(t, err)
		require.Len(t, f.events, 1)
		assert.Equal(t, "state.loaded", f.events[0].Operation)
	})

	t.Run("should reset the week offset on load", func(t *testing.T) {
		// given
		f := setupService(t)
		moved, err := f.service.StepWeek(f.ctx, 1)
		require.NoError(t, err)
		require.True(t, moved)

		// when
		reloaded, err := NewService(f.ctx, f.store, testKey, nil, f.clock, SeedFunc("", f.clock.Now()))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, reloaded.Snapshot().WeekOffset)
		assert.Equal(t, "2026-W03", activeKey(reloaded))
	})

	t.Run("should upgrade and store a legacy document", func(t *testing.T) {
		// given
		store := blobstore.NewMemory()
		require.NoError(t, store.Save(context.Background(), testKey, []byte(`{
			"budgetsByYear": {"2026": 500000},
			"weekStartDates": {"2026": "2026-01-01"},
			"rate": 60,
			"viewOffset": 4,
			"ll5s": [{"name": "M", "ll6s": [{"name": "S", "employees": ["E"]}]}],
			"entries": []
		}`)))

		// when
		service, err := NewService(context.Background(), store, testKey, nil, utils.NewMockClock(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)), nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"US", "Mexico"}, service.Snapshot().Rates.Locations())
		data, err := store.Load(context.Background(), testKey)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"version": 1`)
	})
}

func TestServiceImpl_AddEntry(t *testing.T) {
	t.Run("should cost the entry with the employee rate and overtime multiplier", func(t *testing.T) {
		// given
		f := setupService(t)

		// when
		entry, err := f.service.AddEntry(f.ctx, NewEntry{Employee: johnDoe(), Hours: hours(8, 8, 8, 8, 8, 0, 0)})

		// then
		require.NoError(t, err)
		assert.Equal(t, "3300", entry.Cost.String())
		assert.Equal(t, "2026-W03", entry.WeekKey)
		assert.NotEqual(t, uuid.Nil, entry.Attribution.EmployeeID)
		assert.Equal(t, "entry.add", f.events[len(f.events)-1].Operation)
	})

	t.Run("should fall back to the first rate for unknown names", func(t *testing.T) {
		f := setupService(t)

		entry, err := f.service.AddEntry(f.ctx, NewEntry{
			WeekKey:  "2026-W10",
			Employee: org.Ref{ManagerName: "Someone", SupervisorName: "Else", EmployeeName: "Temp"},
			Hours:    hours(2),
		})

		require.NoError(t, err)
		assert.Equal(t, "165", entry.Cost.String())
		assert.Equal(t, uuid.Nil, entry.Attribution.EmployeeID)
		assert.Equal(t, "Temp", entry.Attribution.EmployeeName)
	})

	t.Run("should reject unknown ids and empty hours", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.AddEntry(f.ctx, NewEntry{Employee: org.Ref{EmployeeID: uuid.New()}, Hours: hours(1)})
		assert.Error(t, err)

		_, err = f.service.AddEntry(f.ctx, NewEntry{Employee: johnDoe(), Hours: hours()})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = f.service.AddEntry(f.ctx, NewEntry{Employee: org.Ref{ManagerName: "Damian Off", EmployeeName: "John Doe"}, Hours: hours(1)})
		assert.ErrorIs(t, err, errs.ErrValidation)

		assert.Equal(t, 0, f.service.Snapshot().Ledger.Len())
	})
}

func TestServiceImpl_UpdateEntry(t *testing.T) {
	t.Run("should recompute cost with the rate at update time", func(t *testing.T) {
		// given
		f := setupService(t)
		entry, err := f.service.AddEntry(f.ctx, NewEntry{Employee: johnDoe(), Hours: hours(10)})
		require.NoError(t, err)
		require.NoError(t, f.service.UpdateRate(f.ctx, "US", decimal.NewFromInt(60)))

		// when
		updated, err := f.service.UpdateEntry(f.ctx, entry.ID, EntryChange{Employee: johnDoe(), Hours: hours(10)})

		// then
		require.NoError(t, err)
		assert.Equal(t, "900", updated.Cost.String())
		assert.Equal(t, entry.WeekKey, updated.WeekKey)
	})

	t.Run("should report an unknown entry", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.UpdateEntry(f.ctx, uuid.New(), EntryChange{Employee: johnDoe(), Hours: hours(1)})

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestServiceImpl_RenameKeepsEntryLabels(t *testing.T) {
	// given
	f := setupService(t)
	entry, err := f.service.AddEntry(f.ctx, NewEntry{Employee: johnDoe(), Hours: hours(3)})
	require.NoError(t, err)

	// when
	require.NoError(t, f.service.RenameSupervisor(f.ctx, entry.Attribution.SupervisorID, "Richard Adamo"))

	// then
	stored, err := f.service.EntryAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Rick Adamo", stored.Attribution.SupervisorName)
	assert.Equal(t, entry.Cost, stored.Cost)
}

func TestServiceImpl_AllOrNothing(t *testing.T) {
	t.Run("should keep the state when persisting fails", func(t *testing.T) {
		// given
		f := setupService(t)
		before := len(f.events)
		f.store.failSaves = true

		// when
		_, err := f.service.AddEntry(f.ctx, NewEntry{Employee: johnDoe(), Hours: hours(3)})

		// then
		assert.ErrorContains(t, err, "disk full")
		assert.Equal(t, 0, f.service.Snapshot().Ledger.Len())
		assert.Len(t, f.events, before)
	})

	t.Run("should keep the table when the sole rate is deleted", func(t *testing.T) {
		f := setupService(t)
		require.NoError(t, f.service.DeleteRate(f.ctx, "Mexico"))

		err := f.service.DeleteRate(f.ctx, "US")

		assert.ErrorIs(t, err, errs.ErrInvalidOperation)
		assert.Equal(t, []string{"US"}, f.service.Snapshot().Rates.Locations())
	})
}

func TestServiceImpl_Navigation(t *testing.T) {
	t.Run("should refuse to step before week 1 without error", func(t *testing.T) {
		// given
		f := setupService(t)
		require.NoError(t, f.service.SetWeekOneStart(f.ctx, 2026, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
		require.Equal(t, "2026-W02", activeKey(f.service))
		moved, err := f.service.StepWeek(f.ctx, -1)
		require.NoError(t, err)
		require.True(t, moved)
		events := len(f.events)

		// when
		moved, err = f.service.StepWeek(f.ctx, -1)

		// then
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, "2026-W01", activeKey(f.service))
		assert.Len(t, f.events, events)
	})

	t.Run("should jump and come back to today", func(t *testing.T) {
		f := setupService(t)

		require.NoError(t, f.service.JumpToWeek(f.ctx, fiscal.WeekNumber{Year: 2027, Week: 20}))
		assert.Equal(t, "2027-W20", activeKey(f.service))

		require.NoError(t, f.service.JumpToYear(f.ctx, 2025))
		assert.Equal(t, "2025-W01", activeKey(f.service))

		require.NoError(t, f.service.ResetWeek(f.ctx))
		assert.Equal(t, "2026-W03", activeKey(f.service))
	})

	t.Run("should pair the active week with its own offset", func(t *testing.T) {
		// given
		f := setupService(t)
		require.NoError(t, f.service.JumpToYear(f.ctx, 2400))

		// when
		week, offset := f.service.ActiveWeek()

		// then
		assert.Equal(t, "2400-W01", week.Key())
		assert.Equal(t, week, f.service.Snapshot().Calendar.Resolve(f.service.Today(), offset))
	})

	t.Run("should reject an invalid direction", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.StepWeek(f.ctx, 2)

		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestServiceImpl_Years(t *testing.T) {
	t.Run("should add a year with defaults once", func(t *testing.T) {
		f := setupService(t)

		require.NoError(t, f.service.AddYear(f.ctx, 2027))
		err := f.service.AddYear(f.ctx, 2027)

		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
		state := f.service.Snapshot()
		assert.True(t, decimal.NewFromInt(1_000_000).Equal(state.Budgets.Amount(2027)))
		assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), state.Calendar.WeekOneStart(2027))
	})

	t.Run("should save budget and anchor together", func(t *testing.T) {
		f := setupService(t)

		err := f.service.SaveYear(f.ctx, 2027, decimal.NewFromInt(750000), time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		state := f.service.Snapshot()
		assert.True(t, decimal.NewFromInt(750000).Equal(state.Budgets.Amount(2027)))
		assert.Equal(t, time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC), state.Calendar.WeekOneStart(2027))
	})

	t.Run("should reject an anchor outside its year and keep the budget unchanged", func(t *testing.T) {
		f := setupService(t)

		err := f.service.SaveYear(f.ctx, 2027, decimal.NewFromInt(5), time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC))

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.False(t, f.service.Snapshot().Budgets.Has(2027))
	})

	t.Run("should remove the budget but keep the anchor", func(t *testing.T) {
		f := setupService(t)

		require.NoError(t, f.service.RemoveYearBudget(f.ctx, 2026))

		state := f.service.Snapshot()
		assert.False(t, state.Budgets.Has(2026))
		assert.True(t, state.Calendar.IsConfigured(2026))
		assert.ErrorIs(t, f.service.RemoveYearBudget(f.ctx, 2026), errs.ErrNotFound)
	})
}

func TestServiceImpl_Org(t *testing.T) {
	f := setupService(t)

	m, err := f.service.AddManager(f.ctx, "New Manager")
	require.NoError(t, err)
	s, err := f.service.AddSupervisor(f.ctx, m.ID, "New Supervisor")
	require.NoError(t, err)
	e, err := f.service.AddEmployee(f.ctx, s.ID, "New Hire", "Mexico")
	require.NoError(t, err)

	entry, err := f.service.AddEntry(f.ctx, NewEntry{
		Employee: org.Ref{ManagerID: m.ID, SupervisorID: s.ID, EmployeeID: e.ID},
		Hours:    hours(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "72", entry.Cost.String())

	require.NoError(t, f.service.UpdateEmployee(f.ctx, e.ID, "New Hire", "US"))
	require.NoError(t, f.service.RemoveManager(f.ctx, m.ID))

	managers, _, _ := f.service.Snapshot().Org.Count()
	assert.Equal(t, 2, managers)
	assert.Equal(t, 1, f.service.Snapshot().Ledger.Len())
}
