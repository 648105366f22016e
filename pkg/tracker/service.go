package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/blobstore"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/overtrack/overtrack/internal/event_bus"
	"github.com/overtrack/overtrack/internal/utils"
	"github.com/overtrack/overtrack/pkg/budget"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/org"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// StateChanged is the payload of event_bus.StateChanged. State is a private copy.
type StateChanged struct {
	Operation string
	State     *State
}

// NewEntry describes an entry to add. A blank WeekKey means the active week.
type NewEntry struct {
	WeekKey  string
	Employee org.Ref
	Hours    ledger.Hours
	Metadata ledger.Metadata
}

type EntryChange struct {
	Employee org.Ref
	Hours    ledger.Hours
	Metadata ledger.Metadata
}

type Service interface {
	Snapshot() *State
	Today() time.Time
	ActiveWeek() (fiscal.Week, int)

	StepWeek(ctx context.Context, direction int) (bool, error)
	JumpToWeek(ctx context.Context, week fiscal.WeekNumber) error
	JumpToYear(ctx context.Context, year int) error
	ResetWeek(ctx context.Context) error

	AddEntry(ctx context.Context, entry NewEntry) (ledger.Entry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, change EntryChange) (ledger.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	EntryAt(index int) (ledger.Entry, error)

	AddManager(ctx context.Context, name string) (org.Manager, error)
	RenameManager(ctx context.Context, id uuid.UUID, name string) error
	RemoveManager(ctx context.Context, id uuid.UUID) error
	AddSupervisor(ctx context.Context, managerID uuid.UUID, name string) (org.Supervisor, error)
	RenameSupervisor(ctx context.Context, id uuid.UUID, name string) error
	RemoveSupervisor(ctx context.Context, id uuid.UUID) error
	AddEmployee(ctx context.Context, supervisorID uuid.UUID, name, rateLocation string) (org.Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, name, rateLocation string) error
	RemoveEmployee(ctx context.Context, id uuid.UUID) error

	AddRate(ctx context.Context, location string, hourly decimal.Decimal) error
	UpdateRate(ctx context.Context, location string, hourly decimal.Decimal) error
	DeleteRate(ctx context.Context, location string) error

	AddYear(ctx context.Context, year int) error
	SaveYear(ctx context.Context, year int, annual decimal.Decimal, weekOneStart time.Time) error
	SetWeekOneStart(ctx context.Context, year int, start time.Time) error
	RemoveYearBudget(ctx context.Context, year int) error
}

// errUnchanged lets an update finish without persisting or publishing anything.
var errUnchanged = errors.New("state unchanged")

// ServiceImpl owns the tracker state. Every change runs through update, which works on a
// copy and swaps it in only after the copy was persisted.
type ServiceImpl struct {
	mu       sync.RWMutex
	state    *State
	store    blobstore.Store
	key      string
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

// NewService loads the stored state, or seeds and stores a new one when nothing is stored.
// The week offset always starts at today.
func NewService(ctx context.Context, store blobstore.Store, key string, eventBus *event_bus.EventBus, clock utils.Clock, seed func() (*State, error)) (*ServiceImpl, error) {
	s := &ServiceImpl{store: store, key: key, eventBus: eventBus, clock: clock}

	state, persist, err := s.load(ctx, seed)
	if err != nil {
		return nil, err
	}
	state.WeekOffset = 0
	if persist {
		if err := s.save(ctx, state); err != nil {
			return nil, err
		}
	}
	s.state = state
	managers, supervisors, employees := state.Org.Count()
	log.Infof("Tracker loaded from %s: %d managers, %d supervisors, %d employees, %d entries",
		key, managers, supervisors, employees, state.Ledger.Len())
	s.publish(ctx, "state.loaded", state)
	return s, nil
}

func (s *ServiceImpl) load(ctx context.Context, seed func() (*State, error)) (*State, bool, error) {
	data, err := s.store.Load(ctx, s.key)
	if errors.Is(err, blobstore.ErrNotFound) {
		log.Infof("No stored state under %s, seeding a new tracker", s.key)
		state, err := seed()
		if err != nil {
			return nil, false, fmt.Errorf("seed state: %w", err)
		}
		return state, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state: %w", err)
	}
	state, migrated, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	if migrated {
		log.Infof("Upgraded stored state under %s to version %d", s.key, documentVersion)
	}
	return state, migrated, nil
}

func (s *ServiceImpl) save(ctx context.Context, state *State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.key, data); err != nil {
		log.Errorf("failed to persist state under %s: %v", s.key, err)
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// update applies fn to a copy of the state, persists the copy and makes it current.
// Nothing changes when fn or persisting fails. Subscribers run under the lock and must
// not call back into the service.
func (s *ServiceImpl) update(ctx context.Context, operation string, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		log.Debugf("%s rejected: %v", operation, err)
		return err
	}
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.state = next
	log.Infof("State updated by %s", operation)
	s.publish(ctx, operation, next)
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, operation string, state *State) {
	if s.eventBus == nil {
		return
	}
	event := event_bus.NewEvent(ctx, event_bus.StateChanged, StateChanged{Operation: operation, State: state.Clone()})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish %s: %v", operation, err)
	}
}

func (s *ServiceImpl) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *ServiceImpl) Today() time.Time {
	return utils.Today(s.clock)
}

// ActiveWeek returns the active week together with the offset it was resolved from.
func (s *ServiceImpl) ActiveWeek() (fiscal.Week, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Week(s.Today()), s.state.WeekOffset
}

// StepWeek moves the active week by direction. It reports false, without error, when
// the move would cross the week-1 boundary of the destination year.
func (s *ServiceImpl) StepWeek(ctx context.Context, direction int) (bool, error) {
	if direction != -1 && direction != 1 {
		return false, errs.Validation("direction", "direction must be -1 or 1, got %d", direction)
	}
	moved := false
	err := s.update(ctx, "navigation.step", func(state *State) error {
		offset, ok := state.Navigator(s.Today()).Step(state.WeekOffset, direction)
		if !ok {
			return errUnchanged
		}
		state.WeekOffset = offset
		moved = true
		return nil
	})
	return moved, err
}

func (s *ServiceImpl) JumpToWeek(ctx context.Context, week fiscal.WeekNumber) error {
	return s.update(ctx, "navigation.jump", func(state *State) error {
		offset, err := state.Navigator(s.Today()).JumpToWeek(week)
		if err != nil {
			return err
		}
		state.WeekOffset = offset
		return nil
	})
}

func (s *ServiceImpl) JumpToYear(ctx context.Context, year int) error {
	return s.update(ctx, "navigation.year", func(state *State) error {
		offset, err := state.Navigator(s.Today()).JumpToYear(year)
		if err != nil {
			return err
		}
		state.WeekOffset = offset
		return nil
	})
}

func (s *ServiceImpl) ResetWeek(ctx context.Context) error {
	return s.update(ctx, "navigation.today", func(state *State) error {
		if state.WeekOffset == 0 {
			return errUnchanged
		}
		state.WeekOffset = 0
		return nil
	})
}

// attribute turns an employee reference into an entry attribution and the rate to cost it
// with. References by id must resolve. References by name that do not resolve are kept as
// written and costed at the fallback rate.
func attribute(state *State, ref org.Ref) (ledger.Attribution, decimal.Decimal, error) {
	if ref.ManagerID != uuid.Nil || ref.SupervisorID != uuid.Nil || ref.EmployeeID != uuid.Nil {
		p, err := state.Org.Locate(ref)
		if err != nil {
			return ledger.Attribution{}, decimal.Zero, err
		}
		return attributionOf(p), state.Rates.Resolve(p.RateLocation), nil
	}

	ref.ManagerName = strings.TrimSpace(ref.ManagerName)
	ref.SupervisorName = strings.TrimSpace(ref.SupervisorName)
	ref.EmployeeName = strings.TrimSpace(ref.EmployeeName)
	switch {
	case ref.ManagerName == "":
		return ledger.Attribution{}, decimal.Zero, errs.Validation("manager", "manager is required")
	case ref.SupervisorName == "":
		return ledger.Attribution{}, decimal.Zero, errs.Validation("supervisor", "supervisor is required")
	case ref.EmployeeName == "":
		return ledger.Attribution{}, decimal.Zero, errs.Validation("employee", "employee is required")
	}

	hourly := state.Org.ResolveEmployeeRate(state.Rates, ref.ManagerName, ref.SupervisorName, ref.EmployeeName)
	if p, err := state.Org.Locate(ref); err == nil {
		return attributionOf(p), hourly, nil
	}
	return ledger.Attribution{
		ManagerName:    ref.ManagerName,
		SupervisorName: ref.SupervisorName,
		EmployeeName:   ref.EmployeeName,
	}, hourly, nil
}

func (s *ServiceImpl) AddEntry(ctx context.Context, entry NewEntry) (ledger.Entry, error) {
	var added ledger.Entry
	err := s.update(ctx, "entry.add", func(state *State) error {
		weekKey := strings.TrimSpace(entry.WeekKey)
		if weekKey == "" {
			weekKey = state.Week(s.Today()).Key()
		}
		attribution, hourly, err := attribute(state, entry.Employee)
		if err != nil {
			return err
		}
		added, err = state.Ledger.Add(weekKey, attribution, entry.Hours, entry.Metadata, hourly)
		return err
	})
	return added, err
}

func (s *ServiceImpl) UpdateEntry(ctx context.Context, id uuid.UUID, change EntryChange) (ledger.Entry, error) {
	var updated ledger.Entry
	err := s.update(ctx, "entry.update", func(state *State) error {
		if _, err := state.Ledger.Get(id); err != nil {
			return err
		}
		attribution, hourly, err := attribute(state, change.Employee)
		if err != nil {
			return err
		}
		updated, err = state.Ledger.Update(id, ledger.Change{
			Attribution: attribution,
			Hours:       change.Hours,
			Metadata:    change.Metadata,
		}, hourly)
		return err
	})
	return updated, err
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, "entry.delete", func(state *State) error {
		return state.Ledger.Delete(id)
	})
}

func (s *ServiceImpl) EntryAt(index int) (ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Ledger.At(index)
}

func (s *ServiceImpl) AddManager(ctx context.Context, name string) (org.Manager, error) {
	var added org.Manager
	err := s.update(ctx, "org.manager.add", func(state *State) (err error) {
		added, err = state.Org.AddManager(name)
		return err
	})
	return added, err
}

func (s *ServiceImpl) RenameManager(ctx context.Context, id uuid.UUID, name string) error {
	return s.update(ctx, "org.manager.rename", func(state *State) error {
		return state.Org.RenameManager(id, name)
	})
}

func (s *ServiceImpl) RemoveManager(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, "org.manager.remove", func(state *State) error {
		return state.Org.RemoveManager(id)
	})
}

func (s *ServiceImpl) AddSupervisor(ctx context.Context, managerID uuid.UUID, name string) (org.Supervisor, error) {
	var added org.Supervisor
	err := s.update(ctx, "org.supervisor.add", func(state *State) (err error) {
		added, err = state.Org.AddSupervisor(managerID, name)
		return err
	})
	return added, err
}

func (s *ServiceImpl) RenameSupervisor(ctx context.Context, id uuid.UUID, name string) error {
	return s.update(ctx, "org.supervisor.rename", func(state *State) error {
		return state.Org.RenameSupervisor(id, name)
	})
}

func (s *ServiceImpl) RemoveSupervisor(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, "org.supervisor.remove", func(state *State) error {
		return state.Org.RemoveSupervisor(id)
	})
}

func (s *ServiceImpl) AddEmployee(ctx context.Context, supervisorID uuid.UUID, name, rateLocation string) (org.Employee, error) {
	var added org.Employee
	err := s.update(ctx, "org.employee.add", func(state *State) (err error) {
		added, err = state.Org.AddEmployee(supervisorID, name, rateLocation, state.Rates)
		return err
	})
	return added, err
}

func (s *ServiceImpl) UpdateEmployee(ctx context.Context, id uuid.UUID, name, rateLocation string) error {
	return s.update(ctx, "org.employee.update", func(state *State) error {
		return state.Org.UpdateEmployee(id, name, rateLocation, state.Rates)
	})
}

func (s *ServiceImpl) RemoveEmployee(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, "org.employee.remove", func(state *State) error {
		return state.Org.RemoveEmployee(id)
	})
}

func (s *ServiceImpl) AddRate(ctx context.Context, location string, hourly decimal.Decimal) error {
	return s.update(ctx, "rate.add", func(state *State) error {
		return state.Rates.Add(location, hourly)
	})
}

func (s *ServiceImpl) UpdateRate(ctx context.Context, location string, hourly decimal.Decimal) error {
	return s.update(ctx, "rate.update", func(state *State) error {
		return state.Rates.Update(location, hourly)
	})
}

func (s *ServiceImpl) DeleteRate(ctx context.Context, location string) error {
	return s.update(ctx, "rate.delete", func(state *State) error {
		return state.Rates.Delete(location)
	})
}

// AddYear gives a year the default budget, and a January 1 week-1 start unless one is set.
func (s *ServiceImpl) AddYear(ctx context.Context, year int) error {
	return s.update(ctx, "year.add", func(state *State) error {
		if err := fiscal.ValidateYear(year); err != nil {
			return err
		}
		if state.Budgets.Has(year) {
			return errs.AlreadyExists("year %d already has a budget", year)
		}
		if err := state.Budgets.Set(year, budget.DefaultAnnual); err != nil {
			return err
		}
		return ensureAnchor(state, year)
	})
}

// SaveYear sets budget and week-1 start together. A zero start keeps the current one.
func (s *ServiceImpl) SaveYear(ctx context.Context, year int, annual decimal.Decimal, weekOneStart time.Time) error {
	return s.update(ctx, "year.save", func(state *State) error {
		if err := fiscal.ValidateYear(year); err != nil {
			return err
		}
		if err := state.Budgets.Set(year, annual); err != nil {
			return err
		}
		if weekOneStart.IsZero() {
			return ensureAnchor(state, year)
		}
		return state.Calendar.SetWeekOneStart(year, weekOneStart)
	})
}

func (s *ServiceImpl) SetWeekOneStart(ctx context.Context, year int, start time.Time) error {
	return s.update(ctx, "year.week-one", func(state *State) error {
		if err := fiscal.ValidateYear(year); err != nil {
			return err
		}
		return state.Calendar.SetWeekOneStart(year, start)
	})
}

// RemoveYearBudget drops the budget only. The week-1 start stays so week keys keep resolving.
func (s *ServiceImpl) RemoveYearBudget(ctx context.Context, year int) error {
	return s.update(ctx, "year.remove", func(state *State) error {
		return state.Budgets.Remove(year)
	})
}

func ensureAnchor(state *State, year int) error {
	if state.Calendar.IsConfigured(year) {
		return nil
	}
	return state.Calendar.SetWeekOneStart(year, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}
