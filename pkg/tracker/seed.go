package tracker

import (
	"fmt"
	"os"
	"time"

	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/rate"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML file a fresh tracker can be initialised from.
type Seed struct {
	Budgets       map[int]decimal.Decimal `yaml:"budgets"`
	WeekOneStarts map[int]string          `yaml:"weekOneStarts"`
	Rates         []SeedRate              `yaml:"rates"`
	Managers      []SeedManager           `yaml:"managers"`
}

type SeedRate struct {
	Location string          `yaml:"location"`
	Hourly   decimal.Decimal `yaml:"hourly"`
}

type SeedManager struct {
	Name        string           `yaml:"name"`
	Supervisors []SeedSupervisor `yaml:"supervisors"`
}

type SeedSupervisor struct {
	Name      string         `yaml:"name"`
	Employees []SeedEmployee `yaml:"employees"`
}

type SeedEmployee struct {
	Name         string `yaml:"name"`
	RateLocation string `yaml:"rateLocation"`
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	log.Infof("Loaded seed from file: %s", path)
	return &seed, nil
}

// State builds a tracker state from the seed, applying the same rules as the live
// operations. Missing rates fall back to the defaults.
func (seed *Seed) State() (*State, error) {
	s := emptyState()

	for year, start := range seed.WeekOneStarts {
		date, err := fiscal.ParseDate(start)
		if err != nil {
			return nil, fmt.Errorf("seed week-1 start of %d: %w", year, err)
		}
		if err := s.Calendar.SetWeekOneStart(year, date); err != nil {
			return nil, fmt.Errorf("seed week-1 start: %w", err)
		}
	}
	for year, amount := range seed.Budgets {
		if err := s.Budgets.Set(year, amount); err != nil {
			return nil, fmt.Errorf("seed budget of %d: %w", year, err)
		}
		if !s.Calendar.IsConfigured(year) {
			_ = s.Calendar.SetWeekOneStart(year, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
	}

	if len(seed.Rates) > 0 {
		rates := make([]rate.Rate, 0, len(seed.Rates))
		for _, r := range seed.Rates {
			rates = append(rates, rate.Rate{Location: r.Location, Hourly: r.Hourly})
		}
		table, err := rate.NewTable(rates...)
		if err != nil {
			return nil, fmt.Errorf("seed rates: %w", err)
		}
		s.Rates = table
	}

	for _, sm := range seed.Managers {
		m, err := s.Org.AddManager(sm.Name)
		if err != nil {
			return nil, fmt.Errorf("seed manager: %w", err)
		}
		for _, ss := range sm.Supervisors {
			sv, err := s.Org.AddSupervisor(m.ID, ss.Name)
			if err != nil {
				return nil, fmt.Errorf("seed supervisor of %s: %w", m.Name, err)
			}
			for _, se := range ss.Employees {
				if _, err := s.Org.AddEmployee(sv.ID, se.Name, se.RateLocation, s.Rates); err != nil {
					return nil, fmt.Errorf("seed employee of %s: %w", sv.Name, err)
				}
			}
		}
	}
	return s, nil
}

// SeedFunc returns the initial state for a tracker without stored state. An empty path
// gives the built-in default for the current year.
func SeedFunc(path string, today time.Time) func() (*State, error) {
	return func() (*State, error) {
		if path == "" {
			return DefaultState(today.Year()), nil
		}
		seed, err := LoadSeed(path)
		if err != nil {
			return nil, err
		}
		return seed.State()
	}
}
