// Package config defines the YAML scenario format and runtime settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"evacsim/internal/cabin"
)

// Scenario is one complete experiment definition, loaded from YAML.
type Scenario struct {
	Name   string `yaml:"name"`
	Engine string `yaml:"engine"` // queue or aisle
	Trials int    `yaml:"trials"`
	Seed   int64  `yaml:"seed"`

	Layout  LayoutConfig  `yaml:"layout"`
	Params  ParamsConfig  `yaml:"params"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// LayoutConfig mirrors cabin.Layout in YAML form.
type LayoutConfig struct {
	Rows        int   `yaml:"rows"`
	SeatsPerRow int   `yaml:"seats_per_row"`
	Exits       []int `yaml:"exits"`
}

// ParamsConfig mirrors cabin.Params in YAML form.
type ParamsConfig struct {
	PremiumSpeedFactor float64 `yaml:"premium_speed_factor"`
	DoorOpeningTime    float64 `yaml:"door_opening_time"`
	ProportionElderly  float64 `yaml:"proportion_elderly"`
	ElderlyFrontBias   float64 `yaml:"elderly_front_bias"`
	EmergencyLevel     float64 `yaml:"emergency_level"`
	OccupancyRate      float64 `yaml:"occupancy_rate"`
}

// RuntimeConfig holds execution settings that are not part of the model.
type RuntimeConfig struct {
	Workers int    `yaml:"workers"`  // 0 = GOMAXPROCS
	DBPath  string `yaml:"db_path"`  // run history database
	TickCap int    `yaml:"tick_cap"` // aisle engine guard, 0 = default
}

// DefaultScenario is the canonical 30-row, 6-abreast narrow-body with
// front, over-wing and rear exits at full occupancy.
func DefaultScenario() *Scenario {
	p := cabin.DefaultParams()
	return &Scenario{
		Name:   "narrowbody-baseline",
		Engine: "queue",
		Trials: 1000,
		Seed:   1,
		Layout: LayoutConfig{
			Rows:        30,
			SeatsPerRow: 6,
			Exits:       []int{0, 15, 29},
		},
		Params: ParamsConfig{
			PremiumSpeedFactor: p.PremiumSpeedFactor,
			DoorOpeningTime:    p.DoorOpeningTime,
			ProportionElderly:  p.ProportionElderly,
			ElderlyFrontBias:   p.ElderlyFrontBias,
			EmergencyLevel:     p.EmergencyLevel,
			OccupancyRate:      p.OccupancyRate,
		},
		Runtime: RuntimeConfig{
			DBPath: defaultDBPath(),
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "evacsim.db"
	}
	return filepath.Join(home, ".evacsim", "runs.db")
}

// Load reads a scenario from path, applies environment overrides and
// validates it. Fields absent from the file keep their defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	s.applyEnvOverrides()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scenario as YAML, creating parent directories.
func (s *Scenario) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment trump file values for settings
// that vary by machine rather than by experiment.
func (s *Scenario) applyEnvOverrides() {
	if v := os.Getenv("EVACSIM_DB"); v != "" {
		s.Runtime.DBPath = v
	}
	if v := os.Getenv("EVACSIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Runtime.Workers = n
		}
	}
	if v := os.Getenv("EVACSIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.Seed = n
		}
	}
}

// Validate checks the scenario for out-of-range values.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name must not be empty")
	}
	if s.Trials <= 0 {
		return fmt.Errorf("scenario: trials must be positive, got %d", s.Trials)
	}
	if s.Engine != "queue" && s.Engine != "aisle" {
		return fmt.Errorf("scenario: engine must be queue or aisle, got %q", s.Engine)
	}
	if s.Runtime.Workers < 0 {
		return fmt.Errorf("scenario: workers must not be negative, got %d", s.Runtime.Workers)
	}
	if err := s.CabinLayout().Validate(); err != nil {
		return err
	}
	return s.CabinParams().Validate()
}

// CabinLayout converts to the cabin package's layout type.
func (s *Scenario) CabinLayout() cabin.Layout {
	return cabin.Layout{
		Rows:        s.Layout.Rows,
		SeatsPerRow: s.Layout.SeatsPerRow,
		Exits:       s.Layout.Exits,
	}
}

// CabinParams converts to the cabin package's params type.
func (s *Scenario) CabinParams() cabin.Params {
	return cabin.Params{
		PremiumSpeedFactor: s.Params.PremiumSpeedFactor,
		DoorOpeningTime:    s.Params.DoorOpeningTime,
		ProportionElderly:  s.Params.ProportionElderly,
		ElderlyFrontBias:   s.Params.ElderlyFrontBias,
		EmergencyLevel:     s.Params.EmergencyLevel,
		OccupancyRate:      s.Params.OccupancyRate,
	}
}
