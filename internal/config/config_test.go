package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()
	if s.Name != "narrowbody-baseline" {
		t.Errorf("expected Name=narrowbody-baseline, got %s", s.Name)
	}
	if s.Engine != "queue" {
		t.Errorf("expected Engine=queue, got %s", s.Engine)
	}
	if s.Trials != 1000 {
		t.Errorf("expected Trials=1000, got %d", s.Trials)
	}
	if s.Layout.Rows != 30 || s.Layout.SeatsPerRow != 6 {
		t.Errorf("unexpected layout: %+v", s.Layout)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default scenario should validate: %v", err)
	}
}

func TestScenario_SaveLoad(t *testing.T) {
	t.Setenv("EVACSIM_DB", "")
	t.Setenv("EVACSIM_WORKERS", "")
	t.Setenv("EVACSIM_SEED", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "scenario.yaml")

	s := DefaultScenario()
	s.Name = "two-exit"
	s.Layout.Exits = []int{0, 29}
	s.Params.OccupancyRate = 0.8

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Name != "two-exit" {
		t.Errorf("expected Name=two-exit, got %s", loaded.Name)
	}
	if len(loaded.Layout.Exits) != 2 || loaded.Layout.Exits[0] != 0 || loaded.Layout.Exits[1] != 29 {
		t.Errorf("expected exits [0 29], got %v", loaded.Layout.Exits)
	}
	if loaded.Params.OccupancyRate != 0.8 {
		t.Errorf("expected OccupancyRate=0.8, got %g", loaded.Params.OccupancyRate)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("EVACSIM_DB", "")
	t.Setenv("EVACSIM_WORKERS", "")
	t.Setenv("EVACSIM_SEED", "")

	path := filepath.Join(t.TempDir(), "partial.yaml")
	doc := "name: sparse\ntrials: 50\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Trials != 50 {
		t.Errorf("expected Trials=50, got %d", s.Trials)
	}
	if s.Layout.Rows != 30 {
		t.Errorf("expected default Rows=30, got %d", s.Layout.Rows)
	}
	if s.Params.EmergencyLevel != 1.0 {
		t.Errorf("expected default EmergencyLevel=1.0, got %g", s.Params.EmergencyLevel)
	}
}

func TestScenario_EnvOverrides(t *testing.T) {
	t.Setenv("EVACSIM_DB", "/tmp/override.db")
	t.Setenv("EVACSIM_WORKERS", "3")
	t.Setenv("EVACSIM_SEED", "77")

	s := DefaultScenario()
	s.applyEnvOverrides()

	if s.Runtime.DBPath != "/tmp/override.db" {
		t.Errorf("expected DBPath=/tmp/override.db, got %s", s.Runtime.DBPath)
	}
	if s.Runtime.Workers != 3 {
		t.Errorf("expected Workers=3, got %d", s.Runtime.Workers)
	}
	if s.Seed != 77 {
		t.Errorf("expected Seed=77, got %d", s.Seed)
	}
}

func TestScenario_Validate(t *testing.T) {
	s := DefaultScenario()
	s.Engine = "teleport"
	if err := s.Validate(); err == nil {
		t.Error("expected error for unknown engine")
	}

	s = DefaultScenario()
	s.Trials = 0
	if err := s.Validate(); err == nil {
		t.Error("expected error for zero trials")
	}

	s = DefaultScenario()
	s.Layout.Exits = []int{40}
	if err := s.Validate(); err == nil {
		t.Error("expected error for exit outside cabin")
	}

	s = DefaultScenario()
	s.Params.OccupancyRate = 1.5
	if err := s.Validate(); err == nil {
		t.Error("expected error for occupancy above 1")
	}

	s = DefaultScenario()
	s.Name = ""
	if err := s.Validate(); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("trials: [not a number"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
