package jurisdiction

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DatasetSchemaConstraint is the schema version range this build can read.
// Override files declaring a version outside the range are rejected rather
// than partially applied.
const DatasetSchemaConstraint = "^1.0"

// OverrideFile is the on-disk format for jurisdiction profile overrides.
// Each listed profile replaces the built-in profile for its state wholesale.
type OverrideFile struct {
	SchemaVersion string     `yaml:"schema_version" json:"schema_version"`
	Profiles      []*Profile `yaml:"profiles" json:"profiles"`
}

// LoadFile reads one override file and validates it against the schema gate.
func LoadFile(path string) ([]*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := checkSchemaVersion(file.SchemaVersion); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i, p := range file.Profiles {
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("%s: profile %d: %w", path, i, err)
		}
	}

	return file.Profiles, nil
}

// LoadDir loads every *.yaml override file in dir. Later files win when two
// files override the same state.
func LoadDir(dir string) ([]*Profile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	var profiles []*Profile
	for _, path := range matches {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, loaded...)
	}

	return profiles, nil
}

// ApplyOverrides replaces built-in profiles with the loaded ones.
func (s *Store) ApplyOverrides(profiles []*Profile) error {
	for _, p := range profiles {
		if err := s.Add(p); err != nil {
			return fmt.Errorf("apply override for %q: %w", p.Code, err)
		}
	}
	return nil
}

// NewStoreFromDir builds a store from the built-in dataset overlaid with the
// override files in dir. An empty dir name returns the built-ins only.
func NewStoreFromDir(dir string) (*Store, error) {
	s := NewStoreWithDefaults()
	if dir == "" {
		return s, nil
	}

	profiles, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyOverrides(profiles); err != nil {
		return nil, err
	}

	return s, nil
}

func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("schema_version is required")
	}

	constraint, err := semver.NewConstraint(DatasetSchemaConstraint)
	if err != nil {
		return fmt.Errorf("invalid schema constraint %s: %w", DatasetSchemaConstraint, err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", version, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("schema_version %s is outside supported range %s", version, DatasetSchemaConstraint)
	}

	return nil
}

func validateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile is empty")
	}
	if p.Code == "" {
		return fmt.Errorf("code is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch p.BaselineTier {
	case TierLow, TierMedium, TierHigh:
	default:
		return fmt.Errorf("invalid baseline_tier %q", p.BaselineTier)
	}

	switch p.Enforcement {
	case EnforcementLenient, EnforcementModerate, EnforcementStrict:
	default:
		return fmt.Errorf("invalid enforcement_level %q", p.Enforcement)
	}

	return nil
}
