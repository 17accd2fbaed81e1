// Package jurisdiction provides the US state privacy regulation reference store.
// Profiles are loaded once at process start and shared read-only across the engine.
package jurisdiction

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/gowebpki/jcs"
)

// Code is a two-letter US state code, always upper-case.
type Code string

// State codes.
const (
	CodeAL Code = "AL"
	CodeAK Code = "AK"
	CodeAZ Code = "AZ"
	CodeAR Code = "AR"
	CodeCA Code = "CA"
	CodeCO Code = "CO"
	CodeCT Code = "CT"
	CodeDE Code = "DE"
	CodeFL Code = "FL"
	CodeGA Code = "GA"
	CodeHI Code = "HI"
	CodeID Code = "ID"
	CodeIL Code = "IL"
	CodeIN Code = "IN"
	CodeIA Code = "IA"
	CodeKS Code = "KS"
	CodeKY Code = "KY"
	CodeLA Code = "LA"
	CodeME Code = "ME"
	CodeMD Code = "MD"
	CodeMA Code = "MA"
	CodeMI Code = "MI"
	CodeMN Code = "MN"
	CodeMS Code = "MS"
	CodeMO Code = "MO"
	CodeMT Code = "MT"
	CodeNE Code = "NE"
	CodeNV Code = "NV"
	CodeNH Code = "NH"
	CodeNJ Code = "NJ"
	CodeNM Code = "NM"
	CodeNY Code = "NY"
	CodeNC Code = "NC"
	CodeND Code = "ND"
	CodeOH Code = "OH"
	CodeOK Code = "OK"
	CodeOR Code = "OR"
	CodePA Code = "PA"
	CodeRI Code = "RI"
	CodeSC Code = "SC"
	CodeSD Code = "SD"
	CodeTN Code = "TN"
	CodeTX Code = "TX"
	CodeUT Code = "UT"
	CodeVT Code = "VT"
	CodeVA Code = "VA"
	CodeWA Code = "WA"
	CodeWV Code = "WV"
	CodeWI Code = "WI"
	CodeWY Code = "WY"
)

// Tier is a jurisdiction's baseline risk classification. It drives strategy
// selection only; verdicts carry their own binary risk level.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Enforcement describes how aggressively a jurisdiction enforces its regime.
type Enforcement string

const (
	EnforcementLenient  Enforcement = "lenient"
	EnforcementModerate Enforcement = "moderate"
	EnforcementStrict   Enforcement = "strict"
)

// Profile holds one jurisdiction's regulation profile. Immutable after load.
type Profile struct {
	Code            Code        `yaml:"code" json:"code"`
	Name            string      `yaml:"name" json:"name"`
	Regulations     []string    `yaml:"regulations" json:"regulations"`
	BaselineTier    Tier        `yaml:"baseline_tier" json:"baseline_tier"`
	Enforcement     Enforcement `yaml:"enforcement_level" json:"enforcement_level"`
	KeyRequirements []string    `yaml:"key_requirements" json:"key_requirements"`
	Penalties       []string    `yaml:"penalties" json:"penalties"`
	EffectiveDate   string      `yaml:"effective_date" json:"effective_date"`
	Notes           string      `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Store is the read-only reference dataset queried by the engine.
// The lock guards the load path; post-load access is pure lookup.
type Store struct {
	mu       sync.RWMutex
	profiles map[Code]*Profile
}

// NewStore creates an empty reference store.
func NewStore() *Store {
	return &Store{profiles: make(map[Code]*Profile)}
}

// Add inserts or replaces a profile.
func (s *Store) Add(p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Code == "" {
		return fmt.Errorf("jurisdiction code is required")
	}

	p.Code = Code(strings.ToUpper(string(p.Code)))
	s.profiles[p.Code] = p
	return nil
}

// Get retrieves a profile by code. Lower-case input is accepted.
func (s *Store) Get(code string) (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[Code(strings.ToUpper(code))]
	return p, ok
}

// Len returns the number of loaded profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Codes returns all known codes in sorted order.
func (s *Store) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.profiles))
	for c := range s.profiles {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)
	return codes
}

// All returns every profile sorted by code.
func (s *Store) All() []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// ByTier returns all profiles with the given baseline tier, sorted by code.
func (s *Store) ByTier(tier Tier) []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Profile, 0)
	for _, p := range s.profiles {
		if p.BaselineTier == tier {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// ByEnforcement returns all profiles with the given enforcement level, sorted by code.
func (s *Store) ByEnforcement(level Enforcement) []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Profile, 0)
	for _, p := range s.profiles {
		if p.Enforcement == level {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// WithRegulation returns the codes of all jurisdictions whose regulation list
// contains name, matched case-insensitively as a substring.
func (s *Store) WithRegulation(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.ToLower(name)
	codes := make([]string, 0)
	for c, p := range s.profiles {
		for _, reg := range p.Regulations {
			if strings.Contains(strings.ToLower(reg), name) {
				codes = append(codes, string(c))
				break
			}
		}
	}
	sort.Strings(codes)
	return codes
}

// Fingerprint returns a deterministic content hash of the loaded dataset.
// Profiles are canonicalized per RFC 8785 before hashing so the fingerprint
// is stable across insertion order and map iteration.
func (s *Store) Fingerprint() (string, error) {
	all := s.All()

	raw, err := json.Marshal(all)
	if err != nil {
		return "", fmt.Errorf("fingerprint marshal: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("fingerprint canonicalize: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// ExportJSON writes the full dataset to w as an indented JSON object keyed by code.
func (s *Store) ExportJSON(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Code]*Profile, len(s.profiles))
	for c, p := range s.profiles {
		out[c] = p
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export dataset: %w", err)
	}
	return nil
}
