package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ProfileSet is a collection of named venue configurations kept in one file
// on disk, so an operator can switch the active controller map/effect
// defaults without restarting the process. Generalized from the teacher's
// internal/config/profiles.go (named display-widget profiles switched from
// the tray menu) to named LED-rig venue profiles.
type ProfileSet struct {
	Active   string             `json:"active"`
	Profiles map[string]*Config `json:"profiles"`
}

// LoadProfiles reads a profile set file. A missing file yields a ProfileSet
// with a single "default" profile built from CreateDefault.
func LoadProfiles(path string) (*ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProfileSet{
				Active:   "default",
				Profiles: map[string]*Config{"default": CreateDefault()},
			}, nil
		}
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var set ProfileSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}
	if len(set.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file defines no profiles")
	}
	for name, cfg := range set.Profiles {
		applyDefaults(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	if set.Active == "" {
		set.Active = set.Names()[0]
	}
	if _, ok := set.Profiles[set.Active]; !ok {
		return nil, fmt.Errorf("active profile %q not found among %v", set.Active, set.Names())
	}
	return &set, nil
}

// Save writes the profile set back to path.
func (s *ProfileSet) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Names returns the sorted profile names.
func (s *ProfileSet) Names() []string {
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current returns the active profile's configuration.
func (s *ProfileSet) Current() (*Config, error) {
	cfg, ok := s.Profiles[s.Active]
	if !ok {
		return nil, fmt.Errorf("active profile %q not found", s.Active)
	}
	return cfg, nil
}

// Switch changes the active profile by name.
func (s *ProfileSet) Switch(name string) (*Config, error) {
	cfg, ok := s.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (have %v)", name, s.Names())
	}
	s.Active = name
	return cfg, nil
}
