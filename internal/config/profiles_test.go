package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProfilesMissingFileYieldsDefault(t *testing.T) {
	set, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, "default", set.Active)
	require.Contains(t, set.Profiles, "default")
}

func TestProfileSetSwitchChangesActive(t *testing.T) {
	set := &ProfileSet{
		Active: "stage",
		Profiles: map[string]*Config{
			"stage": CreateDefault(),
			"club":  CreateDefault(),
		},
	}
	cfg, err := set.Switch("club")
	require.NoError(t, err)
	require.Same(t, set.Profiles["club"], cfg)
	require.Equal(t, "club", set.Active)
}

func TestProfileSetSwitchUnknownNameFails(t *testing.T) {
	set := &ProfileSet{Active: "stage", Profiles: map[string]*Config{"stage": CreateDefault()}}
	_, err := set.Switch("nonexistent")
	require.Error(t, err)
}

func TestProfileSetSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	set := &ProfileSet{
		Active: "stage",
		Profiles: map[string]*Config{
			"stage": CreateDefault(),
		},
	}
	require.NoError(t, set.Save(path))

	reloaded, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Equal(t, "stage", reloaded.Active)
	require.Contains(t, reloaded.Profiles, "stage")
}
