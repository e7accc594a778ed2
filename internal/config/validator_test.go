package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fullCoverageControllers() []ControllerConfig {
	return []ControllerConfig{
		{ID: "left", IP: "10.0.0.1", UniverseBase: 0, Region: Region{X: 0, Y: 0, W: 4, H: 8}},
		{ID: "right", IP: "10.0.0.2", UniverseBase: 10, Region: Region{X: 4, Y: 0, W: 4, H: 8}},
	}
}

func TestValidatePartitionAcceptsFullCoverage(t *testing.T) {
	require.NoError(t, ValidatePartition(8, 8, fullCoverageControllers()))
}

func TestValidatePartitionRejectsGap(t *testing.T) {
	controllers := []ControllerConfig{
		{ID: "left", IP: "10.0.0.1", UniverseBase: 0, Region: Region{X: 0, Y: 0, W: 3, H: 8}},
		{ID: "right", IP: "10.0.0.2", UniverseBase: 10, Region: Region{X: 4, Y: 0, W: 4, H: 8}},
	}
	require.Error(t, ValidatePartition(8, 8, controllers))
}

func TestValidatePartitionRejectsOverlap(t *testing.T) {
	controllers := []ControllerConfig{
		{ID: "left", IP: "10.0.0.1", UniverseBase: 0, Region: Region{X: 0, Y: 0, W: 5, H: 8}},
		{ID: "right", IP: "10.0.0.2", UniverseBase: 10, Region: Region{X: 4, Y: 0, W: 4, H: 8}},
	}
	require.Error(t, ValidatePartition(8, 8, controllers))
}

func TestValidatePartitionRejectsDuplicateUniverseBase(t *testing.T) {
	controllers := fullCoverageControllers()
	controllers[1].UniverseBase = controllers[0].UniverseBase
	require.Error(t, ValidatePartition(8, 8, controllers))
}

func TestValidatePartitionRejectsInvalidIP(t *testing.T) {
	controllers := fullCoverageControllers()
	controllers[0].IP = "not-an-ip"
	require.Error(t, ValidatePartition(8, 8, controllers))
}

func TestValidatePartitionRejectsEmptyList(t *testing.T) {
	require.Error(t, ValidatePartition(8, 8, nil))
}

func TestValidateRejectsOutOfRangeGain(t *testing.T) {
	cfg := CreateDefault()
	cfg.Analyzer.Gain = 10
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsInvalidColorMode(t *testing.T) {
	cfg := CreateDefault()
	cfg.Effect.ColorMode = "plaid"
	require.Error(t, Validate(cfg))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := CreateDefault()
	require.NoError(t, Validate(cfg))
}

func TestUniversesPerControllerRoundsUp(t *testing.T) {
	// 171 pixels * 3 bytes = 513 bytes, one byte past a single 510-byte
	// universe, so a second (partial) universe is required.
	c := ControllerConfig{Region: Region{W: 171, H: 1}}
	require.Equal(t, 2, UniversesPerController(c))
}

func TestUniversesPerControllerExactFit(t *testing.T) {
	// Exactly 170 pixels fits in one universe with no remainder.
	c := ControllerConfig{Region: Region{W: 170, H: 1}}
	require.Equal(t, 1, UniversesPerController(c))
}

func TestValidatePartitionRejectsOverlappingUniverseRanges(t *testing.T) {
	// "left" is 171x2 = 342 pixels = 1026 bytes, spanning universes [0,3)
	// at 510 bytes/universe. "right"'s pixel region is disjoint from
	// "left"'s, but its universe_base of 2 falls inside [0,3).
	controllers := []ControllerConfig{
		{ID: "left", IP: "10.0.0.1", UniverseBase: 0, Region: Region{X: 0, Y: 0, W: 171, H: 2}},
		{ID: "right", IP: "10.0.0.2", UniverseBase: 2, Region: Region{X: 171, Y: 0, W: 4, H: 2}},
	}
	require.Error(t, ValidatePartition(175, 2, controllers))
}
