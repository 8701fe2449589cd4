package climatedb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateRegionTable(t *testing.T) {
	// 50 states plus the District of Columbia
	require.Len(t, stateRegions, 51)

	for state, region := range stateRegions {
		require.Equal(t, NormalizeState(state), state, "key %q is not canonical", state)
		require.Contains(t, Regions, region, "%s maps to an unknown region", state)
	}

	seen := make(map[string]bool)
	for _, region := range stateRegions {
		seen[region] = true
	}
	for _, region := range Regions {
		require.True(t, seen[region], "region %s has no states", region)
	}
}

func TestNormalizedStateRegion(t *testing.T) {
	tests := []struct {
		state  string
		region string
		ok     bool
	}{
		{"Iowa", "Midwest", true},
		{"  new york ", "Northeast", true},
		{"DISTRICT OF COLUMBIA", "Southeast", true},
		{"hawaii", "Pacific", true},
		{"Puerto Rico", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			region, ok := stateRegions[NormalizeState(tt.state)]
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.region, region)
		})
	}
}

func TestRegionTableParameter(t *testing.T) {
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(regionTable), &decoded))
	require.Equal(t, stateRegions, decoded)
}
