package climatedb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryPlaceholders(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		placeholders int
	}{
		{"state summary views", stateSummaryViewsSQL, 3},
		{"state summary base", stateSummaryBaseSQL, 4},
		{"state seasons views", stateSeasonsViewsSQL, 1},
		{"state seasons base", stateSeasonsBaseSQL, 4},
		{"state years views", stateYearsViewsSQL, 1},
		{"state years base", stateYearsBaseSQL, 4},
		{"best region", bestRegionByCropSQL, 1},
		{"temperature range", tempRangeByCropSQL, 0},
		{"precipitation range views", precipRangeByCropViewsSQL, 0},
		{"precipitation range base", precipRangeByCropBaseSQL, 0},
		{"pollution range", pollutionRangeByCropSQL, 0},
		{"best conditions views", bestConditionsViewsSQL, 0},
		{"best conditions base", bestConditionsBaseSQL, 0},
		{"crop trends views", cropTrendsViewsSQL, 0},
		{"crop trends base", cropTrendsBaseSQL, 0},
		{"resilient crops views", resilientCropsViewsSQL, 6},
		{"resilient crops base", resilientCropsBaseSQL, 6},
		{"best crop by season", bestCropBySeasonSQL, 0},
		{"best season for crop", bestSeasonForCropSQL, 0},
		{"best crop by state", bestCropByStateSQL, 0},
		{"best crop by pollution", bestCropByPollutionSQL, 0},
		{"best crop by temperature", bestCropByTemperatureSQL, 0},
		{"best crop by precipitation views", bestCropByPrecipitationViewsSQL, 0},
		{"best crop by precipitation base", bestCropByPrecipitationBaseSQL, 0},
		{"climate summary", climateSummarySQL, 3},
		{"crop wildfires", cropWildfiresSQL, 3},
		{"continent crop yield", continentCropYieldSQL, 0},
		{"urban co2", urbanCO2SQL, 0},
		{"urban wildfires co2", urbanWildfiresCO2SQL, 0},
		{"top co2 countries", topCO2CountriesSQL, 2},
		{"urban majority", urbanMajoritySQL, 0},
		{"wildfire hotspots", wildfireHotspotsSQL, 0},
		{"wildfire vs crop yield", wildfireVsCropYieldSQL, 0},
		{"sea level vs co2", seaLevelVsCO2SQL, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.placeholders, strings.Count(tt.query, "?"))
			// user values are bound, never formatted into the text
			require.NotContains(t, tt.query, "%")
			require.NotContains(t, tt.query, "@")
		})
	}
}

func TestRepeatArg(t *testing.T) {
	args := repeatArg(stateSummaryBaseSQL, "IOWA")
	require.Equal(t, []any{"IOWA", "IOWA", "IOWA", "IOWA"}, args)
	require.Empty(t, repeatArg(bestCropBySeasonSQL, "IOWA"))
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("")
	require.NoError(t, err)
	require.Equal(t, SourceViews, s)

	s, err = ParseSource("base")
	require.NoError(t, err)
	require.Equal(t, SourceBase, s)

	_, err = ParseSource("cache")
	require.Error(t, err)
}

func TestParseAxis(t *testing.T) {
	for _, name := range []string{"pollution", "temperature", "precipitation"} {
		a, err := ParseAxis(name)
		require.NoError(t, err)
		require.Equal(t, Axis(name), a)
	}
	_, err := ParseAxis("humidity")
	require.Error(t, err)
}
