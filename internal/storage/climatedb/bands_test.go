package climatedb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresetBounds(t *testing.T) {
	optimized, err := Preset(PresetOptimized)
	require.NoError(t, err)
	baseline, err := Preset(PresetBaseline)
	require.NoError(t, err)

	require.True(t, math.IsInf(optimized.Pollution.Low, -1))
	require.Equal(t, 16.0, optimized.Pollution.High)
	require.Equal(t, Band{Low: 20, High: 80}, optimized.Temperature)
	// precipitation <= 0.01 is extreme, so 0.01 itself must sit below Low
	require.Greater(t, optimized.Precipitation.Low, 0.01)
	require.Less(t, optimized.Precipitation.Low, 0.011)
	require.Equal(t, 0.16, optimized.Precipitation.High)

	require.Equal(t, Bands{
		Pollution:     Band{Low: 15, High: 35},
		Temperature:   Band{Low: 15, High: 25},
		Precipitation: Band{Low: 400, High: 900},
	}, baseline)
}

func TestPresetUnknown(t *testing.T) {
	_, err := Preset("strict")
	require.Error(t, err)
}

func TestBandArgsOrder(t *testing.T) {
	b := Bands{
		Pollution:     Band{Low: 1, High: 2},
		Temperature:   Band{Low: 3, High: 4},
		Precipitation: Band{Low: 5, High: 6},
	}
	require.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}, b.args())
}

func TestBandString(t *testing.T) {
	b, err := Preset(PresetBaseline)
	require.NoError(t, err)
	require.Equal(t, "[15, 35]", b.Pollution.String())

	o, err := Preset(PresetOptimized)
	require.NoError(t, err)
	require.Equal(t, "[-Inf, 16]", o.Pollution.String())
}
