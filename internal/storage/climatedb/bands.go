package climatedb

import (
	"fmt"
	"math"
)

// Band presets for the extreme-condition classifier
const (
	PresetOptimized = "optimized"
	PresetBaseline  = "baseline"
)

// Band is an acceptable range. The resilience queries count a value as
// extreme when it is strictly below Low or strictly above High.
type Band struct {
	Low  float64
	High float64
}

// String renders the inside of the band, e.g. "[15, 35]"
func (b Band) String() string {
	return fmt.Sprintf("[%g, %g]", b.Low, b.High)
}

// Bands holds one band per environmental axis
type Bands struct {
	Pollution     Band
	Temperature   Band
	Precipitation Band
}

// args returns the bound parameters in the order the resilience queries
// reference them.
func (b Bands) args() []any {
	return []any{
		b.Pollution.Low, b.Pollution.High,
		b.Temperature.Low, b.Temperature.High,
		b.Precipitation.Low, b.Precipitation.High,
	}
}

// atMost returns the low bound that makes v itself count as outside, turning
// a "<= v" rule into the band's strict "<".
func atMost(v float64) float64 {
	return math.Nextafter(v, math.Inf(1))
}

var presets = map[string]Bands{
	// pollution > 16, temperature < 20 or > 80, precipitation <= 0.01 or > 0.16
	PresetOptimized: {
		Pollution:     Band{Low: math.Inf(-1), High: 16},
		Temperature:   Band{Low: 20, High: 80},
		Precipitation: Band{Low: atMost(0.01), High: 0.16},
	},
	// pollution < 15 or > 35, temperature < 15 or > 25, precipitation < 400 or > 900
	PresetBaseline: {
		Pollution:     Band{Low: 15, High: 35},
		Temperature:   Band{Low: 15, High: 25},
		Precipitation: Band{Low: 400, High: 900},
	},
}

// Preset returns the named band set
func Preset(name string) (Bands, error) {
	b, ok := presets[name]
	if !ok {
		return Bands{}, fmt.Errorf("unknown extreme band preset %q (want %q or %q)", name, PresetOptimized, PresetBaseline)
	}
	return b, nil
}
