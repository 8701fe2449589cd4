package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	seedStates  = []string{"Iowa", "Illinois", "Nebraska", "Texas", "California", "Washington", "New York", "Georgia", "Colorado", "Arizona", "Minnesota", "Kansas"}
	seedCrops   = []string{"Rice", "Wheat", "Maize", "Soybean", "Cotton", "Barley"}
	seedSeasons = []string{"Kharif", "Rabi", "Summer", "Winter", "Whole Year"}

	seedCountries = []string{"Argentina", "Australia", "Brazil", "Canada", "France", "India", "Kenya", "Japan"}
	continents    = map[string]string{
		"Argentina": "South America",
		"Australia": "Oceania",
		"Brazil":    "South America",
		"Canada":    "North America",
		"France":    "Europe",
		"India":     "Asia",
		"Kenya":     "Africa",
		"Japan":     "Asia",
	}
	weatherEvents = []string{"Drought", "Flood", "Heatwave", "Storm"}
)

const (
	firstYear = 2016
	lastYear  = 2022
)

// table is one COPY target: its name, columns and rows in column order
type table struct {
	name    string
	columns []string
	rows    [][]any
}

// dataset is the synthetic content of every base table, in load order
type dataset []table

func (d dataset) rowCount() int {
	n := 0
	for _, t := range d {
		n += len(t.rows)
	}
	return n
}

// generator draws reproducible values for a given seed
type generator struct {
	src rand.Source
	rng *rand.Rand
}

func newGenerator(seed uint64) *generator {
	src := rand.NewPCG(seed, seed^0x5eed)
	return &generator{src: src, rng: rand.New(src)}
}

func (g *generator) normal(mu, sigma float64) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: g.src}
}

func (g *generator) uniform(lo, hi float64) distuv.Uniform {
	return distuv.Uniform{Min: lo, Max: hi, Src: g.src}
}

// positive keeps drawing until the value is above zero
func positive(d interface{ Rand() float64 }) float64 {
	for {
		if v := d.Rand(); v > 0 {
			return v
		}
	}
}

// generate builds states × crops × seasons × years of crop and climate rows
// plus a small country-level dataset. The same seed yields the same rows.
func (g *generator) generate() dataset {
	crops := table{name: "crop_data", columns: []string{"state", "season", "crop", "year", "yield_kg_per_acre"}}
	pollution := table{name: "pollution_data", columns: []string{"State", "Season", "Year", "CO Mean", "NO2 Mean", "SO2 Mean", "O3 Mean"}}
	weather := table{name: "weather_events", columns: []string{"state", "season", "start_date", "precipitation"}}
	temperature := table{name: "temperature_data", columns: []string{"state", "season", "year", "average_temp"}}

	for _, state := range seedStates {
		// each state gets its own climate so the rankings have something to separate
		stateTemp := g.uniform(8, 32).Rand()
		statePollution := g.uniform(5, 40).Rand()
		statePrecip := g.uniform(0.005, 0.3).Rand()

		for _, season := range seedSeasons {
			for year := firstYear; year <= lastYear; year++ {
				pollution.rows = append(pollution.rows, []any{
					state, season, year,
					positive(g.normal(statePollution, 4)),
					positive(g.normal(statePollution, 4)),
					positive(g.normal(statePollution/4, 1)),
					positive(g.normal(statePollution, 6)),
				})
				temperature.rows = append(temperature.rows, []any{
					state, season, year, g.normal(stateTemp, 3).Rand(),
				})

				for event := 0; event < 3; event++ {
					start := time.Date(year, time.Month(1+g.rng.IntN(12)), 1+g.rng.IntN(28), 0, 0, 0, 0, time.UTC)
					weather.rows = append(weather.rows, []any{
						state, season, start, positive(g.normal(statePrecip, statePrecip/3)),
					})
				}

				for _, crop := range seedCrops {
					crops.rows = append(crops.rows, []any{
						state, season, crop, year, positive(g.normal(900, 250)),
					})
				}
			}
		}
	}

	country := table{name: "country", columns: []string{"country_id", "name"}}
	surface := table{name: "surface_temp", columns: []string{"country_id", "year", "daily_avg_temp"}}
	co2 := table{name: "co2_emissions", columns: []string{"country_id", "year", "co2_production", "co2_per_capita"}}
	seaLevel := table{name: "sea_level", columns: []string{"country_id", "date", "global_mean_sea_level"}}
	wildfires := table{name: "wildfires", columns: []string{"country_id", "continent", "area_ha"}}
	cropYield := table{name: "crop_yield", columns: []string{"country_id", "year", "crop", "crop_yield", "irrigation_access", "extreme_weather"}}
	urban := table{name: "metropolis_momentum", columns: []string{"country_id", "year", "urban_pop", "rural_pop"}}

	for i, name := range seedCountries {
		id := i + 1
		country.rows = append(country.rows, []any{id, name})

		baseCO2 := g.uniform(50, 5000).Rand()
		population := g.uniform(5e6, 2e8).Rand()
		urbanShare := g.uniform(0.3, 0.9).Rand()

		for year := firstYear; year <= lastYear; year++ {
			growth := 1 + 0.02*float64(year-firstYear)

			surface.rows = append(surface.rows, []any{id, year, g.normal(15, 8).Rand()})
			co2.rows = append(co2.rows, []any{id, year, baseCO2 * growth, positive(g.normal(8, 4))})
			seaLevel.rows = append(seaLevel.rows, []any{
				id, time.Date(year, time.Month(1+g.rng.IntN(12)), 1, 0, 0, 0, 0, time.UTC), g.normal(3*growth, 0.2).Rand(),
			})

			share := min(urbanShare*growth, 0.98)
			urban.rows = append(urban.rows, []any{
				id, year, int64(population * share), int64(population * (1 - share)),
			})

			for _, crop := range seedCrops {
				var extreme any
				if g.rng.Float64() < 0.25 {
					extreme = weatherEvents[g.rng.IntN(len(weatherEvents))]
				}
				cropYield.rows = append(cropYield.rows, []any{
					id, year, crop, positive(g.normal(3.5, 1)), g.uniform(0, 1).Rand(), extreme,
				})
			}
		}

		fires := int(distuv.Poisson{Lambda: 8, Src: g.src}.Rand())
		for f := 0; f < fires; f++ {
			wildfires.rows = append(wildfires.rows, []any{id, continents[name], positive(g.normal(40, 25))})
		}
	}

	return dataset{crops, pollution, weather, temperature, country, surface, co2, seaLevel, wildfires, cropYield, urban}
}

// truncateSQL empties every seeded table in one statement
func (d dataset) truncateSQL() string {
	s := "TRUNCATE "
	for i, t := range d {
		if i > 0 {
			s += ", "
		}
		s += t.name
	}
	return s + " RESTART IDENTITY CASCADE"
}

func (t table) String() string {
	return fmt.Sprintf("%s (%d rows)", t.name, len(t.rows))
}
