package climatedb

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/chrissnell/cropclimate/internal/database"
	"github.com/chrissnell/cropclimate/migrations"
	"github.com/chrissnell/cropclimate/pkg/migrate"
)

// Per state and year the fixture holds one pollution, temperature and
// precipitation reading. Against the baseline bands TEXAS is extreme on two
// axes (pollution 40, temperature 30), NEW YORK on one (temperature 10) and
// IOWA on none. Rice has three TEXAS records, Wheat one, Corn none.
const fixtureSQL = `
INSERT INTO pollution_data ("State", "Season", "Year", "CO Mean", "NO2 Mean", "SO2 Mean", "O3 Mean") VALUES
  ('Texas', 'kharif', 2016, 10, 10, 10, 10),
  ('Texas', 'kharif', 2017, 10, 10, 10, 10),
  ('Iowa', 'kharif', 2016, 5, 5, 5, 5),
  ('IOWA', 'rabi', 2017, 5, 5, 5, 5),
  ('New York', 'kharif', 2016, 5, 5, 5, 5),
  ('New York', 'kharif', 2017, 5, 5, 5, 5);

INSERT INTO temperature_data (state, season, year, average_temp) VALUES
  ('Texas', 'kharif', 2016, 30),
  ('Texas', 'kharif', 2017, 30),
  ('iowa', 'kharif', 2016, 20),
  ('Iowa', 'rabi', 2017, 20),
  ('New York', 'kharif', 2016, 10),
  ('New York', 'kharif', 2017, 10);

INSERT INTO weather_events (state, season, start_date, precipitation) VALUES
  ('Texas', 'kharif', '2016-06-01', 500),
  ('Texas', 'kharif', '2017-06-01', 500),
  ('Iowa', 'kharif', '2016-06-01', 600),
  ('Iowa', 'rabi', '2017-01-15', 600),
  ('New York', 'kharif', '2016-06-01', 600),
  ('New York', 'kharif', '2017-06-01', 600);

INSERT INTO crop_data (state, season, crop, year, yield_kg_per_acre) VALUES
  ('Texas', 'Kharif', 'Rice', 2016, 300),
  ('Texas', 'Kharif', 'Rice', 2017, 320),
  ('TEXAS', 'Rabi', 'Rice', 2017, 310),
  ('Texas', 'Rabi', 'Wheat', 2016, 200),
  ('Iowa', 'Rabi', 'Wheat', 2016, 250),
  ('Iowa', 'Kharif', 'Corn', 2016, 500),
  ('iowa', 'Kharif', 'Corn', 2017, 520),
  ('New York', 'Kharif', 'Corn', 2016, 400);

INSERT INTO country (country_id, name) VALUES (1, 'Atlantis'), (2, 'Lemuria');

INSERT INTO surface_temp (country_id, year, daily_avg_temp) VALUES (1, 2019, 15.123);

INSERT INTO co2_emissions (country_id, year, co2_production, co2_per_capita) VALUES
  (1, 2019, 1000, 12.5),
  (2, 2019, 50, 3.25),
  (1, 2020, 1100, 13);

INSERT INTO sea_level (country_id, date, global_mean_sea_level) VALUES (1, '2019-03-01', 3.456);

INSERT INTO wildfires (country_id, continent, area_ha)
SELECT 1, 'Europe', 10.5 FROM generate_series(1, 11);
INSERT INTO wildfires (country_id, continent, area_ha) VALUES (2, 'Asia', 4), (2, 'Asia', 6);

INSERT INTO crop_yield (country_id, year, crop, crop_yield, irrigation_access, extreme_weather) VALUES
  (1, 2019, 'Wheat', 3.5, 0.4, 'Drought'),
  (2, 2019, 'Rice', 4.25, 0.9, NULL);

INSERT INTO metropolis_momentum (country_id, year, urban_pop, rural_pop) VALUES
  (1, 2020, 700, 300),
  (2, 2020, 100, 900);
`

// Boundary rows for the optimized bands (pollution > 16, precipitation <=
// 0.01). KANSAS sits on 16.01 and 0.01 and is extreme on two axes; NEBRASKA
// (16, 0.01) and OHIO (16.01, 0.011) on one. Temperature 50 is never extreme.
// Barley has a single extreme record, which is not enough to rank.
const bandEdgeFixtureSQL = `
TRUNCATE crop_data, pollution_data, temperature_data, weather_events;

INSERT INTO pollution_data ("State", "Season", "Year", "CO Mean", "NO2 Mean", "SO2 Mean", "O3 Mean") VALUES
  ('Kansas', 'kharif', 2016, 16.01, 0, 0, 0),
  ('Kansas', 'kharif', 2017, 16.01, 0, 0, 0),
  ('Nebraska', 'kharif', 2016, 16, 0, 0, 0),
  ('Nebraska', 'kharif', 2017, 16, 0, 0, 0),
  ('Ohio', 'kharif', 2016, 16.01, 0, 0, 0),
  ('Ohio', 'kharif', 2017, 16.01, 0, 0, 0);

INSERT INTO temperature_data (state, season, year, average_temp) VALUES
  ('Kansas', 'kharif', 2016, 50),
  ('Kansas', 'kharif', 2017, 50),
  ('Nebraska', 'kharif', 2016, 50),
  ('Nebraska', 'kharif', 2017, 50),
  ('Ohio', 'kharif', 2016, 50),
  ('Ohio', 'kharif', 2017, 50);

INSERT INTO weather_events (state, season, start_date, precipitation) VALUES
  ('Kansas', 'kharif', '2016-06-01', 0.01),
  ('Kansas', 'kharif', '2017-06-01', 0.01),
  ('Nebraska', 'kharif', '2016-06-01', 0.01),
  ('Nebraska', 'kharif', '2017-06-01', 0.01),
  ('Ohio', 'kharif', '2016-06-01', 0.011),
  ('Ohio', 'kharif', '2017-06-01', 0.011);

INSERT INTO crop_data (state, season, crop, year, yield_kg_per_acre) VALUES
  ('Kansas', 'Kharif', 'Sorghum', 2016, 100),
  ('Kansas', 'Kharif', 'Sorghum', 2017, 200),
  ('Kansas', 'Kharif', 'Barley', 2016, 900),
  ('Nebraska', 'Kharif', 'Millet', 2016, 700),
  ('Nebraska', 'Kharif', 'Millet', 2017, 700),
  ('Ohio', 'Kharif', 'Oats', 2016, 800),
  ('Ohio', 'Kharif', 'Oats', 2017, 800);
`

func resilience(crop string, avg float64) CropResilience {
	return CropResilience{Crop: crop, AvgYieldInExtremes: &avg}
}

func startDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cropclimate"),
		postgres.WithUsername("cropclimate"),
		postgres.WithPassword("cropclimate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to clean up postgres container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://cropclimate:cropclimate@%s:%s/cropclimate?sslmode=disable", host, port.Port())
	db, err := database.Connect(ctx, dsn, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, db.Exec(migrations.BaseTables).Error)
	require.NoError(t, db.Exec(fixtureSQL).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	migrator := migrate.NewMigrator(sqlDB, migrate.NewFSProvider(migrations.CropDB(), "", migrate.DriverPostgres))
	require.NoError(t, migrator.MigrateUp())

	// a second run is a no-op
	require.NoError(t, migrator.MigrateUp())
	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	require.Equal(t, 7, version)

	return db
}

func TestRepositoryAgainstPostgres(t *testing.T) {
	db := startDatabase(t)
	ctx := context.Background()

	bands, err := Preset(PresetBaseline)
	require.NoError(t, err)

	for _, source := range []Source{SourceViews, SourceBase} {
		repo := New(db, source, bands)

		t.Run(string(source)+"/state summary", func(t *testing.T) {
			got, err := repo.StateSummary(ctx, NormalizeState("iowa"))
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, "IOWA", got[0].State)
			require.NotNil(t, got[0].DominantCrop)
			require.Equal(t, "Corn", *got[0].DominantCrop)
			require.NotNil(t, got[0].AvgTemp)
			require.InDelta(t, 20.0, *got[0].AvgTemp, 1e-9)
			require.NotNil(t, got[0].AvgPrecipitation)
			require.InDelta(t, 600.0, *got[0].AvgPrecipitation, 1e-9)
			require.NotNil(t, got[0].AvgCO)
			require.InDelta(t, 5.0, *got[0].AvgCO, 1e-9)

			again, err := repo.StateSummary(ctx, NormalizeState("IOWA"))
			require.NoError(t, err)
			require.Equal(t, got, again)
		})

		t.Run(string(source)+"/unknown state", func(t *testing.T) {
			got, err := repo.StateSummary(ctx, "ATLANTIS")
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Empty(t, got)
		})

		t.Run(string(source)+"/state seasons and years", func(t *testing.T) {
			seasons, err := repo.StateSeasons(ctx, "IOWA")
			require.NoError(t, err)
			require.NotEmpty(t, seasons)
			for _, s := range seasons {
				require.Equal(t, "IOWA", s.State)
			}

			years, err := repo.StateYears(ctx, "TEXAS")
			require.NoError(t, err)
			require.Len(t, years, 2)
			require.Equal(t, 2016, years[0].Year)
			require.Equal(t, 2017, years[1].Year)
			require.NotNil(t, years[0].DominantCrop)
		})

		t.Run(string(source)+"/best region", func(t *testing.T) {
			got, err := repo.BestRegionByCrop(ctx)
			require.NoError(t, err)

			byCrop := make(map[string]string)
			for _, r := range got {
				require.Contains(t, Regions, r.BestRegion)
				_, dup := byCrop[r.Crop]
				require.False(t, dup, "crop %s listed twice", r.Crop)
				byCrop[r.Crop] = r.BestRegion
			}
			require.Equal(t, map[string]string{
				"Corn":  "Midwest",
				"Rice":  "Southwest",
				"Wheat": "Midwest",
			}, byCrop)
		})

		t.Run(string(source)+"/ranges", func(t *testing.T) {
			temps, err := repo.TempRangeByCrop(ctx)
			require.NoError(t, err)
			require.Len(t, temps, 3)

			precip, err := repo.PrecipRangeByCrop(ctx)
			require.NoError(t, err)
			require.Len(t, precip, 3)
			for _, p := range precip {
				require.NotNil(t, p.MinPrecipMM)
				require.NotNil(t, p.MaxPrecipMM)
				require.LessOrEqual(t, *p.MinPrecipMM, *p.MaxPrecipMM)
			}

			pollution, err := repo.PollutionRangeByCrop(ctx)
			require.NoError(t, err)
			require.Len(t, pollution, 3)
		})

		t.Run(string(source)+"/best conditions", func(t *testing.T) {
			got, err := repo.BestConditions(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, got)
			labels := map[string]bool{"Low": true, "Mid": true, "High": true}
			for _, c := range got {
				require.True(t, labels[c.BestPollution], c.BestPollution)
				require.True(t, labels[c.BestTemp], c.BestTemp)
				require.True(t, labels[c.BestPrecip], c.BestPrecip)
			}
		})

		t.Run(string(source)+"/crop trends", func(t *testing.T) {
			got, err := repo.CropTrends(ctx)
			require.NoError(t, err)
			// NEW YORK only has a 2016 harvest
			require.Len(t, got, 5)
			require.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
				if got[i].State != got[j].State {
					return got[i].State < got[j].State
				}
				return got[i].Year < got[j].Year
			}))
		})

		t.Run(string(source)+"/resilient crops", func(t *testing.T) {
			got, err := repo.ClimateResilientCrops(ctx)
			require.NoError(t, err)
			require.Equal(t, []CropResilience{resilience("Rice", 310)}, got)
		})

		t.Run(string(source)+"/seasonal rankings", func(t *testing.T) {
			bySeason, err := repo.BestCropBySeason(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, bySeason)

			forCrop, err := repo.BestSeasonForCrop(ctx)
			require.NoError(t, err)
			require.Len(t, forCrop, 3)

			byState, err := repo.BestCropByState(ctx)
			require.NoError(t, err)
			require.Len(t, byState, 3)
		})

		t.Run(string(source)+"/best crop by condition", func(t *testing.T) {
			for _, axis := range []Axis{AxisPollution, AxisTemperature, AxisPrecipitation} {
				got, err := repo.BestCropByCondition(ctx, axis)
				require.NoError(t, err, axis)
				require.NotEmpty(t, got, axis)
				for _, g := range got {
					require.Contains(t, []string{"Low", "Mid", "High"}, g.Group)
				}
			}
		})
	}

	repo := New(db, SourceViews, bands)

	t.Run("country questions", func(t *testing.T) {
		hotspots, err := repo.WildfireHotspots(ctx)
		require.NoError(t, err)
		require.Len(t, hotspots, 1)
		require.Equal(t, "Atlantis", hotspots[0]["country_name"])
		require.Equal(t, int64(11), hotspots[0]["wildfire_events"])

		top, err := repo.TopCO2Countries(ctx, 2019, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		require.Equal(t, "Atlantis", top[0]["name"])
		require.Equal(t, 12.5, top[0]["co2_per_capita"])

		summary, err := repo.ClimateSummary(ctx, 2019)
		require.NoError(t, err)
		require.Len(t, summary, 1)
		require.Equal(t, 15.12, summary[0]["avg_daily_temp"])

		majority, err := repo.UrbanMajority(ctx)
		require.NoError(t, err)
		require.Len(t, majority, 1)
		require.Equal(t, "Atlantis", majority[0]["country_name"])

		fires, err := repo.CropWildfires(ctx, "Europe", 2019)
		require.NoError(t, err)
		require.NotEmpty(t, fires)

		none, err := repo.CropWildfires(ctx, "Antarctica", 2019)
		require.NoError(t, err)
		require.NotNil(t, none)
		require.Empty(t, none)

		for name, fn := range map[string]func(context.Context) ([]database.Row, error){
			"continent crop yield":   repo.ContinentCropYield,
			"urban co2":              repo.UrbanCO2,
			"urban wildfires co2":    repo.UrbanWildfiresCO2,
			"wildfire vs crop yield": repo.WildfireVsCropYield,
			"sea level vs co2":       repo.SeaLevelVsCO2,
		} {
			rows, err := fn(ctx)
			require.NoError(t, err, name)
			require.NotEmpty(t, rows, name)
		}
	})

	t.Run("refresh views", func(t *testing.T) {
		require.NoError(t, repo.RefreshViews(ctx))
		require.NoError(t, repo.Ping(ctx))
	})

	// Runs last: it replaces the state-level fixture rows
	t.Run("optimized band edges", func(t *testing.T) {
		require.NoError(t, db.Exec(bandEdgeFixtureSQL).Error)
		require.NoError(t, repo.RefreshViews(ctx))

		optimized, err := Preset(PresetOptimized)
		require.NoError(t, err)

		for _, source := range []Source{SourceViews, SourceBase} {
			got, err := New(db, source, optimized).ClimateResilientCrops(ctx)
			require.NoError(t, err, source)
			require.Equal(t, []CropResilience{resilience("Sorghum", 150)}, got, source)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.BestCropBySeason(canceled)
		require.Error(t, err)
		require.True(t, database.IsCanceled(err))
	})
}
