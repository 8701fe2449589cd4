package climatedb

import (
	"context"

	"github.com/chrissnell/cropclimate/internal/database"
)

// Country rows have no fixed shape, so they go through the normalizer.
// Each question rounds its own aggregate columns.
var (
	climateSummaryRows = database.Normalizer{Precision: map[string]int{
		"avg_daily_temp":    2,
		"avg_co2_emissions": 2,
		"avg_sea_level":     2,
	}}
	cropWildfireRows = database.Normalizer{Precision: map[string]int{
		"total_wildfire_area":  2,
		"total_co2_production": 2,
		"avg_crop_yield":       2,
	}}
	continentYieldRows = database.Normalizer{Precision: map[string]int{
		"avg_yield":             2,
		"avg_irrigation_access": 2,
	}}
	urbanCO2Rows = database.Normalizer{Precision: map[string]int{
		"urban_rural_ratio": 4,
		"co2_per_capita":    4,
	}}
	urbanWildfireRows = database.Normalizer{Precision: map[string]int{
		"avg_co2_emissions":   2,
		"total_wildfire_area": 2,
	}}
	topCO2Rows = database.Normalizer{Precision: map[string]int{
		"co2_per_capita": 4,
	}}
	wildfireYieldRows = database.Normalizer{Precision: map[string]int{
		"total_wildfire_area": 2,
		"avg_crop_yield":      2,
	}}
	seaLevelRows = database.Normalizer{Precision: map[string]int{
		"avg_sea_level": 2,
	}}
	plainRows = database.Normalizer{}
)

// ClimateSummary averages temperature, CO2 production and sea level per
// country for one year.
func (r *Repository) ClimateSummary(ctx context.Context, year int) ([]database.Row, error) {
	return r.rows(ctx, "climate_summary", climateSummaryRows, climateSummarySQL, year, year, year)
}

// CropWildfires joins wildfire area, CO2 production and crop yield for the
// countries of one continent in one year.
func (r *Repository) CropWildfires(ctx context.Context, continent string, year int) ([]database.Row, error) {
	return r.rows(ctx, "crop_wildfires", cropWildfireRows, cropWildfiresSQL, continent, year, year)
}

func (r *Repository) ContinentCropYield(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "continent_crop_yield", continentYieldRows, continentCropYieldSQL)
}

func (r *Repository) UrbanCO2(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "urban_co2", urbanCO2Rows, urbanCO2SQL)
}

func (r *Repository) UrbanWildfiresCO2(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "urban_wildfires_co2", urbanWildfireRows, urbanWildfiresCO2SQL)
}

// TopCO2Countries returns the limit countries with the highest CO2 per
// capita in year.
func (r *Repository) TopCO2Countries(ctx context.Context, year, limit int) ([]database.Row, error) {
	return r.rows(ctx, "top_co2_countries", topCO2Rows, topCO2CountriesSQL, year, limit)
}

func (r *Repository) UrbanMajority(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "urban_majority", plainRows, urbanMajoritySQL)
}

func (r *Repository) WildfireHotspots(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "wildfire_hotspots", plainRows, wildfireHotspotsSQL)
}

func (r *Repository) WildfireVsCropYield(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "wildfire_vs_crop_yield", wildfireYieldRows, wildfireVsCropYieldSQL)
}

func (r *Repository) SeaLevelVsCO2(ctx context.Context) ([]database.Row, error) {
	return r.rows(ctx, "sea_level_vs_co2", seaLevelRows, seaLevelVsCO2SQL)
}
