// Package climatedb answers the crop and climate questions against the
// PostgreSQL analytics database.
package climatedb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chrissnell/cropclimate/internal/database"
	"github.com/chrissnell/cropclimate/internal/metrics"
)

// Source selects where the precomputed aggregates come from
type Source string

const (
	// SourceViews reads the materialized views built by the cropdb migrations
	SourceViews Source = "views"
	// SourceBase recomputes every aggregate from the base tables
	SourceBase Source = "base"
)

// ParseSource validates a source name. An empty name selects SourceViews.
func ParseSource(name string) (Source, error) {
	switch Source(name) {
	case "", SourceViews:
		return SourceViews, nil
	case SourceBase:
		return SourceBase, nil
	}
	return "", fmt.Errorf("unknown query source %q (want %q or %q)", name, SourceViews, SourceBase)
}

// Axis is an environmental dimension used for tertile bucketing
type Axis string

const (
	AxisPollution     Axis = "pollution"
	AxisTemperature   Axis = "temperature"
	AxisPrecipitation Axis = "precipitation"
)

// ParseAxis validates an axis name
func ParseAxis(name string) (Axis, error) {
	switch a := Axis(name); a {
	case AxisPollution, AxisTemperature, AxisPrecipitation:
		return a, nil
	}
	return "", fmt.Errorf("unknown axis %q (want %q, %q or %q)", name, AxisPollution, AxisTemperature, AxisPrecipitation)
}

// Repository runs one query per question. It holds no per-request state and
// is safe for concurrent use.
type Repository struct {
	db     *gorm.DB
	source Source
	bands  Bands
}

// New returns a Repository over an open connection pool
func New(db *gorm.DB, source Source, bands Bands) *Repository {
	if source == "" {
		source = SourceViews
	}
	return &Repository{db: db, source: source, bands: bands}
}

// Source reports which query set the repository uses
func (r *Repository) Source() Source {
	return r.source
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

func (r *Repository) pick(views, base string) string {
	if r.source == SourceBase {
		return base
	}
	return views
}

// list runs query and scans every row into a T. An empty result is an empty,
// non-nil slice.
func list[T any](ctx context.Context, r *Repository, op, query string, args ...any) ([]T, error) {
	started := time.Now()
	out := make([]T, 0)
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&out).Error
	metrics.ObserveQuery(op, started, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = make([]T, 0)
	}
	return out, nil
}

// rows runs query and hands the result to the normalizer
func (r *Repository) rows(ctx context.Context, op string, n database.Normalizer, query string, args ...any) ([]database.Row, error) {
	started := time.Now()
	rs, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err == nil {
		var out []database.Row
		out, err = n.ScanRows(rs)
		if err == nil {
			metrics.ObserveQuery(op, started, nil)
			return out, nil
		}
	}
	metrics.ObserveQuery(op, started, err)
	return nil, fmt.Errorf("%s: %w", op, err)
}

// StateSummary returns the climate profile of one state, or an empty slice
// when the state has no pollution records. state must already be normalized.
func (r *Repository) StateSummary(ctx context.Context, state string) ([]StateClimateSummary, error) {
	query := r.pick(stateSummaryViewsSQL, stateSummaryBaseSQL)
	return list[StateClimateSummary](ctx, r, "state_summary", query, repeatArg(query, state)...)
}

// StateSeasons returns a state's climate profile per season
func (r *Repository) StateSeasons(ctx context.Context, state string) ([]StateSeasonSummary, error) {
	query := r.pick(stateSeasonsViewsSQL, stateSeasonsBaseSQL)
	return list[StateSeasonSummary](ctx, r, "state_seasons", query, repeatArg(query, state)...)
}

// StateYears returns a state's climate profile per year, 2016 through 2022
func (r *Repository) StateYears(ctx context.Context, state string) ([]StateYearSummary, error) {
	query := r.pick(stateYearsViewsSQL, stateYearsBaseSQL)
	return list[StateYearSummary](ctx, r, "state_years", query, repeatArg(query, state)...)
}

// repeatArg binds v to every placeholder in query. The state queries push
// the same filter into each CTE.
func repeatArg(query string, v any) []any {
	args := make([]any, strings.Count(query, "?"))
	for i := range args {
		args[i] = v
	}
	return args
}

func (r *Repository) BestRegionByCrop(ctx context.Context) ([]CropRegionFit, error) {
	return list[CropRegionFit](ctx, r, "best_region_by_crop", bestRegionByCropSQL, regionTable)
}

func (r *Repository) TempRangeByCrop(ctx context.Context) ([]CropTempRange, error) {
	return list[CropTempRange](ctx, r, "temp_range_by_crop", tempRangeByCropSQL)
}

func (r *Repository) PrecipRangeByCrop(ctx context.Context) ([]CropPrecipRange, error) {
	return list[CropPrecipRange](ctx, r, "precip_range_by_crop",
		r.pick(precipRangeByCropViewsSQL, precipRangeByCropBaseSQL))
}

func (r *Repository) PollutionRangeByCrop(ctx context.Context) ([]CropPollutionRange, error) {
	return list[CropPollutionRange](ctx, r, "pollution_range_by_crop", pollutionRangeByCropSQL)
}

// BestConditions labels, for every crop, the pollution, temperature and
// precipitation tertile with the highest mean yield.
func (r *Repository) BestConditions(ctx context.Context) ([]CropConditionLabel, error) {
	return list[CropConditionLabel](ctx, r, "best_conditions",
		r.pick(bestConditionsViewsSQL, bestConditionsBaseSQL))
}

// CropTrends returns yearly per-state yield next to the climate averages,
// ordered by state then year.
func (r *Repository) CropTrends(ctx context.Context) ([]CropYearTrend, error) {
	return list[CropYearTrend](ctx, r, "crop_trends",
		r.pick(cropTrendsViewsSQL, cropTrendsBaseSQL))
}

// ClimateResilientCrops ranks crops by their mean yield on records that are
// extreme on at least two axes. Crops with fewer than two such records are
// left out.
func (r *Repository) ClimateResilientCrops(ctx context.Context) ([]CropResilience, error) {
	return list[CropResilience](ctx, r, "climate_resilient_crops",
		r.pick(resilientCropsViewsSQL, resilientCropsBaseSQL), r.bands.args()...)
}

func (r *Repository) BestCropBySeason(ctx context.Context) ([]SeasonBestCrop, error) {
	return list[SeasonBestCrop](ctx, r, "best_crop_by_season", bestCropBySeasonSQL)
}

func (r *Repository) BestSeasonForCrop(ctx context.Context) ([]CropBestSeason, error) {
	return list[CropBestSeason](ctx, r, "best_season_for_crop", bestSeasonForCropSQL)
}

func (r *Repository) BestCropByState(ctx context.Context) ([]StateBestCrop, error) {
	return list[StateBestCrop](ctx, r, "best_crop_by_state", bestCropByStateSQL)
}

// BestCropByCondition returns the top crop inside each tertile of axis
func (r *Repository) BestCropByCondition(ctx context.Context, axis Axis) ([]ConditionBestCrop, error) {
	var query string
	switch axis {
	case AxisPollution:
		query = bestCropByPollutionSQL
	case AxisTemperature:
		query = bestCropByTemperatureSQL
	case AxisPrecipitation:
		query = r.pick(bestCropByPrecipitationViewsSQL, bestCropByPrecipitationBaseSQL)
	default:
		return nil, fmt.Errorf("best_crop_by_condition: unknown axis %q", axis)
	}
	return list[ConditionBestCrop](ctx, r, "best_crop_by_"+string(axis), query)
}
