package restserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/chrissnell/cropclimate/internal/database"
	"github.com/chrissnell/cropclimate/internal/log"
	"github.com/chrissnell/cropclimate/internal/storage/climatedb"
	"github.com/chrissnell/cropclimate/pkg/responseformat"
)

const (
	msgQueryFailed      = "database query failed"
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
	msgEncodeFailed     = "failed to encode response"
	msgInternal         = "internal server error"
)

// Repository is the set of analytical queries the handlers answer from.
// *climatedb.Repository implements it.
type Repository interface {
	Ping(ctx context.Context) error
	Source() climatedb.Source

	ClimateSummary(ctx context.Context, year int) ([]database.Row, error)
	CropWildfires(ctx context.Context, continent string, year int) ([]database.Row, error)
	ContinentCropYield(ctx context.Context) ([]database.Row, error)
	UrbanCO2(ctx context.Context) ([]database.Row, error)
	UrbanWildfiresCO2(ctx context.Context) ([]database.Row, error)
	TopCO2Countries(ctx context.Context, year, limit int) ([]database.Row, error)
	UrbanMajority(ctx context.Context) ([]database.Row, error)
	WildfireHotspots(ctx context.Context) ([]database.Row, error)
	WildfireVsCropYield(ctx context.Context) ([]database.Row, error)
	SeaLevelVsCO2(ctx context.Context) ([]database.Row, error)

	StateSummary(ctx context.Context, state string) ([]climatedb.StateClimateSummary, error)
	StateSeasons(ctx context.Context, state string) ([]climatedb.StateSeasonSummary, error)
	StateYears(ctx context.Context, state string) ([]climatedb.StateYearSummary, error)
	BestRegionByCrop(ctx context.Context) ([]climatedb.CropRegionFit, error)
	TempRangeByCrop(ctx context.Context) ([]climatedb.CropTempRange, error)
	PrecipRangeByCrop(ctx context.Context) ([]climatedb.CropPrecipRange, error)
	PollutionRangeByCrop(ctx context.Context) ([]climatedb.CropPollutionRange, error)
	BestConditions(ctx context.Context) ([]climatedb.CropConditionLabel, error)
	CropTrends(ctx context.Context) ([]climatedb.CropYearTrend, error)
	ClimateResilientCrops(ctx context.Context) ([]climatedb.CropResilience, error)
	BestCropBySeason(ctx context.Context) ([]climatedb.SeasonBestCrop, error)
	BestSeasonForCrop(ctx context.Context) ([]climatedb.CropBestSeason, error)
	BestCropByState(ctx context.Context) ([]climatedb.StateBestCrop, error)
	BestCropByCondition(ctx context.Context, axis climatedb.Axis) ([]climatedb.ConditionBestCrop, error)
}

var _ Repository = (*climatedb.Repository)(nil)

// Welcome is the body of GET /
type Welcome struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// HealthReporter exposes the result of the last background database check
type HealthReporter interface {
	Status() (database.Health, bool)
}

// HealthResponse is the body of a successful GET /healthz
type HealthResponse struct {
	Status    string           `json:"status"`
	Source    climatedb.Source `json:"source"`
	LastCheck *database.Health `json:"last_check,omitempty"`
}

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

func (h *Handlers) repo() Repository {
	return h.controller.repo
}

// respond writes rows, or maps err onto the error envelope
func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, op string, rows any, err error) {
	if err != nil {
		h.queryFailed(w, req, op, err)
		return
	}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, rows); err != nil {
		log.Errorw("error writing response", "operation", op, "request_id", log.RequestID(req.Context()), "error", err)
		if errors.Is(err, responseformat.ErrEncoding) {
			h.writeError(w, req, http.StatusInternalServerError, msgEncodeFailed)
		}
	}
}

func (h *Handlers) queryFailed(w http.ResponseWriter, req *http.Request, op string, err error) {
	fields := []any{
		"operation", op,
		"request_id", log.RequestID(req.Context()),
		"error", err,
	}
	if code := database.SQLState(err); code != "" {
		fields = append(fields, "sqlstate", code)
	}

	if database.IsCanceled(err) {
		log.Warnw("query canceled", fields...)
	} else {
		log.Errorw("query failed", fields...)
	}

	h.writeError(w, req, http.StatusInternalServerError, msgQueryFailed)
}

// badRequest writes a 400 for parameter errors and a 500 for anything else
func (h *Handlers) badRequest(w http.ResponseWriter, req *http.Request, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		h.writeError(w, req, http.StatusBadRequest, pe.Error())
		return
	}
	h.writeError(w, req, http.StatusInternalServerError, err.Error())
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	if err := h.formatter.WriteError(w, req, status, msg); err != nil {
		log.Errorw("error writing error response", "status", status, "request_id", log.RequestID(req.Context()), "error", err)
	}
}

// GetWelcome lists the available endpoints
func (h *Handlers) GetWelcome(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, "welcome", Welcome{
		Message:   "Welcome to the crop and climate analytics API",
		Endpoints: h.controller.endpoints,
	}, nil)
}

// GetHealth reports whether the database is reachable
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	if err := h.repo().Ping(req.Context()); err != nil {
		log.Warnw("health check failed", "request_id", log.RequestID(req.Context()), "error", err)
		h.writeError(w, req, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	resp := HealthResponse{Status: "ok", Source: h.repo().Source()}
	if h.controller.health != nil {
		if last, ok := h.controller.health.Status(); ok {
			resp.LastCheck = &last
		}
	}
	h.respond(w, req, "healthz", resp, nil)
}

func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.writeError(w, req, http.StatusNotFound, msgRouteNotFound)
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	h.writeError(w, req, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// Country-level climate endpoints

func (h *Handlers) GetClimateSummary(w http.ResponseWriter, req *http.Request) {
	year, err := requiredYear(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().ClimateSummary(req.Context(), year)
	h.respond(w, req, "climate_summary", rows, err)
}

func (h *Handlers) GetCropWildfires(w http.ResponseWriter, req *http.Request) {
	continent, err := queryString(req, "continent")
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	year, err := requiredYear(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().CropWildfires(req.Context(), continent, year)
	h.respond(w, req, "crop_wildfires", rows, err)
}

func (h *Handlers) GetContinentCropYield(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().ContinentCropYield(req.Context())
	h.respond(w, req, "continent_crop_yield", rows, err)
}

func (h *Handlers) GetUrbanCO2(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().UrbanCO2(req.Context())
	h.respond(w, req, "urban_co2", rows, err)
}

func (h *Handlers) GetUrbanWildfiresCO2(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().UrbanWildfiresCO2(req.Context())
	h.respond(w, req, "urban_wildfires_co2", rows, err)
}

// GetTopCO2Countries takes optional limit (default 10, capped at 1000) and
// year (default 2019).
func (h *Handlers) GetTopCO2Countries(w http.ResponseWriter, req *http.Request) {
	limit, err := limitParam(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	year, err := positiveInt(req, "year", defaultYear)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().TopCO2Countries(req.Context(), year, limit)
	h.respond(w, req, "top_co2_countries", rows, err)
}

func (h *Handlers) GetUrbanMajority(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().UrbanMajority(req.Context())
	h.respond(w, req, "urban_majority", rows, err)
}

func (h *Handlers) GetWildfireHotspots(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().WildfireHotspots(req.Context())
	h.respond(w, req, "wildfire_hotspots", rows, err)
}

func (h *Handlers) GetWildfireVsCropYield(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().WildfireVsCropYield(req.Context())
	h.respond(w, req, "wildfire_vs_crop_yield", rows, err)
}

func (h *Handlers) GetSeaLevelVsCO2(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().SeaLevelVsCO2(req.Context())
	h.respond(w, req, "sea_level_vs_co2", rows, err)
}

// State-level crop endpoints. The state path segment is case-insensitive.

func (h *Handlers) GetStateSummary(w http.ResponseWriter, req *http.Request) {
	state, err := stateParam(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().StateSummary(req.Context(), state)
	h.respond(w, req, "state_summary", rows, err)
}

func (h *Handlers) GetStateSeasons(w http.ResponseWriter, req *http.Request) {
	state, err := stateParam(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().StateSeasons(req.Context(), state)
	h.respond(w, req, "state_seasons", rows, err)
}

func (h *Handlers) GetStateYears(w http.ResponseWriter, req *http.Request) {
	state, err := stateParam(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().StateYears(req.Context(), state)
	h.respond(w, req, "state_years", rows, err)
}

func (h *Handlers) GetBestRegionByCrop(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().BestRegionByCrop(req.Context())
	h.respond(w, req, "best_region_by_crop", rows, err)
}

func (h *Handlers) GetTempRangeByCrop(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().TempRangeByCrop(req.Context())
	h.respond(w, req, "temp_range_by_crop", rows, err)
}

func (h *Handlers) GetPrecipRangeByCrop(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().PrecipRangeByCrop(req.Context())
	h.respond(w, req, "precip_range_by_crop", rows, err)
}

func (h *Handlers) GetPollutionRangeByCrop(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().PollutionRangeByCrop(req.Context())
	h.respond(w, req, "pollution_range_by_crop", rows, err)
}

func (h *Handlers) GetBestConditions(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().BestConditions(req.Context())
	h.respond(w, req, "best_conditions", rows, err)
}

func (h *Handlers) GetCropTrends(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().CropTrends(req.Context())
	h.respond(w, req, "crop_trends", rows, err)
}

func (h *Handlers) GetClimateResilientCrops(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().ClimateResilientCrops(req.Context())
	h.respond(w, req, "climate_resilient_crops", rows, err)
}

func (h *Handlers) GetBestCropBySeason(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().BestCropBySeason(req.Context())
	h.respond(w, req, "best_crop_by_season", rows, err)
}

func (h *Handlers) GetBestSeasonForCrop(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().BestSeasonForCrop(req.Context())
	h.respond(w, req, "best_season_for_crop", rows, err)
}

func (h *Handlers) GetBestCropByState(w http.ResponseWriter, req *http.Request) {
	rows, err := h.repo().BestCropByState(req.Context())
	h.respond(w, req, "best_crop_by_state", rows, err)
}

// GetBestCropByCondition ranks crops within the Low/Mid/High tertiles of one axis
func (h *Handlers) GetBestCropByCondition(w http.ResponseWriter, req *http.Request) {
	axis, err := axisParam(req)
	if err != nil {
		h.badRequest(w, req, err)
		return
	}
	rows, err := h.repo().BestCropByCondition(req.Context(), axis)
	h.respond(w, req, "best_crop_by_"+string(axis), rows, err)
}
