package restserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chrissnell/cropclimate/internal/log"
	"github.com/chrissnell/cropclimate/internal/metrics"
	"github.com/chrissnell/cropclimate/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.ServerData
	Server     http.Server
	repo       Repository
	health     HealthReporter
	handlers   *Handlers
	endpoints  []string
}

// route is one analytical endpoint
type route struct {
	path    string
	handler http.HandlerFunc
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.ServerData, repo Repository) (*Controller, error) {
	if repo == nil {
		return nil, fmt.Errorf("REST server needs a repository")
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		repo:       repo,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		log.Info("server listen address not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.restConfig.ListenAddr = config.DefaultListenAddr
	}

	// Set default HTTP port if not specified
	if rc.HTTPPort == 0 {
		log.Infof("server port not provided; defaulting to %d", config.DefaultHTTPPort)
		ctrl.restConfig.HTTPPort = config.DefaultHTTPPort
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = net.JoinHostPort(ctrl.restConfig.ListenAddr, strconv.Itoa(ctrl.restConfig.HTTPPort))
	ctrl.Server.Handler = ctrl.buildHandler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second
	ctrl.Server.ErrorLog = log.StdLogger()

	return ctrl, nil
}

// SetHealthReporter makes /healthz include the last background check.
// Call it before StartController.
func (c *Controller) SetHealthReporter(hr HealthReporter) {
	c.health = hr
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)
	// one for the listener and one for the shutdown, which is what waits
	// for in-flight requests
	c.wg.Add(2)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		defer c.wg.Done()

		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			log.Errorf("REST server shutdown: %v", err)
		}
	}()

	return nil
}

// routes lists every analytical endpoint. The welcome page is generated from it.
func (c *Controller) routes() []route {
	h := c.handlers
	return []route{
		{"/api/climate_summary", h.GetClimateSummary},
		{"/api/climate-summary", h.GetClimateSummary},
		{"/api/crop_wildfires", h.GetCropWildfires},
		{"/api/continent_crop_yield", h.GetContinentCropYield},
		{"/api/urban_co2", h.GetUrbanCO2},
		{"/api/urban_wildfires_co2", h.GetUrbanWildfiresCO2},
		{"/api/top_co2_countries", h.GetTopCO2Countries},
		{"/api/urban_majority", h.GetUrbanMajority},
		{"/api/wildfire_hotspots", h.GetWildfireHotspots},
		{"/api/wildfire-vs-crop-yield", h.GetWildfireVsCropYield},
		{"/api/sea_level_vs_co2", h.GetSeaLevelVsCO2},
		{"/state/{state}", h.GetStateSummary},
		{"/state/{state}/seasons", h.GetStateSeasons},
		{"/state/{state}/years", h.GetStateYears},
		{"/best-region-by-crop", h.GetBestRegionByCrop},
		{"/best-temp-range-by-crop", h.GetTempRangeByCrop},
		{"/best-precip-range-by-crop", h.GetPrecipRangeByCrop},
		{"/best-pollution-range-by-crop", h.GetPollutionRangeByCrop},
		{"/best-conditions", h.GetBestConditions},
		{"/crop-trends", h.GetCropTrends},
		{"/best-climate-resilient-crops", h.GetClimateResilientCrops},
		{"/best-crop-by-season", h.GetBestCropBySeason},
		{"/best-season-for-crop", h.GetBestSeasonForCrop},
		{"/best-crop-by-state", h.GetBestCropByState},
		{"/best-crop-by-condition/{axis}", h.GetBestCropByCondition},
	}
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.RouteTagger)

	router.NotFoundHandler = http.HandlerFunc(c.handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(c.handlers.MethodNotAllowed)

	c.endpoints = c.endpoints[:0]
	for _, r := range c.routes() {
		router.HandleFunc(r.path, r.handler).Methods(http.MethodGet)
		c.endpoints = append(c.endpoints, r.path)
	}

	router.HandleFunc("/", c.handlers.GetWelcome).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// buildHandler wraps the router with panic recovery, CORS and access logging
func (c *Controller) buildHandler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.ExposedHeaders([]string{log.RequestIDHeader}),
	)

	return log.HTTPMiddleware(cors(c.recoverPanics(c.setupRouter())), metrics.ObserveHTTP)
}

// recoverPanics logs a handler panic with its stack and answers 500 with the
// usual error envelope.
func (c *Controller) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Errorw("panic serving request",
				"path", req.URL.Path,
				"request_id", log.RequestID(req.Context()),
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			c.handlers.writeError(w, req, http.StatusInternalServerError, msgInternal)
		}()

		next.ServeHTTP(w, req)
	})
}
