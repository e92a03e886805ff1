// Package slow implementa o Slow Service, que injeta erro e latência em /api/data.
package slow

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/chaos-fleet/fleet"
	"github.com/raywall/chaos-fleet/pkg/config"
	"github.com/raywall/chaos-fleet/pkg/delay"
	"github.com/raywall/chaos-fleet/pkg/metrics"
	"github.com/raywall/chaos-fleet/pkg/random"
	"github.com/rs/zerolog"
)

const ServiceName = "slow"

var dataset = []fleet.Item{
	{ID: 1, Name: "Item 1"},
	{ID: 2, Name: "Item 2"},
	{ID: 3, Name: "Item 3"},
}

type DataResponse struct {
	Message string       `json:"message"`
	Data    []fleet.Item `json:"data"`
}

type Handler struct {
	slowRate     float64
	slowDuration time.Duration
	errorRate    float64
	rng          random.Source
	sleeper      delay.Sleeper
	metrics      *metrics.Recorder
}

func New(cfg config.SlowConf, rng random.Source, sleeper delay.Sleeper, rec *metrics.Recorder) *Handler {
	if rng == nil {
		rng = random.New()
	}
	if sleeper == nil {
		sleeper = delay.TimerSleeper{}
	}
	return &Handler{
		slowRate:     cfg.SlowRate,
		slowDuration: cfg.SlowDuration,
		errorRate:    cfg.ErrorRate,
		rng:          rng,
		sleeper:      sleeper,
		metrics:      rec,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	fleet.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) Fast(w http.ResponseWriter, r *http.Request) {
	fleet.WriteJSON(w, r, http.StatusOK, map[string]string{"message": "Fast response"})
}

// Data checa o erro antes da lentidão: uma request que falha nunca espera.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if h.rng.Float64() < h.errorRate {
		logger.Debug().Msg("erro injetado em /api/data")
		h.metrics.Fault("/api/data", http.StatusServiceUnavailable)
		fleet.WriteError(w, r, http.StatusServiceUnavailable, "Internal server error")
		return
	}

	if h.rng.Float64() < h.slowRate {
		logger.Debug().Dur("delay", h.slowDuration).Msg("latência injetada em /api/data")
		h.metrics.Delay("/api/data", h.slowDuration)
		if err := h.sleeper.Sleep(r.Context(), h.slowDuration); err != nil {
			// Cliente desistiu; não há para quem responder
			logger.Debug().Err(err).Msg("espera interrompida")
			return
		}
	}

	fleet.WriteJSON(w, r, http.StatusOK, DataResponse{Message: "Success", Data: dataset})
}

func (h *Handler) Register(router *mux.Router) {
	fleet.Get(router, "/health", h.Health)
	fleet.Get(router, "/api/data", h.Data)
	fleet.Get(router, "/api/fast", h.Fast)
}

func Router(h *Handler, rec *metrics.Recorder) *mux.Router {
	router := fleet.NewRouter(rec)
	h.Register(router)
	return router
}
