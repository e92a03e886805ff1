// Package product implementa o Product Service. Os perfis "basic" e "flaky"
// são duas configurações do mesmo componente.
package product

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raywall/chaos-fleet/fleet"
	"github.com/raywall/chaos-fleet/pkg/config"
	"github.com/raywall/chaos-fleet/pkg/metrics"
	"github.com/raywall/chaos-fleet/pkg/random"
	"github.com/rs/zerolog"
)

const ServiceName = "product"

const (
	msgDatabaseFailure = "Database connection failed"
	msgUnavailable     = "Service temporarily unavailable"
)

var catalog = []fleet.Item{
	{ID: 1, Name: "Widget"},
	{ID: 2, Name: "Gadget"},
}

// Catalog devolve uma cópia do catálogo fixo.
func Catalog() []fleet.Item {
	out := make([]fleet.Item, len(catalog))
	copy(out, catalog)
	return out
}

type Handler struct {
	profile     string
	failureRate float64
	rng         random.Source
	metrics     *metrics.Recorder
}

func New(cfg config.ProductConf, rng random.Source, rec *metrics.Recorder) *Handler {
	if rng == nil {
		rng = random.New()
	}
	return &Handler{
		profile:     cfg.Profile,
		failureRate: cfg.FailureRate,
		rng:         rng,
		metrics:     rec,
	}
}

func (h *Handler) flaky() bool {
	return h.profile == config.ProfileFlaky
}

// fails sorteia um valor novo a cada chamada.
func (h *Handler) fails() bool {
	return h.rng.Float64() < h.failureRate
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	fleet.WriteJSON(w, r, http.StatusOK, map[string]string{"service": "product", "status": "ok"})
}

// Products devolve o catálogo; no perfil flaky pode falhar com 503.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.flaky() && h.fails() {
		h.fault(w, r, "/products", http.StatusServiceUnavailable, msgDatabaseFailure)
		return
	}
	fleet.WriteJSON(w, r, http.StatusOK, Catalog())
}

// Flaky sorteia de forma independente de /products.
func (h *Handler) Flaky(w http.ResponseWriter, r *http.Request) {
	if h.fails() {
		h.fault(w, r, "/flaky", http.StatusInternalServerError, msgUnavailable)
		return
	}
	fleet.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "message": "Request succeeded"})
}

func (h *Handler) fault(w http.ResponseWriter, r *http.Request, route string, status int, msg string) {
	zerolog.Ctx(r.Context()).Debug().Str("route", route).Int("status", status).Msg("falha injetada")
	h.metrics.Fault(route, status)
	fleet.WriteError(w, r, status, msg)
}

// Register expõe /flaky apenas no perfil flaky.
func (h *Handler) Register(router *mux.Router) {
	fleet.Get(router, "/", h.Root)
	fleet.Get(router, "/products", h.Products)
	if h.flaky() {
		fleet.Get(router, "/flaky", h.Flaky)
	}
}

func Router(h *Handler, rec *metrics.Recorder) *mux.Router {
	router := fleet.NewRouter(rec)
	h.Register(router)
	return router
}
