// Package frontend implementa o serviço de borda da frota: GET / busca o
// catálogo no Product Service e o devolve embrulhado.
package frontend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raywall/chaos-fleet/fleet"
	"github.com/raywall/chaos-fleet/pkg/config"
	"github.com/raywall/chaos-fleet/pkg/metrics"
	"github.com/raywall/chaos-fleet/pkg/proxy"
	"github.com/raywall/chaos-fleet/pkg/transport"
	"github.com/rs/zerolog"
)

const ServiceName = "frontend"

// Fetcher abstrai a chamada ao Product Service.
type Fetcher interface {
	GetJSON(ctx context.Context, url string, headers map[string]string) (json.RawMessage, *proxy.Response, error)
}

type Response struct {
	Frontend string          `json:"frontend"`
	Products json.RawMessage `json:"products"`
}

type Handler struct {
	productURL string
	fetcher    Fetcher
	metrics    *metrics.Recorder
}

// New cria o handler com um cliente HTTP próprio, limitado por cfg.Timeout.
func New(cfg config.FrontendConf, rec *metrics.Recorder) *Handler {
	return NewWithFetcher(cfg.ProductURL, proxy.NewClient(cfg.Timeout), rec)
}

func NewWithFetcher(productURL string, fetcher Fetcher, rec *metrics.Recorder) *Handler {
	return &Handler{productURL: productURL, fetcher: fetcher, metrics: rec}
}

// Index faz uma única chamada ao upstream, sem retry nem cache.
// Qualquer falha (conexão, timeout, corpo não-JSON) vira 500 com o texto do erro.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{}
	if id := transport.CorrelationID(r.Context()); id != "" {
		headers[transport.HeaderCorrelationID] = id
	}

	// A chamada não segue o cancelamento do cliente; quem limita é o timeout do proxy
	products, _, err := h.fetcher.GetJSON(context.WithoutCancel(r.Context()), h.productURL, headers)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("upstream", h.productURL).Msg("falha ao consultar product")
		h.metrics.UpstreamError("/")
		fleet.WriteError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	fleet.WriteJSON(w, r, http.StatusOK, Response{Frontend: "ok", Products: products})
}

func (h *Handler) Register(router *mux.Router) {
	fleet.Get(router, "/", h.Index)
}

// Router monta o roteador completo do serviço.
func Router(h *Handler, rec *metrics.Recorder) *mux.Router {
	router := fleet.NewRouter(rec)
	h.Register(router)
	return router
}
