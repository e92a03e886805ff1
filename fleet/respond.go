package fleet

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raywall/chaos-fleet/pkg/metrics"
	"github.com/raywall/chaos-fleet/pkg/transport"
	"github.com/rs/zerolog"
)

// Item é a entrada de catálogo devolvida pelos serviços.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ErrorBody é o corpo de toda resposta de erro: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON serializa body com o status informado.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("erro ao encode response")
	}
}

// WriteError é o atalho para {"error": msg}.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSON(w, r, status, ErrorBody{Error: msg})
}

// NewRouter cria o roteador base de um serviço da frota.
func NewRouter(rec *metrics.Recorder) *mux.Router {
	router := mux.NewRouter()
	router.Use(transport.ObservabilityMiddleware(rec))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}

// Get registra uma rota GET (e HEAD) no roteador.
func Get(router *mux.Router, path string, h http.HandlerFunc) {
	router.HandleFunc(path, h).Methods(http.MethodGet, http.MethodHead)
}
