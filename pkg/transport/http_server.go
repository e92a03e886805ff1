package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/chaos-fleet/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type ctxKey string

// ContextKeyCorrID guarda o correlation id no contexto da request.
const ContextKeyCorrID ctxKey = "correlation_id"

// CorrelationID devolve o id associado à request, ou "" fora do middleware.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCorrID).(string)
	return id
}

// Server é um http.Server com desligamento gracioso atrelado a um context.
type Server struct {
	name            string
	srv             *http.Server
	shutdownTimeout time.Duration
}

func NewServer(name, addr string, handler http.Handler, shutdownTimeout time.Duration) *Server {
	return &Server{
		name: name,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) Name() string { return s.name }
func (s *Server) Addr() string { return s.srv.Addr }

// ListenAndServe abre o listener em Addr e serve até ctx ser cancelado.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("%s: falha ao escutar em %s: %w", s.name, s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve atende no listener informado. Ao cancelar ctx, aguarda as requests
// em andamento por até shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log.Info().Str("fleet_service", s.name).Msgf("Servidor HTTP ouvindo em %s", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s: %w", s.name, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	log.Info().Str("fleet_service", s.name).Msg("encerrando servidor HTTP")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", s.name, err)
	}
	return nil
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, strconv.FormatInt(duration.Milliseconds(), 10))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware propaga/gera o correlation id, injeta um logger
// contextual, mede a latência e registra a request no log e nas métricas.
func ObservabilityMiddleware(rec *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, corrID)

			logger := zerolog.Ctx(r.Context()).With().Str("correlation_id", corrID).Logger()
			ctx := logger.WithContext(r.Context())
			ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

			wrapper := &responseWriterWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				startTime:      start,
			}

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			route := routeTemplate(r)
			latency := time.Since(start)
			rec.Request(route, wrapper.statusCode, latency)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", wrapper.statusCode).
				Int64("latency_ms", latency.Milliseconds()).
				Msg("request completed")
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
