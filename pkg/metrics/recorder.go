package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder traduz os eventos da frota (requests, falhas e atrasos injetados)
// em chamadas ao Provider. Falhas de envio são logadas e nunca afetam a request.
type Recorder struct {
	service     string
	definitions map[string]MetricDefinition
	provider    Provider
}

// NewRecorder cria um Recorder para o serviço informado. provider nil equivale a no-op.
func NewRecorder(service string, provider Provider) *Recorder {
	return &Recorder{
		service:     service,
		definitions: DefaultDefinitions,
		provider:    provider,
	}
}

// Request registra a conclusão de uma request HTTP.
func (r *Recorder) Request(route string, status int, latency time.Duration) {
	tags := r.tags("route:"+route, "status:"+strconv.Itoa(status))
	r.emit(MetricRequests, 1, tags)
	r.emit(MetricLatency, float64(latency.Milliseconds()), tags)
}

// Fault registra uma falha simulada devolvida ao cliente.
func (r *Recorder) Fault(route string, status int) {
	r.emit(MetricFaultInjected, 1, r.tags("route:"+route, "status:"+strconv.Itoa(status)))
}

// Delay registra uma latência simulada.
func (r *Recorder) Delay(route string, d time.Duration) {
	r.emit(MetricDelayInjected, 1, r.tags("route:"+route, "duration_ms:"+strconv.FormatInt(d.Milliseconds(), 10)))
}

// UpstreamError registra uma falha na chamada a outro serviço da frota.
func (r *Recorder) UpstreamError(route string) {
	r.emit(MetricUpstreamError, 1, r.tags("route:"+route))
}

func (r *Recorder) tags(extra ...string) []string {
	if r == nil {
		return nil
	}
	return append([]string{"service:" + r.service}, extra...)
}

func (r *Recorder) emit(id string, value float64, tags []string) {
	if r == nil || r.provider == nil {
		return
	}
	if err := r.send(id, value, tags); err != nil {
		log.Debug().Err(err).Str("metric", id).Msg("falha ao enviar métrica")
	}
}

func (r *Recorder) send(id string, value float64, tags []string) error {
	def, exists := r.definitions[id]
	if !exists {
		return fmt.Errorf("métrica não definida: %s", id)
	}

	switch def.Type {
	case TypeCount:
		return r.provider.Count(def.Name, value, tags)
	case TypeGauge:
		return r.provider.Gauge(def.Name, value, tags)
	case TypeHistogram:
		return r.provider.Histogram(def.Name, value, tags)
	default:
		return fmt.Errorf("tipo de métrica desconhecido: %s", def.Type)
	}
}
