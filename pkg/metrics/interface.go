package metrics

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por Prometheus ou Logging sem alterar a lógica de negócio.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// MetricType define os tipos suportados.
type MetricType string

const (
	TypeCount     MetricType = "count"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

// MetricDefinition armazena os metadados da métrica (nome real, tipo).
type MetricDefinition struct {
	Name string
	Type MetricType
}

// IDs das métricas emitidas pela frota
const (
	MetricRequests      = "requests"
	MetricLatency       = "latency"
	MetricFaultInjected = "fault_injected"
	MetricDelayInjected = "delay_injected"
	MetricUpstreamError = "upstream_error"
)

// DefaultDefinitions mapeia cada ID para o nome publicado no provider.
var DefaultDefinitions = map[string]MetricDefinition{
	MetricRequests:      {Name: "http.requests", Type: TypeCount},
	MetricLatency:       {Name: "http.latency_ms", Type: TypeHistogram},
	MetricFaultInjected: {Name: "fault.injected", Type: TypeCount},
	MetricDelayInjected: {Name: "delay.injected", Type: TypeCount},
	MetricUpstreamError: {Name: "upstream.errors", Type: TypeCount},
}
