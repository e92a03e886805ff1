package config

import (
	"net"
	"strconv"
	"time"
)

// Perfis do Product Service
const (
	ProfileBasic = "basic"
	ProfileFlaky = "flaky"
)

// DefaultProductURL é o upstream do frontend quando PRODUCT_URL não é informada.
const DefaultProductURL = "http://product:5000/products"

// Runtimes suportados
const (
	RuntimeLocal  = "local"
	RuntimeLambda = "lambda"
)

// FleetConfig é a configuração imutável de um processo da frota.
// É montada uma única vez na subida (defaults < arquivo < ambiente) e
// repassada explicitamente para cada handler.
type FleetConfig struct {
	Server   ServerConf   `yaml:"server"`
	Frontend FrontendConf `yaml:"frontend"`
	Product  ProductConf  `yaml:"product"`
	Slow     SlowConf     `yaml:"slow"`
	Launcher LauncherConf `yaml:"launcher"`
	Logging  LoggingConf  `yaml:"logging"`
	Metrics  MetricsConf  `yaml:"metrics"`
}

type ServerConf struct {
	Host            string        `yaml:"host" env:"HOST" envDefault:"0.0.0.0" validate:"required"`
	Port            int           `yaml:"port" env:"PORT" envDefault:"5000" validate:"gte=1,lte=65535"`
	Runtime         string        `yaml:"runtime" env:"FLEET_RUNTIME" envDefault:"local" validate:"oneof=local lambda"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gte=0"`
}

// FrontendConf configura a chamada síncrona ao Product Service.
type FrontendConf struct {
	ProductURL string        `yaml:"product_url" env:"PRODUCT_URL" envDefault:"http://product:5000/products" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" env:"FRONTEND_TIMEOUT" envDefault:"2s" validate:"gt=0"`
}

type ProductConf struct {
	Profile     string  `yaml:"profile" env:"PRODUCT_PROFILE" envDefault:"flaky" validate:"oneof=basic flaky"`
	FailureRate float64 `yaml:"failure_rate" env:"FAILURE_RATE" envDefault:"0.3" validate:"gte=0,lte=1"`
}

// SlowConf controla a injeção de erro e de latência em /api/data.
type SlowConf struct {
	SlowRate     float64       `yaml:"slow_rate" env:"SLOW_RATE" envDefault:"0.5" validate:"gte=0,lte=1"`
	SlowDuration time.Duration `yaml:"slow_duration" env:"SLOW_DURATION" envDefault:"5" validate:"gte=0"`
	ErrorRate    float64       `yaml:"error_rate" env:"ERROR_RATE" envDefault:"0.2" validate:"gte=0,lte=1"`
}

// LauncherConf define as portas usadas quando todos os serviços sobem no mesmo processo.
type LauncherConf struct {
	FrontendPort int `yaml:"frontend_port" env:"FRONTEND_PORT" envDefault:"5000" validate:"gte=1,lte=65535"`
	ProductPort  int `yaml:"product_port" env:"PRODUCT_PORT" envDefault:"5001" validate:"gte=1,lte=65535"`
	SlowPort     int `yaml:"slow_port" env:"SLOW_PORT" envDefault:"5002" validate:"gte=1,lte=65535"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED" envDefault:"false"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"chaos_fleet."`
}

// Addr retorna o endereço de escuta no formato host:porta.
func (s ServerConf) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
