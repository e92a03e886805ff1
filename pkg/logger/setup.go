package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/chaos-fleet/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure inicializa o logger global e devolve um logger com o campo "service".
func Configure(cfg config.LoggingConf, service string) zerolog.Logger {
	return ConfigureWriter(cfg, service, os.Stdout)
}

// ConfigureWriter é o Configure com destino explícito (útil em testes).
func ConfigureWriter(cfg config.LoggingConf, service string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, Console "bonito" para local se solicitado
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	// log.Ctx cai no logger global quando a request não carrega um próprio
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	return logger
}
