package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/chaos-fleet/fleet"
	"github.com/raywall/chaos-fleet/fleet/frontend"
	"github.com/raywall/chaos-fleet/fleet/product"
	"github.com/raywall/chaos-fleet/fleet/slow"
	"github.com/raywall/chaos-fleet/pkg/config"
	"github.com/raywall/chaos-fleet/pkg/logger"
	"github.com/raywall/chaos-fleet/pkg/metrics"
	"github.com/raywall/chaos-fleet/pkg/observability"
	"github.com/raywall/chaos-fleet/pkg/transport"
	"github.com/rs/zerolog/log"
)

const targetAll = "all"

var (
	// Variáveis injetáveis para mocking
	launch = func(ctx context.Context, l *fleet.Launcher) error {
		return l.Run(ctx)
	}
	lambdaStarter = lambda.Start
	newLoader     = func() *config.Loader { return config.NewLoader() }
)

func main() {
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	configPtr := serveCmd.String("config", "", "URI do perfil YAML (padrão: $FLEET_CONFIG)")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	filePtr := validateCmd.String("file", "", "Caminho do arquivo YAML ou S3/DynamoDB URI")

	if len(os.Args) < 2 {
		fmt.Println("Comandos esperados: serve <frontend|product|slow|all>, validate -file <uri>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveCmd.Parse(os.Args[2:])
		target := serveCmd.Arg(0)
		if target == "" {
			fmt.Println("Erro: informe o serviço (frontend, product, slow ou all)")
			os.Exit(1)
		}
		source := *configPtr
		if source == "" {
			source = os.Getenv(config.SourceEnvVar)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := run(ctx, target, source)
		stop()
		if err != nil {
			log.Fatal().Err(err).Str("target", target).Msg("FATAL: frota encerrada com erro")
		}
	case "validate":
		validateCmd.Parse(os.Args[2:])
		if *filePtr == "" {
			fmt.Println("Erro: flag -file é obrigatória")
			os.Exit(1)
		}
		if err := runValidate(context.Background(), *filePtr, os.Stdout); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Println("Comando desconhecido")
		os.Exit(1)
	}
}

// run carrega a configuração e sobe o(s) serviço(s) no runtime escolhido.
func run(ctx context.Context, target, source string) error {
	cfg, err := newLoader().Load(ctx, source)
	if err != nil {
		return err
	}

	services, closers, err := buildServices(cfg, target)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("falha ao fechar provedor de métricas")
			}
		}
	}()

	log.Info().
		Str("target", target).
		Str("runtime", cfg.Server.Runtime).
		Int("services", len(services)).
		Msg("Iniciando frota")

	switch cfg.Server.Runtime {
	case config.RuntimeLocal:
		return launch(ctx, fleet.NewLauncher(cfg.Server.ShutdownTimeout, services...))
	case config.RuntimeLambda:
		if len(services) != 1 {
			return fmt.Errorf("runtime lambda aceita um único serviço, recebido: %s", target)
		}
		lambdaStarter(transport.NewLambdaHandler(services[0].Handler).Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Server.Runtime)
	}
}

func buildServices(cfg config.FleetConfig, target string) ([]fleet.Service, []observability.Provider, error) {
	logName := target
	if target == targetAll {
		logName = "fleet"
	}
	logger.Configure(cfg.Logging, logName)

	var names []string
	switch target {
	case frontend.ServiceName, product.ServiceName, slow.ServiceName:
		names = []string{target}
	case targetAll:
		names = []string{frontend.ServiceName, product.ServiceName, slow.ServiceName}
	default:
		return nil, nil, fmt.Errorf("serviço desconhecido: %s", target)
	}

	var (
		services []fleet.Service
		closers  []observability.Provider
	)
	for _, name := range names {
		provider, err := observability.SetupMetrics(cfg.Metrics, name)
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, nil, err
		}
		closers = append(closers, provider)

		rec := metrics.NewRecorder(name, provider)
		services = append(services, fleet.Service{
			Name:    name,
			Addr:    addrFor(cfg, name, target == targetAll),
			Handler: routerFor(cfg, name, target == targetAll, rec),
		})
	}

	return services, closers, nil
}

func routerFor(cfg config.FleetConfig, name string, all bool, rec *metrics.Recorder) http.Handler {
	switch name {
	case frontend.ServiceName:
		return frontend.Router(frontend.New(frontendConf(cfg, all), rec), rec)
	case product.ServiceName:
		return product.Router(product.New(cfg.Product, nil, rec), rec)
	default:
		return slow.Router(slow.New(cfg.Slow, nil, nil, rec), rec)
	}
}

// frontendConf aponta o frontend para o product do mesmo processo no modo all,
// a menos que PRODUCT_URL tenha sido trocada.
func frontendConf(cfg config.FleetConfig, all bool) config.FrontendConf {
	fc := cfg.Frontend
	if all && fc.ProductURL == config.DefaultProductURL {
		addr := net.JoinHostPort(dialHost(cfg.Server.Host), strconv.Itoa(cfg.Launcher.ProductPort))
		fc.ProductURL = "http://" + addr + "/products"
	}
	return fc
}

// dialHost troca endereços curinga pelo loopback.
func dialHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "127.0.0.1"
	}
	return host
}

// addrFor usa PORT para um serviço isolado e as portas do launcher no modo all.
func addrFor(cfg config.FleetConfig, name string, all bool) string {
	if !all {
		return cfg.Server.Addr()
	}
	port := cfg.Launcher.SlowPort
	switch name {
	case frontend.ServiceName:
		port = cfg.Launcher.FrontendPort
	case product.ServiceName:
		port = cfg.Launcher.ProductPort
	}
	return net.JoinHostPort(cfg.Server.Host, strconv.Itoa(port))
}

// runValidate carrega e valida um perfil sem subir nenhum serviço.
func runValidate(ctx context.Context, source string, out io.Writer) error {
	fmt.Fprintf(out, "🔍 Analisando configuração: %s ...\n", source)

	cfg, err := newLoader().Load(ctx, source)
	if err != nil {
		return fmt.Errorf("erro de carregamento/estrutura:\n%w", err)
	}

	if os.Getenv("OUTPUT_FORMAT") == "json" {
		raw, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(raw))
		return nil
	}

	fmt.Fprintln(out, "✅ Configuração válida e pronta para deploy!")
	return nil
}
