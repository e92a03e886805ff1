package fleet

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/raywall/chaos-fleet/pkg/transport"
)

// Service descreve um serviço pronto para subir: nome, endereço e handler.
type Service struct {
	Name    string
	Addr    string
	Handler http.Handler
}

// Launcher sobe um ou mais serviços, cada um em seu próprio listener.
type Launcher struct {
	services        []Service
	shutdownTimeout time.Duration

	// Injetável para testes
	start func(ctx context.Context, srv *transport.Server) error
}

func NewLauncher(shutdownTimeout time.Duration, services ...Service) *Launcher {
	return &Launcher{
		services:        services,
		shutdownTimeout: shutdownTimeout,
		start: func(ctx context.Context, srv *transport.Server) error {
			return srv.ListenAndServe(ctx)
		},
	}
}

// Run bloqueia até ctx ser cancelado ou algum servidor falhar.
// A falha de um servidor derruba os demais; o primeiro erro é devolvido.
func (l *Launcher) Run(ctx context.Context) error {
	if len(l.services) == 0 {
		return errors.New("nenhum serviço para iniciar")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	for _, svc := range l.services {
		srv := transport.NewServer(svc.Name, svc.Addr, svc.Handler, l.shutdownTimeout)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.start(ctx, srv); err != nil {
				once.Do(func() { firstErr = err })
				cancel()
			}
		}()
	}

	wg.Wait()
	return firstErr
}
