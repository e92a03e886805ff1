// Package delay fornece a suspensão temporizada usada para simular lentidão.
// A espera ocupa apenas a goroutine da request corrente.
package delay

import (
	"context"
	"sync"
	"time"
)

// Sleeper suspende a request atual por d, ou até ctx ser cancelado.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper é a implementação de produção baseada em time.Timer.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recorder não dorme, apenas registra as durações pedidas.
type Recorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.calls = append(r.calls, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Calls devolve uma cópia das durações registradas.
func (r *Recorder) Calls() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.calls))
	copy(out, r.calls)
	return out
}
