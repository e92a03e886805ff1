// Package random abstrai a fonte de aleatoriedade usada na injeção de falhas,
// permitindo que os testes forneçam sequências determinísticas.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source produz valores uniformes em [0,1).
type Source interface {
	Float64() float64
}

// lockedSource protege um *rand.Rand, que não é seguro para uso concorrente.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// New retorna a fonte de produção, semeada pelo runtime.
func New() Source {
	return globalSource{}
}

// NewSeeded retorna uma fonte reprodutível (PCG) para simulações e testes estatísticos.
func NewSeeded(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// globalSource usa o gerador global de math/rand/v2, já seguro para concorrência.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Sequence devolve os valores na ordem informada, recomeçando ao final.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws informa quantos valores já foram consumidos.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Fixed sempre devolve o mesmo valor.
type Fixed float64

func (f Fixed) Float64() float64 { return float64(f) }
