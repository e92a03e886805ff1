// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package envloader carrega variáveis de ambiente diretamente para campos de
// uma struct Go, usando as tags `env` e `envDefault`.
//
// Visão Geral:
// Os serviços da frota leem sua configuração uma única vez, na subida do
// processo. O `envloader` percorre a struct por reflection e converte cada
// variável para o tipo do campo: string, int, uint, bool, float e
// time.Duration, além de structs aninhadas (inclusive ponteiros).
//
// Durações aceitam número puro em segundos ("5", "0.5") ou o formato de
// time.ParseDuration ("250ms", "2s"), de modo que SLOW_DURATION=5 continua
// significando cinco segundos.
//
// Camadas:
// LoadWith recebe opções para compor a configuração em camadas:
//   - DefaultsOnly: aplica apenas `envDefault`, sem olhar o ambiente.
//   - WithoutDefaults: aplica apenas o que existe na fonte, preservando valores
//     já preenchidos (ex: vindos de um arquivo YAML).
//   - WithLookup: troca os.LookupEnv por outra fonte (útil em testes).
//
// Exemplo:
//
//   type SlowConf struct {
//       SlowRate     float64       `env:"SLOW_RATE" envDefault:"0.5"`
//       SlowDuration time.Duration `env:"SLOW_DURATION" envDefault:"5"`
//   }
//
//   var cfg SlowConf
//   if err := envloader.Load(&cfg); err != nil {
//       log.Fatal(err)
//   }
//
// Variáveis definidas como string vazia são tratadas como ausentes.
package envloader
