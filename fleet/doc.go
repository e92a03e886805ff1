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
// Package fleet reúne as peças comuns da frota de serviços simulados usada
// para demonstrar modos de falha de sistemas distribuídos.
//
// Visão Geral:
// A frota é composta por três serviços HTTP independentes, que só conversam
// entre si pela rede:
//   - frontend: GET / chama o Product Service (timeout de 2s, sem retry) e
//     embrulha o JSON recebido.
//   - product: catálogo fixo de dois itens, em dois perfis. O perfil "basic"
//     nunca falha; o perfil "flaky" devolve erros aleatórios com FAILURE_RATE.
//   - slow: /api/data injeta erro (ERROR_RATE) e, se não houver erro,
//     latência (SLOW_RATE, SLOW_DURATION).
//
// Nenhum handler guarda estado entre requests. A configuração é imutável e
// chega aos handlers por injeção, assim como a fonte de aleatoriedade
// (random.Source) e a primitiva de espera (delay.Sleeper), o que permite
// testes determinísticos.
//
// Este pacote fornece:
//   - Item e ErrorBody: formatos JSON compartilhados.
//   - WriteJSON: escrita padronizada das respostas.
//   - NewRouter: roteador gorilla/mux com middleware de observabilidade e
//     respostas JSON para 404/405.
//   - Launcher: sobe vários serviços no mesmo processo (modo "all") e os
//     encerra juntos.
//
// Exemplo (modo "all" programático):
//
//	launcher := fleet.NewLauncher(10*time.Second,
//	    fleet.Service{Name: "product", Addr: ":5001", Handler: productRouter},
//	    fleet.Service{Name: "frontend", Addr: ":5000", Handler: frontendRouter},
//	)
//	if err := launcher.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package fleet
