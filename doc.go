// Package chaosfleet reúne uma pequena frota de microserviços usada para
// demonstrar falhas comuns de sistemas distribuídos.
//
// Visão Geral:
// Cada serviço é independente e só conversa com os outros via HTTP:
// 1. frontend: GET / busca o catálogo no Product Service e o devolve embrulhado.
// 2. product: catálogo fixo, com o perfil "flaky" injetando falhas aleatórias.
// 3. slow: /api/data injeta erro e latência conforme ERROR_RATE e SLOW_RATE.
//
// Sub-Pacotes Principais:
//
// 1. envloader:
//   - Carregamento de configurações via tags "env" e "envDefault".
//
// 2. pkg/config:
//   - FleetConfig imutável, montada em camadas (defaults < YAML < ambiente).
//   - Perfis lidos de arquivo, S3 ou DynamoDB; placeholders resolvidos no SSM e no Secrets Manager.
//
// 3. fleet:
//   - Handlers dos serviços e o Launcher que sobe vários deles no mesmo processo.
//
// Exemplo de Início Rápido:
//
//	PRODUCT_PROFILE=basic go run ./cmd/fleet serve all
//	curl localhost:5000/
//
// Para rodar um único serviço atrás do API Gateway:
//
//	FLEET_RUNTIME=lambda ./fleet serve slow
package chaosfleet
