package config

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/chaos-fleet/envloader"
	"github.com/raywall/chaos-fleet/pkg/cloud"
	"github.com/raywall/chaos-fleet/pkg/config/injector"
	"gopkg.in/yaml.v3"
)

// SourceEnvVar aponta para um documento YAML opcional com o perfil da frota.
const SourceEnvVar = "FLEET_CONFIG"

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Loader monta a FleetConfig em camadas: defaults < documento (arquivo, S3 ou DynamoDB) < ambiente.
type Loader struct {
	lookup    envloader.LookupFunc
	s3        S3Downloader
	dynamo    DynamoGetter
	injector  *injector.Injector
	validator *ConfigValidator
}

type LoaderOption func(*Loader)

// WithEnv troca os.LookupEnv por outra fonte de variáveis.
func WithEnv(fn envloader.LookupFunc) LoaderOption {
	return func(l *Loader) { l.lookup = fn }
}

func WithS3(client S3Downloader) LoaderOption {
	return func(l *Loader) { l.s3 = client }
}

func WithDynamoDB(client DynamoGetter) LoaderOption {
	return func(l *Loader) { l.dynamo = client }
}

func WithInjector(inj *injector.Injector) LoaderOption {
	return func(l *Loader) { l.injector = inj }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		lookup:    os.LookupEnv,
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.injector == nil {
		l.injector = injector.New(injector.WithLookup(l.lookup))
	}
	return l
}

// Load é o atalho usado pelos binários: lê FLEET_CONFIG (se houver) e o ambiente do processo.
func Load(ctx context.Context) (FleetConfig, error) {
	return NewLoader().Load(ctx, os.Getenv(SourceEnvVar))
}

// Load monta a configuração. source vazio significa apenas defaults + ambiente.
func (l *Loader) Load(ctx context.Context, source string) (FleetConfig, error) {
	var cfg FleetConfig

	// 1. Defaults declarados nas tags
	if err := envloader.LoadWith(&cfg, envloader.DefaultsOnly()); err != nil {
		return FleetConfig{}, fmt.Errorf("defaults inválidos: %w", err)
	}

	// 2. Documento de perfil (opcional)
	if source != "" {
		raw, err := l.read(ctx, source)
		if err != nil {
			return FleetConfig{}, fmt.Errorf("falha leitura config (%s): %w", source, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return FleetConfig{}, fmt.Errorf("YAML malformado: %w", err)
		}
	}

	// 3. Ambiente vence o documento
	if err := envloader.LoadWith(&cfg, envloader.WithoutDefaults(), envloader.WithLookup(l.lookup)); err != nil {
		return FleetConfig{}, err
	}

	// 4. Placeholders ${env.}, ${ssm.}, ${secret.}
	if err := l.injector.Inject(ctx, &cfg); err != nil {
		return FleetConfig{}, fmt.Errorf("falha na injeção de variáveis: %w", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return FleetConfig{}, fmt.Errorf("validação da configuração falhou: %w", err)
	}

	return cfg, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	region, _ := l.lookup("AWS_REGION")

	switch {
	case strings.HasPrefix(source, "s3://"):
		if l.s3 == nil {
			client, err := cloud.S3Client(ctx, region)
			if err != nil {
				return nil, err
			}
			l.s3 = client
		}
		return loadFromS3(ctx, l.s3, source)

	case strings.HasPrefix(source, "dynamodb://"):
		if l.dynamo == nil {
			client, err := cloud.DynamoDBClient(ctx, region)
			if err != nil {
				return nil, err
			}
			l.dynamo = client
		}
		return loadFromDynamoDB(ctx, l.dynamo, source)

	default:
		// Suporta tanto "file://fleet.yaml" quanto apenas "fleet.yaml"
		return os.ReadFile(strings.TrimPrefix(source, "file://"))
	}
}

func loadFromS3(ctx context.Context, client S3Downloader, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("URL S3 incompleta: %s", uri)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// loadFromDynamoDB lê dynamodb://tabela/chave?col=config&pk=id
func loadFromDynamoDB(ctx context.Context, client DynamoGetter, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config"
	}
	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id"
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("item não encontrado no DynamoDB")
	}

	var itemMap map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &itemMap); err != nil {
		return nil, err
	}

	content, ok := itemMap[colName].(string)
	if !ok {
		return nil, fmt.Errorf("coluna '%s' inválida ou vazia no DynamoDB", colName)
	}

	return []byte(content), nil
}
