package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockS3Loader struct {
	GetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *MockS3Loader) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, params, optFns...)
}

type MockDynamoLoader struct {
	GetItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

func (m *MockDynamoLoader) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetItemFunc(ctx, params, optFns...)
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

const profileYAML = `
product:
  profile: basic
  failure_rate: 0.9
slow:
  slow_duration: 250ms
frontend:
  product_url: http://localhost:5001/products
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// --- Testes ---

func TestLoader_Defaults(t *testing.T) {
	loader := NewLoader(WithEnv(env(nil)))

	cfg, err := loader.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultProductURL, cfg.Frontend.ProductURL)
	assert.Equal(t, 2*time.Second, cfg.Frontend.Timeout)
	assert.Equal(t, ProfileFlaky, cfg.Product.Profile)
	assert.Equal(t, 0.3, cfg.Product.FailureRate)
	assert.Equal(t, 0.5, cfg.Slow.SlowRate)
	assert.Equal(t, 5*time.Second, cfg.Slow.SlowDuration)
	assert.Equal(t, 0.2, cfg.Slow.ErrorRate)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, RuntimeLocal, cfg.Server.Runtime)
	assert.True(t, cfg.Logging.Enabled)
	assert.False(t, cfg.Metrics.Datadog.Enabled)
}

func TestLoader_Precedence(t *testing.T) {
	path := writeProfile(t, profileYAML)

	loader := NewLoader(WithEnv(env(map[string]string{
		"FAILURE_RATE": "0",
		"ERROR_RATE":   "1",
	})))

	cfg, err := loader.Load(context.Background(), "file://"+path)
	require.NoError(t, err)

	// Documento vence o default
	assert.Equal(t, ProfileBasic, cfg.Product.Profile)
	assert.Equal(t, 250*time.Millisecond, cfg.Slow.SlowDuration)
	assert.Equal(t, "http://localhost:5001/products", cfg.Frontend.ProductURL)
	// Ambiente vence o documento
	assert.Equal(t, 0.0, cfg.Product.FailureRate)
	assert.Equal(t, 1.0, cfg.Slow.ErrorRate)
	// Campos ausentes em ambos mantêm o default
	assert.Equal(t, 0.5, cfg.Slow.SlowRate)
}

func TestLoader_PlaceholderFromEnv(t *testing.T) {
	loader := NewLoader(WithEnv(env(map[string]string{
		"PRODUCT_URL":  "http://${env.PRODUCT_HOST}:5000/products",
		"PRODUCT_HOST": "catalog",
	})))

	cfg, err := loader.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://catalog:5000/products", cfg.Frontend.ProductURL)
}

func TestLoader_ValidationFailure(t *testing.T) {
	loader := NewLoader(WithEnv(env(map[string]string{"SLOW_RATE": "2"})))

	_, err := loader.Load(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SlowRate")
}

func TestLoader_ConversionFailure(t *testing.T) {
	loader := NewLoader(WithEnv(env(map[string]string{"SLOW_DURATION": "lento"})))

	_, err := loader.Load(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLOW_DURATION")
}

func TestLoader_MissingFileAndBadYAML(t *testing.T) {
	loader := NewLoader(WithEnv(env(nil)))

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nada.yaml"))
	assert.Error(t, err)

	_, err = loader.Load(context.Background(), writeProfile(t, "product: [quebrado"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YAML malformado")
}

func TestLoader_S3(t *testing.T) {
	mock := &MockS3Loader{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			if *params.Bucket != "fleet-bucket" || *params.Key != "profiles/demo.yaml" {
				return nil, errors.New("NoSuchKey")
			}
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(profileYAML))}, nil
		},
	}

	loader := NewLoader(WithEnv(env(nil)), WithS3(mock))

	cfg, err := loader.Load(context.Background(), "s3://fleet-bucket/profiles/demo.yaml")
	require.NoError(t, err)
	assert.Equal(t, ProfileBasic, cfg.Product.Profile)
	assert.Equal(t, 0.9, cfg.Product.FailureRate)

	_, err = loader.Load(context.Background(), "s3://fleet-bucket/outro.yaml")
	assert.Error(t, err)

	_, err = loader.Load(context.Background(), "s3://fleet-bucket")
	assert.Error(t, err)
}

func TestLoader_DynamoDB(t *testing.T) {
	mock := &MockDynamoLoader{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			key, ok := params.Key["profile"].(*types.AttributeValueMemberS)
			if *params.TableName != "fleet-profiles" || !ok || key.Value != "demo" {
				return &dynamodb.GetItemOutput{}, nil
			}
			return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				"profile": &types.AttributeValueMemberS{Value: "demo"},
				"yaml":    &types.AttributeValueMemberS{Value: profileYAML},
			}}, nil
		},
	}

	loader := NewLoader(WithEnv(env(nil)), WithDynamoDB(mock))

	cfg, err := loader.Load(context.Background(), "dynamodb://fleet-profiles/demo?col=yaml&pk=profile")
	require.NoError(t, err)
	assert.Equal(t, ProfileBasic, cfg.Product.Profile)

	_, err = loader.Load(context.Background(), "dynamodb://fleet-profiles/outro?col=yaml&pk=profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item não encontrado")

	_, err = loader.Load(context.Background(), "dynamodb://fleet-profiles/demo?col=inexistente&pk=profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inexistente")
}
