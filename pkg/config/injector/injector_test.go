package injector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/raywall/chaos-fleet/pkg/config/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSSM struct {
	values map[string]string
	calls  int
}

func (m *mockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	m.calls++
	v, ok := m.values[*params.Name]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: &v}}, nil
}

type mockSecrets struct {
	values map[string]string
}

func (m *mockSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	v, ok := m.values[*params.SecretId]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: &v}, nil
}

type testConfig struct {
	ProductURL string
	Namespace  string
	Rate       float64
	Nested     *nestedConfig
	hidden     string
}

type nestedConfig struct {
	Addr string
}

func lookup(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestInjector_Inject_Environment(t *testing.T) {
	inj := injector.New(injector.WithLookup(lookup(map[string]string{
		"PRODUCT_HOST": "product.internal",
		"REGION":       "sa-east-1",
	})))

	target := &testConfig{
		ProductURL: "http://${env.PRODUCT_HOST}:5000/products",
		Namespace:  "fleet.${env.REGION}.",
		Rate:       0.3,
		Nested:     &nestedConfig{Addr: "${env.MISSING}"},
		hidden:     "${env.PRODUCT_HOST}",
	}

	require.NoError(t, inj.Inject(context.Background(), target))

	assert.Equal(t, "http://product.internal:5000/products", target.ProductURL)
	assert.Equal(t, "fleet.sa-east-1.", target.Namespace)
	assert.Equal(t, 0.3, target.Rate)
	assert.Equal(t, "", target.Nested.Addr, "Variável ausente vira string vazia")
	assert.Equal(t, "${env.PRODUCT_HOST}", target.hidden, "Campos não exportados não são tocados")
}

func TestInjector_Inject_SSMAndSecrets(t *testing.T) {
	ssmMock := &mockSSM{values: map[string]string{"/fleet/product_url": "http://product:5000/products"}}
	secretsMock := &mockSecrets{values: map[string]string{
		"fleet/datadog": `{"host":"dd-agent:8125","port":8125}`,
		"fleet/raw":     "plain-value",
	}}

	inj := injector.New(injector.WithSSM(ssmMock), injector.WithSecrets(secretsMock))

	target := &testConfig{
		ProductURL: "${ssm./fleet/product_url}",
		Namespace:  "${secret.fleet/raw}",
		Nested:     &nestedConfig{Addr: "${secret.fleet/datadog#host}"},
	}

	require.NoError(t, inj.Inject(context.Background(), target))

	assert.Equal(t, "http://product:5000/products", target.ProductURL)
	assert.Equal(t, "plain-value", target.Namespace)
	assert.Equal(t, "dd-agent:8125", target.Nested.Addr)
	assert.Equal(t, 1, ssmMock.calls)
}

func TestInjector_Inject_Errors(t *testing.T) {
	inj := injector.New(
		injector.WithSSM(&mockSSM{values: map[string]string{}}),
		injector.WithSecrets(&mockSecrets{values: map[string]string{"fleet/raw": "x"}}),
	)

	err := inj.Inject(context.Background(), &testConfig{ProductURL: "${ssm./nope}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProductURL")
	assert.Contains(t, err.Error(), "/nope")

	err = inj.Inject(context.Background(), &testConfig{Namespace: "${secret.fleet/raw#field}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não é JSON")

	err = inj.Inject(context.Background(), testConfig{})
	assert.Error(t, err)
}
