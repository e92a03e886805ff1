package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/chaos-fleet/pkg/cloud"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.PRODUCT_HOST}, ${ssm./fleet/product_url}, ${secret.fleet#dd_host}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Injector resolve placeholders em campos string de uma struct de configuração.
type Injector struct {
	lookup  func(string) (string, bool)
	ssm     SSMClient
	secrets SecretsClient
	region  string
}

type Option func(*Injector)

func WithLookup(fn func(string) (string, bool)) Option {
	return func(i *Injector) { i.lookup = fn }
}

func WithSSM(c SSMClient) Option {
	return func(i *Injector) { i.ssm = c }
}

func WithSecrets(c SecretsClient) Option {
	return func(i *Injector) { i.secrets = c }
}

func New(opts ...Option) *Injector {
	i := &Injector{
		lookup: os.LookupEnv,
		region: os.Getenv("AWS_REGION"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			field := v.Field(k)
			if !field.CanSet() {
				continue
			}
			if err := i.injectRecursive(ctx, field); err != nil {
				return fmt.Errorf("%s: %w", v.Type().Field(k).Name, err)
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		sub := pattern.FindStringSubmatch(match)

		val, resolveErr := i.fetchValue(ctx, sub[1], sub[2])
		if resolveErr != nil {
			err = resolveErr
			return match
		}
		return val
	})

	return result, err
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		val, _ := i.lookup(key)
		return val, nil

	case "ssm":
		if i.ssm == nil {
			client, err := cloud.SSMClient(ctx, i.region)
			if err != nil {
				return "", err
			}
			i.ssm = client
		}
		return getParameter(ctx, i.ssm, key)

	case "secret":
		if i.secrets == nil {
			client, err := cloud.SecretsClient(ctx, i.region)
			if err != nil {
				return "", err
			}
			i.secrets = client
		}
		return getSecret(ctx, i.secrets, key)
	}

	return "", fmt.Errorf("fonte desconhecida: %s", sourceType)
}

func getParameter(ctx context.Context, client SSMClient, path string) (string, error) {
	decrypt := true
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &path,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter (%s): %w", path, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro SSM vazio: %s", path)
	}
	return *out.Parameter.Value, nil
}

// getSecret aceita "id" (valor bruto) ou "id#campo" para segredos em JSON.
func getSecret(ctx context.Context, client SecretsClient, key string) (string, error) {
	secretID, field, hasField := strings.Cut(key, "#")

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager (%s): %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("segredo sem SecretString: %s", secretID)
	}
	if !hasField {
		return *out.SecretString, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(*out.SecretString), &data); err != nil {
		return "", fmt.Errorf("segredo %s não é JSON: %w", secretID, err)
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("campo '%s' ausente no segredo %s", field, secretID)
	}
	return fmt.Sprintf("%v", val), nil
}
