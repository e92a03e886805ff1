package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// LookupFunc resolve o valor de uma variável. Segue a assinatura de os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type options struct {
	lookup       LookupFunc
	skipDefaults bool
}

// Option altera o comportamento de LoadWith.
type Option func(*options)

// WithLookup troca a fonte das variáveis (padrão: os.LookupEnv).
func WithLookup(fn LookupFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.lookup = fn
		}
	}
}

// WithoutDefaults ignora as tags "envDefault", aplicando apenas valores presentes na fonte.
// Útil quando a struct já foi pré-preenchida por outra camada (ex: arquivo YAML).
func WithoutDefaults() Option {
	return func(o *options) {
		o.skipDefaults = true
	}
}

// DefaultsOnly aplica somente as tags "envDefault", sem consultar o ambiente.
func DefaultsOnly() Option {
	return WithLookup(func(string) (string, bool) { return "", false })
}

// Load preenche uma struct com valores de variáveis de ambiente
// baseado nas tags "env" e "envDefault"
func Load(config interface{}) error {
	return LoadWith(config)
}

// LoadWith é a versão configurável de Load.
func LoadWith(config interface{}, opts ...Option) error {
	o := &options{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(o)
	}

	val := reflect.ValueOf(config)
	if !val.IsValid() {
		return &InvalidConfigError{}
	}
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}

	return loadStruct(val.Elem(), o)
}

// loadStruct processa recursivamente uma struct
func loadStruct(val reflect.Value, o *options) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStruct(field, o); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := loadStruct(field.Elem(), o); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		// Variável vazia conta como ausente
		envValue, _ := o.lookup(envTag)
		if envValue == "" && !o.skipDefaults {
			envValue = fieldType.Tag.Get("envDefault")
		}

		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    envTag,
				Value:     envValue,
				Err:       err,
			}
		}
	}

	return nil
}

// setFieldValue define o valor de um campo baseado no seu tipo
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	// time.Duration precisa vir antes do case Int64
	if field.Type() == durationType {
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}

// parseDuration aceita número puro (segundos, ex: "5" ou "0.5") ou o formato
// de time.ParseDuration (ex: "250ms").
func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(value)
}

// MustLoad é similar ao Load, mas panic em caso de erro
func MustLoad(config interface{}) {
	if err := Load(config); err != nil {
		panic(err)
	}
}
