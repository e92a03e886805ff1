package envloader

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLookup cria uma fonte de variáveis isolada do ambiente do processo
func mapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_StringFields(t *testing.T) {
	type Config struct {
		ProductURL string `env:"TEST_PRODUCT_URL" envDefault:"http://product:5000/products"`
		Host       string `env:"TEST_HOST" envDefault:"0.0.0.0"`
	}

	config := &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, "http://product:5000/products", config.ProductURL)
	assert.Equal(t, "0.0.0.0", config.Host)

	t.Setenv("TEST_PRODUCT_URL", "http://localhost:5001/products")

	config2 := &Config{}
	require.NoError(t, Load(config2))
	assert.Equal(t, "http://localhost:5001/products", config2.ProductURL)
	assert.Equal(t, "0.0.0.0", config2.Host)
}

func TestLoad_NumericFields(t *testing.T) {
	type Config struct {
		Port        int     `env:"PORT" envDefault:"5000"`
		MaxConn     int32   `env:"MAX_CONNECTIONS" envDefault:"100"`
		MaxFileSize uint64  `env:"MAX_FILE_SIZE" envDefault:"1048576"`
		FailureRate float64 `env:"FAILURE_RATE" envDefault:"0.3"`
		Ratio       float32 `env:"RATIO" envDefault:"1.5"`
	}

	config := &Config{}
	require.NoError(t, LoadWith(config, DefaultsOnly()))

	assert.Equal(t, 5000, config.Port)
	assert.Equal(t, int32(100), config.MaxConn)
	assert.Equal(t, uint64(1048576), config.MaxFileSize)
	assert.Equal(t, 0.3, config.FailureRate)
	assert.Equal(t, float32(1.5), config.Ratio)

	config2 := &Config{}
	err := LoadWith(config2, WithLookup(mapLookup(map[string]string{
		"PORT":         "9090",
		"FAILURE_RATE": "1",
	})))
	require.NoError(t, err)
	assert.Equal(t, 9090, config2.Port)
	assert.Equal(t, 1.0, config2.FailureRate)
}

func TestLoad_BoolFields(t *testing.T) {
	type Config struct {
		Enabled  bool `env:"LOG_ENABLED" envDefault:"true"`
		Datadog  bool `env:"DD_ENABLED" envDefault:"false"`
		FeatureX bool `env:"FEATURE_X" envDefault:"1"`
	}

	config := &Config{}
	require.NoError(t, LoadWith(config, WithLookup(mapLookup(map[string]string{"DD_ENABLED": "TRUE"}))))

	assert.True(t, config.Enabled)
	assert.True(t, config.Datadog)
	assert.True(t, config.FeatureX)
}

func TestLoad_DurationFields(t *testing.T) {
	type Config struct {
		SlowDuration time.Duration `env:"SLOW_DURATION" envDefault:"5"`
		Timeout      time.Duration `env:"TIMEOUT" envDefault:"2s"`
		Half         time.Duration `env:"HALF" envDefault:"0.5"`
	}

	config := &Config{}
	require.NoError(t, LoadWith(config, DefaultsOnly()))
	assert.Equal(t, 5*time.Second, config.SlowDuration)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.Equal(t, 500*time.Millisecond, config.Half)

	config2 := &Config{}
	err := LoadWith(config2, WithLookup(mapLookup(map[string]string{
		"SLOW_DURATION": "0",
		"TIMEOUT":       "250ms",
	})))
	require.NoError(t, err)
	// "0" é um valor presente, não ausente
	assert.Equal(t, time.Duration(0), config2.SlowDuration)
	assert.Equal(t, 250*time.Millisecond, config2.Timeout)
}

func TestLoad_WithoutDefaults(t *testing.T) {
	type Config struct {
		Port     int    `env:"PORT" envDefault:"5000"`
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	// Valores pré-preenchidos por outra camada devem sobreviver
	config := &Config{Port: 7000, LogLevel: "debug"}
	err := LoadWith(config, WithoutDefaults(), WithLookup(mapLookup(map[string]string{"PORT": "8000"})))
	require.NoError(t, err)

	assert.Equal(t, 8000, config.Port)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoad_WithoutEnvTag(t *testing.T) {
	type Config struct {
		Port int `env:"PORT" envDefault:"5000"`
		Host string // Sem tag env - deve ser ignorado
	}

	config := &Config{Host: "original"}
	require.NoError(t, LoadWith(config, DefaultsOnly()))

	assert.Equal(t, 5000, config.Port)
	assert.Equal(t, "original", config.Host)
}

func TestLoad_EmptyEnvVarFallsBackToDefault(t *testing.T) {
	type Config struct {
		Rate float64 `env:"ERROR_RATE" envDefault:"0.2"`
	}

	config := &Config{}
	require.NoError(t, LoadWith(config, WithLookup(mapLookup(map[string]string{"ERROR_RATE": ""}))))
	assert.Equal(t, 0.2, config.Rate)
}

func TestLoad_InvalidConfig(t *testing.T) {
	var config string
	err := Load(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pointer to struct")

	var config2 int
	err = Load(&config2)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pointer to struct")

	err = Load(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "got nil")
}

func TestLoad_ConversionErrors(t *testing.T) {
	type Config struct {
		SlowRate float64 `env:"SLOW_RATE" envDefault:"metade"`
	}

	err := LoadWith(&Config{}, DefaultsOnly())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error setting field SlowRate")

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "SLOW_RATE", fieldErr.EnvVar)

	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestLoad_UnsupportedType(t *testing.T) {
	type Config struct {
		Tags map[string]string `env:"TAGS" envDefault:"a=b"`
	}

	err := LoadWith(&Config{}, DefaultsOnly())
	var unsupported *UnsupportedTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestMustLoad(t *testing.T) {
	type Config struct {
		Host string `env:"TEST_MUST_HOST" envDefault:"0.0.0.0"`
	}

	config := &Config{}
	assert.NotPanics(t, func() {
		MustLoad(config)
	})
	assert.Equal(t, "0.0.0.0", config.Host)

	assert.Panics(t, func() {
		MustLoad("not-a-pointer")
	})
}

func TestLoad_NestedStructs(t *testing.T) {
	type SlowConf struct {
		ErrorRate float64 `env:"ERROR_RATE" envDefault:"0.2"`
	}
	type ServerConf struct {
		Port int `env:"PORT" envDefault:"5000"`
	}
	type AppConfig struct {
		Server ServerConf
		Slow   *SlowConf
	}

	config := &AppConfig{}
	err := LoadWith(config, WithLookup(mapLookup(map[string]string{"ERROR_RATE": "0"})))
	require.NoError(t, err)

	assert.Equal(t, 5000, config.Server.Port)
	require.NotNil(t, config.Slow)
	// "0" presente vence o default
	assert.Equal(t, 0.0, config.Slow.ErrorRate)
}
