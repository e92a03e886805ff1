package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *FleetConfig) error {
	if cfg == nil {
		return errors.New("configuração nula")
	}

	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *FleetConfig) error {
	// 1. O frontend só sabe falar HTTP com o Product Service
	u, err := url.Parse(cfg.Frontend.ProductURL)
	if err != nil {
		return fmt.Errorf("PRODUCT_URL inválida: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("PRODUCT_URL deve usar http ou https, recebido '%s'", u.Scheme)
	}

	// 2. No modo "all" cada serviço precisa de uma porta própria
	seen := map[int]string{}
	ports := []struct {
		name string
		port int
	}{
		{"frontend", cfg.Launcher.FrontendPort},
		{"product", cfg.Launcher.ProductPort},
		{"slow", cfg.Launcher.SlowPort},
	}
	for _, p := range ports {
		if other, dup := seen[p.port]; dup {
			return fmt.Errorf("porta %d usada por '%s' e '%s'", p.port, other, p.name)
		}
		seen[p.port] = p.name
	}

	return nil
}
