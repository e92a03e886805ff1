package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "ChaosFleet/Frontend"

// Response representa a resposta do serviço downstream.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Client encapsula um http.Client reutilizável (pooling de conexões) com timeout fixo.
// Não há retry: cada chamada é uma única tentativa.
type Client struct {
	http *http.Client
}

// NewClient cria um Client cujo timeout cobre conexão, envio e leitura do corpo.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Forward envia a requisição ao serviço de destino e lê a resposta inteira.
func (c *Client) Forward(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, reader)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar forward request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha na conexão com target (%s): %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta do target: %w", err)
	}

	respHeaders := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			respHeaders[k] = v[0]
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    respHeaders,
		Body:       respBody,
	}, nil
}

// GetJSON faz um GET e exige que o corpo seja JSON válido.
// O status HTTP do destino não é interpretado: um 503 com corpo JSON é devolvido normalmente.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string) (json.RawMessage, *Response, error) {
	resp, err := c.Forward(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return nil, nil, err
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if !json.Valid(trimmed) {
		return nil, resp, fmt.Errorf("resposta de %s não é JSON (status %d)", url, resp.StatusCode)
	}

	return json.RawMessage(trimmed), resp, nil
}
