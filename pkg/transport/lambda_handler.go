package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler adapta eventos do API Gateway para o mesmo http.Handler usado no runtime local,
// preservando rotas, middleware e corpo das respostas.
type LambdaHandler struct {
	handler http.Handler
}

func NewLambdaHandler(handler http.Handler) *LambdaHandler {
	return &LambdaHandler{handler: handler}
}

// Handle processa a requisição Lambda
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"invalid request"}`,
		}, nil
	}

	rw := newBufferedResponse()
	h.handler.ServeHTTP(rw, httpReq)

	headers := make(map[string]string, len(rw.header))
	for k, v := range rw.header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        rw.status,
		Headers:           headers,
		MultiValueHeaders: map[string][]string(rw.header.Clone()),
		Body:              rw.body.String(),
	}, nil
}

func toHTTPRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	path := req.Path
	if path == "" {
		path = "/"
	}

	query := url.Values{}
	for k, vs := range req.MultiValueQueryStringParameters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	for k, v := range req.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	u := &url.URL{Path: path, RawQuery: query.Encode()}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("body base64 inválido: %w", err)
		}
		body = decoded
	}

	method := strings.ToUpper(req.HTTPMethod)
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.MultiValueHeaders {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.RequestURI = u.RequestURI()
	return httpReq, nil
}

// bufferedResponse acumula a resposta em memória para devolvê-la ao API Gateway.
type bufferedResponse struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: http.Header{}, status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.status = code
	b.wroteHeader = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}
