package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// toHTTPRequest rebuilds the HTTP request described by an API Gateway proxy
// event.
func toHTTPRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	q := url.Values{}
	for k, v := range req.QueryStringParameters {
		q.Set(k, v)
	}
	for k, vs := range req.MultiValueQueryStringParameters {
		q[k] = vs
	}

	u := url.URL{Path: req.Path, RawQuery: q.Encode()}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, err
		}
		body = string(decoded)
	}

	r, err := http.NewRequestWithContext(ctx, req.HTTPMethod, u.String(), strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}
	for k, vs := range req.MultiValueHeaders {
		r.Header[http.CanonicalHeaderKey(k)] = vs
	}
	if ip := req.RequestContext.Identity.SourceIP; ip != "" {
		r.RemoteAddr = ip + ":0"
	}

	return r, nil
}

// proxyWriter captures a handler's response for conversion back to a proxy
// response.
type proxyWriter struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func newProxyWriter() *proxyWriter {
	return &proxyWriter{status: http.StatusOK, header: http.Header{}}
}

func (w *proxyWriter) Header() http.Header { return w.header }

func (w *proxyWriter) Write(b []byte) (int, error) { return w.body.Write(b) }

func (w *proxyWriter) WriteHeader(status int) { w.status = status }

func (w *proxyWriter) response() events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(w.header))
	multi := make(map[string][]string)
	for k, vs := range w.header {
		if len(vs) == 1 {
			headers[k] = vs[0]
			continue
		}
		multi[k] = vs
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        w.status,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              w.body.String(),
	}
}
