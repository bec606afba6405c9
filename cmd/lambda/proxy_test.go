package main

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPRequest(t *testing.T) {
	req, err := toHTTPRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/projects",
		QueryStringParameters: map[string]string{
			"version": "2",
		},
		Headers: map[string]string{
			"Authorization": "Bearer abc",
			"Content-Type":  "application/json",
		},
		Body: `{"title":"x"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.9"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/projects", req.URL.Path)
	assert.Equal(t, "2", req.URL.Query().Get("version"))
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	assert.Equal(t, "203.0.113.9:0", req.RemoteAddr)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x"}`, string(body))
}

func TestToHTTPRequest_Base64Body(t *testing.T) {
	req, err := toHTTPRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/api/auth/login",
		Body:            "eyJhIjoxfQ==", // {"a":1}
		IsBase64Encoded: true,
	})
	require.NoError(t, err)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))
}

func TestProxyWriter(t *testing.T) {
	w := newProxyWriter()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Set-Cookie", "a=1")
	w.Header().Add("Set-Cookie", "b=2")
	w.WriteHeader(http.StatusCreated)
	_, err := w.Write([]byte(`{"success":true}`))
	require.NoError(t, err)

	resp := w.response()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, []string{"a=1", "b=2"}, resp.MultiValueHeaders["Set-Cookie"])
	assert.Equal(t, `{"success":true}`, resp.Body)
}

func TestProxyWriter_DefaultStatus(t *testing.T) {
	w := newProxyWriter()
	_, err := w.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.response().StatusCode)
}
