// Package httpx provides helpers for building Lambda proxy responses.
package httpx

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON creates a success response with the given status code and payload.
func JSON(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, _ := json.Marshal(envelope{Success: true, Data: v})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}, nil
}

// Error creates a failure response with the given status code and message.
func Error(status int, msg string) (events.APIGatewayProxyResponse, error) {
	b, _ := json.Marshal(envelope{Success: false, Error: msg})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}, nil
}

// NoContent creates an empty 204 response.
func NoContent() (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{StatusCode: 204}, nil
}
