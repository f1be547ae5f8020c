// Package api defines shared response envelopes for the HTTP layer.
package api

// ErrorResponse is the uniform error body returned by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
