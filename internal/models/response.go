package models

// ErrorResponse is the uniform JSON error body returned by all handlers.
type ErrorResponse struct {
	Message string `json:"message"`
}
