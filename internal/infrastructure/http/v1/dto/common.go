// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// UploadResponse reports the outcome of a bulk file ingestion.
type UploadResponse struct {
	Processed int `json:"processed"`
}
