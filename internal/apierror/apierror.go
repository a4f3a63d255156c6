// Package apierror provides the error envelope returned by every 4xx/5xx
// response. Internal details (SQL errors, stack traces) never reach it.
package apierror

// APIError is the canonical error body: {"error": "..."}.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "Datos inválidos", Errors: fields}
}

// MsgDemasiadoGrande is returned with 413 when a body exceeds the upload limit.
const MsgDemasiadoGrande = "Imagen demasiado grande"
