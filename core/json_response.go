package core

import (
	"encoding/json"
	"net/http"
)

// Response is anything that can render itself onto an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// JSONResponse is the standard JSON response envelope.
type JSONResponse struct {
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// jsonResponse implements Response for JSON rendering.
type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON creates a 200 JSON response with the given payload.
func JSON(data any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Data: data},
	}
}

// JSONMessage creates a 200 JSON response carrying a human-readable message
// alongside an optional payload.
func JSONMessage(message string, data any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Message: message, Data: data},
	}
}

// JSONStatus creates a JSON response with an explicit status code.
func JSONStatus(status int, data any) Response {
	return jsonResponse{
		status: status,
		body:   JSONResponse{Data: data},
	}
}

// JSONError creates a JSON error response from an error. HTTPError values
// keep their status code and key; anything else becomes a 500.
func JSONError(err error) Response {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(status),
	}

	if httpErr, ok := err.(HTTPError); ok {
		status = httpErr.Code
		detail.Code = httpErr.Key
		detail.Message = http.StatusText(httpErr.Code)
	}

	return jsonResponse{
		status: status,
		body:   JSONResponse{Error: detail},
	}
}

// JSONValidationError creates a 422 response with per-field messages.
func JSONValidationError(fields map[string][]string) Response {
	return jsonResponse{
		status: http.StatusUnprocessableEntity,
		body: JSONResponse{
			Error: &ErrorDetail{
				Code:    "validation_error",
				Message: http.StatusText(http.StatusUnprocessableEntity),
				Details: fields,
			},
		},
	}
}
