package utils

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	apperrors "github.com/tendant/simple-account/pkg/errors"
)

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse is written for failed requests.
type ErrorResponse struct {
	Envelope
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondError translates err into a status code and JSON body. Internal
// errors are logged with their cause and reported with a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperrors.From(err)
	status := e.HTTPStatusCode()
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "code", e.Code, "error", err)
	} else {
		slog.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "code", e.Code)
	}

	resp := ErrorResponse{Envelope: Envelope{
		Success: false,
		Message: e.PublicMessage(),
		Code:    string(e.Code),
	}}
	if e.Code != apperrors.ErrCodeInternal {
		resp.Details = e.Details
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// RespondOK writes a 200 with the given body.
func RespondOK(w http.ResponseWriter, r *http.Request, body any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, body)
}

// RespondMessage writes a 200 success envelope carrying only a message.
func RespondMessage(w http.ResponseWriter, r *http.Request, message string) {
	RespondOK(w, r, Envelope{Success: true, Message: message})
}
