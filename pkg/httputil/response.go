package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string     `json:"error"`
	Code      string     `json:"code"`
	Cycles    [][]string `json:"cycles,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorResponse. Coded errors choose the status
// through errors.HTTPStatus; uncoded errors are internal errors and their
// message is not exposed.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}

	resp := ErrorResponse{
		Error:     msg,
		Code:      string(code),
		RequestID: GetRequestID(r.Context()),
	}
	if cycles, ok := dsort.CyclesOf[string](err); ok {
		resp.Cycles = cycles
	}
	WriteJSON(w, errors.HTTPStatus(code), resp)
}
