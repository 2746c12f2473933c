package httputil

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/depsort/pkg/errors"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID is middleware that assigns each request an ID. A well-formed
// UUID supplied by the client is kept; anything else is replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// GetRequestID returns the ID stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ReadBody reads the request body, failing with INVALID_INPUT when it is
// empty or larger than limit bytes.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, nil
}
