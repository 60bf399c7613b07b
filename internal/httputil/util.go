package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
)

const MaxBodyBytes = 8 * 1024 * 1024

type errorResponse struct {
	Error    string         `json:"error"`
	Problems []errs.Problem `json:"problems,omitempty"`
}

// AllowMethod writes 405 and returns false when r does not use method.
func AllowMethod(ctx context.Context, w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	RespJSON(ctx, w, http.StatusMethodNotAllowed, errorResponse{Error: fmt.Sprintf("method %v is not allowed", r.Method)})
	logging.FromContext(ctx).Debugf("method %v is not allowed", r.Method)
	return false
}

// DecodeJSON reads a JSON body of at most MaxBodyBytes into v, writing the
// error response itself when it returns false.
func DecodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if t := r.Header.Get("content-type"); !strings.HasPrefix(t, "application/json") {
		RespJSON(ctx, w, http.StatusUnsupportedMediaType, errorResponse{Error: "content-type is not application/json"})
		logging.FromContext(ctx).Debug("content-type is not application/json")
		return false
	}

	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		DecodeErr(ctx, w, err)
		return false
	}
	return true
}

func DecodeErr(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		syntaxErr      *json.SyntaxError
		unmarshalError *json.UnmarshalTypeError
		validationErr  *errs.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		RespValidation(ctx, w, validationErr)
	case errors.As(err, &syntaxErr):
		RespBadRequest(ctx, w, "malformed json at position %v", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		RespBadRequest(ctx, w, "malformed json")
	case errors.As(err, &unmarshalError):
		RespBadRequest(ctx, w, "invalid value %v at position %v", unmarshalError.Field, unmarshalError.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		RespBadRequest(ctx, w, "unknown field %s", fieldName)
	case errors.Is(err, io.EOF):
		RespBadRequest(ctx, w, "body must not be empty")
	case err.Error() == "http: request body too large":
		RespJSON(ctx, w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
	default:
		RespInternalError(ctx, w, "failed to decode json %v", err)
	}
}

// RespJSON writes v with the given status.
func RespJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		RespInternalError(ctx, w, "failed to encode output json %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

func RespValidation(ctx context.Context, w http.ResponseWriter, err *errs.ValidationError) {
	logging.FromContext(ctx).Debug(err.Error())
	RespJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid input", Problems: err.Problems})
}

func RespBadRequest(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Debug(msg)
	RespJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msg})
}

func RespNotFound(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Debug(msg)
	RespJSON(ctx, w, http.StatusNotFound, errorResponse{Error: msg})
}

func RespInternalError(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	logging.FromContext(ctx).Errorf(format, args...)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"internal error"}`))
}

// RespError maps the error taxonomy onto status codes. Validation errors are
// the caller's fault, an expired request deadline is a timeout, a cancelled
// request is unavailable and everything else is ours.
func RespError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *errs.ValidationError
	switch {
	case errors.As(err, &validationErr):
		RespValidation(ctx, w, validationErr)
	case errors.Is(err, context.DeadlineExceeded):
		logging.FromContext(ctx).Warnf("request timed out: %v", err)
		RespJSON(ctx, w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
	case errors.Is(err, context.Canceled):
		logging.FromContext(ctx).Debugf("request cancelled: %v", err)
		RespJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Error: "request cancelled"})
	default:
		RespInternalError(ctx, w, "%v", err)
	}
}
