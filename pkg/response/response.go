// Package response provides the terminal response returned by interceptors to answer a request
// without reaching the upstream.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/askiada/go-interceptor/pkg/pipeline"
)

// APIResponse is a complete HTTP response. Returned by a step, it ends the pipeline run and is
// written back to the client as it is.
type APIResponse struct {
	Body    any
	Headers map[string]string
	Code    int
}

// New creates an APIResponse. A zero code means 200.
func New(body any, headers map[string]string, code int) *APIResponse {
	if code == 0 {
		code = http.StatusOK
	}

	return &APIResponse{Body: body, Headers: headers, Code: code}
}

// TerminalResponse marks APIResponse as a terminal value of a pipeline.
func (*APIResponse) TerminalResponse() {}

// Write writes the response. String and byte bodies are written raw, anything else is encoded as JSON.
func (r *APIResponse) Write(w http.ResponseWriter) error {
	var (
		payload     []byte
		contentType string
	)

	switch body := r.Body.(type) {
	case nil:
	case string:
		payload, contentType = []byte(body), "text/plain; charset=utf-8"
	case []byte:
		payload, contentType = body, "application/octet-stream"
	default:
		var err error

		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "unable to encode response body")
		}

		contentType = "application/json"
	}

	if contentType != "" && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType)
	}

	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}

	code := r.Code
	if code == 0 {
		code = http.StatusOK
	}

	w.WriteHeader(code)

	if len(payload) == 0 {
		return nil
	}

	_, err := w.Write(payload)
	if err != nil {
		return errors.Wrap(err, "unable to write response body")
	}

	return nil
}

var _ pipeline.TerminalResponse = (*APIResponse)(nil)
