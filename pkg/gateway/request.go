package gateway

import (
	"bytes"
	"context"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

const maxBodySize = 10 << 20

// ErrBodyTooLarge is returned by NewRequest when the body is larger than 10MiB.
var ErrBodyTooLarge = errors.New("request body too large")

// Request is the value flowing through an interception pipeline.
// Multi-valued headers and query parameters are joined with a comma.
type Request struct {
	ID          string            `json:"id"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	QueryString map[string]string `json:"queryString"`
	PathParams  map[string]string `json:"pathParams"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body,omitempty"`
}

// NewRequest reads r into a Request. The body of r is consumed and replaced with a copy.
func NewRequest(r *http.Request) (*Request, error) {
	req := &Request{
		ID:          RequestID(r.Context()),
		Method:      r.Method,
		Path:        r.URL.Path,
		QueryString: make(map[string]string),
		PathParams:  make(map[string]string),
		Headers:     make(map[string]string, len(r.Header)),
	}

	for k, v := range r.URL.Query() {
		req.QueryString[k] = strings.Join(v, ",")
	}

	for k, v := range r.Header {
		req.Headers[http.CanonicalHeaderKey(k)] = strings.Join(v, ",")
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			req.PathParams[key] = rctx.URLParams.Values[i]
		}
	}

	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
		if err != nil {
			return nil, errors.Wrap(err, "unable to read request body")
		}

		if len(body) > maxBodySize {
			return nil, ErrBodyTooLarge
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		req.Body = string(body)
	}

	return req, nil
}

// Header returns the value of the header name.
func (req *Request) Header(name string) string {
	return req.Headers[http.CanonicalHeaderKey(name)]
}

func (req *Request) SetHeader(name, value string) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}

	req.Headers[http.CanonicalHeaderKey(name)] = value
}

func (req *Request) DelHeader(name string) {
	delete(req.Headers, http.CanonicalHeaderKey(name))
}

// Clone returns a deep copy of req. Steps should clone before mutating a request they did not create.
func (req *Request) Clone() *Request {
	if req == nil {
		return nil
	}

	clone := *req
	clone.QueryString = maps.Clone(req.QueryString)
	clone.PathParams = maps.Clone(req.PathParams)
	clone.Headers = maps.Clone(req.Headers)

	return &clone
}

// Apply returns a copy of r carrying the method, path, query string, headers and body of req.
// Headers and query parameters left untouched keep all their values.
func (req *Request) Apply(r *http.Request) *http.Request {
	out := r.Clone(r.Context())
	out.Method = req.Method

	if out.URL.Path != req.Path {
		out.URL.Path = req.Path
		out.URL.RawPath = ""
	}

	query := out.URL.Query()
	if merge(query, req.QueryString) {
		out.URL.RawQuery = query.Encode()
	}

	merge(out.Header, req.Headers)

	out.Body = io.NopCloser(strings.NewReader(req.Body))
	out.ContentLength = int64(len(req.Body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(req.Body)), nil
	}

	return out
}

// merge makes values match flat, reporting whether values changed.
func merge[V ~map[string][]string](values V, flat map[string]string) bool {
	changed := false

	for k, v := range values {
		want, ok := flat[k]
		if !ok {
			delete(values, k)

			changed = true

			continue
		}

		if strings.Join(v, ",") != want {
			values[k] = []string{want}
			changed = true
		}
	}

	for k, v := range flat {
		if _, ok := values[k]; !ok {
			values[k] = []string{v}
			changed = true
		}
	}

	return changed
}

type requestKey struct{}

// WithRequest returns a copy of ctx carrying req.
func WithRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// FromContext returns the intercepted request stored by the middleware, nil when there is none.
func FromContext(ctx context.Context) *Request {
	req, _ := ctx.Value(requestKey{}).(*Request)

	return req
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or an empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}
