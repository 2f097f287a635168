package interceptors

import (
	"context"
	"net/http"
	"strings"

	"github.com/askiada/go-interceptor/internal/config"
	"github.com/askiada/go-interceptor/pkg/gateway"
	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/response"
)

type errorBody struct {
	Error string `json:"error"`
}

// newRequireHeader answers with a terminal response when the header is missing, or differs from
// the configured value.
func newRequireHeader(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	status := cfg.Status
	if status == 0 {
		status = http.StatusUnauthorized
	}

	return gateway.Intercept(cfg.Name, func(_ context.Context, req *gateway.Request) (any, error) {
		got := req.Header(cfg.Header)
		if got == "" || (cfg.Value != "" && got != cfg.Value) {
			body := cfg.Body
			if body == "" {
				body = "missing or invalid header " + http.CanonicalHeaderKey(cfg.Header)
			}

			return response.New(errorBody{Error: body}, cfg.Headers, status), nil
		}

		return req, nil
	}), nil
}

func newSetHeader(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	return gateway.Intercept(cfg.Name, func(_ context.Context, req *gateway.Request) (any, error) {
		out := req.Clone()
		out.SetHeader(cfg.Header, cfg.Value)

		return out, nil
	}), nil
}

// newDefaultQuery adds a query parameter when the request does not carry it.
func newDefaultQuery(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	return gateway.Intercept(cfg.Name, func(_ context.Context, req *gateway.Request) (any, error) {
		if _, ok := req.QueryString[cfg.Key]; ok {
			return req, nil
		}

		out := req.Clone()
		if out.QueryString == nil {
			out.QueryString = make(map[string]string)
		}

		out.QueryString[cfg.Key] = cfg.Value

		return out, nil
	}), nil
}

// newRejectPath denies requests under one of the configured paths.
func newRejectPath(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	return gateway.Intercept(cfg.Name, func(_ context.Context, req *gateway.Request) (any, error) {
		if matchPath(cfg.Paths, req.Path) {
			return nil, nil
		}

		return req, nil
	}), nil
}

// newRespond answers requests under one of the configured paths with a static response.
func newRespond(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	return gateway.Intercept(cfg.Name, func(_ context.Context, req *gateway.Request) (any, error) {
		if !matchPath(cfg.Paths, req.Path) {
			return req, nil
		}

		return response.New(cfg.Body, cfg.Headers, cfg.Status), nil
	}), nil
}

// matchPath reports whether path is one of prefixes, or below one of them.
func matchPath(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if path == prefix {
			return true
		}

		if strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}

	return false
}
