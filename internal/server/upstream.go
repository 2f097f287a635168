package server

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-interceptor/pkg/gateway"
)

// newUpstream returns the handler receiving the requests the pipeline let through.
// Without an upstream URL, requests are echoed back as JSON.
func newUpstream(upstream string) (http.Handler, error) {
	if upstream == "" {
		return http.HandlerFunc(echo), nil
	}

	target, err := url.Parse(upstream)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid upstream %q", upstream)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("upstream", upstream).Msg("upstream request failed")
		w.WriteHeader(http.StatusBadGateway)
	}

	return proxy, nil
}

func echo(w http.ResponseWriter, r *http.Request) {
	req := gateway.FromContext(r.Context())
	if req == nil {
		var err error

		req, err = gateway.NewRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(req)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unable to echo request")
	}
}
