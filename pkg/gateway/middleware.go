package gateway

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/response"
)

type errorBody struct {
	Error string `json:"error"`
}

// Middleware runs p for every request before handing it to the next handler.
func Middleware(p *pipeline.Pipeline[any], logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.With().Str("request_id", RequestID(ctx)).Logger()

			req, err := NewRequest(r)
			if err != nil {
				log.Warn().Err(err).Msg("unable to read request")
				write(w, log, response.New(errorBody{Error: "invalid request"}, nil, http.StatusBadRequest))

				return
			}

			out, err := p.Do(ctx, req)
			if err != nil {
				code, msg := statusOf(err)
				log.Error().Err(err).Int("status", code).Msg("interception failed")
				write(w, log, response.New(errorBody{Error: msg}, nil, code))

				return
			}

			switch {
			case p.IsTerminal(out):
				resp, ok := out.(*response.APIResponse)
				if !ok {
					log.Error().Str("type", typeName(out)).Msg("unsupported terminal response")
					write(w, log, internalError())

					return
				}

				log.Debug().Int("status", resp.Code).Msg("request answered by interceptor")
				write(w, log, resp)
			case p.IsFalsy(out):
				log.Debug().Msg("request denied by interceptor")
				write(w, log, response.New(errorBody{Error: http.StatusText(http.StatusForbidden)}, nil, http.StatusForbidden))
			default:
				final, ok := out.(*Request)
				if !ok {
					log.Error().Str("type", typeName(out)).Msg("unexpected pipeline result")
					write(w, log, internalError())

					return
				}

				applied := final.Apply(r)
				next.ServeHTTP(w, applied.WithContext(WithRequest(applied.Context(), final)))
			}
		})
	}
}

func internalError() *response.APIResponse {
	return response.New(errorBody{Error: http.StatusText(http.StatusInternalServerError)}, nil, http.StatusInternalServerError)
}

func write(w http.ResponseWriter, log zerolog.Logger, resp *response.APIResponse) {
	err := resp.Write(w)
	if err != nil {
		log.Error().Err(err).Msg("unable to write response")
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
