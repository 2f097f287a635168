package interceptors

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-interceptor/internal/config"
	"github.com/askiada/go-interceptor/pkg/gateway"
	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/response"
)

const defaultWebhookTimeout = 5 * time.Second

// Webhook decisions.
const (
	ActionAllow  = "allow"
	ActionDeny   = "deny"
	ActionMutate = "mutate"
)

// ErrInvalidAction is returned when a webhook answers with an action it does not know.
var ErrInvalidAction = errors.New("invalid webhook action")

// WebhookDecision is the body a webhook answers with.
//
// A deny without status denies the request with 403. A deny with a status answers the client
// with that status and Reason.
type WebhookDecision struct {
	Action  string           `json:"action"`
	Request *gateway.Request `json:"request,omitempty"`
	Status  int              `json:"status,omitempty"`
	Reason  string           `json:"reason,omitempty"`
}

type webhook struct {
	name    string
	url     string
	onError string
	retries int
	headers map[string]string
	client  *http.Client
}

func newWebhook(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultWebhookTimeout
	}

	onError := cfg.OnError
	if onError == "" {
		onError = config.OnErrorDeny
	}

	wh := &webhook{
		name:    cfg.Name,
		url:     cfg.URL,
		onError: onError,
		retries: cfg.Retries,
		headers: cfg.Headers,
		client:  &http.Client{Timeout: timeout},
	}

	return gateway.InterceptAsync(cfg.Name, func(ctx context.Context, req *gateway.Request) *pipeline.Future[any] {
		return pipeline.Go(ctx, func(ctx context.Context) (any, error) {
			return wh.process(ctx, req)
		})
	}), nil
}

func (wh *webhook) process(ctx context.Context, req *gateway.Request) (any, error) {
	var lastErr error

	for attempt := 0; attempt <= wh.retries; attempt++ {
		decision, err := wh.call(ctx, req)
		if err == nil {
			return wh.decide(req, decision)
		}

		lastErr = err

		zerolog.Ctx(ctx).Warn().Err(err).Str("interceptor", wh.name).Int("attempt", attempt+1).Msg("webhook call failed")

		if ctx.Err() != nil {
			break
		}
	}

	return wh.handleError(req, lastErr)
}

func (wh *webhook) call(ctx context.Context, req *gateway.Request) (*WebhookDecision, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create webhook request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	for k, v := range wh.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := wh.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "webhook request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read webhook response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var decision WebhookDecision

	err = json.Unmarshal(respBody, &decision)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode webhook response")
	}

	switch decision.Action {
	case ActionAllow, ActionDeny, ActionMutate:
	case "":
		decision.Action = ActionAllow
	default:
		return nil, errors.Wrapf(ErrInvalidAction, "%q", decision.Action)
	}

	if decision.Action == ActionMutate && decision.Request == nil {
		return nil, errors.Wrap(ErrInvalidAction, "mutate without a request")
	}

	return &decision, nil
}

func (wh *webhook) decide(req *gateway.Request, decision *WebhookDecision) (any, error) {
	switch decision.Action {
	case ActionMutate:
		return mutate(req, decision.Request), nil
	case ActionDeny:
		if decision.Status == 0 {
			return nil, nil
		}

		reason := decision.Reason
		if reason == "" {
			reason = http.StatusText(decision.Status)
		}

		return response.New(errorBody{Error: reason}, nil, decision.Status), nil
	default:
		return req, nil
	}
}

// mutate applies the request a webhook answered with onto a clone of req.
// Fields the webhook left out keep the value they had in req.
func mutate(req, changed *gateway.Request) *gateway.Request {
	out := req.Clone()

	if changed.Method != "" {
		out.Method = changed.Method
	}

	if changed.Path != "" {
		out.Path = changed.Path
	}

	if changed.QueryString != nil {
		out.QueryString = changed.QueryString
	}

	if changed.PathParams != nil {
		out.PathParams = changed.PathParams
	}

	if changed.Headers != nil {
		out.Headers = make(map[string]string, len(changed.Headers))
		for k, v := range changed.Headers {
			out.SetHeader(k, v)
		}
	}

	if changed.Body != "" {
		out.Body = changed.Body
	}

	return out
}

func (wh *webhook) handleError(req *gateway.Request, err error) (any, error) {
	switch wh.onError {
	case config.OnErrorAllow:
		return req, nil
	case config.OnErrorFail:
		return nil, gateway.NewStatusError(http.StatusBadGateway, "").WithCause(errors.Wrapf(err, "webhook %s", wh.name))
	default:
		return nil, nil
	}
}
