package gateway

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-interceptor/pkg/pipeline"
)

// InterceptFunc inspects a request. It returns the request to carry on (the same one or a
// modified clone), a *response.APIResponse to answer straight away, a falsy value to deny the
// request, or an error.
type InterceptFunc func(ctx context.Context, req *Request) (any, error)

// Intercept adapts fn into a named pipeline step.
func Intercept(name string, fn InterceptFunc) pipeline.Step[any] {
	if fn == nil {
		return nil
	}

	return pipeline.Named[any](name, pipeline.Func[any](func(ctx context.Context, in any) (any, error) {
		req, ok := in.(*Request)
		if !ok {
			return nil, errors.Wrapf(ErrUnexpectedValue, "%s: got %T, want *gateway.Request", name, in)
		}

		return fn(ctx, req)
	}))
}

// InterceptAsync adapts fn into a named asynchronous pipeline step.
func InterceptAsync(name string, fn func(ctx context.Context, req *Request) *pipeline.Future[any]) pipeline.Step[any] {
	if fn == nil {
		return nil
	}

	return pipeline.Named[any](name, pipeline.AsyncFunc[any](func(ctx context.Context, in any) *pipeline.Future[any] {
		req, ok := in.(*Request)
		if !ok {
			return pipeline.Rejected[any](errors.Wrapf(ErrUnexpectedValue, "%s: got %T, want *gateway.Request", name, in))
		}

		return fn(ctx, req)
	}))
}
