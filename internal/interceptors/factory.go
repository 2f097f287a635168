// Package interceptors builds the built-in interceptors of the service from configuration.
package interceptors

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-interceptor/internal/config"
	"github.com/askiada/go-interceptor/pkg/pipeline"
)

// ErrUnknownType is returned for an interceptor type no factory exists for.
var ErrUnknownType = errors.New("unknown interceptor type")

type factory func(cfg config.InterceptorConfig) (pipeline.Step[any], error)

var factories = map[string]factory{
	config.TypeRequireHeader: newRequireHeader,
	config.TypeSetHeader:     newSetHeader,
	config.TypeDefaultQuery:  newDefaultQuery,
	config.TypeRejectPath:    newRejectPath,
	config.TypeRespond:       newRespond,
	config.TypeWebhook:       newWebhook,
}

// New creates the interceptor described by cfg, as a step named after it.
func New(cfg config.InterceptorConfig) (pipeline.Step[any], error) {
	create, ok := factories[cfg.Type]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "interceptor %s: %q", cfg.Name, cfg.Type)
	}

	step, err := create(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "interceptor %s", cfg.Name)
	}

	return step, nil
}

// FromConfig creates one step per interceptor, in order.
func FromConfig(cfgs []config.InterceptorConfig) ([]pipeline.Step[any], error) {
	steps := make([]pipeline.Step[any], 0, len(cfgs))

	for _, cfg := range cfgs {
		step, err := New(cfg)
		if err != nil {
			return nil, err
		}

		steps = append(steps, step)
	}

	return steps, nil
}
