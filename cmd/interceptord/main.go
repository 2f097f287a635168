package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/askiada/go-interceptor/internal/config"
	"github.com/askiada/go-interceptor/internal/interceptors"
	"github.com/askiada/go-interceptor/internal/logger"
	"github.com/askiada/go-interceptor/internal/server"
	"github.com/askiada/go-interceptor/internal/telemetry"
	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/pipeline/drawer"
	"github.com/askiada/go-interceptor/pkg/pipeline/measure"
	"github.com/askiada/go-interceptor/pkg/pipeline/tracing"
)

const serviceName = "interceptord"

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging, serviceName)
	if err != nil {
		return err
	}

	tp, shutdownTracer, err := telemetry.InitTracer(cfg.Telemetry, log)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("unable to shut down tracer")
		}
	}()

	pipe, err := buildPipeline(cfg.Pipeline, tp)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg.Server, log, pipe)
	if err != nil {
		return err
	}

	err = srv.Start(ctx)

	finishErr := pipe.Finish()
	if finishErr != nil {
		log.Error().Err(finishErr).Msg("unable to finish pipeline")
	} else if cfg.Pipeline.GraphFile != "" {
		log.Info().Str("file", cfg.Pipeline.GraphFile).Msg("pipeline graph written")
	}

	if err != nil {
		return err
	}

	log.Info().Msg("bye")

	return nil
}

func buildPipeline(cfg config.PipelineConfig, tp trace.TracerProvider) (*pipeline.Pipeline[any], error) {
	steps, err := interceptors.FromConfig(cfg.Interceptors)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create interceptors")
	}

	hooks := []pipeline.Option[any]{
		pipeline.WithHooks[any](tracing.PipelineTracer(tp)),
	}

	if cfg.GraphFile != "" {
		msr := measure.NewDefaultMeasure()
		hooks = append(hooks, pipeline.WithHooks[any](
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.GraphFile), msr),
		))
	}

	pipe, err := pipeline.FromSlice(steps, hooks...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	return pipe, nil
}
