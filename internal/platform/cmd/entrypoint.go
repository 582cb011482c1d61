// Package cmd holds the startup helpers shared by dicetray entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/dicetray/internal/platform/config"
	platformotel "github.com/louisbranch/dicetray/internal/platform/otel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ServiceDiceTray names the dicetray command in telemetry and logs.
const ServiceDiceTray = "dicetray"

const (
	defaultShutdownTimeout = 5 * time.Second
	tracerName             = "github.com/louisbranch/dicetray/internal/platform/cmd"
)

// RunOptions tunes RunWithTelemetryAndOptions.
type RunOptions struct {
	// ShutdownTimeout bounds the final span flush. Zero means five seconds.
	ShutdownTimeout time.Duration
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags on top of whatever ParseConfig loaded.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry runs one session of service with tracing configured from
// the environment.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures tracing, then calls run inside a
// "<service>.session" span so every span the session starts shares a trace.
// The session error, if any, is recorded on that span and returned.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	otelConfig, err := platformotel.ConfigFromEnv()
	if err != nil {
		return err
	}
	shutdown, err := platformotel.Setup(ctx, service, otelConfig)
	if err != nil {
		return err
	}
	defer flush(service, options.ShutdownTimeout, shutdown)

	ctx, span := otel.Tracer(tracerName).Start(ctx, service+".session")
	defer span.End()
	started := time.Now()

	err = run(ctx)
	span.SetAttributes(attribute.Int64("session.duration_ms", time.Since(started).Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func flush(service string, timeout time.Duration, shutdown func(context.Context) error) {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("%s otel shutdown: %v", service, err)
	}
}
