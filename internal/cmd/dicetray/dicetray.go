// Package dicetray parses dicetray command flags and runs the interactive tray.
package dicetray

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/louisbranch/dicetray/internal/console"
	"github.com/louisbranch/dicetray/internal/dice"
	entrypoint "github.com/louisbranch/dicetray/internal/platform/cmd"
	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
	"github.com/louisbranch/dicetray/internal/platform/telemetry"
	"github.com/louisbranch/dicetray/internal/random"
	"github.com/louisbranch/dicetray/internal/tray"
)

// Config holds dicetray command configuration.
type Config struct {
	Locale   string `env:"DICETRAY_LOCALE" envDefault:"en-US"`
	Sampling string `env:"DICETRAY_SAMPLING" envDefault:"modulo"`
	Verbose  bool   `env:"DICETRAY_VERBOSE" envDefault:"false"`
	Width    int    `env:"DICETRAY_WIDTH" envDefault:"60"`
	Display  tray.DisplayOptions

	ShutdownTimeout time.Duration `env:"DICETRAY_OTEL_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Streams are the terminal handles the tray talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ParseConfig parses environment and flags into a Config. Flags override the
// environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for messages (en-US, pt-BR)")
	fs.StringVar(&cfg.Sampling, "sampling", cfg.Sampling, "Roll sampling strategy (modulo, rejection)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log tray events to stderr")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Screen width in columns")
	fs.Func(tray.OptionAlignAddButtons, "Align the add buttons (left, right)", alignmentFlag(&cfg.Display.AlignAddButtons))
	fs.BoolVar(&cfg.Display.ReverseAddButtons, tray.OptionReverseAddButtons, cfg.Display.ReverseAddButtons, "Reverse the add buttons")
	fs.Func(tray.OptionAlignControls, "Align the control buttons (left, right)", alignmentFlag(&cfg.Display.AlignControls))
	fs.BoolVar(&cfg.Display.ReverseControls, tray.OptionReverseControls, cfg.Display.ReverseControls, "Reverse the control buttons")
	fs.DurationVar(&cfg.ShutdownTimeout, "otel-shutdown-timeout", cfg.ShutdownTimeout, "Time allowed to flush traces on exit")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func alignmentFlag(target *tray.Alignment) func(string) error {
	return func(value string) error {
		return target.UnmarshalText([]byte(value))
	}
}

// Run checks the entropy source and serves the console until the user quits.
func Run(ctx context.Context, cfg Config, streams Streams) error {
	return run(ctx, cfg, streams, random.Reader())
}

func run(ctx context.Context, cfg Config, streams Streams, src io.Reader) error {
	sampling, err := dice.ParseSampling(cfg.Sampling)
	if err != nil {
		return err
	}
	if err := random.Probe(src); err != nil {
		return apperrors.Wrap(apperrors.CodeEntropyUnavailable, "entropy source unavailable", err)
	}

	runOptions := entrypoint.RunOptions{ShutdownTimeout: cfg.ShutdownTimeout}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceDiceTray, runOptions, func(ctx context.Context) error {
		engine := dice.NewEngine(src, dice.WithSampling(sampling))
		var opts []tray.Option
		if cfg.Verbose && streams.Err != nil {
			logger := log.New(streams.Err, "[DICETRAY] ", 0)
			logger.Printf("rolling with %s sampling", engine.Sampling())
			opts = append(opts, tray.WithEmitter(telemetry.NewEmitter(telemetry.LogSink{Logger: logger})))
		}
		c, err := console.New(tray.New(engine, opts...), streams.In, streams.Out, console.Config{
			Locale:  cfg.Locale,
			Width:   cfg.Width,
			Options: cfg.Display,
		})
		if err != nil {
			return err
		}
		return c.Run(ctx)
	})
}
