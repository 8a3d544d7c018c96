package command

import (
	"context"
	"io"
	"log/slog"

	"sprinkler-jobs/internal/config"
	"sprinkler-jobs/internal/domain"
	http_infra "sprinkler-jobs/internal/infra/http"
	"sprinkler-jobs/internal/tracing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const serviceName = "sprinklerctl"

// Env is the state shared by all commands. It is filled in by Init before
// any command runs.
type Env struct {
	ConfigFile string

	Config  *config.Config
	Logger  *slog.Logger
	Gateway domain.JobGateway

	shutdownTracer func(context.Context) error
}

// RegisterFlags adds the global flags. Flags named after config keys
// override the config file and environment.
func (e *Env) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&e.ConfigFile, "config", "", "config file (default ./configs/config.yaml or ./config.yaml)")
	flags.String("base-url", "", "base url of the sprinkler job service")
	flags.Duration("request-timeout", 0, "timeout of a single request to the job service")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or text")
	flags.Bool("tracing-enabled", false, "write OpenTelemetry spans to stderr")
}

// Init loads the configuration and builds the logger, tracer and gateway.
func (e *Env) Init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.ConfigFile, cmd.Flags())
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	e.Config = cfg
	e.Logger = newLogger(cfg, cmd.ErrOrStderr())

	e.shutdownTracer = tracing.Noop
	if cfg.TracingEnabled {
		shutdown, err := tracing.InitTracer(cmd.Context(), serviceName, cmd.ErrOrStderr())
		if err != nil {
			return errors.Wrap(err, "failed to initialize tracer")
		}
		e.shutdownTracer = shutdown
	}

	gateway, err := http_infra.NewJobsClient(cfg.BaseURL, cfg.RequestTimeout, e.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to create job service client")
	}
	e.Gateway = gateway
	return nil
}

// Close flushes pending spans.
func (e *Env) Close(cmd *cobra.Command, _ []string) error {
	if e.shutdownTracer == nil {
		return nil
	}
	if err := e.shutdownTracer(context.Background()); err != nil {
		return errors.Wrap(err, "failed to shutdown tracer")
	}
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
