// Package app wires configuration, the analysis engine and the presentation
// layers into the bigocalc command tree.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agbru/bigocalc/internal/analysis"
	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/cli"
	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/config"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/logging"
	"github.com/agbru/bigocalc/internal/metrics"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/ui"
)

// Application represents the bigocalc application instance.
type Application struct {
	Registry  *candidates.Registry
	ErrWriter io.Writer
	Logger    logging.Logger
	Metrics   *metrics.Metrics

	args     []string
	exitCode int
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the candidates the application can analyse.
func WithRegistry(r *candidates.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application for the given command line (program name
// first, as in os.Args).
func New(args []string, errWriter io.Writer, opts ...AppOption) *Application {
	app := &Application{ErrWriter: errWriter}
	if len(args) > 0 {
		app.args = args[1:]
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = candidates.NewDefaultRegistry()
	}
	if app.Logger == nil {
		app.Logger = logging.NewLogger(errWriter, "bigocalc")
	}
	if app.Metrics == nil {
		app.Metrics = metrics.New()
	}
	return app
}

// Run executes the command line and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	a.exitCode = apperrors.ExitSuccess

	root := a.newRootCommand(out)
	root.SetArgs(a.args)
	root.SetOut(out)
	root.SetErr(a.ErrWriter)

	if err := root.ExecuteContext(ctx); err != nil {
		return apperrors.HandleAnalysisError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return a.exitCode
}

func (a *Application) newRootCommand(out io.Writer) *cobra.Command {
	root := a.analysisCommand(out, "bigocalc", "Estimate the time complexity of functions empirically", config.Default())
	root.Long = "bigocalc times candidate functions on growing input sizes, fits the\n" +
		"measurements against O(1), O(log n), O(n), O(n log n) and O(n²),\n" +
		"and reports the best-fitting class with a confidence score."
	root.Version = Version
	root.SetVersionTemplate("bigocalc {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewConfigError("%v", err)
	})

	verifyDefaults := config.Default()
	verifyDefaults.Chart = false
	verifyDefaults.CandidatePlans = true
	verify := a.analysisCommand(out, "verify", "Check every candidate against its known class", verifyDefaults)
	verify.Long = "verify measures each candidate with its recommended size plan, when it\n" +
		"has one, so the expected class can be told apart from its neighbours.\n" +
		"An explicit --sizes applies to every candidate instead."

	root.AddCommand(
		a.analysisCommand(out, "analyze", "Analyse the selected candidates (default command)", config.Default()),
		verify,
		a.listCommand(out),
		a.serveCommand(),
		a.historyCommand(out),
		a.replCommand(out),
		a.versionCommand(out),
	)
	return root
}

// analysisCommand builds a command running the analysis pipeline with
// defaults as flag defaults.
func (a *Application) analysisCommand(out io.Writer, use, short string, defaults config.AppConfig) *cobra.Command {
	cfg := defaults
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, tuning, err := a.resolve(cfg, cmd)
			if err != nil {
				return err
			}
			a.exitCode = a.runAnalyze(cmd.Context(), resolved, tuning, out)
			return nil
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)
	cli.RegisterCompletions(cmd, a.Registry)
	return cmd
}

// resolve applies the environment, validates, loads the tuning file and
// sets up theme and log level.
func (a *Application) resolve(cfg config.AppConfig, cmd *cobra.Command) (config.AppConfig, config.Tuning, error) {
	resolved, err := config.Resolve(cfg, cmd.Flags())
	if err != nil {
		return resolved, config.Tuning{}, err
	}
	tuning, err := config.LoadTuning(resolved.TuningFile)
	if err != nil {
		return resolved, config.Tuning{}, err
	}
	ui.InitTheme(resolved.NoColor)
	if resolved.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return resolved, tuning, nil
}

// newAnalyzer builds the engine from the resolved configuration.
func (a *Application) newAnalyzer(cfg config.AppConfig, tuning config.Tuning) *analysis.Analyzer {
	b := bench.New(bench.WithConfig(tuning.BenchConfig(cfg)), bench.WithLogger(a.Logger))
	c := complexity.NewClassifier(complexity.WithThresholds(tuning.Thresholds()), complexity.WithLogger(a.Logger))
	return analysis.New(b, c, analysis.WithMetrics(a.Metrics), analysis.WithLogger(a.Logger))
}

// lifecycle bounds ctx by the configured timeout and SIGINT/SIGTERM.
func lifecycle(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// signalContext cancels ctx on SIGINT/SIGTERM only.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// presentation derives the presentation options from the configuration.
func presentation(cfg config.AppConfig) orchestration.PresentationOptions {
	return orchestration.PresentationOptions{
		Verbose:             cfg.Verbose,
		Reveal:              cfg.Reveal,
		Chart:               cfg.Chart,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
	}
}

func (a *Application) warnf(format string, args ...any) {
	th := ui.GetCurrentTheme()
	fmt.Fprintln(a.ErrWriter, th.Paint(th.Warn, fmt.Sprintf(format, args...)))
}
