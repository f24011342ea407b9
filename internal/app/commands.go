package app

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agbru/bigocalc/internal/cli"
	"github.com/agbru/bigocalc/internal/config"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/history"
	"github.com/agbru/bigocalc/internal/logging"
	"github.com/agbru/bigocalc/internal/server"
	"github.com/agbru/bigocalc/internal/ui"
)

func (a *Application) listCommand(out io.Writer) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered candidates",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			ui.InitTheme(noColor)
			cli.DisplayCandidates(a.Registry, out)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func (a *Application) serveCommand() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Serve the analysis API over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, tuning, err := a.resolve(cfg, cmd)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			srv := server.New(a.Registry, a.newAnalyzer(resolved, tuning), server.ConfigFrom(resolved),
				server.WithLogger(a.Logger), server.WithMetrics(a.Metrics))
			if err := srv.Start(ctx); err != nil {
				a.Logger.Error("server stopped", err)
				a.exitCode = apperrors.ExitErrorGeneric
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&cfg.Sizes, "sizes", "s", cfg.Sizes, "size plan used when a request names none")
	fs.IntVarP(&cfg.Iterations, "iterations", "i", cfg.Iterations, "timed batches per size (0 uses the tuning value)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "maximum duration of one analysis, queueing included")
	fs.IntVar(&cfg.ConfidenceThreshold, "confidence-threshold", cfg.ConfidenceThreshold, "confidence at or below which results are flagged lowConfidence")
	fs.StringVar(&cfg.TuningFile, "tuning", cfg.TuningFile, "YAML file overriding engine thresholds")
	fs.BoolVar(&cfg.PinThread, "pin-thread", cfg.PinThread, "pin measurement to a single OS thread and CPU")
	config.BindServerFlags(fs, &cfg)
	return cmd
}

func (a *Application) historyCommand(out io.Writer) *cobra.Command {
	cfg := config.Default()
	var (
		limit     int
		candidate string
		asJSON    bool
	)

	open := func(cmd *cobra.Command) (*history.Store, config.AppConfig, error) {
		resolved, _, err := a.resolve(cfg, cmd)
		if err != nil {
			return nil, resolved, err
		}
		if resolved.HistoryPath == "" {
			return nil, resolved, apperrors.NewConfigError("no history database: use --history or %sHISTORY", config.EnvPrefix)
		}
		store, err := history.Open(resolved.HistoryPath)
		return store, resolved, err
	}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List past analyses",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, resolved, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Find(history.Query{Candidate: candidate, Limit: limit})
			if err != nil {
				return err
			}
			if asJSON {
				return writeIndentedJSON(out, records)
			}
			cli.DisplayHistory(records, presentation(resolved), out)
			return nil
		},
	}

	show := &cobra.Command{
		Use:           "show ID",
		Short:         "Show one stored analysis",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, resolved, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := findRecord(store, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeIndentedJSON(out, rec)
			}
			cli.DisplayResult(cli.RecordResult(rec), presentation(resolved), out)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "bbolt database recording every analysis")
	pf.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	pf.BoolVar(&cfg.Reveal, "reveal", cfg.Reveal, "show the best-fit label even at low confidence")
	pf.BoolVar(&cfg.Chart, "chart", cfg.Chart, "draw measurements against the fitted curve")
	pf.BoolVar(&asJSON, "json", false, "print records as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records (0 = all)")
	cmd.Flags().StringVarP(&candidate, "candidate", "a", "", "only list this candidate")
	cmd.AddCommand(show)
	return cmd
}

// findRecord looks a record up by full ID or unique ID prefix.
func findRecord(store *history.Store, id string) (history.Record, error) {
	rec, err := store.Get(id)
	if err == nil || !errors.Is(err, history.ErrNotFound) {
		return rec, err
	}
	all, err := store.List(0)
	if err != nil {
		return history.Record{}, err
	}
	var matches []history.Record
	for _, r := range all {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return history.Record{}, apperrors.NewConfigError("no history record %q", id)
	case 1:
		return matches[0], nil
	default:
		return history.Record{}, apperrors.NewConfigError("history record prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

func (a *Application) replCommand(out io.Writer) *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:           "repl",
		Short:         "Analyse candidates interactively",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, tuning, err := a.resolve(cfg, cmd)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			repl := cli.NewREPL(a.newAnalyzer(resolved, tuning), a.Registry, cli.REPLConfig{
				Sizes:        resolved.Sizes,
				Iterations:   resolved.Iterations,
				Timeout:      resolved.Timeout,
				Presentation: presentation(resolved),
			})
			repl.SetInput(cmd.InOrStdin())
			repl.SetOutput(out)
			a.Logger.Debug("repl started", logging.String("sizes", resolved.Sizes))
			repl.Start(ctx)
			return nil
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func (a *Application) versionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			PrintVersion(out)
		},
	}
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
