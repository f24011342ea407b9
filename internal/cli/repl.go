package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/bigocalc/internal/analysis"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/sizes"
	"github.com/agbru/bigocalc/internal/ui"
)

// REPLConfig holds the settings of an interactive session.
type REPLConfig struct {
	// Sizes is the initial size plan.
	Sizes string
	// Iterations is the number of timed batches per size (0 = default).
	Iterations int
	// Timeout bounds each analysis.
	Timeout time.Duration
	// Presentation drives how results are printed.
	Presentation orchestration.PresentationOptions
}

// REPL is an interactive session analysing registered candidates one
// command at a time.
type REPL struct {
	config   REPLConfig
	analyzer *analysis.Analyzer
	registry *candidates.Registry
	plan     sizes.Plan
	in       io.Reader
	out      io.Writer
	// reporter defaults to the spinner; tests replace it.
	reporter orchestration.ProgressReporter
}

// NewREPL creates a session. An invalid initial plan falls back to the
// default plan.
func NewREPL(analyzer *analysis.Analyzer, registry *candidates.Registry, config REPLConfig) *REPL {
	plan, err := sizes.Parse(config.Sizes)
	if err != nil {
		plan, _ = sizes.Parse(sizes.DefaultSpec)
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	return &REPL{
		config:   config,
		analyzer: analyzer,
		registry: registry,
		plan:     plan,
		in:       os.Stdin,
		out:      os.Stdout,
		reporter: CLIProgressReporter{},
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until "exit" or EOF. ctx cancellation
// aborts a running analysis but not the session.
func (r *REPL) Start(ctx context.Context) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(r.out, "\n%s\n\n", th.Paint(th.Bold, "bigocalc interactive mode"))
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, th.Paint(th.Good, "bigo> "))

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%s\n", th.Paint(th.Bad, fmt.Sprintf("Read error: %v", err)))
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(ctx, line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printHelp() {
	th := ui.GetCurrentTheme()
	cmd := func(s string) string { return th.Paint(th.Warn, s) }
	fmt.Fprintf(r.out, "%s\n", th.Paint(th.Bold, "Available commands:"))
	fmt.Fprintf(r.out, "  %s  - Analyse one or more candidates (comma-separated or \"all\")\n", cmd("analyze <names>"))
	fmt.Fprintf(r.out, "  %s     - Change the size plan (%s, pow10:A-B, ...)\n", cmd("sizes <plan>"), strings.Join(sizes.Names(), ", "))
	fmt.Fprintf(r.out, "  %s   - Change timed batches per size\n", cmd("iterations <k>"))
	fmt.Fprintf(r.out, "  %s           - Toggle showing low-confidence labels\n", cmd("reveal"))
	fmt.Fprintf(r.out, "  %s             - List candidates\n", cmd("list"))
	fmt.Fprintf(r.out, "  %s           - Display current settings\n", cmd("status"))
	fmt.Fprintf(r.out, "  %s             - Display this help\n", cmd("help"))
	fmt.Fprintf(r.out, "  %s      - Exit interactive mode\n", cmd("exit / quit"))
}

// processCommand executes one command line. Returns false to end the session.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd, args := strings.ToLower(parts[0]), parts[1:]
	th := ui.GetCurrentTheme()

	switch cmd {
	case "analyze", "a":
		r.cmdAnalyze(ctx, args)
	case "sizes", "s":
		r.cmdSizes(args)
	case "iterations", "i":
		r.cmdIterations(args)
	case "reveal":
		r.config.Presentation.Reveal = !r.config.Presentation.Reveal
		fmt.Fprintf(r.out, "Reveal low-confidence labels: %s\n", onOff(r.config.Presentation.Reveal))
	case "list", "ls":
		DisplayCandidates(r.registry, r.out)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, th.Paint(th.Good, "Goodbye!"))
		return false
	default:
		if _, err := r.registry.Get(cmd); err == nil {
			r.cmdAnalyze(ctx, []string{cmd})
			break
		}
		fmt.Fprintln(r.out, th.Paint(th.Bad, "Unknown command: "+cmd))
		fmt.Fprintf(r.out, "Type %s to see available commands.\n", th.Paint(th.Warn, "help"))
	}
	return true
}

func (r *REPL) cmdAnalyze(ctx context.Context, args []string) {
	th := ui.GetCurrentTheme()
	if len(args) == 0 {
		fmt.Fprintln(r.out, th.Paint(th.Bad, "Usage: analyze <names>"))
		return
	}
	selected, err := r.registry.Select(strings.Join(args, ","))
	if err != nil {
		fmt.Fprintln(r.out, th.Paint(th.Bad, err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	results := orchestration.ExecuteAnalyses(ctx, r.analyzer, selected, r.plan.Sizes(), r.config.Iterations, r.reporter, r.out)
	orchestration.AnalyzeComparisonResults(results, r.config.Presentation, CLIResultPresenter{}, CLIResultPresenter{}, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdSizes(args []string) {
	th := ui.GetCurrentTheme()
	if len(args) == 0 {
		fmt.Fprintln(r.out, th.Paint(th.Bad, "Usage: sizes <plan>"))
		return
	}
	plan, err := sizes.Parse(strings.Join(args, ""))
	if err != nil {
		fmt.Fprintln(r.out, th.Paint(th.Bad, err.Error()))
		return
	}
	r.plan = plan
	fmt.Fprintf(r.out, "Size plan changed to: %s (%d sizes)\n", th.Paint(th.Good, plan.String()), plan.Len())
}

func (r *REPL) cmdIterations(args []string) {
	th := ui.GetCurrentTheme()
	if len(args) == 0 {
		fmt.Fprintln(r.out, th.Paint(th.Bad, "Usage: iterations <k>"))
		return
	}
	k, err := strconv.Atoi(args[0])
	if err != nil || k < 0 {
		fmt.Fprintln(r.out, th.Paint(th.Bad, "Invalid value: "+args[0]))
		return
	}
	r.config.Iterations = k
	fmt.Fprintf(r.out, "Iterations changed to: %s\n", th.Paint(th.Good, strconv.Itoa(k)))
}

func (r *REPL) cmdStatus() {
	th := ui.GetCurrentTheme()
	iterations := "default"
	if r.config.Iterations > 0 {
		iterations = strconv.Itoa(r.config.Iterations)
	}
	fmt.Fprintf(r.out, "\n%s\n", th.Paint(th.Bold, "Current configuration:"))
	fmt.Fprintf(r.out, "  Size plan:   %s\n", th.Paint(th.Accent, r.plan.String()))
	fmt.Fprintf(r.out, "  Iterations:  %s\n", th.Paint(th.Accent, iterations))
	fmt.Fprintf(r.out, "  Timeout:     %s\n", th.Paint(th.Accent, r.config.Timeout.String()))
	fmt.Fprintf(r.out, "  Reveal:      %s\n", th.Paint(th.Accent, onOff(r.config.Presentation.Reveal)))
	fmt.Fprintln(r.out)
}
