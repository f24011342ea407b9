package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/analysis"
	"github.com/agbru/bigocalc/internal/candidates"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/sysmon"
)

// Layout constants for the TUI dashboard.
const (
	headerHeight                = 1
	footerHeight                = 1
	minBodyHeight               = 8
	CandidatesPanelWidthPercent = 40
	MetricsPanelHeight          = 6
)

// Session is what the dashboard measures.
type Session struct {
	Analyzer   *analysis.Analyzer
	Candidates []candidates.Candidate
	Sizes      []int
	Iterations int
	Options    orchestration.PresentationOptions

	// Plan is the size plan as typed by the user, shown in the header.
	Plan string
}

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) candidatesWidth() int {
	return l.width * CandidatesPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.candidatesWidth()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) resultHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header     HeaderModel
	candidates CandidatesModel
	result     ResultModel
	metrics    MetricsModel
	footer     FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	session   Session
	ref       *programRef
	paused    bool
}

// NewModel creates a new TUI model.
func NewModel(parentCtx context.Context, s Session, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	km := DefaultKeyMap()

	return Model{
		header:     NewHeaderModel(version, s.Plan),
		candidates: NewCandidatesModel(s.Candidates),
		metrics:    NewMetricsModel(),
		footer:     NewFooterModel(km),
		keymap:     km,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		session:   s,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startAnalysisCmd(m.ref, m.ctx, m.session, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation || m.paused {
			return m, nil
		}
		m.candidates.UpdateProgress(msg.Update)
		m.header.SetProgress(msg.AverageProgress, msg.ETA)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case AnalysisCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.candidates.SetResults(msg.Results)
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case ErrorMsg:
		m.footer.SetError(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.HandleAnalysisError(msg.Err, m.header.Elapsed(), io.Discard, nil)
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reveal):
		m.session.Options.Reveal = !m.session.Options.Reveal
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.candidates.MoveUp()
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.candidates.MoveDown()
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		if m.cancel != nil {
			m.cancel()
		}

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.candidates.Reset()
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startAnalysisCmd(m.ref, m.ctx, m.session, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	name, res := m.candidates.Selected()
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.result.View(name, res, m.session.Options),
		m.metrics.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.candidates.View(m.session.Options), right)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// ExitCode returns the exit code of the last finished run.
func (m Model) ExitCode() int { return m.exitCode }

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.candidates.SetSize(m.candidatesWidth(), m.bodyHeight())
	m.result.SetSize(m.rightWidth(), m.resultHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, s Session, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, s, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startAnalysisCmd returns a tea.Cmd that runs the whole batch.
func startAnalysisCmd(ref *programRef, ctx context.Context, s Session, gen uint64) tea.Cmd {
	return func() tea.Msg {
		progressReporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref}

		results := orchestration.ExecuteAnalyses(ctx, s.Analyzer, s.Candidates, s.Sizes, s.Iterations, progressReporter, io.Discard)
		exitCode := orchestration.AnalyzeComparisonResults(results, s.Options, presenter, presenter, io.Discard)

		return AnalysisCompleteMsg{Results: results, ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
