package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/layout"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

// statsMsg carries one iteration's statistics into the TUI.
type statsMsg struct {
	stats layout.IterationStats
}

// doneMsg signals that the simulation finished.
type doneMsg struct {
	err error
}

// watchModel is the bubbletea model showing live simulation statistics.
type watchModel struct {
	total   int
	current layout.IterationStats
	started bool
	done    bool
	err     error
}

func newWatchModel(total int) watchModel {
	return watchModel{total: total}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case statsMsg:
		m.current = msg.stats
		m.started = true
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Force simulation"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q to stop watching"))
	b.WriteString("\n\n")

	if !m.started {
		b.WriteString(StyleDim.Render("  waiting for first iteration..."))
		b.WriteString("\n")
		return b.String()
	}

	s := m.current
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("iteration"),
		StyleNumber.Render(fmt.Sprintf("%d/%d", s.Iteration+1, m.total))))
	b.WriteString(fmt.Sprintf("  %s  %s\n",
		StyleDim.Render("swinging"),
		StyleValue.Render(fmt.Sprintf("%.3f", s.Swinging))))
	b.WriteString(fmt.Sprintf("  %s  %s\n",
		StyleDim.Render("traction"),
		StyleValue.Render(fmt.Sprintf("%.3f", s.Traction))))
	b.WriteString(fmt.Sprintf("  %s     %s\n",
		StyleDim.Render("speed"),
		StyleValue.Render(fmt.Sprintf("%.3f (efficiency %.3f)", s.Speed, s.SpeedEfficiency))))

	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(StyleWarning.Render("  simulation stopped: " + m.err.Error()))
		} else {
			b.WriteString(StyleSuccess.Render("  simulation complete"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// errLayoutInterrupted reports that the watch view was closed before the
// simulation finished. No layout is available in that case.
var errLayoutInterrupted = errors.New("layout interrupted before completion")

// watchLayout runs the layout stage while displaying live statistics.
// A cache hit produces no iterations; the view then closes immediately.
// Closing the view early cancels the simulation and returns
// errLayoutInterrupted. The extra program options are for tests.
func (c *CLI) watchLayout(ctx context.Context, runner *pipeline.Runner, g *graph.Graph, opts pipeline.Options, teaOpts ...tea.ProgramOption) (graph.Layout, error) {
	opts.SetLayoutDefaults()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	progOpts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	}, teaOpts...)
	p := tea.NewProgram(newWatchModel(opts.Iterations), progOpts...)

	opts.Hook = func(stats layout.IterationStats) {
		p.Send(statsMsg{stats: stats})
	}

	var l graph.Layout
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		l, runErr = runner.ComputeLayout(runCtx, g, opts)
		p.Send(doneMsg{err: runErr})
	}()

	_, uiErr := p.Run()

	// Stop the simulation if the view was closed early, then wait for the
	// goroutine so the reads below cannot race its writes.
	cancel()
	<-done

	if uiErr != nil {
		return graph.Layout{}, uiErr
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) && ctx.Err() == nil {
			return graph.Layout{}, errLayoutInterrupted
		}
		return graph.Layout{}, runErr
	}
	return l, nil
}
