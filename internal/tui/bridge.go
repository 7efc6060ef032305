package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/attachpanel/internal/launcher"
	"github.com/csheth/attachpanel/internal/panel"
)

var errNoLauncher = errors.New("no launcher configured")

const (
	outcomeSelected  = "selected"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

type launchDoneMsg struct {
	id      string
	target  string
	data    panel.Data
	err     error
	started time.Time
}

type pendingLaunch struct {
	reply   func(panel.Data)
	target  string
	started time.Time
}

// launchBridge turns panel launch requests into program commands and
// routes the selections back once they complete.
type launchBridge struct {
	ctx      context.Context
	launcher *launcher.Launcher
	jobs     *jobBus
	log      *slog.Logger
	inflight map[string]pendingLaunch
	pending  []tea.Cmd
}

func newLaunchBridge(ctx context.Context, l *launcher.Launcher, jobs *jobBus, log *slog.Logger) *launchBridge {
	return &launchBridge{
		ctx:      ctx,
		launcher: l,
		jobs:     jobs,
		log:      log.With("component", "bridge"),
		inflight: make(map[string]pendingLaunch),
	}
}

func (b *launchBridge) Launch(req panel.LaunchRequest, reply func(panel.Data)) error {
	if b.launcher == nil {
		return errNoLauncher
	}
	plan, err := b.launcher.Prepare(b.ctx, req)
	if err != nil {
		return err
	}
	started := time.Now()
	b.inflight[req.ID] = pendingLaunch{reply: reply, target: req.Target, started: started}
	done := func(data panel.Data, err error) tea.Msg {
		return launchDoneMsg{id: req.ID, target: req.Target, data: data, err: err, started: started}
	}
	if plan.Interactive && plan.Cmd != nil {
		b.pending = append(b.pending, tea.ExecProcess(plan.Cmd, func(runErr error) tea.Msg {
			data, err := plan.Collect()
			if runErr != nil {
				err = runErr
			}
			return done(data, err)
		}))
	} else {
		b.pending = append(b.pending, b.jobs.Start(jobKindLaunch, func(context.Context) (tea.Msg, error) {
			data, err := plan.Run()
			return done(data, err), err
		}))
	}
	b.log.Info("launch started", "target", req.Target, "request", req.ID, "interactive", plan.Interactive)
	return nil
}

// complete hands a finished launch back to the panel and reports its
// outcome.
func (b *launchBridge) complete(msg launchDoneMsg) string {
	entry, ok := b.inflight[msg.id]
	if !ok {
		return ""
	}
	delete(b.inflight, msg.id)
	switch {
	case msg.err != nil:
		b.log.Warn("launch failed", "target", msg.target, "request", msg.id, "err", msg.err)
		entry.reply(nil)
		return outcomeFailed
	case len(msg.data) == 0:
		entry.reply(nil)
		return outcomeCancelled
	default:
		entry.reply(msg.data)
		return outcomeSelected
	}
}

func (b *launchBridge) running() int { return len(b.inflight) }

func (b *launchBridge) takeCmds() tea.Cmd {
	if len(b.pending) == 0 {
		return nil
	}
	cmds := b.pending
	b.pending = nil
	return tea.Batch(cmds...)
}
