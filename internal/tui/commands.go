package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/attachpanel/internal/outbox"
	"github.com/csheth/attachpanel/internal/panel"
)

var errEmptyCommand = errors.New("empty command")

type commandVerb string

const (
	verbAdd    commandVerb = "add"
	verbRemove commandVerb = "remove"
	verbSet    commandVerb = "set"
	verbShow   commandVerb = "show"
	verbHide   commandVerb = "hide"
)

// promptCommand is a parsed line from the command prompt, e.g.
// "add contact" or "set image http://tizen.org/appcontrol/data/total_count=3".
type promptCommand struct {
	verb     commandVerb
	category panel.Category
	data     panel.Data
}

func parseCommand(line string) (promptCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return promptCommand{}, errEmptyCommand
	}
	cmd := promptCommand{verb: commandVerb(strings.ToLower(fields[0]))}
	switch cmd.verb {
	case verbShow, verbHide:
		if len(fields) > 1 {
			return promptCommand{}, fmt.Errorf("%s takes no arguments", cmd.verb)
		}
		return cmd, nil
	case verbAdd, verbRemove, verbSet:
	default:
		return promptCommand{}, fmt.Errorf("unknown command %q", fields[0])
	}
	if len(fields) < 2 {
		return promptCommand{}, fmt.Errorf("%s needs a category", cmd.verb)
	}
	c, err := panel.ParseCategory(fields[1])
	if err != nil {
		return promptCommand{}, err
	}
	cmd.category = c
	pairs := fields[2:]
	if cmd.verb == verbRemove && len(pairs) > 0 {
		return promptCommand{}, errors.New("remove takes only a category")
	}
	if cmd.verb == verbSet && len(pairs) == 0 {
		return promptCommand{}, errors.New("set needs at least one key=value")
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return promptCommand{}, fmt.Errorf("malformed pair %q", pair)
		}
		if cmd.data == nil {
			cmd.data = panel.Data{}
		}
		if strings.Contains(v, ",") {
			cmd.data[k] = panel.List(strings.Split(v, ",")...)
		} else {
			cmd.data[k] = panel.String(v)
		}
	}
	return cmd, nil
}

// apply runs the command against p and returns a status line.
func (c promptCommand) apply(p *panel.Panel) (string, error) {
	switch c.verb {
	case verbShow:
		return "Panel shown.", p.Show()
	case verbHide:
		return "Panel hidden.", p.Hide()
	case verbAdd:
		return fmt.Sprintf("Added %s.", c.category), p.AddCategory(c.category, c.data)
	case verbRemove:
		return fmt.Sprintf("Removed %s.", c.category), p.RemoveCategory(c.category)
	default:
		return fmt.Sprintf("Updated %s.", c.category), p.SetExtraData(c.category, c.data)
	}
}

type saveResultMsg struct {
	count int
	err   error
}

func saveAttachmentJob(path string, a outbox.Attachment) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		if err := outbox.Save(path, []outbox.Attachment{a}); err != nil {
			return saveResultMsg{err: err}, err
		}
		return saveResultMsg{count: 1}, nil
	}
}

func saveLaunchJob(path string, l outbox.Launch) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		if err := outbox.SaveLaunch(path, l); err != nil {
			return saveResultMsg{err: err}, err
		}
		return saveResultMsg{}, nil
	}
}
