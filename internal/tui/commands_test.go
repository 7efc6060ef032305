package tui

import (
	"testing"

	"github.com/csheth/attachpanel/internal/panel"
)

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand("set image http://tizen.org/appcontrol/data/total_count=3 tags=a,b")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.verb != verbSet || cmd.category != panel.CategoryImage {
		t.Fatalf("unexpected command %+v", cmd)
	}
	if v, _ := cmd.data.Str("http://tizen.org/appcontrol/data/total_count"); v != "3" {
		t.Fatalf("total count = %q", v)
	}
	if got := cmd.data.Strings("tags"); len(got) != 2 || got[1] != "b" {
		t.Fatalf("tags = %v", got)
	}

	if cmd, err := parseCommand("  SHOW "); err != nil || cmd.verb != verbShow {
		t.Fatalf("show: %+v %v", cmd, err)
	}
}

func TestParseCommandRejectsMalformedInput(t *testing.T) {
	for _, line := range []string{
		"",
		"launch contact",
		"add",
		"add teleporter",
		"remove voice extra=1",
		"set image",
		"set image novalue",
		"hide now",
	} {
		if _, err := parseCommand(line); err == nil {
			t.Fatalf("expected %q to fail", line)
		}
	}
}

func TestCommandApplyRemovesCategory(t *testing.T) {
	m := newTestModel(t, Config{})
	cmd, err := parseCommand("remove contact")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cmd.apply(m.panel); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := m.panel.Slot(panel.CategoryContact); ok {
		t.Fatal("contact should be removed")
	}
}
