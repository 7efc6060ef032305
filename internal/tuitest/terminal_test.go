package tuitest

import (
	"bytes"
	"testing"
)

func TestResponderAnswersProbesInOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("hello\x1b]11;?\x07 and \x1b[6"))
	tr.Process([]byte("n done"))
	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("replies = %q, want %q", out.String(), want)
	}
}

func TestRecordingPlainStripsEscapes(t *testing.T) {
	rec := &Recording{Raw: []byte("\x1b[2J\x1b[H\x1b[1mattach\x1b[0m panel\r\n")}
	if got := rec.Plain(); got != "attach panel\n" {
		t.Fatalf("plain = %q", got)
	}
	if !rec.Contains("attach panel") {
		t.Fatal("expected recording to contain the title")
	}
}
