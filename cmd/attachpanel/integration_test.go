package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/attachpanel/internal/tuitest"
)

func TestAttachPanelOpensAndSwitchesPages(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	configPath := writeConfig(t)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--config", configPath},
		Dir:     cmdDir,
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			{WaitFor: "Press a to open"},
			{Input: []byte("a")},
			{WaitFor: "Gallery", Delay: 300 * time.Millisecond},
			{Input: []byte("2")},
			{WaitFor: "Contacts"},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	for _, want := range []string{"attach panel", "portrait · half", "More", "My Files"} {
		if !rec.Contains(want) {
			t.Fatalf("output missing %q:\n%s", want, rec.Plain())
		}
	}
}

func TestCategoriesCommandListsTable(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	out, err := exec.Command(binary, "categories", "--config", writeConfig(t)).CombinedOutput()
	if err != nil {
		t.Fatalf("categories: %v\n%s", err, out)
	}
	for _, want := range []string{"CATEGORY", "image", "video-recorder", "no camera"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("categories output missing %q:\n%s", want, out)
		}
	}
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"media", "documents", "captures"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	body := fmt.Sprintf(`panel:
  categories: [image, contact, files]
pickers:
  media_dir: %[1]s/media
  document_dir: %[1]s/documents
  capture_dir: %[1]s/captures
capabilities:
  probe: false
  features:
    camera: false
usage:
  path: %[1]s/usage.db
outbox:
  path: %[1]s/outbox.json
`, dir)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "attachpanel-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
