package outbox

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/csheth/attachpanel/internal/panel"
)

func TestSaveAndLoadInterleaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "outbox.json")
	result := panel.Result{
		Selected: []string{"/tmp/a.jpg"},
		Data: panel.Data{
			panel.KeySelected:  panel.List("/tmp/a.jpg"),
			panel.KeyCallerTag: panel.String(panel.CallerTag),
			"caption":          panel.String("beach"),
		},
	}
	if err := Save(path, []Attachment{NewAttachment(panel.CategoryImage, result)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	launch := Launch{RequestID: "req-1", Target: "contacts", Outcome: "cancelled", Duration: time.Second}
	if err := SaveLaunch(path, launch); err != nil {
		t.Fatalf("save launch: %v", err)
	}
	if err := Save(path, []Attachment{NewAttachment(panel.CategoryContact, panel.Result{Selected: []string{"p1"}})}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	attachments, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("attachments = %d, want 2", len(attachments))
	}
	first := attachments[0]
	if first.Category != "image" || first.Selected[0] != "/tmp/a.jpg" {
		t.Fatalf("first attachment = %+v", first)
	}
	if len(first.Extra) != 1 || first.Extra["caption"][0] != "beach" {
		t.Fatalf("extra = %v", first.Extra)
	}

	launches, err := LoadLaunches(path)
	if err != nil {
		t.Fatalf("load launches: %v", err)
	}
	if len(launches) != 1 || launches[0].Outcome != "cancelled" || launches[0].Duration != time.Second {
		t.Fatalf("launches = %+v", launches)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outbox.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	attachments, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(attachments) != 0 {
		t.Fatalf("attachments = %v", attachments)
	}
	if err := Save(path, nil); err != nil {
		t.Fatalf("save nothing: %v", err)
	}
}
