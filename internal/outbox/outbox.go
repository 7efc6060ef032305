// Package outbox keeps a JSON log of the selections the panel delivered and
// of the application launches behind them.
package outbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/csheth/attachpanel/internal/panel"
)

const (
	entryTypeResult = "result"
	entryTypeLaunch = "launch"
)

type entryHeader struct {
	EntryType string `json:"entryType"`
}

// Attachment is a selection delivered to the host.
type Attachment struct {
	EntryType  string              `json:"entryType"`
	Category   string              `json:"category"`
	Selected   []string            `json:"selected"`
	Extra      map[string][]string `json:"extra,omitempty"`
	ReceivedAt time.Time           `json:"receivedAt"`
}

// Launch records one application launch and how it ended.
type Launch struct {
	EntryType string        `json:"entryType"`
	RequestID string        `json:"requestId"`
	Target    string        `json:"target"`
	Outcome   string        `json:"outcome"`
	Err       string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	StartedAt time.Time     `json:"startedAt"`
}

// NewAttachment converts a panel result into an outbox entry. Reserved and
// selection keys are dropped from Extra.
func NewAttachment(c panel.Category, r panel.Result) Attachment {
	a := Attachment{
		EntryType:  entryTypeResult,
		Category:   c.String(),
		Selected:   append([]string(nil), r.Selected...),
		ReceivedAt: time.Now(),
	}
	for _, key := range r.Data.Keys() {
		if key == panel.KeySelected || key == panel.KeyCallerTag {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string][]string)
		}
		a.Extra[key] = r.Data.Strings(key)
	}
	return a
}

// Save appends attachments to the outbox file, creating it if necessary.
func Save(path string, attachments []Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	entries := make([]json.RawMessage, 0, len(attachments))
	for _, a := range attachments {
		a.EntryType = entryTypeResult
		raw, err := json.Marshal(a)
		if err != nil {
			return err
		}
		entries = append(entries, raw)
	}
	return appendEntries(path, entries)
}

// SaveLaunch appends a launch record to the outbox file.
func SaveLaunch(path string, l Launch) error {
	l.EntryType = entryTypeLaunch
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return appendEntries(path, []json.RawMessage{raw})
}

// Load returns every stored attachment.
func Load(path string) ([]Attachment, error) {
	entries, err := loadEntries(path)
	if err != nil {
		return nil, err
	}
	out := make([]Attachment, 0, len(entries))
	for _, raw := range entries {
		entryType, err := detectEntryType(raw)
		if err != nil {
			return nil, err
		}
		if entryType != entryTypeResult {
			continue
		}
		var a Attachment
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// LoadLaunches returns every stored launch record.
func LoadLaunches(path string) ([]Launch, error) {
	entries, err := loadEntries(path)
	if err != nil {
		return nil, err
	}
	var out []Launch
	for _, raw := range entries {
		entryType, err := detectEntryType(raw)
		if err != nil {
			return nil, err
		}
		if entryType != entryTypeLaunch {
			continue
		}
		var l Launch
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func appendEntries(path string, newEntries []json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	entries, err := loadEntries(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		entries = nil
	}
	entries = append(entries, newEntries...)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func detectEntryType(raw json.RawMessage) (string, error) {
	var header entryHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return "", err
	}
	if header.EntryType == "" {
		return entryTypeResult, nil
	}
	return header.EntryType, nil
}
