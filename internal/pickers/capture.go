package pickers

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type captureDoneMsg struct {
	view int
	path string
	err  error
}

func captureName(dir, prefix, ext string, at time.Time) string {
	return filepath.Join(dir, prefix+at.Format("20060102_150405")+ext)
}

// camera produces a still frame on demand.
type camera struct {
	*base
	dir  string
	busy bool
	last string
	err  error
}

func newCamera(b *base, dir string) *camera {
	return &camera{base: b, dir: dir}
}

func (c *camera) Init() tea.Cmd { return nil }

func (c *camera) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case captureDoneMsg:
		if msg.view != c.id {
			return nil
		}
		c.busy = false
		c.last, c.err = msg.path, msg.err
		if msg.err == nil {
			c.deliver([]string{msg.path})
		}
	case tea.KeyMsg:
		if c.paused || c.gone || c.busy || msg.String() != "enter" {
			return nil
		}
		c.busy = true
		id, path := c.id, captureName(c.dir, "IMG_", ".png", c.host.now())
		return func() tea.Msg {
			return captureDoneMsg{view: id, path: path, err: writeFrame(path)}
		}
	}
	return nil
}

func (c *camera) Hint() string { return "enter capture" }

func (c *camera) Render(width, height int) string {
	body := helperStyle.Render("Press enter to take a picture.")
	switch {
	case c.busy:
		body = helperStyle.Render("Capturing…")
	case c.err != nil:
		body = errorStyle.Render(c.err.Error())
	case c.last != "":
		body = itemStyle.Render("Saved " + filepath.Base(c.last))
	}
	return viewportStyle.Render(fit(body, max(width-2, 1), height))
}

func writeFrame(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	const w, h = 160, 120
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 160, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// recorder records a voice memo between two presses of enter.
type recorder struct {
	*base
	dir       string
	recording bool
	started   time.Time
	spin      spinner.Model
	last      string
	err       error
}

func newRecorder(b *base, dir string) *recorder {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &recorder{base: b, dir: dir, spin: spin}
}

func (r *recorder) Init() tea.Cmd { return nil }

func (r *recorder) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !r.recording {
			return nil
		}
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return cmd
	case captureDoneMsg:
		if msg.view != r.id {
			return nil
		}
		r.last, r.err = msg.path, msg.err
		if msg.err == nil {
			r.deliver([]string{msg.path})
		}
	case tea.KeyMsg:
		if r.paused || r.gone || msg.String() != "enter" {
			return nil
		}
		if !r.recording {
			r.recording = true
			r.started = r.host.now()
			r.setFlick(false)
			return r.spin.Tick
		}
		r.recording = false
		r.setFlick(true)
		now := r.host.now()
		id, path, length := r.id, captureName(r.dir, "VOICE_", ".wav", now), now.Sub(r.started)
		return func() tea.Msg {
			return captureDoneMsg{view: id, path: path, err: writeSilence(path, length)}
		}
	}
	return nil
}

// Pause drops a recording in progress.
func (r *recorder) Pause() {
	r.base.Pause()
	if r.recording {
		r.recording = false
		r.setFlick(true)
		r.log.Info("recording discarded")
	}
}

func (r *recorder) Hint() string {
	if r.recording {
		return "enter stop"
	}
	return "enter record"
}

func (r *recorder) Render(width, height int) string {
	body := helperStyle.Render("Press enter to start recording.")
	switch {
	case r.recording:
		elapsed := r.host.now().Sub(r.started).Truncate(time.Second)
		body = recordStyle.Render(fmt.Sprintf("%s Recording %s", r.spin.View(), elapsed))
	case r.err != nil:
		body = errorStyle.Render(r.err.Error())
	case r.last != "":
		body = itemStyle.Render("Saved " + filepath.Base(r.last))
	}
	return viewportStyle.Render(fit(body, max(width-2, 1), height))
}

const sampleRate = 8000

// writeSilence writes a 16-bit mono PCM WAV file of the given length.
func writeSilence(path string, length time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	samples := uint32(length.Seconds() * sampleRate)
	dataLen := samples * 2
	header := struct {
		RIFF          [4]byte
		Size          uint32
		WAVE          [4]byte
		Fmt           [4]byte
		FmtSize       uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Data          [4]byte
		DataSize      uint32
	}{
		RIFF: [4]byte{'R', 'I', 'F', 'F'}, Size: 36 + dataLen,
		WAVE: [4]byte{'W', 'A', 'V', 'E'}, Fmt: [4]byte{'f', 'm', 't', ' '},
		FmtSize: 16, Format: 1, Channels: 1,
		SampleRate: sampleRate, ByteRate: sampleRate * 2, BlockAlign: 2, BitsPerSample: 16,
		Data: [4]byte{'d', 'a', 't', 'a'}, DataSize: dataLen,
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(make([]byte, dataLen)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
