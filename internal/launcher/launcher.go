// Package launcher starts the external applications behind app categories
// and reads their selections back.
//
// A configured command receives the request through ATTACH_* environment
// variables and reports its selection one item per line, either on stdout
// or in the file named by ATTACH_RESULT_FILE. Targets without a configured
// command fall back to scanning a directory for matching files.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/panel"
)

// ErrNoHandler is returned when a target has neither a command nor a usable
// fallback.
var ErrNoHandler = errors.New("no handler for launch target")

const resultPlaceholder = "{result}"

type Options struct {
	ResultDir string
	ScanDir   string
	Logger    *slog.Logger
}

type Launcher struct {
	commands  map[string]config.LauncherConfig
	resultDir string
	scanDir   string
	log       *slog.Logger
}

func New(commands map[string]config.LauncherConfig, opts Options) *Launcher {
	if opts.ResultDir == "" {
		opts.ResultDir = filepath.Join(os.TempDir(), "attachpanel")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Launcher{
		commands:  commands,
		resultDir: opts.ResultDir,
		scanDir:   opts.ScanDir,
		log:       opts.Logger.With("component", "launcher"),
	}
}

// Plan is a prepared launch.
type Plan struct {
	Request     panel.LaunchRequest
	Cmd         *exec.Cmd
	Interactive bool
	ResultPath  string

	scanDir string
	stdout  *os.File
}

// Prepare builds the plan for req without starting anything.
func (l *Launcher) Prepare(ctx context.Context, req panel.LaunchRequest) (*Plan, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	lc, ok := l.commands[req.Target]
	if !ok {
		if l.scanDir == "" || req.Operation != panel.OperationPick {
			return nil, fmt.Errorf("%w: %s", ErrNoHandler, req.Target)
		}
		l.log.Debug("scan fallback", "target", req.Target, "dir", l.scanDir)
		return &Plan{Request: req, scanDir: l.scanDir}, nil
	}
	if err := os.MkdirAll(l.resultDir, 0o755); err != nil {
		return nil, fmt.Errorf("create result dir: %w", err)
	}
	plan := &Plan{
		Request:     req,
		Interactive: lc.Interactive,
		ResultPath:  filepath.Join(l.resultDir, req.ID+".result"),
	}
	args := make([]string, 0, len(lc.Args))
	usesFile := false
	for _, a := range lc.Args {
		if strings.Contains(a, resultPlaceholder) {
			usesFile = true
		}
		a = strings.ReplaceAll(a, resultPlaceholder, plan.ResultPath)
		a = strings.ReplaceAll(a, "{mime}", req.MIME)
		args = append(args, a)
	}
	cmd := exec.CommandContext(ctx, lc.Command, args...)
	cmd.Env = append(os.Environ(), Env(req, plan.ResultPath)...)
	if !usesFile {
		f, err := os.Create(plan.ResultPath)
		if err != nil {
			return nil, fmt.Errorf("create result file: %w", err)
		}
		cmd.Stdout = f
		plan.stdout = f
	}
	plan.Cmd = cmd
	l.log.Info("launch prepared", "target", req.Target, "command", lc.Command, "interactive", lc.Interactive, "request", req.ID)
	return plan, nil
}

// Run executes a non-interactive plan and returns its selection. A nil
// Data means the user cancelled.
func (p *Plan) Run() (panel.Data, error) {
	if p.Cmd == nil {
		return Scan(p.scanDir, p.Request)
	}
	err := p.Cmd.Run()
	data, collectErr := p.Collect()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Request.Target, err)
	}
	return data, collectErr
}

// Collect reads the selection written by a finished command and removes the
// result file.
func (p *Plan) Collect() (panel.Data, error) {
	if p.stdout != nil {
		p.stdout.Close()
		p.stdout = nil
	}
	if p.ResultPath == "" {
		return nil, nil
	}
	defer os.Remove(p.ResultPath)
	return ReadResult(p.ResultPath)
}

// Env renders req as ATTACH_* environment variables.
func Env(req panel.LaunchRequest, resultPath string) []string {
	env := []string{
		"ATTACH_REQUEST_ID=" + req.ID,
		"ATTACH_TARGET=" + req.Target,
		"ATTACH_OPERATION=" + req.Operation,
		"ATTACH_MIME=" + req.MIME,
		"ATTACH_SELECTION_MODE=" + req.SelectionMode,
		"ATTACH_RESULT_FILE=" + resultPath,
	}
	if req.Mode != 0 {
		env = append(env, "ATTACH_MODE="+strconv.Itoa(req.Mode))
	}
	if req.Type != "" {
		env = append(env, "ATTACH_TYPE="+req.Type)
	}
	if req.ItemType != "" {
		env = append(env, "ATTACH_ITEM_TYPE="+req.ItemType)
	}
	if req.Max > 0 {
		env = append(env, "ATTACH_MAX="+strconv.Itoa(req.Max))
	}
	for _, key := range req.Extra.Keys() {
		env = append(env, "ATTACH_EXTRA_"+envName(key)+"="+strings.Join(req.Extra.Strings(key), "\n"))
	}
	return env
}

func envName(key string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(key) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ReadResult parses a result file: one selected item per line, blank lines
// and lines starting with # ignored. An empty selection yields nil.
func ReadResult(path string) (panel.Data, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var items []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return panel.Data{panel.KeySelected: panel.List(items...)}, nil
}

// Scan picks files under dir that match the request's MIME filter or item
// type, newest first, honouring single selection and Max.
func Scan(dir string, req panel.LaunchRequest) (panel.Data, error) {
	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !Matches(req, path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, candidate{path: path, mod: info.ModTime().UnixNano()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	slices.SortFunc(found, func(a, b candidate) int {
		if a.mod != b.mod {
			if a.mod > b.mod {
				return -1
			}
			return 1
		}
		return strings.Compare(a.path, b.path)
	})
	limit := len(found)
	if req.SelectionMode == panel.SelectionSingle {
		limit = min(limit, 1)
	}
	if req.Max > 0 {
		limit = min(limit, req.Max)
	}
	if limit == 0 {
		return nil, nil
	}
	items := make([]string, 0, limit)
	for _, c := range found[:limit] {
		items = append(items, c.path)
	}
	return panel.Data{panel.KeySelected: panel.List(items...)}, nil
}

// Matches reports whether path satisfies the MIME filter or item type of req.
func Matches(req panel.LaunchRequest, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if req.Type != "" {
		return ext == "."+strings.ToLower(req.Type)
	}
	if req.MIME == "" {
		return true
	}
	typ, ok := mediaTypes[ext]
	if !ok {
		typ = mime.TypeByExtension(ext)
	}
	if typ == "" {
		return false
	}
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	if prefix, ok := strings.CutSuffix(req.MIME, "/*"); ok {
		return strings.HasPrefix(typ, prefix+"/")
	}
	return typ == req.MIME
}

// mediaTypes covers media extensions missing from the builtin mime table.
var mediaTypes = map[string]string{
	".3gp":  "video/3gpp",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
}
