package launcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/panel"
)

func calendarRequest() panel.LaunchRequest {
	d, _ := panel.Describe(panel.CategoryCalendar)
	return panel.LaunchRequest{
		ID:            "req-1",
		Category:      d.Category,
		Target:        d.LaunchTarget,
		Operation:     d.Operation,
		MIME:          d.MIME,
		SelectionMode: d.SelectionMode,
		Mode:          d.Mode,
		Type:          d.Type,
		Max:           d.Max,
		Extra:         panel.Data{"http://tizen.org/appcontrol/data/total_count": panel.String("3")},
	}
}

func TestEnvCarriesRequest(t *testing.T) {
	env := Env(calendarRequest(), "/tmp/r")
	for _, want := range []string{
		"ATTACH_REQUEST_ID=req-1",
		"ATTACH_TARGET=calendar",
		"ATTACH_SELECTION_MODE=multiple",
		"ATTACH_MODE=1",
		"ATTACH_TYPE=vcs",
		"ATTACH_MAX=1",
		"ATTACH_RESULT_FILE=/tmp/r",
		"ATTACH_EXTRA_HTTP___TIZEN_ORG_APPCONTROL_DATA_TOTAL_COUNT=3",
	} {
		require.Contains(t, env, want)
	}
}

func TestReadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("# header\n/a.vcs\n\n /b.vcs \n"), 0o644))
	data, err := ReadResult(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/a.vcs", "/b.vcs"}, data.Strings(panel.KeySelected))

	require.NoError(t, os.WriteFile(path, []byte("\n# nothing\n"), 0o644))
	data, err = ReadResult(path)
	require.NoError(t, err)
	require.Nil(t, data)

	data, err = ReadResult(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestScanFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	write := func(name string, mod time.Time) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(p, mod, mod))
		return p
	}
	oldest := write("a.png", old)
	newest := write("nested/b.jpg", time.Now())
	write("c.txt", time.Now())
	write(".hidden/d.png", time.Now())
	clip := write("e.mp4", time.Now())

	data, err := Scan(dir, panel.LaunchRequest{MIME: "image/*", SelectionMode: panel.SelectionMultiple})
	require.NoError(t, err)
	require.Equal(t, []string{newest, oldest}, data.Strings(panel.KeySelected))

	data, err = Scan(dir, panel.LaunchRequest{MIME: "image/*", SelectionMode: panel.SelectionSingle})
	require.NoError(t, err)
	require.Equal(t, []string{newest}, data.Strings(panel.KeySelected))

	data, err = Scan(dir, panel.LaunchRequest{MIME: "video/*", SelectionMode: panel.SelectionMultiple})
	require.NoError(t, err)
	require.Equal(t, []string{clip}, data.Strings(panel.KeySelected))

	data, err = Scan(dir, panel.LaunchRequest{Type: "vcf"})
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestPrepareFallsBackToScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "team.vcs"), []byte("BEGIN:VCALENDAR"), 0o644))
	l := New(nil, Options{ScanDir: dir, ResultDir: t.TempDir()})

	plan, err := l.Prepare(context.Background(), calendarRequest())
	require.NoError(t, err)
	require.Nil(t, plan.Cmd)
	data, err := plan.Run()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "team.vcs")}, data.Strings(panel.KeySelected))

	d, _ := panel.Describe(panel.CategoryVideoRecorder)
	_, err = l.Prepare(context.Background(), panel.LaunchRequest{Target: d.LaunchTarget, Operation: d.Operation})
	require.ErrorIs(t, err, ErrNoHandler)
}

func TestRunCommandCapturesStdout(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	resultDir := t.TempDir()
	l := New(map[string]config.LauncherConfig{
		"calendar": {Command: "/bin/sh", Args: []string{"-c", `printf '%s\n' "$ATTACH_TYPE-$ATTACH_MAX" second`}},
		"contacts": {Command: "/bin/sh", Args: []string{"-c", `echo "$ATTACH_ITEM_TYPE" > "$0"`, "{result}"}},
	}, Options{ResultDir: resultDir})

	plan, err := l.Prepare(context.Background(), calendarRequest())
	require.NoError(t, err)
	require.False(t, plan.Interactive)
	data, err := plan.Run()
	require.NoError(t, err)
	require.Equal(t, []string{"vcs-1", "second"}, data.Strings(panel.KeySelected))

	d, _ := panel.Describe(panel.CategoryContact)
	plan, err = l.Prepare(context.Background(), panel.LaunchRequest{
		ID: "req-2", Target: d.LaunchTarget, Operation: d.Operation, ItemType: d.ItemType,
	})
	require.NoError(t, err)
	require.True(t, slices.ContainsFunc(plan.Cmd.Args, func(a string) bool { return strings.HasSuffix(a, "req-2.result") }))
	data, err = plan.Run()
	require.NoError(t, err)
	require.Equal(t, []string{"person"}, data.Strings(panel.KeySelected))

	entries, err := os.ReadDir(resultDir)
	require.NoError(t, err)
	require.Empty(t, entries, "result files are removed after collection")
}

func TestRunReportsCommandFailure(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	l := New(map[string]config.LauncherConfig{
		"calendar": {Command: "/bin/sh", Args: []string{"-c", "exit 3"}},
	}, Options{ResultDir: t.TempDir()})
	plan, err := l.Prepare(context.Background(), calendarRequest())
	require.NoError(t, err)
	_, err = plan.Run()
	require.Error(t, err)
}
