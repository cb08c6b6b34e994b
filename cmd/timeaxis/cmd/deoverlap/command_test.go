package deoverlap

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/pkg/axis/axistest"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
)

func newMock(store *axistest.Store, format string, settings application.Settings) *application.Mock {
	return &application.Mock{
		EngineFunc: func(opts ...timeaxis.Option) (timeaxis.Engine, error) {
			base := []timeaxis.Option{
				timeaxis.WithOpener(store),
				timeaxis.WithTruncator(store),
				timeaxis.WithLogger(logging.NewNopLogger()),
			}
			return timeaxis.New(append(base, opts...)...)
		},
		Format:       format,
		SettingsFunc: func() application.Settings { return settings },
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(app application.Application, args ...string) result {
	cmd := NewCommand(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func restart() *axistest.Store {
	return axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 31, 1))).
		Put("run1_2000-02.nc", axistest.New(axistest.Span(31, 59, 1))).
		Put("run2_2000-02.nc", axistest.New(axistest.Span(45, 59, 1)))
}

func dirs(t *testing.T, store *axistest.Store) (string, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "day")
	require.NoError(t, store.Materialize(dir))
	return dir, filepath.Join(root, "out")
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, e := range list {
		names[i] = e.Name()
	}
	return names
}

func TestDeoverlapRestart(t *testing.T) {
	store := restart()
	dir, out := dirs(t, store)

	res := execute(newMock(store, "table", application.Settings{Jobs: 2}), dir, "--output", out)
	require.NoError(t, res.err)

	assert.Equal(t, []string{"run1_2000-01.nc", "run1_2000-02.trunc.nc", "run2_2000-02.nc"}, entries(t, out))
	assert.Contains(t, res.stderr, "segment 1: run1_2000-02.nc > run2_2000-02.nc, 1 cut(s)")
	assert.Contains(t, res.stderr, "run1_2000-02.nc -> run1_2000-02.trunc.nc (kept 14 steps)")
	assert.Contains(t, res.stdout, "1 truncated, 2 linked, 0 superseded, 0 failed: "+out)

	link, err := os.Readlink(filepath.Join(out, "run1_2000-01.nc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run1_2000-01.nc"), link)
}

func TestDeoverlapCopyJSON(t *testing.T) {
	store := restart()
	dir, out := dirs(t, store)

	res := execute(newMock(store, "json", application.Settings{Jobs: 2, Quiet: true}), dir, "--output", out, "--copy")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)

	var rep timeaxis.RepairReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rep))
	assert.Equal(t, "copy", rep.Result.Mode)
	require.Len(t, rep.Result.Truncated, 1)
	assert.Equal(t, 14, rep.Result.Truncated[0].Keep)
	assert.Empty(t, rep.Remaining)

	info, err := os.Lstat(filepath.Join(out, "run2_2000-02.nc"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestDeoverlapConfiguredOutput(t *testing.T) {
	store := restart()
	dir, out := dirs(t, store)

	res := execute(newMock(store, "table", application.Settings{Jobs: 2, OutputDir: out, Copy: true}), dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "2 copied")
	assert.Len(t, entries(t, out), 3)
}

func TestDeoverlapRequiresOutput(t *testing.T) {
	store := restart()
	dir, _ := dirs(t, store)

	res := execute(newMock(store, "table", application.Settings{Jobs: 2}), dir)
	assert.True(t, errors.IsValidationError(res.err))
}

func TestDeoverlapFailures(t *testing.T) {
	newStore := func() *axistest.Store {
		store := restart()
		store.TruncateErr["run1_2000-02.trunc.nc"] = errors.New("disk full")
		return store
	}

	t.Run("best effort", func(t *testing.T) {
		store := newStore()
		dir, out := dirs(t, store)
		res := execute(newMock(store, "table", application.Settings{Jobs: 2}), dir, "--output", out)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "run1_2000-02.nc")
		assert.Contains(t, res.stdout, "disk full")
		assert.Contains(t, res.stdout, "1 failed")
	})

	t.Run("strict", func(t *testing.T) {
		store := newStore()
		dir, out := dirs(t, store)
		res := execute(newMock(store, "table", application.Settings{Jobs: 2}), dir, "--output", out, "--strict")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "1 file(s) failed")
	})
}

func TestDeoverlapNoOverlap(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 31, 1))).
		Put("run1_2000-02.nc", axistest.New(axistest.Span(31, 59, 1)))
	dir, out := dirs(t, store)

	res := execute(newMock(store, "table", application.Settings{Jobs: 2}), dir, "--output", out)
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)
	assert.Equal(t, []string{"run1_2000-01.nc", "run1_2000-02.nc"}, entries(t, out))
	assert.Empty(t, store.Truncations())
}
