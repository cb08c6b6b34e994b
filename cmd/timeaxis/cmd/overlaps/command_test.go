package overlaps

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/pkg/axis/axistest"
	"github.com/agentstation/timeaxis/pkg/logging"
)

func newMock(store *axistest.Store, format string) *application.Mock {
	return &application.Mock{
		EngineFunc: func(opts ...timeaxis.Option) (timeaxis.Engine, error) {
			base := []timeaxis.Option{
				timeaxis.WithOpener(store),
				timeaxis.WithTruncator(store),
				timeaxis.WithLogger(logging.NewNopLogger()),
			}
			return timeaxis.New(append(base, opts...)...)
		},
		Format: format,
	}
}

func execute(t *testing.T, app application.Application, args ...string) string {
	t.Helper()
	cmd := NewCommand(app)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return stdout.String()
}

// twoRestarts holds three streams, each restarting partway through the
// previous one, and a gap before the last file.
func twoRestarts() *axistest.Store {
	return axistest.NewStore().
		Put("a_2000-01.nc", axistest.New(axistest.Span(0, 31, 1))).
		Put("a_2000-02.nc", axistest.New(axistest.Span(31, 59, 1))).
		Put("b_2000-02.nc", axistest.New(axistest.Span(40, 59, 1))).
		Put("c_2000-02.nc", axistest.New(axistest.Span(50, 59, 1))).
		Put("c_2000-04.nc", axistest.New(axistest.Span(90, 120, 1)))
}

func materialize(t *testing.T, store *axistest.Store) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "day")
	require.NoError(t, store.Materialize(dir))
	return dir
}

func TestOverlapsTable(t *testing.T) {
	store := twoRestarts()
	out := execute(t, newMock(store, "table"), materialize(t, store))

	assert.Contains(t, out, "5 files in 3 stream(s)")
	assert.Contains(t, out, "3 misaligned pair(s)")
	assert.Contains(t, out, "1 segment(s) to truncate")
	assert.Contains(t, out, "a_2000-02.nc > b_2000-02.nc > c_2000-02.nc")
	assert.Contains(t, out, "gap")
}

func TestOverlapsYAML(t *testing.T) {
	store := twoRestarts()
	dir := materialize(t, store)
	out := execute(t, newMock(store, "yaml"), dir, "--jobs", "1")

	var rep struct {
		Dataset  string   `yaml:"dataset"`
		Files    int      `yaml:"files"`
		Streams  []string `yaml:"streams"`
		Segments []struct {
			Start float64 `yaml:"start"`
			End   float64 `yaml:"end"`
		} `yaml:"segments"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, dir, rep.Dataset)
	assert.Equal(t, 5, rep.Files)
	assert.Equal(t, []string{"a", "b", "c"}, rep.Streams)
	require.Len(t, rep.Segments, 1)
	assert.Equal(t, 40.0, rep.Segments[0].Start)
	assert.Equal(t, 50.0, rep.Segments[0].End)
}

func TestOverlapsClean(t *testing.T) {
	store := axistest.NewStore().
		Put("a_2000-01.nc", axistest.New(axistest.Span(0, 31, 1))).
		Put("a_2000-02.nc", axistest.New(axistest.Span(31, 59, 1)))
	out := execute(t, newMock(store, "table"), materialize(t, store))

	assert.Contains(t, out, "no misaligned files")
	assert.NotContains(t, out, "segment(s)")
}
