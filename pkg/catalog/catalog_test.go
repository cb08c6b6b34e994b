package catalog_test

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestParseFile(t *testing.T) {
	f, err := catalog.ParseFile("/data/20180215.DECK.cam.h0.2000-03.nc")
	require.NoError(t, err)
	assert.Equal(t, "20180215.DECK.cam.h0", f.Prefix)
	assert.Equal(t, "2000-03", f.Stamp)
	assert.Equal(t, ".nc", f.Suffix)
	assert.Equal(t, 2000, f.Year)
	assert.Equal(t, 3, f.Month)
	assert.Equal(t, 0, f.Day)
	assert.Equal(t, "2000-03.nc", f.SortKey())

	f, err = catalog.ParseFile("run_1999-12-31.nc")
	require.NoError(t, err)
	assert.Equal(t, 31, f.Day)
	assert.Equal(t, "run", f.Prefix)
}

func TestParseFileUsesLastStamp(t *testing.T) {
	f, err := catalog.ParseFile("v2023-01_run.2000-02.nc")
	require.NoError(t, err)
	assert.Equal(t, "2000-02", f.Stamp)
	assert.Equal(t, "v2023-01_run", f.Prefix)
}

func TestParseFileRange(t *testing.T) {
	f, err := catalog.ParseFile("/data/tas_2000-01_2000-12.nc")
	require.NoError(t, err)
	assert.Equal(t, "tas", f.Prefix)
	assert.Equal(t, "2000-01_2000-12", f.Stamp)
	assert.Equal(t, ".nc", f.Suffix)
	assert.Equal(t, 2000, f.Year)
	assert.Equal(t, 1, f.Month)
	assert.Equal(t, "2000-01_2000-12.nc", f.SortKey())

	c, err := catalog.FromNames("/data", []string{
		"tas_2001-01_2001-12.nc",
		"tas_2000-01_2000-12.nc",
		"tas_2002-01_2002-06.nc",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tas"}, c.Streams().List())
	assert.Equal(t, "tas_2000-01_2000-12.nc", c.Files[0].Name)
	assert.Equal(t, "tas_2002-01_2002-06.nc", c.Files[2].Name)
}

func TestParseFileMarkers(t *testing.T) {
	f, err := catalog.ParseFile("run1_2000-02.trunc.nc", ".trunc")
	require.NoError(t, err)
	assert.Equal(t, "2000-02.nc", f.SortKey())
	assert.Equal(t, ".trunc.nc", f.Suffix)
}

func TestParseFilePatternNotFound(t *testing.T) {
	_, err := catalog.ParseFile("README.nc")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrPatternNotFound)
	assert.True(t, errors.IsFatal(err))
}

func TestScanOrdersIndependentOfPrefixLength(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(42))

	var want []string
	for i := 0; i < 40; i++ {
		year := 1850 + rng.Intn(300)
		month := 1 + rng.Intn(12)
		name := fmt.Sprintf("%s%d_%04d-%02d.nc", randomPrefix(rng), i, year, month)
		touch(t, dir, name)
		want = append(want, name)
	}

	c, err := catalog.Scan(dir)
	require.NoError(t, err)
	require.Len(t, c.Files, len(want))

	for i := 1; i < len(c.Files); i++ {
		prev, cur := c.Files[i-1], c.Files[i]
		assert.LessOrEqual(t, prev.SortKey(), cur.SortKey(), "%s before %s", prev.Name, cur.Name)
	}

	keys := make([]string, len(c.Files))
	for i, f := range c.Files {
		keys[i] = f.SortKey()
	}
	assert.True(t, sort.StringsAreSorted(keys))
}

func randomPrefix(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz._"
	n := 1 + rng.Intn(30)
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	b[0] = 'r'
	return string(b)
}

func TestScanTieBreakAndStreams(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "run2_2000-02.nc", "run1_2000-02.nc", "run1_2000-01.nc", "notes.txt", ".hidden.nc")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub_2000-01.nc"), 0o755))

	c, err := catalog.Scan(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range c.Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"run1_2000-01.nc", "run1_2000-02.nc", "run2_2000-02.nc"}, names)
	assert.Equal(t, []string{"run1", "run2"}, c.Streams().List())
	assert.Equal(t, 1, c.Streams().Index("run2"))
	assert.Equal(t, -1, c.Streams().Index("run3"))

	pairs := c.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "run1_2000-02.nc", pairs[1].Earlier.Name)
	assert.Equal(t, "run2_2000-02.nc", pairs[1].Later.Name)
}

func TestScanTruncatedFileKeepsPlace(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "run1_2000-01.nc", "run1_2000-02.trunc.nc", "run2_2000-02.nc", "run2_2000-03.nc")

	c, err := catalog.Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "run1_2000-01.nc"),
		filepath.Join(dir, "run1_2000-02.trunc.nc"),
		filepath.Join(dir, "run2_2000-02.nc"),
		filepath.Join(dir, "run2_2000-03.nc"),
	}, c.Paths())
}

func TestScanFailures(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := catalog.Scan(filepath.Join(t.TempDir(), "nope"))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("name without stamp", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "run1_2000-01.nc", "restart.nc")
		_, err := catalog.Scan(dir)
		assert.ErrorIs(t, err, errors.ErrPatternNotFound)
	})

	t.Run("all extensions", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "run1_2000-01.nc", "notes.txt")
		_, err := catalog.Scan(dir, catalog.WithExtension(""))
		assert.ErrorIs(t, err, errors.ErrPatternNotFound)
	})
}

func TestFromNames(t *testing.T) {
	c, err := catalog.FromNames("/d", []string{"b_2001-01.nc", "a_2000-12.nc"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "a_2000-12.nc", c.Files[0].Name)
	assert.Len(t, c.Pairs(), 1)
}
