package continuity_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/axis/axistest"
	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/continuity"
	"github.com/agentstation/timeaxis/pkg/logging"
	"github.com/agentstation/timeaxis/pkg/report"
)

const dir = "/data/ts"

func check(t *testing.T, store *axistest.Store, freq calendar.Frequency, jobs int) *report.Report {
	t.Helper()
	cat, err := catalog.FromNames(dir, store.Names())
	require.NoError(t, err)
	checker := continuity.New(axis.NewReader(store), continuity.Options{Jobs: jobs, Logger: logging.NewNopLogger()})
	return checker.Check(context.Background(), dir, cat.Files, freq)
}

func TestContiguousDaily(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 31, 1))).
		Put("run1_2000-02.nc", axistest.New(axistest.Span(31, 59, 1)))

	rep := check(t, store, calendar.Fixed(1), 4)
	assert.True(t, rep.Passed(), rep.Issues)
	assert.Equal(t, 2, rep.Files)
	assert.Equal(t, "Result=Pass:dataset=/data/ts", rep.ResultLine())
}

func TestSubDaily(t *testing.T) {
	store := axistest.NewStore().
		Put("h_2000-01-01.nc", axistest.New(axistest.Span(0, 2, 0.25))).
		Put("h_2000-01-03.nc", axistest.New(axistest.Span(2, 4, 0.25)))

	rep := check(t, store, calendar.Fixed(0.25), 2)
	assert.True(t, rep.Passed(), rep.Issues)
}

func TestInFileDiscontinuity(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 5, 1)).WithTimes(1, 2, 3, 6, 7))

	rep := check(t, store, calendar.Fixed(1), 1)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t,
		"time discontinuity in run1_2000-01.nc at 6, delta was 3 when it should have been 1",
		rep.Issues[0].Message)
	assert.Equal(t, report.KindDiscontinuity, rep.Issues[0].Kind)
	assert.Equal(t, report.Fail, rep.Outcome())
}

func TestDuplicateStepInFixedSeries(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 3, 1)).WithTimes(1, 2, 2))

	rep := check(t, store, calendar.Fixed(1), 1)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, 0.0, rep.Issues[0].Delta)
}

func TestCrossFileGap(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 31, 1))).
		Put("run1_2000-02.nc", axistest.New(axistest.Span(33, 59, 1))).
		Put("run1_2000-03.nc", axistest.New(axistest.Span(59, 90, 1)))

	rep := check(t, store, calendar.Fixed(1), 3)
	require.Len(t, rep.Issues, 1)
	issue := rep.Issues[0]
	assert.Equal(t, "run1_2000-02.nc", issue.File)
	assert.Equal(t, 34.0, issue.At)
	assert.Equal(t, 3.0, issue.Delta)
	assert.Equal(t, 1.0, issue.Expected)
}

func TestMonthlyNoLeap(t *testing.T) {
	store := axistest.NewStore()
	start := 0.0
	for m := 1; m <= 12; m++ {
		bounds := axistest.Months(start, m, 1)
		store.Put(filepath.Join(dir, fmt.Sprintf("mon_2001-%02d.nc", m)), axistest.New(bounds))
		start = bounds[0][1]
	}
	store.Put("mon_2002-01.nc", axistest.New(axistest.Months(start, 1, 12)))

	rep := check(t, store, calendar.Monthly(calendar.NoLeap), 6)
	assert.True(t, rep.Passed(), rep.Issues)
}

func TestMonthlyWrongLength(t *testing.T) {
	bounds := axistest.Months(0, 1, 3)
	store := axistest.NewStore().
		Put("mon_2001-01.nc", axistest.New(bounds).WithTimes(31, 61, 91))

	rep := check(t, store, calendar.Monthly(calendar.NoLeap), 1)
	require.Len(t, rep.Issues, 2)
	assert.Equal(t, 28.0, rep.Issues[0].Expected)
	assert.Equal(t, 30.0, rep.Issues[0].Delta)
}

func TestMonthlyZeroDeltaTolerated(t *testing.T) {
	store := axistest.NewStore().
		Put("mon_2001-01.nc", axistest.New(axistest.Months(0, 1, 2)).WithTimes(31, 31)).
		Put("mon_2001-02.nc", axistest.New(axistest.Months(31, 2, 1)))

	rep := check(t, store, calendar.Monthly(calendar.NoLeap), 2)
	assert.True(t, rep.Passed(), rep.Issues)
}

func TestEmptyFileContinues(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 10, 1))).
		Put("run1_2000-02.nc", axistest.New(nil)).
		Put("run1_2000-03.nc", axistest.New(axistest.Span(11, 20, 1)))

	rep := check(t, store, calendar.Fixed(1), 3)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, report.KindEmpty, rep.Issues[0].Kind)
	assert.Equal(t, "run1_2000-02.nc", rep.Issues[0].File)
}

func TestUnreadableFileReported(t *testing.T) {
	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 10, 1))).
		Put("run1_2000-02.nc", axistest.New(axistest.Span(10, 20, 1)).Without("time_bnds"))

	rep := check(t, store, calendar.Fixed(1), 2)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, report.KindUnreadable, rep.Issues[0].Kind)
}

func TestResultsReorderedAfterCompletion(t *testing.T) {
	laterOpened := make(chan struct{})
	var once sync.Once

	store := axistest.NewStore().
		Put("run1_2000-01.nc", axistest.New(axistest.Span(0, 5, 1))).
		Put("run1_2000-02.nc", axistest.New(axistest.Span(5, 10, 1))).
		Put("run1_2000-03.nc", axistest.New(axistest.Span(11, 15, 1)))
	store.BeforeOpen = func(name string) {
		switch name {
		case "run1_2000-01.nc":
			<-laterOpened
		case "run1_2000-02.nc":
			once.Do(func() { close(laterOpened) })
		}
	}

	rep := check(t, store, calendar.Fixed(1), 2)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, "run1_2000-03.nc", rep.Issues[0].File)
	assert.Equal(t, 2.0, rep.Issues[0].Delta)
}
