package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/timeaxis/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("directory", "/data/run1")
		assert.Equal(t, "directory /data/run1 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("file", "a.nc")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestPatternNotFoundError(t *testing.T) {
	err := pkgerrors.NewPatternNotFoundError("run1.nc", `\d{4}-\d{2}`)
	assert.Contains(t, err.Error(), "run1.nc")
	assert.True(t, errors.Is(err, pkgerrors.ErrPatternNotFound))
	assert.True(t, pkgerrors.IsFatal(err))
	assert.True(t, pkgerrors.IsFatal(fmt.Errorf("scanning: %w", err)))
}

func TestAxisNotFoundError(t *testing.T) {
	err := pkgerrors.NewAxisNotFoundError("/data/a.nc", "time_bnds", "time_bounds")
	assert.Equal(t, "none of [time_bnds, time_bounds] found in /data/a.nc", err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrAxisNotFound))
	assert.True(t, pkgerrors.IsFatal(err))
}

func TestUnsupportedCalendarError(t *testing.T) {
	err := pkgerrors.NewUnsupportedCalendarError("360_day")
	assert.Equal(t, `unsupported calendar "360_day"`, err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrUnsupportedCalendar))

	var target *pkgerrors.UnsupportedCalendarError
	require.True(t, errors.As(fmt.Errorf("detect: %w", err), &target))
	assert.Equal(t, "360_day", target.Name)
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "jobs",
			Message: "must be positive",
		}
		assert.Equal(t, "validation failed for field jobs: must be positive", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.False(t, pkgerrors.IsFatal(err))
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.NewConfigError("viper", "reading config file", base)
	assert.Contains(t, err.Error(), "viper")
	assert.Contains(t, err.Error(), "reading config file")
	assert.Equal(t, base, err.Unwrap())
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/out/a.trunc.nc", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/out/a.trunc.nc")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("link", "/out/b.nc", errors.New("exists"))
		var ioErr *pkgerrors.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "link", ioErr.Operation)
		assert.Equal(t, "/out/b.nc", ioErr.Path)
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	})
}

func TestParseError(t *testing.T) {
	err := pkgerrors.WrapParse("units", "a.nc", errors.New("missing since"))
	assert.Equal(t, "parse error in units file a.nc: missing since", err.Error())
	assert.NoError(t, pkgerrors.WrapParse("units", "a.nc", nil))
}

func TestIsCheckFailed(t *testing.T) {
	assert.True(t, pkgerrors.IsCheckFailed(fmt.Errorf("dataset /x: %w", pkgerrors.ErrCheckFailed)))
	assert.False(t, pkgerrors.IsCheckFailed(pkgerrors.ErrNoData))
}
