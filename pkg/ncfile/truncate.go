package ncfile

import (
	"context"
	"os"
	"path/filepath"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
)

// Truncator writes truncated NetCDF copies.
type Truncator struct{}

var _ axis.Truncator = Truncator{}

// Truncate implements axis.Truncator. Variables whose outermost dimension
// is the time dimension are cut to req.Keep steps, all others are copied
// as read. The result is written to a temporary file next to req.Dest and
// renamed into place, so an interrupted run never leaves a partial output.
func (Truncator) Truncate(ctx context.Context, req axis.TruncateRequest) error {
	log := logging.FromContext(ctx)

	src, err := netcdf.Open(req.Source)
	if err != nil {
		return errors.WrapIO("open", req.Source, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(req.Dest), constants.TempPattern)
	if err != nil {
		return errors.WrapIO("write", req.Dest, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	w, err := cdf.OpenWriter(tmpPath)
	if err != nil {
		return errors.WrapIO("write", tmpPath, err)
	}

	for _, name := range src.ListVariables() {
		v, err := src.GetVariable(name)
		if err != nil {
			_ = w.Close()
			return errors.NewParseError("netcdf", req.Source, "variable "+name, err)
		}
		out := *v
		if len(v.Dimensions) > 0 && v.Dimensions[0] == req.TimeDim {
			out.Values, err = head(v.Values, req.Keep)
			if err != nil {
				_ = w.Close()
				return errors.WrapValidation(name, err)
			}
		}
		if err := w.AddVar(name, out); err != nil {
			_ = w.Close()
			return errors.WrapIO("write", req.Dest, err)
		}
	}

	attrs, err := withHistory(src.Attributes(), req.History)
	if err != nil {
		_ = w.Close()
		return errors.WrapIO("write", req.Dest, err)
	}
	if err := w.AddAttributes(attrs); err != nil {
		_ = w.Close()
		return errors.WrapIO("write", req.Dest, err)
	}
	if err := w.Close(); err != nil {
		return errors.WrapIO("write", req.Dest, err)
	}

	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", req.Dest, err)
	}
	if err := os.Rename(tmpPath, req.Dest); err != nil {
		return errors.WrapIO("rename", req.Dest, err)
	}
	log.Debug().
		Str("source", filepath.Base(req.Source)).
		Str("dest", filepath.Base(req.Dest)).
		Int("keep", req.Keep).
		Msg("Wrote truncated file")
	return nil
}

// head returns the first n elements of a slice value.
func head(values any, n int) (any, error) {
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return nil, errors.New("time indexed variable is not an array")
	}
	if n < 0 || n > rv.Len() {
		return nil, errors.NewValidationError("keep", n, "keep is outside the time axis")
	}
	return rv.Slice(0, n).Interface(), nil
}

// withHistory copies attrs and prepends line to the history attribute,
// newest first as NCO and CDO tools record it.
func withHistory(attrs api.AttributeMap, line string) (api.AttributeMap, error) {
	var keys []string
	vals := map[string]any{}
	if attrs != nil {
		for _, k := range attrs.Keys() {
			v, _ := attrs.Get(k)
			keys = append(keys, k)
			vals[k] = v
		}
	}
	if old, ok := vals[constants.HistoryAttribute].(string); ok && old != "" {
		vals[constants.HistoryAttribute] = line + "\n" + old
	} else {
		if _, ok := vals[constants.HistoryAttribute]; !ok {
			keys = append(keys, constants.HistoryAttribute)
		}
		vals[constants.HistoryAttribute] = line
	}
	return util.NewOrderedMap(keys, vals)
}
