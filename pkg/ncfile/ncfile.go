// Package ncfile binds the engine to NetCDF files through the pure Go
// go-native-netcdf library. Reading accepts classic CDF and HDF5 based
// files; truncated copies are always written in the classic CDF format.
package ncfile

import (
	"fmt"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// Opener opens NetCDF files as axis.Dataset.
type Opener struct{}

var _ axis.Opener = Opener{}

// Open implements axis.Opener.
func (Opener) Open(path string) (axis.Dataset, error) {
	return Open(path)
}

// Dataset is an open NetCDF file.
type Dataset struct {
	path  string
	group api.Group
}

var _ axis.Dataset = (*Dataset)(nil)

// Open opens the file at path.
func Open(path string) (*Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return &Dataset{path: path, group: g}, nil
}

// GlobalAttribute implements axis.Dataset.
func (d *Dataset) GlobalAttribute(name string) (string, bool) {
	return attrString(d.group.Attributes(), name)
}

// HasVariable implements axis.Dataset.
func (d *Dataset) HasVariable(name string) bool {
	for _, v := range d.group.ListVariables() {
		if v == name {
			return true
		}
	}
	return false
}

// VariableAttribute implements axis.Dataset.
func (d *Dataset) VariableAttribute(variable, name string) (string, bool) {
	v, err := d.group.GetVariable(variable)
	if err != nil || v == nil {
		return "", false
	}
	return attrString(v.Attributes, name)
}

// Dimensions implements axis.Dataset.
func (d *Dataset) Dimensions(variable string) ([]string, error) {
	v, err := d.variable(variable)
	if err != nil {
		return nil, err
	}
	return v.Dimensions, nil
}

// Values implements axis.Dataset.
func (d *Dataset) Values(variable string) ([]float64, error) {
	v, err := d.variable(variable)
	if err != nil {
		return nil, err
	}
	return toFloat64s(v.Values)
}

// Bounds implements axis.Dataset.
func (d *Dataset) Bounds(variable string) ([][2]float64, error) {
	v, err := d.variable(variable)
	if err != nil {
		return nil, err
	}
	return toPairs(v.Values)
}

// Close implements axis.Dataset.
func (d *Dataset) Close() error {
	d.group.Close()
	return nil
}

func (d *Dataset) variable(name string) (*api.Variable, error) {
	v, err := d.group.GetVariable(name)
	if err != nil {
		return nil, errors.NewParseError("netcdf", d.path, "variable "+name, err)
	}
	if v == nil {
		return nil, errors.NewNotFoundError("variable", name)
	}
	return v, nil
}

func attrString(attrs api.AttributeMap, name string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	val, ok := attrs.Get(name)
	if !ok {
		return "", false
	}
	switch v := val.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Slice && rv.Len() == 1 {
		return fmt.Sprint(rv.Index(0).Interface()), true
	}
	return fmt.Sprint(val), true
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Interface:
		return number(v.Elem())
	default:
		return 0, false
	}
}

func toFloat64s(values any) ([]float64, error) {
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		f, ok := number(rv)
		if !ok {
			return nil, fmt.Errorf("non numeric value of type %T", values)
		}
		return []float64{f}, nil
	}
	out := make([]float64, rv.Len())
	for i := range out {
		f, ok := number(rv.Index(i))
		if !ok {
			return nil, fmt.Errorf("non numeric element of type %s", rv.Index(i).Type())
		}
		out[i] = f
	}
	return out, nil
}

func toPairs(values any) ([][2]float64, error) {
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("bounds of type %T are not two dimensional", values)
	}
	out := make([][2]float64, rv.Len())
	for i := range out {
		row, err := toFloat64s(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		if len(row) != 2 {
			return nil, fmt.Errorf("bounds row %d has %d values, want 2", i, len(row))
		}
		out[i] = [2]float64{row[0], row[1]}
	}
	return out, nil
}
