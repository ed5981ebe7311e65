// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tune provides live editing of tunable parameters. A tunable
// struct declares its numeric and boolean fields with `min`, `max`,
// `step`, and `default` struct tags; fields are named by their dotted
// path, such as "Distortion.K.1" or "FollowCam.Z".
//
// Edits arrive from other goroutines (a watched file or a websocket
// connection) and are pushed onto a [Queue], which the owner of the
// struct drains at a point of its choosing, so that the struct itself
// is never shared between goroutines.
package tune

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"cogentcore.org/hmdview/base/errors"
)

// ErrUnknownField is returned for a field name that does not exist.
var ErrUnknownField = errors.New("tune: unknown field")

// Field is one tunable scalar field of a struct.
type Field struct {

	// Name is the dotted path of the field.
	Name string

	// Min, Max, and Step are the bounds and edit increment from the
	// struct tags; NaN when not specified.
	Min, Max, Step float64

	// Default is the `default` tag value, or "".
	Default string

	value reflect.Value
}

// Kind returns the kind of the field value.
func (f *Field) Kind() reflect.Kind {
	return f.value.Kind()
}

// Get returns the current value, with bools as 0 or 1.
func (f *Field) Get() float64 {
	v := f.value
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	default:
		return v.Float()
	}
}

// Clamp returns x limited to the bounds of the field, at the
// precision of the field.
func (f *Field) Clamp(x float64) float64 {
	lo, hi := f.Min, f.Max
	if f.Kind() == reflect.Float32 {
		lo, hi = float64(float32(lo)), float64(float32(hi))
		x = float64(float32(x))
	}
	if !math.IsNaN(lo) && x < lo {
		x = lo
	}
	if !math.IsNaN(hi) && x > hi {
		x = hi
	}
	return x
}

// Set sets the field to x limited to its bounds. It returns an error
// for values that are not finite.
func (f *Field) Set(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("tune: %s: value %g is not finite", f.Name, x)
	}
	x = f.Clamp(x)
	if math.IsInf(x, 0) {
		return fmt.Errorf("tune: %s: value out of range", f.Name)
	}
	v := f.value
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(x != 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(math.Round(x)))
	default:
		v.SetFloat(x)
	}
	return nil
}

// Fields returns the tunable fields of the struct pointed to by obj, in
// declaration order. Nested structs and arrays are expanded, and inherit
// the tags of their parent field. Unexported fields and fields tagged
// `tune:"-"` are skipped.
func Fields(obj any) []*Field {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil
	}
	var fs []*Field
	addStruct(&fs, "", v.Elem(), nil)
	return fs
}

func addStruct(fs *[]*Field, prefix string, v reflect.Value, parent *reflect.StructTag) {
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() || sf.Tag.Get("tune") == "-" {
			continue
		}
		tag := sf.Tag
		if parent != nil && tag.Get("min") == "" && tag.Get("max") == "" {
			tag = *parent
		}
		addValue(fs, prefix+sf.Name, v.Field(i), tag)
	}
}

func addValue(fs *[]*Field, name string, v reflect.Value, tag reflect.StructTag) {
	switch v.Kind() {
	case reflect.Struct:
		addStruct(fs, name+".", v, &tag)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			addValue(fs, name+"."+strconv.Itoa(i), v.Index(i), tag)
		}
	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*fs = append(*fs, &Field{
			Name:    name,
			Min:     tagFloat(tag, "min"),
			Max:     tagFloat(tag, "max"),
			Step:    tagFloat(tag, "step"),
			Default: tag.Get("default"),
			value:   v,
		})
	}
}

func tagFloat(tag reflect.StructTag, key string) float64 {
	s, ok := tag.Lookup(key)
	if !ok {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Lookup returns the field with the given name.
func Lookup(obj any, name string) (*Field, error) {
	for _, f := range Fields(obj) {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Set sets the named field of obj to x, limited to the field's bounds.
func Set(obj any, name string, x float64) error {
	f, err := Lookup(obj, name)
	if err != nil {
		return err
	}
	return f.Set(x)
}

// Get returns the value of the named field of obj.
func Get(obj any, name string) (float64, error) {
	f, err := Lookup(obj, name)
	if err != nil {
		return 0, err
	}
	return f.Get(), nil
}

// Clamp limits every field of obj to its bounds. Fields that are not
// finite are reset to their default, or else their minimum, or else 0.
// It returns the names of the fields that changed.
func Clamp(obj any) []string {
	var changed []string
	for _, f := range Fields(obj) {
		x := f.Get()
		nx := x
		if math.IsNaN(x) || math.IsInf(x, 0) {
			nx = 0
			if d, err := strconv.ParseFloat(f.Default, 64); err == nil {
				nx = d
			} else if !math.IsNaN(f.Min) {
				nx = f.Min
			}
		}
		nx = f.Clamp(nx)
		if nx != x {
			errors.Log(f.Set(nx))
			changed = append(changed, f.Name)
		}
	}
	return changed
}

// SetDefaults sets every field of obj that has a `default` tag to that
// value. Errors are automatically logged in addition to being returned.
func SetDefaults(obj any) error {
	var errs []error
	for _, f := range Fields(obj) {
		if f.Default == "" {
			continue
		}
		var x float64
		var err error
		if f.Kind() == reflect.Bool {
			var b bool
			b, err = strconv.ParseBool(f.Default)
			if b {
				x = 1
			}
		} else {
			x, err = strconv.ParseFloat(f.Default, 64)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("tune: default of %s: %w", f.Name, err))
			continue
		}
		if err := f.Set(x); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Log(errors.Join(errs...))
}
