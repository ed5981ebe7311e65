// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error helper functions that
// log or panic on errors, in addition to the standard library
// wrappers re-exported here so that it can replace "errors" imports.
package errors

import (
	"errors"
	"log/slog"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Log takes the given error and logs it if it is non-nil.
// The intended usage is:
//
//	errors.Log(MyFunc(v))
//	// or
//	return errors.Log(MyFunc(v))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error())
	}
	return err
}

// Log1 takes the given value and error and returns the value if
// the error is nil, and logs the error and returns a zero value
// if the error is non-nil. The intended usage is:
//
//	a := errors.Log1(MyFunc(v))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error())
	}
	return v
}

// Must takes the given error and panics if it is non-nil.
// The intended usage is:
//
//	errors.Must(MyFunc(v))
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 takes the given value and error and returns the value if
// the error is nil, and panics if the error is non-nil. The intended usage is:
//
//	a := errors.Must1(MyFunc(v))
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
