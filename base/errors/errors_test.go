// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTest = New("test error")

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	assert.Equal(t, errTest, Log(errTest))
	assert.Equal(t, 3, Log1(3, nil))
	assert.Equal(t, 0, Log1(0, errTest))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(errTest) })
	assert.Equal(t, "x", Must1("x", nil))
	assert.Panics(t, func() { Must1("x", errTest) })
}

func TestWrapped(t *testing.T) {
	err := fmt.Errorf("allocating: %w", errTest)
	assert.True(t, Is(err, errTest))
	assert.True(t, Is(Join(New("other"), err), errTest))
}
