// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tune

import (
	"log/slog"
	"sync"
)

// Edit is a request to set a field to a value.
type Edit struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Queue is a goroutine-safe queue of edits.
type Queue struct {
	mu    sync.Mutex
	edits []Edit
}

// Push adds edits to the queue.
func (q *Queue) Push(edits ...Edit) {
	q.mu.Lock()
	q.edits = append(q.edits, edits...)
	q.mu.Unlock()
}

// Drain removes and returns all queued edits.
func (q *Queue) Drain() []Edit {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.edits
	q.edits = nil
	return e
}

// Apply drains the queue and applies the edits to obj in order. Edits
// that fail are logged and skipped. It returns the number applied.
func (q *Queue) Apply(obj any) int {
	n := 0
	for _, e := range q.Drain() {
		if err := Set(obj, e.Name, e.Value); err != nil {
			slog.Warn("tune: edit rejected", "field", e.Name, "err", err)
			continue
		}
		n++
	}
	return n
}

// Info describes the current state of a field, for remote editors.
type Info struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`

	// ReadOnly marks a readout of the owner, such as the frame rate,
	// that cannot be edited.
	ReadOnly bool `json:"readonly,omitempty"`
}

// Registry holds the last published state of the fields, so that
// other goroutines can read it without touching the struct.
type Registry struct {
	mu    sync.RWMutex
	infos []Info
}

// Publish records the current fields of obj, followed by the given
// readouts, which are marked read-only. It must be called by the
// goroutine that owns obj.
func (r *Registry) Publish(obj any, readouts ...Info) {
	fs := Fields(obj)
	infos := make([]Info, len(fs), len(fs)+len(readouts))
	for i, f := range fs {
		infos[i] = Info{Name: f.Name, Value: f.Get(), Min: orZero(f.Min), Max: orZero(f.Max), Step: orZero(f.Step)}
	}
	for _, ro := range readouts {
		ro.Value = orZero(ro.Value)
		ro.ReadOnly = true
		infos = append(infos, ro)
	}
	r.mu.Lock()
	r.infos = infos
	r.mu.Unlock()
}

// Snapshot returns a copy of the last published fields.
func (r *Registry) Snapshot() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Info(nil), r.infos...)
}

// orZero maps NaN, which JSON cannot encode, to 0.
func orZero(x float64) float64 {
	if x != x {
		return 0
	}
	return x
}
