// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tune

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"cogentcore.org/hmdview/base/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// ReadEdits reads a TOML document of field values and returns the
// corresponding edits, sorted by name. Tables name nested structs and
// arrays name array elements, so
//
//	[Distortion]
//	K = [1.0, 0.22, 0.24, 0.0]
//
// sets Distortion.K.0 through Distortion.K.3.
func ReadEdits(r io.Reader) ([]Edit, error) {
	var doc map[string]any
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("tune: %w", err)
	}
	var edits []Edit
	if err := flatten(&edits, "", doc); err != nil {
		return nil, err
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Name < edits[j].Name })
	return edits, nil
}

func flatten(edits *[]Edit, name string, v any) error {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			n := k
			if name != "" {
				n = name + "." + k
			}
			if err := flatten(edits, n, e); err != nil {
				return err
			}
		}
	case []any:
		for i, e := range x {
			if err := flatten(edits, name+"."+strconv.Itoa(i), e); err != nil {
				return err
			}
		}
	case float64:
		*edits = append(*edits, Edit{Name: name, Value: x})
	case int64:
		*edits = append(*edits, Edit{Name: name, Value: float64(x)})
	case bool:
		e := Edit{Name: name}
		if x {
			e.Value = 1
		}
		*edits = append(*edits, e)
	default:
		return fmt.Errorf("tune: %s: unsupported value %v of type %T", name, v, v)
	}
	return nil
}

// Watcher pushes the contents of a TOML file onto a [Queue] each time
// the file is written.
type Watcher struct {
	Filename string
	Queue    *Queue

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the given file, pushing its current contents
// onto the queue first if it exists. The containing directory is watched,
// so that editors that replace the file are handled.
func Watch(filename string, q *Queue) (*Watcher, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{Filename: abs, Queue: q, watcher: fw, done: make(chan struct{})}
	if _, err := os.Stat(abs); err == nil {
		errors.Log(w.load())
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				errors.Log(w.load())
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("tune: watching tunables", "file", w.Filename, "err", err)
		}
	}
}

// load reads the file and pushes its edits.
func (w *Watcher) load() error {
	f, err := os.Open(w.Filename)
	if err != nil {
		return err
	}
	defer f.Close()
	edits, err := ReadEdits(f)
	if err != nil {
		return fmt.Errorf("%s: %w", w.Filename, err)
	}
	slog.Info("tune: loaded tunables", "file", w.Filename, "fields", len(edits))
	w.Queue.Push(edits...)
	return nil
}

// Close stops watching and waits for the watch goroutine to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
