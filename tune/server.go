// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tune

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"cogentcore.org/hmdview/base/errors"
	"github.com/gorilla/websocket"
)

// Message is the JSON message exchanged with remote editors.
// Clients send "get" to receive the fields, and "edit" with Edits to
// change them; the server answers with "fields" or "error".
type Message struct {
	Type   string `json:"type"`
	Fields []Info `json:"fields,omitempty"`
	Edits  []Edit `json:"edits,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Server serves the fields of a [Registry] over websocket connections,
// and pushes the edits it receives onto a [Queue].
type Server struct {
	Queue    *Queue
	Registry *Registry

	upgrader websocket.Upgrader
}

// NewServer returns a new [Server].
func NewServer(q *Queue, reg *Registry) *Server {
	return &Server{Queue: q, Registry: reg}
}

// ServeHTTP upgrades the request to a websocket connection, sends the
// current fields, and handles messages until the connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("tune: websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(Message{Type: "fields", Fields: s.Registry.Snapshot()}); err != nil {
		return
	}
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				var se *json.SyntaxError
				if errors.As(err, &se) {
					if conn.WriteJSON(Message{Type: "error", Error: err.Error()}) != nil {
						return
					}
					continue
				}
				slog.Debug("tune: websocket closed", "err", err)
			}
			return
		}
		var reply Message
		switch m.Type {
		case "get":
			reply = Message{Type: "fields", Fields: s.Registry.Snapshot()}
		case "edit":
			s.Queue.Push(m.Edits...)
			continue
		default:
			reply = Message{Type: "error", Error: "unknown message type " + m.Type}
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

// ListenAndServe serves websocket connections on addr at path /tune
// until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves websocket connections on the listener at path /tune
// until the context is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/tune", s)
	hs := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		errors.Log(hs.Shutdown(sctx))
	}()
	slog.Info("tune: serving tunables", "addr", ln.Addr().String())
	err := hs.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
