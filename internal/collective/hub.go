// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package collective

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const apiPrefix = "/v1/runs"

type runInfo struct {
	Run  string `json:"run"`
	Size int    `json:"size"`
}

type roundReply struct {
	Value int64  `json:"value"`
	Error string `json:"error,omitempty"`
}

// Hub serves a rendezvous over HTTP. It is hosted by rank 0, which takes
// part through Comm; the other ranks reach it with Dial.
//
// Routes:
//
//	GET  /v1/runs                    info of the run being served
//	GET  /v1/runs/{run}              same, for a named run
//	POST /v1/runs/{run}/rounds/{seq} contribute to round seq
type Hub struct {
	run    string
	rv     *Rendezvous
	comm   Communicator
	router chi.Router
	srv    *http.Server
	ln     net.Listener
}

// NewHub creates a hub for run with size ranks.
func NewHub(run string, size int) *Hub {
	h := &Hub{
		run: run,
		rv:  NewRendezvous(size),
	}
	h.comm = Attach(h.rv, 0)

	r := chi.NewRouter()
	r.Get(apiPrefix, h.serveInfo)
	r.Route(apiPrefix+"/{run}", func(r chi.Router) {
		r.Use(h.checkRun)
		r.Get("/", h.serveInfo)
		r.Post("/rounds/{seq}", h.serveRound)
	})
	h.router = r
	return h
}

// Run - id of the run served
func (h *Hub) Run() string { return h.run }

// Handler returns the hub's router.
func (h *Hub) Handler() http.Handler { return h.router }

// Comm returns the communicator of rank 0. Every call returns the same one.
func (h *Hub) Comm() Communicator { return h.comm }

// SetRoundTimeout fails a round on every rank when some rank has not
// contributed within d, e.g. because its process died between rounds.
func (h *Hub) SetRoundTimeout(d time.Duration) { h.rv.SetRoundTimeout(d) }

// Listen starts serving on addr in the background.
func (h *Hub) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "collective hub listen on %s", addr)
	}
	h.ln = ln
	h.srv = &http.Server{
		Handler:           h.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := h.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logrus.WithField("run", h.run).Errorf("collective hub: %v", err)
		}
	}()
	logrus.WithField("run", h.run).Debugf("collective hub listening on %s", ln.Addr())
	return nil
}

// Addr - address the hub listens on, empty before Listen
func (h *Hub) Addr() string {
	if h.ln == nil {
		return ""
	}
	return h.ln.Addr().String()
}

// Close lets in-flight rounds deliver their results, then stops the server
// and fails anything still pending.
func (h *Hub) Close(ctx context.Context) error {
	var err error
	if h.srv != nil {
		err = h.srv.Shutdown(ctx)
	}
	h.rv.Close()
	return err
}

func (h *Hub) checkRun(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if run := chi.URLParam(r, "run"); run != h.run {
			http.Error(w, "unknown run "+run, http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Hub) serveInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, runInfo{Run: h.run, Size: h.rv.Size()})
}

func (h *Hub) serveRound(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseUint(chi.URLParam(r, "seq"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, roundReply{Error: "bad round number"})
		return
	}
	var c Contribution
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, roundReply{Error: err.Error()})
		return
	}
	if c.Rank == 0 {
		// rank 0 is the host and never arrives over HTTP
		writeJSON(w, http.StatusBadRequest, roundReply{Error: "rank 0 is local to the hub"})
		return
	}

	v, err := h.rv.Contribute(r.Context(), seq, c)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, roundReply{Value: v})
	case errors.Is(err, ErrDivergence):
		writeJSON(w, http.StatusConflict, roundReply{Error: err.Error()})
	case errors.Is(err, ErrClosed):
		writeJSON(w, http.StatusGone, roundReply{Error: err.Error()})
	case errors.Is(err, ErrAborted):
		writeJSON(w, http.StatusGatewayTimeout, roundReply{Error: err.Error()})
	default:
		writeJSON(w, http.StatusBadRequest, roundReply{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Debugf("collective hub: write reply: %v", err)
	}
}
