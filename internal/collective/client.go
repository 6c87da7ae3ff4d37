// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package collective

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DialOptions tune how a rank joins the hub.
type DialOptions struct {
	// JoinTimeout bounds how long to wait for the hub to come up
	JoinTimeout time.Duration
	// Client used for all requests; http.DefaultClient when nil
	Client *http.Client
}

// httpComm is a rank > 0 talking to the hub over HTTP.
type httpComm struct {
	base   string
	rank   int
	size   int
	seq    uint64
	client *http.Client
	closed bool
}

// Dial joins run on the hub at addr as rank; an empty run joins whatever run
// the hub serves. Joining is retried with exponential backoff while the hub
// is not reachable yet; rounds are never retried.
func Dial(ctx context.Context, addr, run string, rank int, opt DialOptions) (Communicator, error) {
	if rank < 1 {
		return nil, errors.Errorf("collective: rank %d cannot dial the hub", rank)
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	api := strings.TrimSuffix(addr, "/") + apiPrefix
	joinURL := api
	if run != "" {
		joinURL += "/" + run
	}
	c := &httpComm{
		rank:   rank,
		client: opt.Client,
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxInterval = time.Second
	if opt.JoinTimeout > 0 {
		eb.MaxElapsedTime = opt.JoinTimeout
	}

	log := logrus.WithField("rank", rank)
	var info runInfo
	join := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(errors.Errorf("hub at %s does not serve run %s", addr, run))
		}
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("hub join: %s", resp.Status)
		}
		return errors.Wrap(json.NewDecoder(resp.Body).Decode(&info), "hub join")
	}
	notify := func(err error, wait time.Duration) {
		log.Debugf("hub not ready (%v), retrying in %v", err, wait)
	}
	if err := backoff.RetryNotify(join, backoff.WithContext(eb, ctx), notify); err != nil {
		return nil, errors.Wrapf(err, "joining run %s at %s", run, addr)
	}
	if run != "" && info.Run != run {
		return nil, errors.Errorf("hub at %s serves run %s, not %s", addr, info.Run, run)
	}
	if rank >= info.Size {
		return nil, errors.Errorf("collective: rank %d outside group of %d", rank, info.Size)
	}
	c.base = api + "/" + info.Run
	c.size = info.Size
	log.Debugf("joined run %s of %d ranks", info.Run, c.size)
	return c, nil
}

func (c *httpComm) Rank() int { return c.rank }
func (c *httpComm) Size() int { return c.size }

func (c *httpComm) do(ctx context.Context, op Op, root int, v int64) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}
	seq := c.seq
	c.seq++

	body, err := json.Marshal(Contribution{Rank: c.rank, Op: op, Root: root, Value: v})
	if err != nil {
		return 0, err
	}
	url := fmt.Sprintf("%s/rounds/%d", c.base, seq)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "collective round %d", seq)
	}
	defer resp.Body.Close()

	var reply roundReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return 0, errors.Wrapf(err, "collective round %d: %s", seq, resp.Status)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return reply.Value, nil
	case http.StatusConflict:
		return 0, errors.Wrap(ErrDivergence, reply.Error)
	case http.StatusGone:
		return 0, errors.Wrap(ErrClosed, reply.Error)
	case http.StatusGatewayTimeout:
		return 0, errors.Wrap(ErrAborted, reply.Error)
	}
	return 0, errors.Errorf("collective round %d: %s: %s", seq, resp.Status, reply.Error)
}

func (c *httpComm) AllReduceMax(ctx context.Context, v int64) (int64, error) {
	return c.do(ctx, OpMax, 0, v)
}

func (c *httpComm) AllReduceSum(ctx context.Context, v int64) (int64, error) {
	return c.do(ctx, OpSum, 0, v)
}

func (c *httpComm) Broadcast(ctx context.Context, root int, v int64) (int64, error) {
	return c.do(ctx, OpBroadcast, root, v)
}

func (c *httpComm) ReduceSum(ctx context.Context, root int, v int64) (int64, error) {
	return c.do(ctx, OpReduceSum, root, v)
}

func (c *httpComm) Close() error {
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}
