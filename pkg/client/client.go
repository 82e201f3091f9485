// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client sends one command to a control socket and copies the
// response lines to a writer.
package client

import (
	"bufio"
	"context"
	"io"
	"net"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/retry"
	"github.com/go-arcade/shutdownlistener/pkg/shutdown"
	"github.com/pkg/errors"
)

type options struct {
	dialAttempts int
	dialBackoff  retry.Backoff
	dialTimeout  time.Duration
}

type Option func(*options)

// WithDialAttempts retries refused connections, e.g. while the process starts.
func WithDialAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.dialAttempts = n
		}
	}
}

func WithDialBackoff(b retry.Backoff) Option {
	return func(o *options) {
		if b != nil {
			o.dialBackoff = b
		}
	}
}

// WithDialTimeout bounds each connection attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

// Send connects to the control socket described by conf, writes command as a
// single line and copies every response line to out until the server closes
// the connection. An empty command sends the status command.
func Send(ctx context.Context, conf shutdown.Conf, command string, out io.Writer, opts ...Option) error {
	o := &options{
		dialAttempts: 1,
		dialBackoff:  retry.Exponential(100*time.Millisecond, 2*time.Second),
		dialTimeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if command == "" {
		command = conf.StatusCommand
	}

	addr := conf.Addr()
	conn, err := dial(ctx, addr, o)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s", addr)
	}
	defer conn.Close()

	// unblock reads and writes when ctx ends
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, command+"\n"); err != nil {
		return errors.Wrapf(contextErr(ctx, err), "failed to send command %q", command)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if _, err := io.WriteString(out, scanner.Text()+"\n"); err != nil {
			return errors.Wrap(err, "failed to write response")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(contextErr(ctx, err), "failed to read response")
	}
	return nil
}

func dial(ctx context.Context, addr string, o *options) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: o.dialTimeout}
	var conn net.Conn
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		return err
	}, retry.WithMaxAttempts(o.dialAttempts), retry.WithBackoff(o.dialBackoff))
	return conn, err
}

// contextErr prefers the context error over the deadline error it caused.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
