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

package shutdown

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/retry"
	"github.com/go-arcade/shutdownlistener/pkg/safe"
	"go.uber.org/zap"
)

// backlog is the pending connection queue length of the control socket.
const backlog = 10

// acceptBackoff paces the accept loop after consecutive accept failures.
var acceptBackoff = retry.Exponential(5*time.Millisecond, time.Second)

// acceptor serves the control socket. It is also the internal listener that
// closes the socket during shutdown, which ends the accept loop.
type acceptor struct {
	coord  *Coordinator
	logger *zap.SugaredLogger
	ln     net.Listener
	addr   net.Addr

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newAcceptor(c *Coordinator) (*acceptor, error) {
	ln, err := listen(c.conf.Addr(), backlog)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrBind, c.conf.Addr(), err)
	}
	c.logger.Infow("bound control socket, listening for shutdown requests", "address", ln.Addr().String())
	return &acceptor{
		coord:  c,
		logger: c.logger,
		ln:     ln,
		addr:   ln.Addr(),
	}, nil
}

func (a *acceptor) serve() {
	defer func() {
		_ = a.Shutdown()
	}()

	failures := 0
	for {
		conn, err := a.ln.Accept()
		if err != nil {
			if a.closed.Load() || errors.Is(err, net.ErrClosed) {
				a.logger.Infow("control socket closed, stopping accept loop", "address", a.addr.String(), "reason", err.Error())
				return
			}
			a.logger.Warnw("error accepting control connection, ignoring", "address", a.addr.String(), "error", err)
			time.Sleep(acceptBackoff.Next(failures))
			failures++
			continue
		}
		failures = 0

		h := newHandler(a.coord, conn)
		safe.Go(h.serve)
	}
}

// Shutdown closes the control socket. It is safe to call more than once.
func (a *acceptor) Shutdown() error {
	a.closeOnce.Do(func() {
		a.closed.Store(true)
		a.closeErr = a.ln.Close()
		a.logger.Debugw("closed control socket", "address", a.addr.String())
	})
	return a.closeErr
}

func (a *acceptor) String() string {
	return fmt.Sprintf("control socket listener [%s]", a.addr)
}
