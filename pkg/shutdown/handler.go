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
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/id"
	"go.uber.org/zap"
)

// handler serves a single request on an accepted control connection.
type handler struct {
	coord  *Coordinator
	conn   net.Conn
	logger *zap.SugaredLogger
	now    func() time.Time
}

func newHandler(c *Coordinator, conn net.Conn) *handler {
	return &handler{
		coord: c,
		conn:  conn,
		logger: c.logger.With(
			"conn_id", id.GetXid(),
			"remote", conn.RemoteAddr().String(),
		),
		now: time.Now,
	}
}

// serve reads one command line, answers it and closes the connection.
// A no-wait shutdown is triggered only after the connection is closed.
func (h *handler) serve() {
	shutdownNoWait := false
	defer func() {
		if err := h.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			h.logger.Debugw("failed to close control connection", "error", err)
		}
		if shutdownNoWait {
			h.coord.Shutdown()
		}
	}()

	reader := bufio.NewReader(h.conn)
	writer := bufio.NewWriter(h.conn)

	line, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		h.logger.Warnw("failed to read command from control connection", "error", err)
		return
	}
	received := strings.TrimRight(line, "\r\n")

	cmd := h.coord.commands.Resolve(received)
	h.coord.recorder.RecordCommand(cmd.String())

	switch cmd {
	case CommandShutdownWait:
		h.logger.Info("received request for shutdown")
		h.write(writer, msgShutdownWaitStart)
		h.flush(writer)
		h.coord.Shutdown()
		h.write(writer, msgShutdownWaitDone)
	case CommandShutdownNoWait:
		h.logger.Info("received request for shutdown without waiting")
		h.write(writer, msgShutdownNoWaitStart)
		shutdownNoWait = true
	case CommandStatus:
		h.logger.Debug("received request for status")
		if h.coord.IsShutdownRequested() {
			h.write(writer, msgStatusShuttingDown)
		} else {
			h.write(writer, msgStatusRunning)
		}
	default:
		h.logger.Infow("received unknown command", "command", received)
		h.write(writer, unknownCommandMessage(received))
	}
	h.flush(writer)
}

// write buffers a response line. Errors surface on flush.
func (h *handler) write(w *bufio.Writer, msg string) {
	_, _ = w.WriteString(responseLine(h.now(), msg))
}

func (h *handler) flush(w *bufio.Writer) {
	if err := w.Flush(); err != nil {
		h.logger.Warnw("failed to write response to control connection", "error", err)
	}
}
