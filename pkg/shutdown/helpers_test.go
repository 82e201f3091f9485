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
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestCoordinator binds to an ephemeral loopback port and never installs
// signal handlers.
func newTestCoordinator(t *testing.T, opts ...Option) (*Coordinator, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	conf := *SetDefaults()
	conf.Host = "127.0.0.1"
	conf.Port = 0

	base := []Option{
		WithLogger(zap.New(core).Sugar()),
		WithHookRegistrar(NopHooks{}),
	}
	c := NewCoordinator(conf, append(base, opts...)...)
	t.Cleanup(c.Shutdown)
	return c, logs
}

func startTestCoordinator(t *testing.T, opts ...Option) (*Coordinator, string, *observer.ObservedLogs) {
	t.Helper()
	c, logs := newTestCoordinator(t, opts...)
	require.NoError(t, c.Start())
	addr, err := c.Addr()
	require.NoError(t, err)
	return c, addr.String(), logs
}

// sendCommand writes one request line and returns the response messages
// without their timestamps.
func sendCommand(t *testing.T, addr, command string) []string {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = conn.Write([]byte(command + "\n"))
	require.NoError(t, err)
	return readMessages(t, bufio.NewScanner(conn))
}

func readMessages(t *testing.T, scanner *bufio.Scanner) []string {
	t.Helper()
	var msgs []string
	for scanner.Scan() {
		msgs = append(msgs, stripTimestamp(t, scanner.Text()))
	}
	require.NoError(t, scanner.Err())
	return msgs
}

func stripTimestamp(t *testing.T, line string) string {
	t.Helper()
	ts, msg, ok := strings.Cut(line, ": ")
	require.True(t, ok, "missing timestamp in %q", line)
	_, err := time.Parse(time.UnixDate, ts)
	require.NoError(t, err)
	return msg
}

// blockingListener records its invocation and blocks until released.
type blockingListener struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingListener() *blockingListener {
	return &blockingListener{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingListener) Shutdown() error {
	if b.calls.Add(1) == 1 {
		close(b.entered)
	}
	<-b.release
	return nil
}

// sequence records the order in which named steps ran.
type sequence struct {
	mu    sync.Mutex
	steps []string
}

func (s *sequence) add(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

func (s *sequence) get() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.steps...)
}

func (s *sequence) listener(name string) Listener {
	return NamedListener(name, func() error {
		s.add(name)
		return nil
	})
}

type fakeRecorder struct {
	mu        sync.Mutex
	listeners map[string]error
	commands  []string
	runs      int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{listeners: make(map[string]error)}
}

func (r *fakeRecorder) RecordListener(name string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[name] = err
}

func (r *fakeRecorder) RecordShutdown(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

func (r *fakeRecorder) RecordCommand(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
}

func (r *fakeRecorder) recordedCommands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

// fakeHooks stands in for the process exit hook facility.
type fakeHooks struct {
	mu      sync.Mutex
	action  func()
	removed atomic.Int32
}

func (f *fakeHooks) Register(action func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.action = action
	return func() {
		f.removed.Add(1)
	}
}

func (f *fakeHooks) fire() {
	f.mu.Lock()
	action := f.action
	f.mu.Unlock()
	action()
}
