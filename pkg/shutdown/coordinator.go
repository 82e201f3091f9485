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
	"context"
	"net"
	"slices"
	"sync/atomic"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/log"
	"github.com/go-arcade/shutdownlistener/pkg/safe"
	"github.com/go-arcade/shutdownlistener/pkg/statemachine"
	"go.uber.org/zap"
)

// Coordinator owns the lifecycle state, the listener registry, the completion
// gate and the control socket.
//
// Listeners must be registered before Start. Shutdown runs them once no matter
// how many callers race on it; every other caller returns immediately.
// Listeners must not call WaitForShutdown, it would never return.
type Coordinator struct {
	conf     Conf
	commands Commands
	logger   *zap.SugaredLogger
	recorder Recorder
	hooks    HookRegistrar

	compare      Comparator
	preShutdown  func()
	postShutdown func()
	discover     func() []Listener

	// written before Start only
	listeners         []Listener
	internalListeners []Listener

	started  atomic.Bool
	acceptor atomic.Pointer[acceptor]

	state *statemachine.StateMachine[State]
	gate  *Gate
}

// NewCoordinator creates a coordinator for the given control channel configuration.
func NewCoordinator(conf Conf, opts ...Option) *Coordinator {
	c := &Coordinator{
		conf:     conf,
		commands: conf.Commands(),
		recorder: nopRecorder{},
		gate:     NewGate(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.GetLogger()
	}
	if c.hooks == nil {
		c.hooks = NewSignalHooks(c.logger)
	}

	c.state = statemachine.NewWithState(Running).
		Allow(Running, ShuttingDown).
		Allow(ShuttingDown, Complete)
	c.state.OnEnter(Complete, func(State) error {
		c.gate.Open()
		return nil
	})
	return c
}

// RegisterListener appends an external listener. It must be called before Start.
func (c *Coordinator) RegisterListener(l Listener) error {
	if c.started.Load() {
		return ErrAlreadyStarted
	}
	c.listeners = append(c.listeners, l)
	return nil
}

// Start binds the control socket, serves it in the background and registers
// the process exit hook. A bind failure is returned and not retried.
func (c *Coordinator) Start() error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if len(c.listeners) == 0 && c.discover != nil {
		c.listeners = append(c.listeners, c.discover()...)
		c.logger.Debugw("no explicit shutdown listeners configured, using discovered listeners",
			"count", len(c.listeners))
	}

	a, err := newAcceptor(c)
	if err != nil {
		return err
	}
	c.acceptor.Store(a)

	// the registry is complete before any request or signal can trigger a run
	var removeHook atomic.Pointer[func()]
	c.internalListeners = append(c.internalListeners, a, NamedListener("process exit hook remover", func() error {
		if remove := removeHook.Load(); remove != nil {
			(*remove)()
			c.logger.Debug("removed process exit hook")
		}
		return nil
	}))

	remove := c.hooks.Register(func() {
		c.logger.Info("process exit hook called")
		c.Shutdown()
	})
	removeHook.Store(&remove)
	c.logger.Debug("registered process exit hook")

	safe.Go(a.serve)
	return nil
}

// Addr returns the bound address of the control socket.
func (c *Coordinator) Addr() (net.Addr, error) {
	a := c.acceptor.Load()
	if a == nil {
		return nil, ErrNotStarted
	}
	return a.addr, nil
}

// Shutdown runs the pre hook, the external listeners, the internal listeners
// and the post hook, then marks the coordinator complete and releases waiters.
// Only the first call runs the sequence.
func (c *Coordinator) Shutdown() {
	if err := c.state.Transition(Running, ShuttingDown); err != nil {
		if c.state.Is(Complete) {
			c.logger.Info("already shut down, ignoring duplicate request")
		} else {
			c.logger.Info("already shutting down, ignoring duplicate request")
		}
		return
	}

	start := time.Now()
	c.runHook("pre-shutdown", c.preShutdown)
	c.runListeners(c.listeners)
	c.runListeners(c.internalListeners)
	c.runHook("post-shutdown", c.postShutdown)
	c.recorder.RecordShutdown(time.Since(start))

	if err := c.state.Transition(ShuttingDown, Complete); err != nil {
		c.logger.Errorw("failed to mark shutdown complete", "error", err)
		c.gate.Open()
	}
	c.logger.Infow("shutdown complete", "duration", time.Since(start))
}

// Close triggers Shutdown so a Coordinator can be handed to io.Closer owners.
func (c *Coordinator) Close() error {
	c.Shutdown()
	return nil
}

// WaitForShutdown blocks until the shutdown sequence has completed. It does
// not trigger shutdown. When ctx ends first the wait is abandoned, ctx.Err()
// is returned and the caller may wait again.
func (c *Coordinator) WaitForShutdown(ctx context.Context) error {
	if c.state.Is(Complete) {
		return nil
	}
	if err := c.gate.Wait(ctx); err != nil {
		c.logger.Warnw("interrupted waiting for shutdown", "error", err)
		return err
	}
	return nil
}

// Done returns a channel closed once the shutdown sequence has completed.
func (c *Coordinator) Done() <-chan struct{} {
	return c.gate.Done()
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return c.state.Current()
}

// IsShutdownRequested reports whether Shutdown was called.
func (c *Coordinator) IsShutdownRequested() bool {
	return !c.state.Is(Running)
}

func (c *Coordinator) runHook(name string, fn func()) {
	if fn == nil {
		return
	}
	err := safe.Call(func() error {
		fn()
		return nil
	})
	if err != nil {
		c.logger.Warnw("shutdown hook failed, continuing with shutdown", "hook", name, "error", err)
	}
}

func (c *Coordinator) runListeners(listeners []Listener) {
	ordered := slices.Clone(listeners)
	if c.compare != nil {
		slices.SortStableFunc(ordered, c.compare)
	}
	for _, l := range ordered {
		c.callListener(l)
	}
}

func (c *Coordinator) callListener(l Listener) {
	name := ListenerName(l)
	c.logger.Infow("calling shutdown listener", "listener", name)

	start := time.Now()
	err := safe.Call(l.Shutdown)
	c.recorder.RecordListener(name, time.Since(start), err)

	if err != nil {
		c.logger.Warnw("shutdown listener failed, continuing with shutdown", "listener", name, "error", err)
		return
	}
	c.logger.Infow("shutdown listener complete", "listener", name)
}
