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

import "go.uber.org/zap"

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithComparator sets the ordering applied to each listener group before a run.
func WithComparator(compare Comparator) Option {
	return func(c *Coordinator) {
		c.compare = compare
	}
}

// WithPreShutdown sets an action run before any listener.
func WithPreShutdown(fn func()) Option {
	return func(c *Coordinator) {
		c.preShutdown = fn
	}
}

// WithPostShutdown sets an action run after all listeners, before waiters are released.
func WithPostShutdown(fn func()) Option {
	return func(c *Coordinator) {
		c.postShutdown = fn
	}
}

// WithListeners registers external listeners.
func WithListeners(listeners ...Listener) Option {
	return func(c *Coordinator) {
		c.listeners = append(c.listeners, listeners...)
	}
}

// WithDiscovery sets a callback that supplies the external listeners at Start
// when none were registered explicitly.
func WithDiscovery(discover func() []Listener) Option {
	return func(c *Coordinator) {
		c.discover = discover
	}
}

// WithHookRegistrar sets the process exit hook facility. Defaults to SignalHooks.
func WithHookRegistrar(hooks HookRegistrar) Option {
	return func(c *Coordinator) {
		if hooks != nil {
			c.hooks = hooks
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Coordinator) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}
