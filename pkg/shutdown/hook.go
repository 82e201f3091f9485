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
	"os"
	"os/signal"
	"sync"

	"go.uber.org/zap"
)

// HookRegistrar registers an action to run when the process is asked to exit.
// The returned function removes the registration and may be called more than once.
type HookRegistrar interface {
	Register(action func()) (remove func())
}

// SignalHooks runs the registered action when the process receives an
// interrupt or termination signal.
type SignalHooks struct {
	logger  *zap.SugaredLogger
	signals []os.Signal
}

// NewSignalHooks watches the platform termination signals, or the given ones.
func NewSignalHooks(logger *zap.SugaredLogger, signals ...os.Signal) *SignalHooks {
	if len(signals) == 0 {
		signals = exitSignals
	}
	return &SignalHooks{logger: logger, signals: signals}
}

func (s *SignalHooks) Register(action func()) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, s.signals...)
	stop := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Infow("received signal, running exit hook", "signal", sig.String())
			action()
		case <-stop:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(stop)
		})
	}
}

// NopHooks never runs the action. Use it when the host manages signals itself.
type NopHooks struct{}

func (NopHooks) Register(func()) func() {
	return func() {}
}
