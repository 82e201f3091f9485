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

// Package shutdown exposes a local control socket through which a process can
// be queried or asked to stop, and runs registered cleanup listeners exactly
// once, in order, before reporting itself stopped.
package shutdown

import "errors"

// State is the lifecycle state of a Coordinator.
type State string

const (
	Running      State = "RUNNING"
	ShuttingDown State = "SHUTTING_DOWN"
	Complete     State = "COMPLETE"
)

var (
	// ErrBind is returned by Start when the control socket cannot be bound.
	ErrBind = errors.New("failed to bind control socket")
	// ErrAlreadyStarted is returned when Start ran already.
	ErrAlreadyStarted = errors.New("coordinator already started")
	// ErrNotStarted is returned when the control socket is not bound yet.
	ErrNotStarted = errors.New("coordinator not started")
)
