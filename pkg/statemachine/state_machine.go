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

package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var (
	// ErrInvalidTransition is returned when no rule allows moving between two states.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrStateMismatch is returned when the machine is not in the expected source state.
	ErrStateMismatch = errors.New("state mismatch")
)

// StateHook is triggered when entering a state.
type StateHook[T comparable] func(state T) error

// TransitionRecord records a state transition in the FSM history.
type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Timestamp time.Time
	Error     error
}

// StateMachine is a small generic finite state machine.
//
// Transition is a compare-and-transition: it only succeeds when the machine
// currently sits in the given source state, so concurrent callers racing on the
// same edge observe exactly one winner.
//
// Enter hooks run while the machine lock is held and must not call back into
// the machine.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T
	initialState T

	// from state -> list of valid next states
	validTransitions map[T][]T

	history        []TransitionRecord[T]
	maxHistorySize int

	onEnter map[T][]StateHook[T]
}

// NewWithState creates a new StateMachine with an initial state.
func NewWithState[T comparable](initialState T) *StateMachine[T] {
	return &StateMachine[T]{
		currentState:     initialState,
		initialState:     initialState,
		validTransitions: make(map[T][]T),
		onEnter:          make(map[T][]StateHook[T]),
		history:          make([]TransitionRecord[T], 0),
		maxHistorySize:   100,
	}
}

// Allow registers valid transitions from a source state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// CanTransition checks if a transition from one state to another is valid.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// Current returns the current state of the StateMachine.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Initial returns the initial state of the StateMachine.
func (sm *StateMachine[T]) Initial() T {
	return sm.initialState
}

// Is checks if the current state matches the given state.
func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

// IsOneOf checks if the current state is one of the given states.
func (sm *StateMachine[T]) IsOneOf(states ...T) bool {
	return slices.Contains(states, sm.Current())
}

// History returns a copy of the transition history.
func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.history)
}

// SetMaxHistorySize sets the maximum number of history records to keep.
func (sm *StateMachine[T]) SetMaxHistorySize(size int) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.maxHistorySize = size
	if len(sm.history) > size {
		sm.history = sm.history[len(sm.history)-size:]
	}
	return sm
}

// OnEnter registers a hook that is called when entering a specific state.
func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

// Transition moves the machine from one state to another.
// It fails without side effects when the machine is not in from, or when the
// edge was never allowed. Failed attempts are not recorded in the history.
func (sm *StateMachine[T]) Transition(from, to T) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.currentState != from {
		return fmt.Errorf("%w: expected %v, current %v", ErrStateMismatch, from, sm.currentState)
	}
	if !slices.Contains(sm.validTransitions[from], to) {
		return fmt.Errorf("%w: %v → %v", ErrInvalidTransition, from, to)
	}

	sm.currentState = to

	var hookErr error
	for _, h := range sm.onEnter[to] {
		if err := h(to); err != nil {
			hookErr = fmt.Errorf("enter hook failed for state %v: %w", to, err)
			break
		}
	}

	sm.history = append(sm.history, TransitionRecord[T]{
		From:      from,
		To:        to,
		Timestamp: time.Now(),
		Error:     hookErr,
	})
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}

	return hookErr
}

// TransitionTo performs a transition from the current state to the target state.
func (sm *StateMachine[T]) TransitionTo(to T) error {
	sm.mu.Lock()
	from := sm.currentState
	sm.mu.Unlock()
	return sm.Transition(from, to)
}
