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
	"cmp"
	"fmt"
	"math"
)

// Listener is a cleanup action run once during shutdown.
type Listener interface {
	Shutdown() error
}

// Ordered is implemented by listeners that carry a priority.
// Lower values run first.
type Ordered interface {
	Order() int
}

// LowestPriority is the priority of listeners that do not implement Ordered.
const LowestPriority = math.MaxInt

// ListenerFunc adapts a function to Listener.
type ListenerFunc func() error

func (f ListenerFunc) Shutdown() error {
	return f()
}

type namedListener struct {
	name string
	fn   func() error
}

// NamedListener returns a listener whose label is used in logs and metrics.
func NamedListener(name string, fn func() error) Listener {
	return &namedListener{name: name, fn: fn}
}

func (l *namedListener) Shutdown() error {
	return l.fn()
}

func (l *namedListener) String() string {
	return l.name
}

type orderedListener struct {
	Listener
	order int
}

// OrderedListener attaches a priority to l.
func OrderedListener(order int, l Listener) Listener {
	return &orderedListener{Listener: l, order: order}
}

func (l *orderedListener) Order() int {
	return l.order
}

func (l *orderedListener) String() string {
	return ListenerName(l.Listener)
}

// ListenerName returns the diagnostic label of a listener.
func ListenerName(l Listener) string {
	if s, ok := l.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", l)
}

// Comparator orders listeners before a shutdown run. It follows the
// slices.SortStableFunc contract. A nil Comparator keeps insertion order.
type Comparator func(a, b Listener) int

// InsertionOrder keeps the order in which listeners were registered.
var InsertionOrder Comparator

// ByPriority runs listeners in non-decreasing Order. Listeners without a
// priority run after all prioritized ones, in insertion order.
func ByPriority(a, b Listener) int {
	return cmp.Compare(priorityOf(a), priorityOf(b))
}

func priorityOf(l Listener) int {
	if o, ok := l.(Ordered); ok {
		return o.Order()
	}
	return LowestPriority
}
