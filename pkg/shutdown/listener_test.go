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
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

type plainListener struct{}

func (plainListener) Shutdown() error { return nil }

func TestListenerName(t *testing.T) {
	tests := []struct {
		name string
		l    Listener
		want string
	}{
		{name: "named", l: NamedListener("cache flusher", nil), want: "cache flusher"},
		{name: "ordered keeps inner name", l: OrderedListener(3, NamedListener("db", nil)), want: "db"},
		{name: "type name", l: plainListener{}, want: "shutdown.plainListener"},
		{name: "func", l: ListenerFunc(func() error { return nil }), want: "shutdown.ListenerFunc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListenerName(tt.l))
		})
	}
}

func TestOrderedListener_DelegatesShutdown(t *testing.T) {
	want := errors.New("close failed")
	l := OrderedListener(5, ListenerFunc(func() error { return want }))

	assert.ErrorIs(t, l.Shutdown(), want)
	o, ok := l.(Ordered)
	assert.True(t, ok)
	assert.Equal(t, 5, o.Order())
}

func TestByPriority(t *testing.T) {
	a := OrderedListener(10, NamedListener("a", nil))
	b := OrderedListener(-1, NamedListener("b", nil))
	c := NamedListener("c", nil)
	d := OrderedListener(10, NamedListener("d", nil))
	e := NamedListener("e", nil)

	listeners := []Listener{a, c, b, e, d}
	slices.SortStableFunc(listeners, ByPriority)

	names := make([]string, 0, len(listeners))
	for _, l := range listeners {
		names = append(names, ListenerName(l))
	}
	assert.Equal(t, []string{"b", "a", "d", "c", "e"}, names)

	assert.Zero(t, ByPriority(c, e))
	assert.Negative(t, ByPriority(OrderedListener(LowestPriority-1, c), e))
}
