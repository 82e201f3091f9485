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

package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewShutdownRecorder(reg)
	require.NoError(t, err)

	r.RecordListener("db", 20*time.Millisecond, nil)
	r.RecordListener("db", 10*time.Millisecond, errors.New("closed twice"))
	r.RecordListener("cache", time.Millisecond, nil)
	r.RecordShutdown(50 * time.Millisecond)
	r.RecordCommand("status")
	r.RecordCommand("status")
	r.RecordCommand("unknown")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.listenerCalls.WithLabelValues("db", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.listenerCalls.WithLabelValues("db", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.commands.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("unknown")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.listenerDuration))

	expected := `
# HELP shutdown_listener_runs_total Completed shutdown sequences.
# TYPE shutdown_listener_runs_total counter
shutdown_listener_runs_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "shutdown_listener_runs_total"))
}

func TestNewShutdownRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewShutdownRecorder(reg)
	require.NoError(t, err)

	_, err = NewShutdownRecorder(reg)
	assert.Error(t, err)
}

func TestServer_Disabled(t *testing.T) {
	s := NewServer(*SetDefaults())
	require.NoError(t, s.Start())
	assert.Nil(t, s.Addr())
	assert.NoError(t, s.Stop(context.Background()))
}

func TestServer_ServesMetrics(t *testing.T) {
	s := NewMetricsServer(MetricsConfig{Host: "127.0.0.1", Port: 0, Enable: true})
	r, err := ProvideShutdownRecorder(s)
	require.NoError(t, err)
	r.RecordCommand("shutdown_wait")

	require.NoError(t, s.Start())
	t.Cleanup(func() {
		_ = s.Stop(context.Background())
	})
	require.NotNil(t, s.Addr())

	resp, err := http.Get("http://" + s.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `shutdown_listener_control_commands_total{command="shutdown_wait"} 1`)
	assert.Contains(t, string(body), "go_goroutines")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	_, err = http.Get("http://" + s.Addr().String() + "/metrics")
	assert.Error(t, err)
}

func TestServer_Pprof(t *testing.T) {
	tests := []struct {
		name   string
		pprof  bool
		status int
	}{
		{name: "enabled", pprof: true, status: http.StatusOK},
		{name: "disabled", pprof: false, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(MetricsConfig{Host: "127.0.0.1", Port: 0, Enable: true, Pprof: tt.pprof})
			require.NoError(t, s.Start())
			t.Cleanup(func() {
				_ = s.Stop(context.Background())
			})

			resp, err := http.Get("http://" + s.Addr().String() + "/debug/pprof/goroutine?debug=1")
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
