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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shutdown_listener"

// ShutdownRecorder exports shutdown runs, listener results and control commands.
type ShutdownRecorder struct {
	listenerCalls    *prometheus.CounterVec
	listenerDuration *prometheus.HistogramVec
	runs             prometheus.Counter
	runDuration      prometheus.Histogram
	commands         *prometheus.CounterVec
}

// NewShutdownRecorder creates the collectors and registers them with reg.
func NewShutdownRecorder(reg prometheus.Registerer) (*ShutdownRecorder, error) {
	r := &ShutdownRecorder{
		listenerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_calls_total",
			Help:      "Shutdown listener invocations by result.",
		}, []string{"listener", "result"}),
		listenerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listener_duration_seconds",
			Help:      "Time spent in each shutdown listener.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"listener"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed shutdown sequences.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Duration of the shutdown sequence.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_commands_total",
			Help:      "Requests received on the control socket by command.",
		}, []string{"command"}),
	}

	for _, c := range []prometheus.Collector{r.listenerCalls, r.listenerDuration, r.runs, r.runDuration, r.commands} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *ShutdownRecorder) RecordListener(name string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.listenerCalls.WithLabelValues(name, result).Inc()
	r.listenerDuration.WithLabelValues(name).Observe(duration.Seconds())
}

func (r *ShutdownRecorder) RecordShutdown(duration time.Duration) {
	r.runs.Inc()
	r.runDuration.Observe(duration.Seconds())
}

func (r *ShutdownRecorder) RecordCommand(command string) {
	r.commands.WithLabelValues(command).Inc()
}
