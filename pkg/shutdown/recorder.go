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

import "time"

// Recorder receives shutdown and control channel measurements.
type Recorder interface {
	RecordListener(name string, duration time.Duration, err error)
	RecordShutdown(duration time.Duration)
	RecordCommand(command string)
}

type nopRecorder struct{}

func (nopRecorder) RecordListener(string, time.Duration, error) {}
func (nopRecorder) RecordShutdown(time.Duration)               {}
func (nopRecorder) RecordCommand(string)                       {}
