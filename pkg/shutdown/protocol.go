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
	"fmt"
	"time"
)

// Command is a control channel request.
type Command int

const (
	CommandUnknown Command = iota
	CommandShutdownWait
	CommandShutdownNoWait
	CommandStatus
)

func (c Command) String() string {
	switch c {
	case CommandShutdownWait:
		return "shutdown_wait"
	case CommandShutdownNoWait:
		return "shutdown_no_wait"
	case CommandStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Commands maps configured command names to protocol commands.
type Commands struct {
	ShutdownWait   string
	ShutdownNoWait string
	Status         string
}

// Resolve matches a received line exactly and case-sensitively.
func (c Commands) Resolve(line string) Command {
	switch line {
	case c.ShutdownWait:
		return CommandShutdownWait
	case c.ShutdownNoWait:
		return CommandShutdownNoWait
	case c.Status:
		return CommandStatus
	default:
		return CommandUnknown
	}
}

const (
	msgShutdownWaitStart   = "Starting shutdown and waiting"
	msgShutdownWaitDone    = "Shutdown complete"
	msgShutdownNoWaitStart = "Starting shutdown and disconnecting control socket"
	msgStatusRunning       = "Running"
	msgStatusShuttingDown  = "Shutting down"
)

// responseLine prefixes msg with a timestamp. The content is informational.
func responseLine(now time.Time, msg string) string {
	return now.Format(time.UnixDate) + ": " + msg + "\n"
}

func unknownCommandMessage(line string) string {
	return fmt.Sprintf("Unknown command '%s'", line)
}
