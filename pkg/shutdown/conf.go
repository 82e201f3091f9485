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
	"net"
	"strconv"
)

const (
	DefaultHost                  = "localhost"
	DefaultPort                  = 7456
	DefaultShutdownWaitCommand   = "SHUTDOWN_AND_WAIT"
	DefaultShutdownNoWaitCommand = "SHUTDOWN_NO_WAIT"
	DefaultStatusCommand         = "STATUS"
)

// Conf is the control channel configuration shared by the coordinator and the client.
type Conf struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	ShutdownWaitCommand   string `mapstructure:"shutdownWaitCommand"`
	ShutdownNoWaitCommand string `mapstructure:"shutdownNoWaitCommand"`
	StatusCommand         string `mapstructure:"statusCommand"`
}

// SetDefaults returns the default configuration.
func SetDefaults() *Conf {
	return &Conf{
		Host:                  DefaultHost,
		Port:                  DefaultPort,
		ShutdownWaitCommand:   DefaultShutdownWaitCommand,
		ShutdownNoWaitCommand: DefaultShutdownNoWaitCommand,
		StatusCommand:         DefaultStatusCommand,
	}
}

// Addr returns the host:port the control socket binds to.
func (c Conf) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Commands returns the configured command names.
func (c Conf) Commands() Commands {
	return Commands{
		ShutdownWait:   c.ShutdownWaitCommand,
		ShutdownNoWait: c.ShutdownNoWaitCommand,
		Status:         c.StatusCommand,
	}
}
