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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/client"
	"github.com/go-arcade/shutdownlistener/pkg/conf"
	"github.com/go-arcade/shutdownlistener/pkg/log"
	"github.com/go-arcade/shutdownlistener/pkg/version"
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	host       string
	port       int
	timeout    time.Duration
	retries    int
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "shutdownctl [COMMAND]",
		Short: "Send a command to a shutdown listener control socket",
		Long: "Send a command to a shutdown listener control socket and print the response.\n" +
			"Without COMMAND the configured status command is sent.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&o.configFile, "config", "c", "",
		"config file path (default $"+conf.EnvConfigPath+" or ./"+conf.DefaultConfigFile+")")
	cmd.Flags().StringVar(&o.host, "host", "", "control socket host, overrides the configuration")
	cmd.Flags().IntVarP(&o.port, "port", "p", 0, "control socket port, overrides the configuration")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "give up after this long, 0 waits for the server to close the connection")
	cmd.Flags().IntVar(&o.retries, "retries", 1, "connection attempts before giving up")
	cmd.AddCommand(version.NewCommand())
	return cmd
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	// keep the output to the protocol exchange unless something is wrong
	if err := log.Init(&log.Conf{Output: "stdout", Level: "WARN"}); err != nil {
		return err
	}

	cfg := conf.Load(o.configFile).Conf
	if cmd.Flags().Changed("host") {
		cfg.Host = o.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = o.port
	}

	command := cfg.StatusCommand
	if len(args) == 1 {
		command = args[0]
	}

	ctx := cmd.Context()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Calling processor on %s with command: %s\n", cfg.Addr(), command)
	return client.Send(ctx, cfg, command, out, client.WithDialAttempts(o.retries))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
