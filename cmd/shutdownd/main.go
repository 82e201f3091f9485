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
	"os"
	"time"

	"github.com/go-arcade/shutdownlistener/internal/bootstrap"
	"github.com/go-arcade/shutdownlistener/pkg/conf"
	"github.com/go-arcade/shutdownlistener/pkg/shutdown"
	"github.com/go-arcade/shutdownlistener/pkg/version"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configFile string
		drain      time.Duration
	)

	cmd := &cobra.Command{
		Use:          "shutdownd",
		Short:        "Run a process that can be queried and stopped over its control socket",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := initApp(conf.Path(configFile))
			if err != nil {
				return err
			}
			if drain > 0 {
				err := app.Coordinator.RegisterListener(shutdown.NamedListener("in-flight work drainer", func() error {
					app.Logger.Infow("draining in-flight work", "duration", drain)
					time.Sleep(drain)
					return nil
				}))
				if err != nil {
					cleanup()
					return err
				}
			}
			return bootstrap.Run(cmd.Context(), app, cleanup)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "",
		"config file path (default $"+conf.EnvConfigPath+" or ./"+conf.DefaultConfigFile+")")
	cmd.Flags().DurationVar(&drain, "drain", 0, "time spent draining in-flight work during shutdown")
	cmd.AddCommand(version.NewCommand())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
