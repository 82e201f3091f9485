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

package bootstrap

import (
	"context"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/conf"
	"github.com/go-arcade/shutdownlistener/pkg/log"
	"github.com/go-arcade/shutdownlistener/pkg/metrics"
	"github.com/go-arcade/shutdownlistener/pkg/shutdown"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// metricsStopOrder runs the metrics server stop after prioritized application
// listeners and before unordered ones.
const metricsStopOrder = 1000

const metricsStopTimeout = 5 * time.Second

// ProviderSet is the Wire provider set for the daemon.
var ProviderSet = wire.NewSet(
	ProvideCoordinator,
	NewApp,
)

type App struct {
	Coordinator *shutdown.Coordinator
	Metrics     *metrics.Server
	Logger      *zap.SugaredLogger
	AppConf     conf.AppConfig
}

// ProvideCoordinator builds the coordinator with priority ordering, prometheus
// recording and signal based exit hooks. Buffered log entries are flushed
// once all listeners have run.
func ProvideCoordinator(cfg shutdown.Conf, logger *log.Logger, recorder *metrics.ShutdownRecorder) *shutdown.Coordinator {
	return shutdown.NewCoordinator(cfg,
		shutdown.WithLogger(logger.Log.Named("shutdown")),
		shutdown.WithComparator(shutdown.ByPriority),
		shutdown.WithRecorder(recorder),
		shutdown.WithPostShutdown(func() {
			_ = log.Sync()
		}),
	)
}

// NewApp registers the daemon's own listeners. The returned cleanup shuts the
// coordinator down if it is still running.
func NewApp(
	appConf conf.AppConfig,
	logger *log.Logger,
	metricsServer *metrics.Server,
	coordinator *shutdown.Coordinator,
) (*App, func(), error) {
	stopMetrics := shutdown.NamedListener("metrics server", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), metricsStopTimeout)
		defer cancel()
		return metricsServer.Stop(ctx)
	})
	if err := coordinator.RegisterListener(shutdown.OrderedListener(metricsStopOrder, stopMetrics)); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if !coordinator.IsShutdownRequested() {
			logger.Log.Info("shutting down coordinator on cleanup")
		}
		_ = coordinator.Close()
	}

	app := &App{
		Coordinator: coordinator,
		Metrics:     metricsServer,
		Logger:      logger.Log,
		AppConf:     appConf,
	}
	return app, cleanup, nil
}

// Run starts the metrics server and the control socket, then blocks until a
// shutdown has completed. When ctx ends first the shutdown is triggered here.
// cleanup runs before Run returns.
func Run(ctx context.Context, app *App, cleanup func()) error {
	defer cleanup()

	if err := app.Metrics.Start(); err != nil {
		return err
	}
	if err := app.Coordinator.Start(); err != nil {
		return err
	}
	addr, _ := app.Coordinator.Addr()
	app.Logger.Infow("shutdown listener running", "control_address", addr.String())

	select {
	case <-app.Coordinator.Done():
	case <-ctx.Done():
		app.Logger.Infow("context done, shutting down", "reason", context.Cause(ctx))
		app.Coordinator.Shutdown()
	}

	// a concurrent run started elsewhere may still be in progress
	if err := app.Coordinator.WaitForShutdown(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	app.Logger.Info("shutdown listener stopped")
	return nil
}
