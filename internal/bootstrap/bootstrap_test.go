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
	"bytes"
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-arcade/shutdownlistener/pkg/client"
	"github.com/go-arcade/shutdownlistener/pkg/conf"
	"github.com/go-arcade/shutdownlistener/pkg/log"
	"github.com/go-arcade/shutdownlistener/pkg/metrics"
	"github.com/go-arcade/shutdownlistener/pkg/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newTestApp(t *testing.T) (*App, func()) {
	t.Helper()
	appConf := conf.Defaults()
	appConf.Host = "127.0.0.1"
	appConf.Port = 0
	appConf.Metrics = metrics.MetricsConfig{Host: "127.0.0.1", Port: 0, Enable: true}

	logger := &log.Logger{Log: zap.NewNop().Sugar()}
	server := metrics.NewMetricsServer(appConf.Metrics)
	recorder, err := metrics.ProvideShutdownRecorder(server)
	require.NoError(t, err)

	coordinator := shutdown.NewCoordinator(appConf.Conf,
		shutdown.WithLogger(logger.Log),
		shutdown.WithComparator(shutdown.ByPriority),
		shutdown.WithRecorder(recorder),
		shutdown.WithHookRegistrar(shutdown.NopHooks{}),
	)
	app, cleanup, err := NewApp(appConf, logger, server, coordinator)
	require.NoError(t, err)
	return app, cleanup
}

func controlConf(t *testing.T, app *App) shutdown.Conf {
	t.Helper()
	var addr net.Addr
	require.Eventually(t, func() bool {
		var err error
		addr, err = app.Coordinator.Addr()
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	c := app.AppConf.Conf
	c.Host = "127.0.0.1"
	c.Port = addr.(*net.TCPAddr).Port
	return c
}

func TestRun_ShutdownOverControlSocket(t *testing.T) {
	app, cleanup := newTestApp(t)

	var cleaned atomic.Bool
	var g errgroup.Group
	g.Go(func() error {
		return Run(context.Background(), app, func() {
			cleanup()
			cleaned.Store(true)
		})
	})

	cc := controlConf(t, app)
	metricsAddr := app.Metrics.Addr()
	require.NotNil(t, metricsAddr)

	var out bytes.Buffer
	require.NoError(t, client.Send(context.Background(), cc, cc.ShutdownNoWaitCommand, &out))
	assert.Contains(t, out.String(), "Starting shutdown and disconnecting control socket")

	require.NoError(t, g.Wait())
	assert.True(t, cleaned.Load())
	assert.Equal(t, shutdown.Complete, app.Coordinator.State())

	_, err := net.DialTimeout("tcp", metricsAddr.String(), time.Second)
	assert.Error(t, err, "metrics server must be stopped by its listener")
}

func TestRun_ContextCancelTriggersShutdown(t *testing.T) {
	app, cleanup := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	var g errgroup.Group
	g.Go(func() error {
		return Run(ctx, app, cleanup)
	})

	controlConf(t, app)
	cancel()

	require.NoError(t, g.Wait())
	assert.Equal(t, shutdown.Complete, app.Coordinator.State())
}

func TestRun_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	appConf := conf.Defaults()
	appConf.Host = "127.0.0.1"
	appConf.Port = occupied.Addr().(*net.TCPAddr).Port
	logger := &log.Logger{Log: zap.NewNop().Sugar()}
	server := metrics.NewMetricsServer(appConf.Metrics)
	coordinator := shutdown.NewCoordinator(appConf.Conf,
		shutdown.WithLogger(logger.Log),
		shutdown.WithHookRegistrar(shutdown.NopHooks{}),
	)
	app, cleanup, err := NewApp(appConf, logger, server, coordinator)
	require.NoError(t, err)

	err = Run(context.Background(), app, cleanup)
	assert.True(t, errors.Is(err, shutdown.ErrBind))
	assert.Equal(t, shutdown.Complete, coordinator.State())
}

func TestNewApp_RegistersAfterStartFails(t *testing.T) {
	appConf := conf.Defaults()
	appConf.Host = "127.0.0.1"
	appConf.Port = 0
	coordinator := shutdown.NewCoordinator(appConf.Conf,
		shutdown.WithLogger(zap.NewNop().Sugar()),
		shutdown.WithHookRegistrar(shutdown.NopHooks{}),
	)
	require.NoError(t, coordinator.Start())
	t.Cleanup(coordinator.Shutdown)

	_, _, err := NewApp(appConf, &log.Logger{Log: zap.NewNop().Sugar()}, metrics.NewMetricsServer(appConf.Metrics), coordinator)
	assert.ErrorIs(t, err, shutdown.ErrAlreadyStarted)
}
