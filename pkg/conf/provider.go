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

package conf

import (
	"github.com/go-arcade/shutdownlistener/pkg/log"
	"github.com/go-arcade/shutdownlistener/pkg/metrics"
	"github.com/go-arcade/shutdownlistener/pkg/shutdown"
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for configuration.
var ProviderSet = wire.NewSet(
	ProvideLoader,
	ProvideAppConfig,
	ProvideShutdownConf,
	ProvideLogConf,
	ProvideMetricsConf,
)

// Path is the configuration file given on the command line, possibly empty.
type Path string

func ProvideLoader(path Path) *Loader {
	return NewLoader(ResolvePath(string(path)))
}

// ProvideAppConfig loads the configuration and starts watching the file.
func ProvideAppConfig(loader *Loader) AppConfig {
	cfg := loader.Load()
	loader.Watch()
	return cfg
}

func ProvideShutdownConf(cfg AppConfig) shutdown.Conf {
	return cfg.Conf
}

func ProvideLogConf(cfg AppConfig) *log.Conf {
	c := cfg.Log
	return &c
}

func ProvideMetricsConf(cfg AppConfig) metrics.MetricsConfig {
	return cfg.Metrics
}
