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

// Package conf loads the control channel, logging and metrics settings from
// an optional file and the environment.
package conf

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/shutdownlistener/pkg/log"
	"github.com/go-arcade/shutdownlistener/pkg/metrics"
	"github.com/go-arcade/shutdownlistener/pkg/shutdown"
	"github.com/magiconair/properties"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "SHUTDOWN_LISTENER_CONFIG"
	// EnvPrefix prefixes per-key overrides, e.g. SHUTDOWN_LISTENER_PORT.
	EnvPrefix = "SHUTDOWN_LISTENER"
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "shutdown-listener.properties"
)

// AppConfig holds all configuration settings
type AppConfig struct {
	shutdown.Conf `mapstructure:",squash"`
	Log           log.Conf              `mapstructure:"log"`
	Metrics       metrics.MetricsConfig `mapstructure:"metrics"`
}

// Defaults returns the configuration used when no source sets a value.
func Defaults() AppConfig {
	return AppConfig{
		Conf:    *shutdown.SetDefaults(),
		Log:     *log.SetDefaults(),
		Metrics: *metrics.SetDefaults(),
	}
}

// ResolvePath picks the configuration file: an explicit path first, then
// EnvConfigPath, then DefaultConfigFile.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigFile
}

// Loader reads one configuration file. The format follows the file extension
// (properties, toml, yaml, json).
type Loader struct {
	path string
	v    *viper.Viper
	read bool
}

func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setSectionDefaults(v, Defaults())
	return &Loader{path: path, v: v}
}

// Load never fails: an unreadable file or a malformed value is reported and
// the default is used in its place.
func (l *Loader) Load() AppConfig {
	if err := l.readInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) && l.path == DefaultConfigFile {
			log.Debugw("no configuration file found, using defaults", "path", l.path)
		} else {
			log.Warnw("failed to read configuration file, using defaults", "path", l.path, "error", err)
		}
	} else {
		l.read = true
	}

	cfg := Defaults()
	cfg.Conf = l.controlChannel(cfg.Conf)
	cfg.Log = l.logSection(cfg.Log)
	cfg.Metrics = l.metricsSection(cfg.Metrics)

	log.Infow("configuration loaded",
		"path", l.path,
		"file", l.read,
		"address", cfg.Addr(),
	)
	return cfg
}

func (l *Loader) readInConfig() error {
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".properties", ".props", ".prop":
		p, err := properties.LoadFile(l.path, properties.UTF8)
		if err != nil {
			return err
		}
		return l.v.MergeConfigMap(nestedMap(p))
	default:
		return l.v.ReadInConfig()
	}
}

// nestedMap turns dotted property keys such as log.level into nested maps.
func nestedMap(p *properties.Properties) map[string]any {
	root := make(map[string]any)
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		path := strings.Split(key, ".")
		node := root
		for _, part := range path[:len(path)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[path[len(path)-1]] = value
	}
	return root
}

// Watch reports changes to the loaded file. The control socket and the
// listener registry are fixed after start, so nothing is re-applied.
func (l *Loader) Watch() {
	if !l.read {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration file changed, control channel settings apply on restart",
			"file", e.Name, "op", e.Op.String())
	})
	l.v.WatchConfig()
}

func (l *Loader) controlChannel(def shutdown.Conf) shutdown.Conf {
	return shutdown.Conf{
		Host:                  l.stringKey("host", def.Host),
		Port:                  l.portKey("port", def.Port),
		ShutdownWaitCommand:   l.stringKey("shutdownWaitCommand", def.ShutdownWaitCommand),
		ShutdownNoWaitCommand: l.stringKey("shutdownNoWaitCommand", def.ShutdownNoWaitCommand),
		StatusCommand:         l.stringKey("statusCommand", def.StatusCommand),
	}
}

func (l *Loader) stringKey(key, def string) string {
	raw := l.v.Get(key)
	if raw == nil {
		return def
	}
	s, err := cast.ToStringE(raw)
	if err != nil || strings.TrimSpace(s) == "" {
		log.Warnw("invalid configuration value, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return strings.TrimSpace(s)
}

func (l *Loader) portKey(key string, def int) int {
	raw := l.v.Get(key)
	if raw == nil {
		return def
	}
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	port, err := cast.ToIntE(raw)
	if err != nil || port < 0 || port > 65535 {
		log.Warnw("invalid port, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return port
}

// setSectionDefaults makes every nested key known to viper so that
// SHUTDOWN_LISTENER_LOG_LEVEL style overrides reach Unmarshal.
func setSectionDefaults(v *viper.Viper, def AppConfig) {
	v.SetDefault("log.output", def.Log.Output)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.filename", def.Log.Filename)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.keepDays", def.Log.KeepDays)
	v.SetDefault("log.rotateSize", def.Log.RotateSize)
	v.SetDefault("log.rotateNum", def.Log.RotateNum)
	v.SetDefault("metrics.host", def.Metrics.Host)
	v.SetDefault("metrics.port", def.Metrics.Port)
	v.SetDefault("metrics.enable", def.Metrics.Enable)
	v.SetDefault("metrics.pprof", def.Metrics.Pprof)
}

// A section that fails to decode is replaced by its defaults as a whole.
func (l *Loader) logSection(def log.Conf) log.Conf {
	var section struct {
		Log log.Conf `mapstructure:"log"`
	}
	if err := l.v.Unmarshal(&section); err != nil {
		log.Warnw("invalid configuration section, using defaults", "section", "log", "error", err)
		return def
	}
	return section.Log
}

func (l *Loader) metricsSection(def metrics.MetricsConfig) metrics.MetricsConfig {
	var section struct {
		Metrics metrics.MetricsConfig `mapstructure:"metrics"`
	}
	if err := l.v.Unmarshal(&section); err != nil {
		log.Warnw("invalid configuration section, using defaults", "section", "metrics", "error", err)
		return def
	}
	return section.Metrics
}

// Load resolves and loads the configuration in one step.
func Load(path string) AppConfig {
	return NewLoader(ResolvePath(path)).Load()
}
