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

package log

import "go.uber.org/zap"

func global() *zap.SugaredLogger {
	ensure()
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(args ...any) {
	global().Info(args...)
}

func Infof(format string, args ...any) {
	global().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...any) {
	global().Infow(msg, keysAndValues...)
}

func Debug(args ...any) {
	global().Debug(args...)
}

func Debugf(format string, args ...any) {
	global().Debugf(format, args...)
}

func Debugw(msg string, keysAndValues ...any) {
	global().Debugw(msg, keysAndValues...)
}

func Warn(args ...any) {
	global().Warn(args...)
}

func Warnf(format string, args ...any) {
	global().Warnf(format, args...)
}

func Warnw(msg string, keysAndValues ...any) {
	global().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	global().Error(args...)
}

func Errorf(format string, args ...any) {
	global().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	global().Errorw(msg, keysAndValues...)
}
