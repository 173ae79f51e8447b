// Copyright 2025 The dgb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"go.uber.org/zap"

	"dgb/internal/config"
	"dgb/internal/logutil"
	"dgb/windows"
)

func main() {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		cfgPath = ""
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logutil.Warn("config load failed, using defaults", zap.Error(err))
	}

	if err := logutil.Setup(logutil.Config{
		Level:    cfg.Log.Level,
		Filename: cfg.Log.File,
	}); err != nil {
		logutil.Warn("log setup failed", zap.Error(err))
	}
	defer logutil.Sync()

	windows.CreateMainWindow(cfg, cfgPath)
}
