// Copyright 2024 likeness Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	// debug mode
	SetLogger(flagSet, true)
	assert.NotNil(t, Logger())
	assert.True(t, Logger().Core().Enabled(-1)) // zapcore.DebugLevel
	// production mode
	SetLogger(flagSet, false)
	assert.NotNil(t, Logger())
	assert.False(t, Logger().Core().Enabled(-1))
}

func TestSetLoggerWithFile(t *testing.T) {
	path := t.TempDir() + "/likeness.log"
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	assert.NoError(t, flagSet.Set("log-path", path))
	SetLogger(flagSet, true)
	Logger().Info("hello")
	// syncing stderr fails on some platforms, only the file matters here
	_ = Logger().Sync()
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
