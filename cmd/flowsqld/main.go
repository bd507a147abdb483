/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command flowsqld is the process entry point: it loads an engine
// config, opens the metadata store, and blocks until signalled to
// shut down. The management HTTP surface that would normally drive
// pipeline CRUD against this process is an external collaborator, out
// of scope here.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/flowsql/flowsql"
	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/config"
)

// cli declares the daemon's two recognized flags.
type cli struct {
	DataDir string `name:"data-dir" help:"Override storage base dir for the metadata namespace." default:"./flowsql-data"`
	Config  string `name:"config" help:"Load config from the given path; missing file fails startup."`
}

// Process exit codes.
const (
	exitClean        = 0
	exitConfigError  = 1
	exitRuntimeFatal = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var c cli
	kong.Parse(&c,
		kong.Name("flowsqld"),
		kong.Description("FlowSQL continuous SQL stream-processing engine."),
	)

	engineCfg := config.EngineConfig{DataDir: c.DataDir, PerformanceConfig: config.Default()}
	if c.Config != "" {
		data, err := os.ReadFile(c.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flowsqld: read config %q: %v\n", c.Config, err)
			return exitConfigError
		}
		if err := yaml.Unmarshal(data, &engineCfg); err != nil {
			fmt.Fprintf(os.Stderr, "flowsqld: parse config %q: %v\n", c.Config, err)
			return exitConfigError
		}
		if engineCfg.DataDir == "" {
			engineCfg.DataDir = c.DataDir
		}
	}

	eng, err := flowsql.New(
		catalog.NewStaticCatalog(),
		flowsql.WithDataDir(engineCfg.DataDir),
		flowsql.WithPerformanceConfig(engineCfg.PerformanceConfig),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowsqld: init: %v\n", err)
		return exitConfigError
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stdout, "flowsqld: ready, data dir %q\n", engineCfg.DataDir)

	sig := <-sigCh
	fmt.Fprintf(os.Stdout, "flowsqld: received %s, shutting down\n", sig)

	if err := eng.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "flowsqld: shutdown: %v\n", err)
		return exitRuntimeFatal
	}
	return exitClean
}
