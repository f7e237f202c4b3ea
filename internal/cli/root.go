/*
 * Copyright 2024 The postgrest-query-go Authors.
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

// Package cli implements the pgrst command line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfgFile string

	settings *Settings
	logger   *zap.Logger
	client   *postgrest.Client
	registry *prometheus.Registry
}

// Execute runs the pgrst command tree with args and releases the client
// afterwards, whether or not the command succeeded.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.teardown(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pgrst",
		Short:         "pgrst talks to a PostgREST server",
		Long:          `pgrst reads and writes rows and calls stored functions through a PostgREST API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/pgrst.yaml)")
	f.String("endpoint", "", "PostgREST root URL, e.g. http://localhost:3000")
	f.String("token", "", "bearer token sent as the Authorization header")
	f.String("schema", "", "schema to read from and write to")
	f.StringP("log-level", "L", "", "log requests at this level (debug, info, warn, error, none)")
	f.Int("retries", 0, "retry requests that fail to send this many times")
	f.Bool("metrics", false, "print request metrics to stderr on exit")

	root.AddCommand(
		newSelectCommand(a),
		newInsertCommand(a),
		newDeleteCommand(a),
		newRPCCommand(a),
		newVersionCommand(),
	)
	return root
}

// Main runs the pgrst command and exits the process on failure.
func Main() {
	if err := Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	s, err := LoadSettings(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := s.Config.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(s.LogLevel)
	if err != nil {
		return err
	}

	opts := []postgrest.Option{postgrest.WithLogger(logger)}
	var transport postgrest.HTTPClient = postgrest.NewHTTPClient()
	if s.Retries > 0 {
		transport = newRetryingHTTPClient(transport, uint64(s.Retries), logger)
	}
	opts = append(opts, postgrest.WithHTTPClient(transport))
	if s.Metrics {
		a.registry = prometheus.NewRegistry()
		opts = append(opts, postgrest.WithMetrics(postgrest.NewMetrics(a.registry)))
	}

	a.settings = s
	a.logger = logger
	a.client = postgrest.NewClient(s.clientConfig(), opts...)
	return nil
}

func (a *app) teardown(stderr io.Writer) {
	if a.registry != nil {
		if err := dumpMetrics(stderr, a.registry); err != nil {
			a.logger.Warn("failed to write metrics", zap.Error(err))
		}
	}
	if a.client != nil {
		a.client.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
