/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// binsched runs the weekly scheduling core from the command line: a
// request document in, a schedule document out. Serialisation lives
// here; the core itself is wire-free.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/metrics"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduler"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "binsched",
		Short:         "Weekly workforce scheduling engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newLogger := func() (*zap.Logger, error) {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		return cfg.Build()
	}

	root.AddCommand(scheduleCommand(newLogger), validateCommand(newLogger), candidatesCommand(newLogger))
	return root
}

func scheduleCommand(newLogger func() (*zap.Logger, error)) *cobra.Command {
	var requestPath, outputPath string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute a weekly schedule for a request document",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			metrics.MustRegister()

			req, err := readRequest(requestPath)
			if err != nil {
				return err
			}
			engine := scheduler.NewEngine(scheduler.EngineOptions{Logger: logger})
			result, err := engine.Schedule(context.Background(), req)
			if err != nil {
				return err
			}
			return writeJSON(outputPath, result)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "f", "", "path to the request document")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the result to (default stdout)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func validateCommand(newLogger func() (*zap.Logger, error)) *cobra.Command {
	var requestPath, schedulePath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an externally edited schedule against a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			req, err := readRequest(requestPath)
			if err != nil {
				return err
			}
			var assignments []v1alpha1.Assignment
			if err := readJSON(schedulePath, &assignments); err != nil {
				return err
			}
			warnings, err := scheduler.Validate(req, assignments)
			if err != nil {
				return err
			}
			logger.Info("validated schedule", zap.Int("assignments", len(assignments)), zap.Int("warnings", len(warnings)))
			return writeJSON("", warnings)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "f", "", "path to the request document")
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to the assignments document")
	_ = cmd.MarkFlagRequired("request")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}

func candidatesCommand(newLogger func() (*zap.Logger, error)) *cobra.Command {
	var requestPath string
	var attempts int
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Produce a Pareto front of alternative schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			req, err := readRequest(requestPath)
			if err != nil {
				return err
			}
			candidates, err := scheduler.Candidates(context.Background(), req, attempts)
			if err != nil {
				return err
			}
			logger.Info("computed candidate schedules", zap.Int("count", len(candidates)))
			return writeJSON("", candidates)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "f", "", "path to the request document")
	cmd.Flags().IntVarP(&attempts, "attempts", "n", 0, "number of seeded attempts (default 5)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func readRequest(path string) (*scheduler.Request, error) {
	req := &scheduler.Request{}
	if err := readJSON(path, req); err != nil {
		return nil, err
	}
	return req, nil
}

func readJSON(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s, %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parsing %s, %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result, %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
