// Package cmd holds the auxiliary CLI subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smazurov/procnode/internal/events"
	"github.com/smazurov/procnode/internal/logging"
	"github.com/smazurov/procnode/internal/runtime"
	"github.com/smazurov/procnode/internal/supervisor"
)

// CreateRunCmd creates the run command.
func CreateRunCmd() *cobra.Command {
	var runtimeName string
	var command string
	var name string
	var cwd string
	var envVars []string
	var runtimesFile string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run a single script in the foreground",
		Long: `Spawns one managed process and streams its output to the terminal. ` +
			`Exits with the child's exit code. Intended for trying out a script without the HTTP server.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			loggingConfig := logging.Config{
				Level:  "warn",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("run")

			var script string
			if len(args) > 0 {
				script = args[0]
			}
			if command == "" && script == "" {
				fmt.Fprintln(os.Stderr, "either a script argument or --command is required")
				os.Exit(2)
			}

			config := supervisor.SpawnConfig{
				Script: script,
				Cwd:    cwd,
			}
			if command != "" {
				config.Command = command
			} else {
				config.Runtime = runtimeName
			}
			if len(envVars) > 0 {
				config.Env = make(map[string]string, len(envVars))
				for _, kv := range envVars {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) != 2 {
						fmt.Fprintf(os.Stderr, "invalid --env entry %q, expected KEY=VALUE\n", kv)
						os.Exit(2)
					}
					config.Env[parts[0]] = parts[1]
				}
			}

			bus := events.New()

			// Forward child output to the terminal
			unsubOut := bus.Subscribe(func(e events.ProcessStdoutEvent) {
				fmt.Fprintln(os.Stdout, e.Data)
			})
			defer unsubOut()
			unsubErr := bus.Subscribe(func(e events.ProcessStderrEvent) {
				fmt.Fprintln(os.Stderr, e.Data)
			})
			defer unsubErr()

			exitCh := make(chan *int, 1)
			unsubExit := bus.Subscribe(func(e events.ProcessExitEvent) {
				if e.Name == name {
					exitCh <- e.Code
				}
			})
			defer unsubExit()

			paths := runtime.NewPaths()
			if overrides, err := runtime.LoadPathsFile(runtimesFile); err != nil {
				logger.Warn("Failed to load runtimes file", "error", err)
			} else {
				paths.Replace(overrides)
			}

			svc := supervisor.New(&supervisor.Options{
				Bus:    bus,
				Paths:  paths,
				Logger: logger,
			})

			ctx := context.Background()
			info, err := svc.Spawn(ctx, name, config)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to spawn: %v\n", err)
				os.Exit(1)
			}
			logger.Info("Process running", "name", info.Name, "pid", info.Pid)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case code := <-exitCh:
				if code == nil {
					// Terminated by signal, no exit code to mirror
					os.Exit(1)
				}
				os.Exit(*code)
			case sig := <-sigCh:
				logger.Info("Signal received, killing process", "signal", sig.String())
				_ = svc.KillAll(ctx)
				os.Exit(130)
			}
		},
	}

	cmd.Flags().StringVar(&runtimeName, "runtime", runtime.Node, "Runtime to launch the script with (bun, node, deno)")
	cmd.Flags().StringVar(&command, "command", "", "Arbitrary executable to launch instead of a runtime")
	cmd.Flags().StringVar(&name, "name", "main", "Process name")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory for the child process")
	cmd.Flags().StringArrayVar(&envVars, "env", nil, "Environment entries as KEY=VALUE, repeatable")
	cmd.Flags().StringVar(&runtimesFile, "runtimes-file", "runtimes.toml", "Path to the runtime overrides file")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}
