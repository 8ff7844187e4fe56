package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/procnode/cmd"
	"github.com/smazurov/procnode/internal/api"
	"github.com/smazurov/procnode/internal/config"
	"github.com/smazurov/procnode/internal/events"
	"github.com/smazurov/procnode/internal/logging"
	"github.com/smazurov/procnode/internal/metrics"
	"github.com/smazurov/procnode/internal/metrics/exporters"
	"github.com/smazurov/procnode/internal/runtime"
	"github.com/smazurov/procnode/internal/supervisor"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8088" toml:"server.port" env:"SERVER_PORT"`

	// Runtime settings
	RuntimesFile string `help:"Runtime path overrides file" default:"runtimes.toml" toml:"runtimes.file" env:"RUNTIMES_FILE"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSupervisor string `help:"Supervisor logging level" default:"info" toml:"logging.supervisor" env:"LOGGING_SUPERVISOR"`
	LoggingAPI        string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP       string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	// The callback runs inside cli.Run, so the root command and its
	// flag state are available by then. Flags the user set explicitly
	// must survive file and env values.
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"supervisor": opts.LoggingSupervisor,
				"api":        opts.LoggingAPI,
				"http":       opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Bridge log entries onto the bus for the SSE log stream
		var logSeq atomic.Uint64
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        logSeq.Add(1),
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Load persisted runtime path overrides
		paths := runtime.NewPaths()
		if overrides, err := runtime.LoadPathsFile(opts.RuntimesFile); err != nil {
			logger.Warn("Failed to load runtimes file", "file", opts.RuntimesFile, "error", err)
		} else {
			paths.Replace(overrides)
		}

		service := supervisor.New(&supervisor.Options{
			Bus:       eventBus,
			Paths:     paths,
			PathsFile: opts.RuntimesFile,
			Logger:    logging.GetLogger("supervisor"),
		})

		// Process lifecycle metrics
		metricsUnsub := metrics.Observe(eventBus)

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Service:           service,
			EventBus:          eventBus,
			PrometheusHandler: exporters.HTTPHandler(),
		})

		// Hot-reload runtime overrides when the file is edited on disk.
		// The stub service has no override table, so reload only wires up
		// against the full supervisor.
		var watcher *config.Watcher[map[string]string]
		if sup, ok := service.(*supervisor.Supervisor); ok {
			watcher = config.NewConfigWatcher(
				opts.RuntimesFile,
				runtime.LoadPathsFile,
				logging.GetLogger("config"),
			)
			watcher.OnReload(func(overrides map[string]string) {
				sup.ReplaceRuntimePaths(overrides)
			})
		}

		hooks.OnStart(func() {
			if watcher != nil {
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Failed to start runtimes watcher, hot-reload disabled", "error", startErr)
					watcher = nil
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping runtimes watcher", "error", stopErr)
				}
			}

			// Children must not outlive the supervisor
			if killErr := service.KillAll(context.Background()); killErr != nil {
				logger.Warn("Error killing processes on shutdown", "error", killErr)
			}

			metricsUnsub()
		})
	})

	cli.Root().Use = "procnode"
	cli.Root().AddCommand(cmd.CreateRunCmd())
	cli.Root().AddCommand(cmd.CreateRuntimesCmd())

	cli.Run()
}
