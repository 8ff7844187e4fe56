// Package logging provides structured logging with per-module levels.
//
// Built on log/slog, every record fans out to three targets at once:
// stdout (text or json), the systemd journal when the socket exists,
// and a ring buffer feeding the log streaming endpoint.
//
// Call Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"supervisor": "debug",
//			"api":        "warn",
//		},
//	})
//
// then grab module loggers wherever they are needed:
//
//	logger := logging.GetLogger("supervisor")
//	logger.Info("Process spawned", "name", name, "pid", pid)
//
// Loggers obtained before Initialize keep working; their levels are
// retuned in place when configuration arrives.
//
// Under systemd, logs land in the journal tagged with the binary name:
//
//	journalctl -t procnode -f
//	journalctl -t procnode -p err
//	journalctl -t procnode MODULE=supervisor
//
// The matching TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	supervisor = "debug"
//	api = "warn"
package logging
