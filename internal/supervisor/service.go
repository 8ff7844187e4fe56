package supervisor

import (
	"context"

	"github.com/smazurov/procnode/internal/runtime"
)

// Service is the process-management capability exposed to the rest of
// the application. The full implementation is Supervisor; constrained
// builds get Unsupported, which rejects every operation.
type Service interface {
	// Spawn launches a named process. Fails with ErrCodeAlreadyExists if
	// the name is taken and ErrCodeInvalidConfig if neither or both of
	// runtime/command are usable.
	Spawn(ctx context.Context, name string, config SpawnConfig) (ProcessInfo, error)

	// Kill removes a process from the table and terminates it.
	Kill(ctx context.Context, name string) error

	// KillAll terminates every managed process. Individual termination
	// failures do not abort the rest.
	KillAll(ctx context.Context) error

	// Restart kills the named process and spawns it again under the same
	// name, using config if given, else the stored config.
	Restart(ctx context.Context, name string, config *SpawnConfig) (ProcessInfo, error)

	// ListProcesses returns a snapshot of all managed processes.
	ListProcesses(ctx context.Context) ([]ProcessInfo, error)

	// GetStatus returns info for one process, ErrCodeNotFound if absent.
	GetStatus(ctx context.Context, name string) (ProcessInfo, error)

	// WriteStdin writes data to the process's standard input.
	WriteStdin(ctx context.Context, name, data string) error

	// DetectRuntimes probes the host for installed runtimes.
	DetectRuntimes(ctx context.Context) ([]runtime.Info, error)

	// SetRuntimePath sets or, with an empty path, removes an executable
	// override for a runtime.
	SetRuntimePath(ctx context.Context, runtimeName, path string) error

	// GetRuntimePaths returns a snapshot of current overrides.
	GetRuntimePaths(ctx context.Context) (map[string]string, error)
}
