package supervisor

import (
	"context"

	"github.com/smazurov/procnode/internal/runtime"
)

const unsupportedMessage = "process management is not supported on this platform"

// Unsupported is the Service implementation for constrained builds
// where spawning child processes is unavailable. Every operation fails.
type Unsupported struct{}

// NewUnsupported creates the stub service.
func NewUnsupported() *Unsupported {
	return &Unsupported{}
}

func (u *Unsupported) Spawn(context.Context, string, SpawnConfig) (ProcessInfo, error) {
	return ProcessInfo{}, errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) Kill(context.Context, string) error {
	return errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) KillAll(context.Context) error {
	return errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) Restart(context.Context, string, *SpawnConfig) (ProcessInfo, error) {
	return ProcessInfo{}, errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) ListProcesses(context.Context) ([]ProcessInfo, error) {
	return nil, errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) GetStatus(context.Context, string) (ProcessInfo, error) {
	return ProcessInfo{}, errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) WriteStdin(context.Context, string, string) error {
	return errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) DetectRuntimes(context.Context) ([]runtime.Info, error) {
	return nil, errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) SetRuntimePath(context.Context, string, string) error {
	return errInvalidConfig(unsupportedMessage)
}

func (u *Unsupported) GetRuntimePaths(context.Context) (map[string]string, error) {
	return nil, errInvalidConfig(unsupportedMessage)
}
