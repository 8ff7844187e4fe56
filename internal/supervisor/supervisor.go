package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/smazurov/procnode/internal/events"
	"github.com/smazurov/procnode/internal/runtime"
)

// defaultPollInterval bounds exit-notification latency for the watcher.
const defaultPollInterval = 100 * time.Millisecond

// Options configures a Supervisor.
type Options struct {
	// Bus receives process lifecycle and output events. Required.
	Bus *events.Bus

	// Paths holds runtime executable overrides. A fresh empty set is
	// created when nil.
	Paths *runtime.Paths

	// PathsFile, when set, persists overrides across restarts.
	PathsFile string

	// PollInterval overrides the watcher poll interval. Used by tests.
	PollInterval time.Duration

	Logger *slog.Logger
}

// entry tracks one managed process. Owned exclusively by the table;
// stdin is nil once a kill has closed it.
type entry struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	config SpawnConfig
}

// Supervisor is the full Service implementation. The process table is
// the only shared mutable state; it is accessed exclusively under mu,
// and the lock is never held across a blocking wait on the child.
type Supervisor struct {
	mu    sync.Mutex
	procs map[string]*entry

	paths        *runtime.Paths
	pathsFile    string
	bus          *events.Bus
	logger       *slog.Logger
	pollInterval time.Duration
}

// NewSupervisor creates the full process supervisor.
func NewSupervisor(opts *Options) *Supervisor {
	if opts == nil || opts.Bus == nil {
		panic("Options with Bus is required")
	}

	paths := opts.Paths
	if paths == nil {
		paths = runtime.NewPaths()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Supervisor{
		procs:        make(map[string]*entry),
		paths:        paths,
		pathsFile:    opts.PathsFile,
		bus:          opts.Bus,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// resolveCommand turns a SpawnConfig into a program and argument list.
// An explicit command wins over a runtime; a path override substitutes
// the program whenever the config names a runtime.
func (s *Supervisor) resolveCommand(config SpawnConfig) (string, []string, error) {
	var program string
	var args []string

	switch {
	case config.Command != "":
		program = config.Command
	case config.Runtime != "":
		var err error
		program, args, err = runtime.Resolve(config.Runtime, config.Script)
		if err != nil {
			return "", nil, errInvalidConfig(err.Error())
		}
	default:
		return "", nil, errInvalidConfig("either 'runtime' or 'command' must be specified")
	}

	args = append(args, config.Args...)

	if config.Runtime != "" {
		if override, ok := s.paths.Get(config.Runtime); ok {
			program = override
		}
	}

	return program, args, nil
}

// Spawn launches a named process and registers it in the table. The
// existence check, launch, and insert happen in one critical section so
// two concurrent spawns for the same name cannot both observe "absent".
// Starting the child is not a blocking wait on it, so holding the table
// lock across the launch is safe.
func (s *Supervisor) Spawn(_ context.Context, name string, config SpawnConfig) (ProcessInfo, error) {
	s.mu.Lock()

	if _, exists := s.procs[name]; exists {
		s.mu.Unlock()
		return ProcessInfo{}, errAlreadyExists(name)
	}

	program, args, err := s.resolveCommand(config)
	if err != nil {
		s.mu.Unlock()
		return ProcessInfo{}, err
	}

	cmd := exec.Command(program, args...)
	if config.Cwd != "" {
		cmd.Dir = config.Cwd
	}
	if len(config.Env) > 0 {
		// Entries are added to the inherited environment, not replacing it.
		env := os.Environ()
		for k, v := range config.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.mu.Unlock()
		return ProcessInfo{}, errIOFailure(name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.mu.Unlock()
		return ProcessInfo{}, errIOFailure(name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.mu.Unlock()
		return ProcessInfo{}, errIOFailure(name, err)
	}

	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		return ProcessInfo{}, errIOFailure(name, err)
	}

	s.procs[name] = &entry{cmd: cmd, stdin: stdin, config: config.Clone()}
	pid := cmd.Process.Pid
	s.mu.Unlock()

	// Wait closes the pipes, so the reaper must not run until both
	// pumps have drained their streams; a fast-exiting child would
	// otherwise lose buffered output.
	var pumps sync.WaitGroup
	pumps.Add(2)
	go func() {
		defer pumps.Done()
		s.pump(name, streamStdout, stdout)
	}()
	go func() {
		defer pumps.Done()
		s.pump(name, streamStderr, stderr)
	}()

	// A single goroutine reaps the child; the watcher polls its result
	// without ever blocking on the wait itself.
	waitCh := make(chan waitStatus, 1)
	go func() {
		pumps.Wait()
		waitCh <- waitStatus{code: exitCodeFromWait(cmd.Wait())}
	}()

	go s.watch(name, waitCh)

	s.logger.Info("Process spawned", "name", name, "pid", pid, "program", program)
	s.bus.Publish(events.ProcessSpawnedEvent{Name: name, Pid: pid})

	return ProcessInfo{Name: name, Pid: pid, Running: true}, nil
}

// Kill removes the entry first, so the watcher's next poll observes
// absence and stops without emitting a spurious exit event, then closes
// stdin and terminates the child best-effort.
func (s *Supervisor) Kill(_ context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.procs[name]
	if !ok {
		s.mu.Unlock()
		return errNotFound(name)
	}
	delete(s.procs, name)
	s.mu.Unlock()

	s.terminate(name, e)
	s.logger.Info("Process killed", "name", name)
	s.bus.Publish(events.ProcessKilledEvent{Name: name})
	return nil
}

// KillAll atomically drains the table, then terminates every process
// independently. Individual failures do not abort the rest.
func (s *Supervisor) KillAll(_ context.Context) error {
	s.mu.Lock()
	drained := s.procs
	s.procs = make(map[string]*entry)
	s.mu.Unlock()

	for name, e := range drained {
		s.terminate(name, e)
		s.bus.Publish(events.ProcessKilledEvent{Name: name})
	}

	if len(drained) > 0 {
		s.logger.Info("All processes killed", "count", len(drained))
	}
	return nil
}

// terminate closes stdin before killing so children that read it see
// end-of-input first. Kill failures are swallowed: the entry is already
// out of the table, which is the caller's contract.
func (s *Supervisor) terminate(name string, e *entry) {
	if e.stdin != nil {
		_ = e.stdin.Close()
		e.stdin = nil
	}
	if err := e.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Warn("Failed to kill process", "name", name, "error", err)
	}
}

// Restart kills the process and spawns it again under the same name.
// The kill/spawn boundary is not atomic: a concurrent spawn for the
// same name can slip in between and win the race. Accepted.
func (s *Supervisor) Restart(ctx context.Context, name string, config *SpawnConfig) (ProcessInfo, error) {
	s.mu.Lock()
	e, ok := s.procs[name]
	if !ok {
		s.mu.Unlock()
		return ProcessInfo{}, errNotFound(name)
	}
	stored := e.config.Clone()
	s.mu.Unlock()

	if err := s.Kill(ctx, name); err != nil {
		return ProcessInfo{}, err
	}

	next := stored
	if config != nil {
		next = *config
	}
	return s.Spawn(ctx, name, next)
}

// ListProcesses returns a snapshot of the table.
func (s *Supervisor) ListProcesses(_ context.Context) ([]ProcessInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]ProcessInfo, 0, len(s.procs))
	for name, e := range s.procs {
		list = append(list, ProcessInfo{Name: name, Pid: e.cmd.Process.Pid, Running: true})
	}
	return list, nil
}

// GetStatus returns info for one managed process.
func (s *Supervisor) GetStatus(_ context.Context, name string) (ProcessInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.procs[name]
	if !ok {
		return ProcessInfo{}, errNotFound(name)
	}
	return ProcessInfo{Name: name, Pid: e.cmd.Process.Pid, Running: true}, nil
}

// WriteStdin writes data to the process's standard input. The handle is
// copied out under the lock and written outside it, so a slow child
// cannot stall the table. Pipe writes are unbuffered, so a successful
// write needs no separate flush.
func (s *Supervisor) WriteStdin(_ context.Context, name, data string) error {
	s.mu.Lock()
	e, ok := s.procs[name]
	if !ok {
		s.mu.Unlock()
		return errNotFound(name)
	}
	w := e.stdin
	s.mu.Unlock()

	if w == nil {
		return errNotRunning(name)
	}
	if _, err := io.WriteString(w, data); err != nil {
		return errStdinWrite(name, err)
	}
	return nil
}

// DetectRuntimes probes the host for installed runtimes.
func (s *Supervisor) DetectRuntimes(ctx context.Context) ([]runtime.Info, error) {
	return runtime.Detect(ctx), nil
}

// SetRuntimePath sets or removes an executable override and persists
// the result when a runtimes file is configured.
func (s *Supervisor) SetRuntimePath(_ context.Context, runtimeName, path string) error {
	s.paths.Set(runtimeName, path)
	s.logger.Info("Runtime path override changed", "runtime", runtimeName, "path", path)

	snapshot := s.paths.Snapshot()
	if s.pathsFile != "" {
		if err := runtime.SavePathsFile(s.pathsFile, snapshot); err != nil {
			s.logger.Warn("Failed to persist runtime paths", "error", err)
		}
	}
	s.bus.Publish(events.RuntimePathsChangedEvent{Paths: snapshot})
	return nil
}

// GetRuntimePaths returns a snapshot of current overrides.
func (s *Supervisor) GetRuntimePaths(_ context.Context) (map[string]string, error) {
	return s.paths.Snapshot(), nil
}

// ReplaceRuntimePaths swaps the whole override set, used when the
// runtimes file is edited on disk and hot-reloaded.
func (s *Supervisor) ReplaceRuntimePaths(paths map[string]string) {
	s.paths.Replace(paths)
	s.logger.Info("Runtime paths reloaded", "count", len(paths))
	s.bus.Publish(events.RuntimePathsChangedEvent{Paths: s.paths.Snapshot()})
}
