// Package supervisor manages named child processes for script runtimes.
//
// The Supervisor keeps a mutex-guarded table of running processes and
// coordinates three background goroutines per process:
//   - two output pumps that forward stdout/stderr lines as events
//   - an exit watcher that polls for termination, removes the entry,
//     and publishes the exit event
//
// Lifecycle invariants:
//   - a name is in the table if and only if its process is managed and
//     presumed running
//   - an entry disappears exactly once, via explicit kill or via the
//     watcher observing natural exit, never both
//   - removal always precedes the exit event, and a kill's removal is
//     what tells the watcher to stop silently
//
// Example usage:
//
//	svc := supervisor.New(&supervisor.Options{Bus: bus})
//	info, err := svc.Spawn(ctx, "worker", supervisor.SpawnConfig{
//	    Runtime: "node",
//	    Script:  "worker.js",
//	})
//	defer svc.KillAll(ctx)
package supervisor
