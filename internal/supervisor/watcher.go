package supervisor

import (
	"errors"
	"os/exec"
	"time"

	"github.com/smazurov/procnode/internal/events"
)

// waitStatus is the reaped result of one child. code is nil when the
// platform could not report an exit code (signal termination or a wait
// error).
type waitStatus struct {
	code *int
}

// exitCodeFromWait maps a cmd.Wait error to an optional exit code.
func exitCodeFromWait(err error) *int {
	if err == nil {
		code := 0
		return &code
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return &code
		}
	}
	return nil
}

// watch polls for the child's termination at a fixed interval. On each
// tick it first checks the table: if the name is gone, another actor
// (kill or killAll) already removed it and the watcher stops silently,
// emitting nothing. On natural exit the entry is removed before the
// exit event is published, so observers never see an exited name listed
// as running. The table lock is only held for the membership check and
// the removal, never across the wait.
func (s *Supervisor) watch(name string, waitCh <-chan waitStatus) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		_, managed := s.procs[name]
		s.mu.Unlock()
		if !managed {
			return
		}

		select {
		case st := <-waitCh:
			s.mu.Lock()
			delete(s.procs, name)
			s.mu.Unlock()

			if st.code != nil {
				s.logger.Info("Process exited", "name", name, "exit_code", *st.code)
			} else {
				s.logger.Info("Process exited", "name", name, "exit_code", "unknown")
			}
			s.bus.Publish(events.ProcessExitEvent{Name: name, Code: st.code})
			return
		default:
			// Still running, poll again next tick.
		}
	}
}
