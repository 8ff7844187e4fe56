package supervisor

import (
	"bufio"
	"io"

	"github.com/smazurov/procnode/internal/events"
)

const (
	streamStdout = "stdout"
	streamStderr = "stderr"
)

// pump drains one output stream of a process line by line, publishing
// each line as an event. It owns the stream exclusively, never touches
// the process table, and terminates silently on end-of-stream or read
// error; there is no caller to report back to.
func (s *Supervisor) pump(name, stream string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if stream == streamStdout {
			s.bus.Publish(events.ProcessStdoutEvent{Name: name, Data: line})
		} else {
			s.bus.Publish(events.ProcessStderrEvent{Name: name, Data: line})
		}
	}

	if err := scanner.Err(); err != nil {
		// Expected when the child is killed and its pipe torn down.
		s.logger.Debug("Output stream closed", "name", name, "stream", stream, "error", err)
	}
}
