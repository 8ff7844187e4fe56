package supervisor

// SpawnConfig describes how to launch a managed process. Exactly one of
// Runtime or Command must be set. The config is retained verbatim so a
// later Restart without a new config relaunches the same invocation.
type SpawnConfig struct {
	Runtime string            `json:"runtime,omitempty" example:"node" doc:"Logical runtime name: bun, deno, or node"`
	Command string            `json:"command,omitempty" example:"/usr/local/bin/worker" doc:"Explicit executable, alternative to runtime"`
	Script  string            `json:"script,omitempty" example:"index.js" doc:"Script file passed to the runtime"`
	Args    []string          `json:"args,omitempty" doc:"Extra arguments appended after runtime-derived ones"`
	Cwd     string            `json:"cwd,omitempty" doc:"Working directory for the child"`
	Env     map[string]string `json:"env,omitempty" doc:"Environment entries added to the inherited environment"`
}

// Clone returns a deep copy so a stored config cannot be mutated through
// the caller's slices or maps.
func (c SpawnConfig) Clone() SpawnConfig {
	out := c
	if c.Args != nil {
		out.Args = make([]string, len(c.Args))
		copy(out.Args, c.Args)
	}
	if c.Env != nil {
		out.Env = make(map[string]string, len(c.Env))
		for k, v := range c.Env {
			out.Env[k] = v
		}
	}
	return out
}

// ProcessInfo is the read model for one managed process. Running is
// always true for an entry present in the table; querying an absent
// name is an error, not a stopped result.
type ProcessInfo struct {
	Name    string `json:"name" example:"worker" doc:"Process name"`
	Pid     int    `json:"pid,omitempty" example:"12345" doc:"OS process identifier"`
	Running bool   `json:"running" example:"true" doc:"Whether the process is managed and presumed running"`
}
