// Package models defines the request and response shapes of the HTTP API.
package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"gitCommit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"buildDate" doc:"Build timestamp"`
	GoVersion string `json:"goVersion" example:"go1.24.1" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Build platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Process models
type ProcessData struct {
	Name    string `json:"name" example:"worker" doc:"Unique process name"`
	Pid     int    `json:"pid,omitempty" example:"12345" doc:"Operating system process ID"`
	Running bool   `json:"running" example:"true" doc:"Whether the process is currently managed"`
}

type ProcessResponse struct {
	Body ProcessData
}

type ProcessListData struct {
	Processes []ProcessData `json:"processes" doc:"Currently managed processes"`
	Count     int           `json:"count" example:"2" doc:"Number of managed processes"`
}

type ProcessListResponse struct {
	Body ProcessListData
}

type SpawnRequestData struct {
	Name    string            `json:"name" pattern:"^[a-zA-Z0-9_-]+$" minLength:"1" maxLength:"64" example:"worker" doc:"Unique process name (alphanumeric, dashes, underscores only)"`
	Runtime string            `json:"runtime,omitempty" enum:"bun,node,deno" example:"node" doc:"JavaScript runtime to launch the script with"`
	Command string            `json:"command,omitempty" example:"/usr/local/bin/myserver" doc:"Arbitrary executable to launch instead of a runtime"`
	Script  string            `json:"script,omitempty" example:"server.js" doc:"Script path passed to the runtime"`
	Args    []string          `json:"args,omitempty" doc:"Extra arguments appended to the command line"`
	Cwd     string            `json:"cwd,omitempty" example:"/srv/app" doc:"Working directory for the child process"`
	Env     map[string]string `json:"env,omitempty" doc:"Additional environment variables"`
}

type SpawnRequest struct {
	Body SpawnRequestData
}

type RestartRequestData struct {
	Runtime string            `json:"runtime,omitempty" enum:"bun,node,deno" doc:"Replacement runtime, omit to reuse the stored configuration"`
	Command string            `json:"command,omitempty" doc:"Replacement executable"`
	Script  string            `json:"script,omitempty" doc:"Replacement script path"`
	Args    []string          `json:"args,omitempty" doc:"Replacement arguments"`
	Cwd     string            `json:"cwd,omitempty" doc:"Replacement working directory"`
	Env     map[string]string `json:"env,omitempty" doc:"Replacement environment variables"`
}

// RestartRequest carries an optional replacement configuration. A zero
// body restarts the process with its original configuration.
type RestartRequest struct {
	Body RestartRequestData
}

// IsZero reports whether no replacement configuration was supplied.
func (r RestartRequestData) IsZero() bool {
	return r.Runtime == "" && r.Command == "" && r.Script == "" &&
		len(r.Args) == 0 && r.Cwd == "" && len(r.Env) == 0
}

type StdinRequestData struct {
	Data string `json:"data" minLength:"1" doc:"Bytes to write to the process standard input"`
}

type StdinRequest struct {
	Body StdinRequestData
}

type KillAllData struct {
	Killed int `json:"killed" example:"3" doc:"Number of processes terminated"`
}

type KillAllResponse struct {
	Body KillAllData
}

// Runtime models
type RuntimeData struct {
	Name      string `json:"name" example:"node" doc:"Runtime name"`
	Path      string `json:"path,omitempty" example:"/usr/bin/node" doc:"Resolved executable path"`
	Version   string `json:"version,omitempty" example:"v22.3.0" doc:"Reported runtime version"`
	Available bool   `json:"available" example:"true" doc:"Whether the runtime responded to a version probe"`
}

type RuntimeListData struct {
	Runtimes []RuntimeData `json:"runtimes" doc:"Probe results for all known runtimes"`
}

type RuntimeListResponse struct {
	Body RuntimeListData
}

type RuntimePathRequestData struct {
	Path string `json:"path" example:"/opt/node/bin/node" doc:"Executable path override, empty string removes the override"`
}

type RuntimePathRequest struct {
	Body RuntimePathRequestData
}

type RuntimePathsData struct {
	Paths map[string]string `json:"paths" doc:"Configured runtime path overrides"`
}

type RuntimePathsResponse struct {
	Body RuntimePathsData
}
