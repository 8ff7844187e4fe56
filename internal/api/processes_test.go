package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smazurov/procnode/internal/events"
	"github.com/smazurov/procnode/internal/runtime"
	"github.com/smazurov/procnode/internal/supervisor"
)

// mockService is a scripted implementation of supervisor.Service.
type mockService struct {
	processes map[string]supervisor.ProcessInfo
	configs   map[string]supervisor.SpawnConfig
	paths     map[string]string
	stdin     map[string][]string
	nextPid   int
}

func newMockService() *mockService {
	return &mockService{
		processes: make(map[string]supervisor.ProcessInfo),
		configs:   make(map[string]supervisor.SpawnConfig),
		paths:     make(map[string]string),
		stdin:     make(map[string][]string),
		nextPid:   1000,
	}
}

func (m *mockService) Spawn(_ context.Context, name string, config supervisor.SpawnConfig) (supervisor.ProcessInfo, error) {
	if _, exists := m.processes[name]; exists {
		return supervisor.ProcessInfo{}, supervisor.NewProcessError(supervisor.ErrCodeAlreadyExists, name, "process "+name+" already exists", nil)
	}
	if config.Runtime == "" && config.Command == "" {
		return supervisor.ProcessInfo{}, supervisor.NewProcessError(supervisor.ErrCodeInvalidConfig, name, "either runtime or command must be set", nil)
	}
	m.nextPid++
	info := supervisor.ProcessInfo{Name: name, Pid: m.nextPid, Running: true}
	m.processes[name] = info
	m.configs[name] = config
	return info, nil
}

func (m *mockService) Kill(_ context.Context, name string) error {
	if _, exists := m.processes[name]; !exists {
		return supervisor.NewProcessError(supervisor.ErrCodeNotFound, name, "process "+name+" not found", nil)
	}
	delete(m.processes, name)
	return nil
}

func (m *mockService) KillAll(context.Context) error {
	clear(m.processes)
	return nil
}

func (m *mockService) Restart(ctx context.Context, name string, config *supervisor.SpawnConfig) (supervisor.ProcessInfo, error) {
	stored, exists := m.configs[name]
	if !exists {
		return supervisor.ProcessInfo{}, supervisor.NewProcessError(supervisor.ErrCodeNotFound, name, "process "+name+" not found", nil)
	}
	if err := m.Kill(ctx, name); err != nil {
		return supervisor.ProcessInfo{}, err
	}
	next := stored
	if config != nil {
		next = *config
	}
	return m.Spawn(ctx, name, next)
}

func (m *mockService) ListProcesses(context.Context) ([]supervisor.ProcessInfo, error) {
	result := make([]supervisor.ProcessInfo, 0, len(m.processes))
	for _, info := range m.processes {
		result = append(result, info)
	}
	return result, nil
}

func (m *mockService) GetStatus(_ context.Context, name string) (supervisor.ProcessInfo, error) {
	info, exists := m.processes[name]
	if !exists {
		return supervisor.ProcessInfo{}, supervisor.NewProcessError(supervisor.ErrCodeNotFound, name, "process "+name+" not found", nil)
	}
	return info, nil
}

func (m *mockService) WriteStdin(_ context.Context, name, data string) error {
	if _, exists := m.processes[name]; !exists {
		return supervisor.NewProcessError(supervisor.ErrCodeNotFound, name, "process "+name+" not found", nil)
	}
	m.stdin[name] = append(m.stdin[name], data)
	return nil
}

func (m *mockService) DetectRuntimes(context.Context) ([]runtime.Info, error) {
	return []runtime.Info{
		{Name: "bun", Available: false},
		{Name: "node", Path: "/usr/bin/node", Version: "v22.0.0", Available: true},
		{Name: "deno", Available: false},
	}, nil
}

func (m *mockService) SetRuntimePath(_ context.Context, runtimeName, path string) error {
	if path == "" {
		delete(m.paths, runtimeName)
		return nil
	}
	m.paths[runtimeName] = path
	return nil
}

func (m *mockService) GetRuntimePaths(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.paths))
	for k, v := range m.paths {
		out[k] = v
	}
	return out, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *mockService) {
	t.Helper()
	svc := newMockService()
	server := NewServer(&Options{
		Service:  svc,
		EventBus: events.New(),
	})
	ts := httptest.NewServer(server.GetMux())
	t.Cleanup(ts.Close)
	return ts, svc
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestSpawnAndGetProcess(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
		"name":    "worker",
		"runtime": "node",
		"script":  "server.js",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("spawn: expected 200, got %d", resp.StatusCode)
	}

	var spawned struct {
		Name    string `json:"name"`
		Pid     int    `json:"pid"`
		Running bool   `json:"running"`
	}
	decodeBody(t, resp, &spawned)
	if spawned.Name != "worker" || !spawned.Running || spawned.Pid == 0 {
		t.Errorf("unexpected spawn response: %+v", spawned)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/processes/worker", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
}

func TestSpawnDuplicateReturns409(t *testing.T) {
	ts, _ := newTestServer(t)

	body := map[string]any{"name": "dup", "command": "/bin/cat"}
	if resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes", body); resp.StatusCode != http.StatusOK {
		t.Fatalf("first spawn: expected 200, got %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes", body); resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate spawn: expected 409, got %d", resp.StatusCode)
	}
}

func TestSpawnWithoutRuntimeOrCommandReturns400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
		"name":   "empty",
		"script": "orphan.js",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetUnknownProcessReturns404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/processes/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestKillProcess(t *testing.T) {
	ts, svc := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
		"name": "victim", "command": "/bin/cat",
	})

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/processes/victim", nil)
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		t.Fatalf("kill: expected success, got %d", resp.StatusCode)
	}
	if _, exists := svc.processes["victim"]; exists {
		t.Error("process should be removed after kill")
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/processes/victim", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second kill: expected 404, got %d", resp.StatusCode)
	}
}

func TestKillAllReportsCount(t *testing.T) {
	ts, _ := newTestServer(t)

	for i := range 3 {
		doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
			"name": fmt.Sprintf("p%d", i), "command": "/bin/cat",
		})
	}

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/processes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("killAll: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Killed int `json:"killed"`
	}
	decodeBody(t, resp, &result)
	if result.Killed != 3 {
		t.Errorf("expected 3 killed, got %d", result.Killed)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/processes", nil)
	var list struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &list)
	if list.Count != 0 {
		t.Errorf("expected empty list after killAll, got %d", list.Count)
	}
}

func TestRestartReusesStoredConfig(t *testing.T) {
	ts, svc := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
		"name": "svc", "runtime": "node", "script": "app.js",
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes/svc/restart", map[string]any{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d", resp.StatusCode)
	}

	cfg := svc.configs["svc"]
	if cfg.Runtime != "node" || cfg.Script != "app.js" {
		t.Errorf("restart should reuse stored config, got %+v", cfg)
	}
}

func TestRestartWithReplacementConfig(t *testing.T) {
	ts, svc := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
		"name": "svc", "runtime": "node", "script": "app.js",
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes/svc/restart", map[string]any{
		"runtime": "bun", "script": "app.ts",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d", resp.StatusCode)
	}

	cfg := svc.configs["svc"]
	if cfg.Runtime != "bun" || cfg.Script != "app.ts" {
		t.Errorf("restart should apply replacement config, got %+v", cfg)
	}
}

func TestWriteStdin(t *testing.T) {
	ts, svc := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/processes", map[string]any{
		"name": "echoer", "command": "/bin/cat",
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/processes/echoer/stdin", map[string]any{
		"data": "hello\n",
	})
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		t.Fatalf("stdin: expected success, got %d", resp.StatusCode)
	}

	if len(svc.stdin["echoer"]) != 1 || svc.stdin["echoer"][0] != "hello\n" {
		t.Errorf("unexpected stdin writes: %v", svc.stdin["echoer"])
	}
}

func TestRuntimeEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/runtimes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detect: expected 200, got %d", resp.StatusCode)
	}
	var detected struct {
		Runtimes []struct {
			Name      string `json:"name"`
			Available bool   `json:"available"`
		} `json:"runtimes"`
	}
	decodeBody(t, resp, &detected)
	if len(detected.Runtimes) != 3 {
		t.Fatalf("expected 3 runtimes, got %d", len(detected.Runtimes))
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/runtimes/node/path", map[string]any{
		"path": "/opt/node/bin/node",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set path: expected 200, got %d", resp.StatusCode)
	}
	var paths struct {
		Paths map[string]string `json:"paths"`
	}
	decodeBody(t, resp, &paths)
	if paths.Paths["node"] != "/opt/node/bin/node" {
		t.Errorf("expected node override in response, got %v", paths.Paths)
	}

	// Empty path removes the override. Decode into a fresh struct:
	// json.Unmarshal merges into an existing map, which would keep the
	// stale node entry around.
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/runtimes/node/path", map[string]any{
		"path": "",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear path: expected 200, got %d", resp.StatusCode)
	}
	var cleared struct {
		Paths map[string]string `json:"paths"`
	}
	decodeBody(t, resp, &cleared)
	if _, exists := cleared.Paths["node"]; exists {
		t.Errorf("expected override removed, got %v", cleared.Paths)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/runtimes/paths", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get paths: expected 200, got %d", resp.StatusCode)
	}
}

func TestHealthEndpointNoAuth(t *testing.T) {
	svc := newMockService()
	server := NewServer(&Options{
		AuthUsername: "admin",
		AuthPassword: "secret",
		Service:      svc,
		EventBus:     events.New(),
	})
	ts := httptest.NewServer(server.GetMux())
	t.Cleanup(ts.Close)

	// Health is reachable without credentials
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}

	// Process endpoints require credentials
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/processes", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: expected 401, got %d", resp.StatusCode)
	}
}

func TestBasicAuthAccepted(t *testing.T) {
	svc := newMockService()
	server := NewServer(&Options{
		AuthUsername: "admin",
		AuthPassword: "secret",
		Service:      svc,
		EventBus:     events.New(),
	})
	ts := httptest.NewServer(server.GetMux())
	t.Cleanup(ts.Close)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/processes", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth("admin", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated list: expected 200, got %d", resp.StatusCode)
	}
}
