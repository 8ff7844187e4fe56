package runtime

import (
	"sync"
)

// Paths holds user-configured executable path overrides keyed by runtime
// name. An override supersedes the default PATH lookup for that runtime.
type Paths struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewPaths creates an empty override set.
func NewPaths() *Paths {
	return &Paths{m: make(map[string]string)}
}

// Set stores an override for the given runtime. An empty path removes
// any existing override.
func (p *Paths) Set(runtime, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path == "" {
		delete(p.m, runtime)
		return
	}
	p.m[runtime] = path
}

// Get returns the override for the given runtime, if any.
func (p *Paths) Get(runtime string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	path, ok := p.m[runtime]
	return path, ok
}

// Snapshot returns a copy of the current overrides.
func (p *Paths) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}

// Replace swaps the entire override set, used when the runtimes file is
// reloaded from disk.
func (p *Paths) Replace(m map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m = make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			p.m[k] = v
		}
	}
}
