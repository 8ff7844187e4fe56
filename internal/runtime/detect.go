package runtime

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds each --version probe so a wedged runtime binary
// cannot stall detection.
const versionTimeout = 3 * time.Second

// Info describes one known runtime as observed on the host.
type Info struct {
	Name      string `json:"name" example:"node" doc:"Runtime name"`
	Path      string `json:"path,omitempty" example:"/usr/bin/node" doc:"Resolved executable path, absent when not found"`
	Version   string `json:"version,omitempty" example:"v22.3.0" doc:"Detected version string, absent when the probe failed"`
	Available bool   `json:"available" example:"true" doc:"True when the version probe succeeded"`
}

// Detect probes every known runtime. Each runtime gets two independent
// best-effort probes: a --version invocation and a PATH lookup. Probe
// failures yield absent fields, never errors.
func Detect(ctx context.Context) []Info {
	results := make([]Info, 0, len(Known()))
	for _, name := range Known() {
		info := Info{Name: name}

		if version, ok := probeVersion(ctx, name); ok {
			info.Version = version
			info.Available = true
		}

		if path, err := exec.LookPath(name); err == nil {
			info.Path = path
		}

		results = append(results, info)
	}
	return results
}

// probeVersion runs "<name> --version" and returns the trimmed output.
func probeVersion(ctx context.Context, name string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, "--version").Output()
	if err != nil {
		return "", false
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", false
	}
	return version, true
}
