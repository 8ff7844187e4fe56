// Package runtime resolves logical script-runtime names (bun, deno, node)
// to executable invocations, tracks user-configured path overrides, and
// probes the host for installed runtimes.
package runtime

import (
	"fmt"
)

// Known runtime names.
const (
	Bun  = "bun"
	Deno = "deno"
	Node = "node"
)

// Known returns the closed set of supported runtime names.
func Known() []string {
	return []string{Bun, Node, Deno}
}

// Resolve maps a runtime name and optional script to a program and its
// base argument list. Extra user arguments are appended by the caller.
// A runtime invoked without a script is allowed; the child will read
// from its standard input instead.
func Resolve(name, script string) (string, []string, error) {
	switch name {
	case Bun, Node:
		var args []string
		if script != "" {
			args = append(args, script)
		}
		return name, args, nil
	case Deno:
		args := []string{"run", "-A"}
		if script != "" {
			args = append(args, script)
		}
		return name, args, nil
	default:
		return "", nil, fmt.Errorf("unknown runtime: %s", name)
	}
}
