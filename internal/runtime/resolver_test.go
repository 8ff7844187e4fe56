package runtime

import (
	"reflect"
	"testing"
)

func TestResolveKnownRuntimes(t *testing.T) {
	tests := []struct {
		name     string
		runtime  string
		script   string
		wantArgs []string
	}{
		{"node with script", Node, "app.js", []string{"app.js"}},
		{"node without script", Node, "", nil},
		{"bun with script", Bun, "app.ts", []string{"app.ts"}},
		{"bun without script", Bun, "", nil},
		{"deno with script", Deno, "app.ts", []string{"run", "-A", "app.ts"}},
		{"deno without script", Deno, "", []string{"run", "-A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, args, err := Resolve(tt.runtime, tt.script)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if program != tt.runtime {
				t.Errorf("expected program %q, got %q", tt.runtime, program)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("expected args %v, got %v", tt.wantArgs, args)
			}
		})
	}
}

func TestResolveUnknownRuntime(t *testing.T) {
	if _, _, err := Resolve("python", "app.py"); err == nil {
		t.Error("expected error for unknown runtime")
	}
}
