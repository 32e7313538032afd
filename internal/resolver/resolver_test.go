package resolver

import (
	"strings"
	"testing"
)

func files(m map[string]string) Reader {
	return func(p string) (string, bool) {
		src, ok := m[p]
		return src, ok
	}
}

func TestResolveDependencyOrder(t *testing.T) {
	mods, err := Resolve("/a.ts", files(map[string]string{
		"/a.ts": `import { b } from "./b"; console.log(b);`,
		"/b.ts": `import { c } from "./c"; export const b = c;`,
		"/c.ts": `export const c = 1;`,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(mods))
	}
	order := []string{mods[0].Path, mods[1].Path, mods[2].Path}
	if order[2] != "/a.ts" {
		t.Fatalf("expected entry module last in dependency order, got %v", order)
	}
	if order[0] != "/c.ts" {
		t.Fatalf("expected leaf dependency first, got %v", order)
	}
}

func TestResolveCycleDetected(t *testing.T) {
	_, err := Resolve("/a.ts", files(map[string]string{
		"/a.ts": `import { b } from "./b";`,
		"/b.ts": `import { a } from "./a";`,
	}))
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestResolveMissingModule(t *testing.T) {
	_, err := Resolve("/a.ts", files(map[string]string{
		"/a.ts": `import { x } from "./missing";`,
	}))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestResolveIgnoresBareSpecifiers(t *testing.T) {
	mods, err := Resolve("/a.ts", files(map[string]string{
		"/a.ts": `import fs from "fs"; console.log(1);`,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("expected bare specifier to be excluded from the graph, got %d modules", len(mods))
	}
}
