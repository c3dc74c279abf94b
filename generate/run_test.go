package generate

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"litgen/cache"
	"litgen/config"
	"litgen/scan"
	"litgen/state"
)

// fixtureCandidate writes the source into dir and produces a candidate the
// way the scanner would, with resolved type information.
func fixtureCandidate(t *testing.T, dir, src, typeName string, kind config.LitKind) scan.Candidate {
	t.Helper()

	path := filepath.Join(dir, "containers.go")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write fixture source: %v", err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("unable to parse fixture source: %v", err)
	}
	conf := types.Config{}
	pkg, err := conf.Check("example.com/fixture", fset, []*ast.File{file}, nil)
	if err != nil {
		t.Fatalf("unable to type check fixture source: %v", err)
	}

	obj, ok := pkg.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		t.Fatalf("type %q not found in fixture source", typeName)
	}
	return scan.Candidate{
		PkgPath:  "example.com/fixture",
		PkgName:  "fixture",
		Dir:      dir,
		TypeName: typeName,
		Kind:     kind,
		Obj:      obj,
		Pos:      fset.Position(obj.Pos()),
	}
}

const fixtureSrc = `package fixture

// LIT(vec)
type List struct {
	count int
	items []int
}
`

func testEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	return ctx, state.EnvFromContext(ctx)
}

func TestProcess_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	cand := fixtureCandidate(t, dir, fixtureSrc, "List", config.LitKindVec)
	ctx, _ := testEnv(t)

	gens, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer gens.Close()

	gcfg := &config.GeneratorConfig{Suffix: "_lit.go"}
	if err := process(ctx, cand, gcfg, gens, "run-1", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	outPath := filepath.Join(dir, "list_lit.go")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("generated file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "// Code generated by litgen. DO NOT EDIT.") {
		t.Errorf("generated file missing header:\n%s", data)
	}
	for _, want := range []string{"func NewList() List {", "func (x *List) Push(v int) {", "func ListOf(elems ...int) List {"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("generated file missing %q", want)
		}
	}

	e, err := gens.Lookup("example.com/fixture", "List")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e == nil {
		t.Fatal("cache has no entry after generation")
	}
	if e.Output != outPath || e.Kind != "vec" || e.Run != "run-1" {
		t.Errorf("cache entry = %+v, want output %s kind vec run run-1", e, outPath)
	}
}

func TestProcess_DryRun(t *testing.T) {
	dir := t.TempDir()
	cand := fixtureCandidate(t, dir, fixtureSrc, "List", config.LitKindVec)
	ctx, env := testEnv(t)
	env.DryRun = true

	gcfg := &config.GeneratorConfig{Suffix: "_lit.go"}
	if err := process(ctx, cand, gcfg, nil, "run-1", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "list_lit.go")); !os.IsNotExist(err) {
		t.Error("dry run wrote the generated file")
	}
	// only the fixture source should be in the directory
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unable to read fixture dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dry run touched the tree, %d entries found, want 1", len(entries))
	}
}

func TestProcess_RefusesForeignFile(t *testing.T) {
	dir := t.TempDir()
	cand := fixtureCandidate(t, dir, fixtureSrc, "List", config.LitKindVec)
	ctx, env := testEnv(t)

	outPath := filepath.Join(dir, "list_lit.go")
	foreign := "package fixture\n\n// hand written, do not touch\n"
	if err := os.WriteFile(outPath, []byte(foreign), 0644); err != nil {
		t.Fatalf("failed to write foreign file: %v", err)
	}

	gcfg := &config.GeneratorConfig{Suffix: "_lit.go"}
	err := process(ctx, cand, gcfg, nil, "run-1", zap.NewNop())
	if err == nil {
		t.Fatal("process() overwrote a file it did not generate")
	}
	if !strings.Contains(err.Error(), "not generated by") {
		t.Errorf("process() error = %q, want clobber refusal", err)
	}
	if data, _ := os.ReadFile(outPath); string(data) != foreign {
		t.Error("foreign file content changed despite refusal")
	}

	// explicit overwrite wins
	env.Overwrite = true
	if err := process(ctx, cand, gcfg, nil, "run-2", zap.NewNop()); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("generated file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "// Code generated by litgen. DO NOT EDIT.") {
		t.Errorf("overwrite did not replace foreign file:\n%s", data)
	}
}

func TestProcess_CacheSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	cand := fixtureCandidate(t, dir, fixtureSrc, "List", config.LitKindVec)
	ctx, _ := testEnv(t)

	gens, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer gens.Close()

	gcfg := &config.GeneratorConfig{Suffix: "_lit.go"}
	if err := process(ctx, cand, gcfg, gens, "run-1", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	// plant a sentinel in the output - a skipped run must leave it alone
	outPath := filepath.Join(dir, "list_lit.go")
	sentinel := "// Code generated by litgen. DO NOT EDIT.\n// sentinel\npackage fixture\n"
	if err := os.WriteFile(outPath, []byte(sentinel), 0644); err != nil {
		t.Fatalf("failed to plant sentinel: %v", err)
	}

	if err := process(ctx, cand, gcfg, gens, "run-2", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if data, _ := os.ReadFile(outPath); string(data) != sentinel {
		t.Error("unchanged source was regenerated instead of skipped")
	}

	// without the cache the same run rewrites the file
	if err := process(ctx, cand, gcfg, nil, "run-3", zap.NewNop()); err != nil {
		t.Fatalf("process() without cache error = %v", err)
	}
	if data, _ := os.ReadFile(outPath); strings.Contains(string(data), "sentinel") {
		t.Error("run without cache did not regenerate the file")
	}
}

func TestProcess_CacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	cand := fixtureCandidate(t, dir, fixtureSrc, "List", config.LitKindVec)
	ctx, _ := testEnv(t)

	gens, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer gens.Close()

	gcfg := &config.GeneratorConfig{Suffix: "_lit.go"}
	if err := process(ctx, cand, gcfg, gens, "run-1", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	t.Run("source change", func(t *testing.T) {
		if err := os.WriteFile(cand.Pos.Filename, []byte(fixtureSrc+"\n// touched\n"), 0644); err != nil {
			t.Fatalf("failed to modify fixture source: %v", err)
		}
		before, _ := os.ReadFile(filepath.Join(dir, "list_lit.go"))
		if err := process(ctx, cand, gcfg, gens, "run-2", zap.NewNop()); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		e, err := gens.Lookup("example.com/fixture", "List")
		if err != nil || e == nil {
			t.Fatalf("Lookup() = %+v, %v", e, err)
		}
		if e.Run != "run-2" {
			t.Error("changed source did not invalidate the cache entry")
		}
		after, _ := os.ReadFile(filepath.Join(dir, "list_lit.go"))
		if string(before) != string(after) {
			t.Error("rewritten output differs for an unchanged shape")
		}
	})

	t.Run("rendered output change", func(t *testing.T) {
		// same source bytes, different rendered content
		noted := &config.GeneratorConfig{Suffix: "_lit.go", HeaderNote: "for review"}
		if err := process(ctx, cand, noted, gens, "run-3", zap.NewNop()); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "list_lit.go"))
		if err != nil {
			t.Fatalf("unable to read generated file: %v", err)
		}
		if !strings.Contains(string(data), "// for review") {
			t.Error("changed rendered output hid behind a stale cache entry")
		}
	})
}

func TestProcess_KindOverride(t *testing.T) {
	dir := t.TempDir()
	cand := fixtureCandidate(t, dir, fixtureSrc, "List", config.LitKindVec)
	ctx, env := testEnv(t)
	env.KindOverride = "vecFront"

	gcfg := &config.GeneratorConfig{Suffix: "_lit.go"}
	if err := process(ctx, cand, gcfg, nil, "run-1", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "list_lit.go"))
	if err != nil {
		t.Fatalf("generated file not written: %v", err)
	}
	if !strings.Contains(string(data), "func (x *List) PushFront(v int) {") {
		t.Errorf("kind override not honored:\n%s", data)
	}
}

func TestGeneratedByUs(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "our header",
			path: write("ours.go", "// Code generated by litgen. DO NOT EDIT.\n\npackage x\n"),
			want: true,
		},
		{
			name: "other generator",
			path: write("theirs.go", "// Code generated by go-enum DO NOT EDIT.\n\npackage x\n"),
			want: false,
		},
		{
			name: "hand written",
			path: write("hand.go", "package x\n"),
			want: false,
		},
		{
			name: "empty file",
			path: write("empty.go", ""),
			want: false,
		},
		{
			name: "missing file",
			path: filepath.Join(tmpDir, "nonexistent.go"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generatedByUs(tt.path); got != tt.want {
				t.Errorf("generatedByUs() = %v, want %v", got, tt.want)
			}
		})
	}
}
