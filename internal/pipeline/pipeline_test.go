package pipeline

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/lyralang/lyra/internal/config"
)

// TestGoldenChecks runs the full front end over each fixture and compares
// the set of diagnostic codes against the expected list.
func TestGoldenChecks(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "checks.txtar"))
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}

	sources := make(map[string]string)
	expected := make(map[string][]string)
	for _, f := range archive.Files {
		name := f.Name
		switch {
		case strings.HasSuffix(name, ".lyra"):
			sources[strings.TrimSuffix(name, ".lyra")] = string(f.Data)
		case strings.HasSuffix(name, ".diags"):
			var codes []string
			for _, line := range strings.Split(string(f.Data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					codes = append(codes, line)
				}
			}
			expected[strings.TrimSuffix(name, ".diags")] = codes
		default:
			t.Fatalf("unexpected fixture file %q", name)
		}
	}

	for name, src := range sources {
		want, ok := expected[name]
		if !ok {
			t.Fatalf("fixture %s has no expected diagnostics file", name)
		}
		t.Run(name, func(t *testing.T) {
			pctx := Check(context.Background(), &config.Config{}, name+".lyra", src)
			if pctx.Err != nil {
				t.Fatalf("pipeline aborted: %v", pctx.Err)
			}
			got := distinctCodes(pctx)
			sort.Strings(want)
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Fatalf("diagnostic codes = %v, want %v\nall: %v", got, want, pctx.Diagnostics)
			}
		})
	}
}

func distinctCodes(pctx *PipelineContext) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, d := range pctx.Diagnostics {
		c := string(d.Code)
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return codes
}

func TestCheckProducesTraceForCleanFile(t *testing.T) {
	pctx := Check(context.Background(), &config.Config{}, "ok.lyra", "fun f(x: Int): Int = x\nf(1)\n")
	if pctx.Err != nil {
		t.Fatalf("pipeline aborted: %v", pctx.Err)
	}
	if pctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", pctx.Diagnostics)
	}
	if pctx.Trace == nil || pctx.Program == nil {
		t.Fatal("trace and program must be populated")
	}
}

func TestCheckHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pctx := Check(ctx, &config.Config{}, "ok.lyra", "fun f(x: Int): Int = x\nf(1)\n")
	if pctx.Err == nil {
		t.Fatal("cancelled pipeline must surface the context error")
	}
	if pctx.Trace != nil {
		t.Fatal("aborted analysis must not publish a trace")
	}
}
