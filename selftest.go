package eightebed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/catseye/eightebed/internal/toolchain"
)

// scenario is one of the six worked examples of spec section 8. It
// names the expected outcome at the coarsest level the --test runner
// needs to report one line per scenario.
type scenario struct {
	name   string
	source string

	// wantCompileErrorKind, if non-empty, is the ErrorKind the
	// pipeline is expected to fail with (scenarios B and D, both
	// SafetyError). Mutually exclusive with wantStdout.
	wantCompileErrorKind ErrorKind
	expectError          bool

	// wantStdout is the exact program output expected after the
	// generated C is built and run (scenarios A, C, E, F).
	wantStdout string
}

var selfTestScenarios = []scenario{
	{
		name: "A: allocate, guard, print, free",
		source: `
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ jim = malloc node;
  if valid jim { [@jim].value = (1 + 4); print [@jim].value; }
  free jim; }
`,
		wantStdout: "5\n",
	},
	{
		name: "B: unguarded dereference rejected",
		source: `
type node struct { int v; };
var ptr to node p;
{ p = malloc node; [@p].v = 1; }
`,
		expectError:          true,
		wantCompileErrorKind: SafetyError,
	},
	{
		name: "C: alias invalidation",
		source: `
type node struct { int v; ptr to node next; };
var ptr to node a; var ptr to node b;
{ a = malloc node;
  if valid a { b = a; }
  free a;
  if valid b { print [@b].v; } else { print 0; } }
`,
		wantStdout: "0\n",
	},
	{
		name: "D: assignment terminates safe start",
		source: `
type node struct { int v; };
var ptr to node p; var int x;
{ p = malloc node;
  if valid p { x = 1; [@p].v = 2; } }
`,
		expectError:          true,
		wantCompileErrorKind: SafetyError,
	},
	{
		name: "E: equality vs assignment",
		source: `
var int a; var int b; var int c;
{ a = 1; b = 1;
  c = (a = b);
  print c; }
`,
		wantStdout: "1\n",
	},
	{
		name: "F: cycle safety",
		source: `
type node struct { int v; ptr to node next; };
var ptr to node a; var ptr to node b;
{ a = malloc node;
  b = malloc node;
  if valid a { if valid b { [@a].next = b; [@b].next = a; } }
  free a;
  if valid b { print 1; } else { print 0; } }
`,
		wantStdout: "0\n",
	},
}

// RunSelfTest implements the --test option of spec section 6: it
// compiles (and, where a compile error isn't expected, builds and
// runs) each of spec section 8's scenarios, reporting one PASS/FAIL
// line per scenario to report and returning an error if any scenario
// didn't match its expectation.
func RunSelfTest(cfg *CompilerConfig, report func(string)) error {
	workDir, err := os.MkdirTemp("", "eightebed-selftest-*")
	if err != nil {
		return fmt.Errorf("selftest: %w", err)
	}
	defer os.RemoveAll(workDir)

	failures := 0
	for i, sc := range selfTestScenarios {
		if err := runScenario(cfg, workDir, i, sc); err != nil {
			report(fmt.Sprintf("FAIL %s: %v", sc.name, err))
			failures++
			continue
		}
		report(fmt.Sprintf("PASS %s", sc.name))
	}
	if failures > 0 {
		return fmt.Errorf("selftest: %d of %d scenarios failed", failures, len(selfTestScenarios))
	}
	return nil
}

func runScenario(cfg *CompilerConfig, workDir string, index int, sc scenario) error {
	file := fmt.Sprintf("scenario-%d.eb", index)
	cSource, err := Compile(file, []byte(sc.source))

	if sc.expectError {
		if err == nil {
			return fmt.Errorf("expected a compile error, got none")
		}
		ce, ok := err.(*CompileError)
		if !ok {
			return fmt.Errorf("expected a *CompileError, got %T (%v)", err, err)
		}
		if ce.Kind != sc.wantCompileErrorKind {
			return fmt.Errorf("expected %s, got %s (%v)", sc.wantCompileErrorKind, ce.Kind, ce)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("unexpected compile error: %v", err)
	}

	binPath := filepath.Join(workDir, fmt.Sprintf("scenario-%d", index))
	ctx := context.Background()
	if err := toolchain.Build(ctx, cfg.CC, cSource, binPath); err != nil {
		return fmt.Errorf("host build failed: %w", err)
	}

	out, err := toolchain.CaptureRun(ctx, binPath)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if out != sc.wantStdout {
		return fmt.Errorf("expected stdout %q, got %q", sc.wantStdout, out)
	}
	return nil
}
