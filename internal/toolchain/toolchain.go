// Package toolchain wraps the host C compiler invocation Eightebed
// needs for its --run and --compile-only CLI options (spec section
// 6). It has no analogue in the teacher, whose pipeline ends at a
// parser/bytecode artifact rather than a separately-compiled native
// binary; this is grounded instead on the generic os/exec
// subprocess-wrapper shape common across the example pack's CLI
// tools wherever one process must shell out to another.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Build invokes cc (or whatever command the caller configured) on the
// given generated C source, producing a native binary at outPath.
// Compiler stderr is returned verbatim on failure so the caller can
// surface a host toolchain error the same way it surfaces an
// Eightebed CompileError.
func Build(ctx context.Context, cc string, cSource string, outPath string) error {
	tmp, err := os.CreateTemp("", "eightebed-*.c")
	if err != nil {
		return fmt.Errorf("toolchain: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(cSource); err != nil {
		tmp.Close()
		return fmt.Errorf("toolchain: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("toolchain: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cc, tmp.Name(), "-o", outPath)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", cc, err, stderr.String())
	}
	return nil
}

// Run executes a previously built binary, connecting its stdout and
// stderr to the calling process's so `eightebed --run` behaves like a
// direct interpreter from the user's point of view. It returns the
// child's own exit code so the caller can propagate it per spec
// section 6; the returned error is non-nil only when the child could
// not be started or waited on at all, not merely when it exited
// non-zero.
func Run(ctx context.Context, binPath string) (int, error) {
	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

// CaptureRun runs a previously built binary and returns its stdout as
// a string, rather than streaming it through -- used by the --test
// scenario runner, which needs to compare output against an expected
// string instead of showing it to a user.
func CaptureRun(ctx context.Context, binPath string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}
