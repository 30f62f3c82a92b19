package eightebed

// CompilerConfig is Eightebed's replacement for the teacher's dynamic
// string-keyed Config map: where the teacher's grammar compiler
// exposes a couple dozen independent transformation toggles, spec
// section 6 fixes the CLI surface to five static options, so a plain
// struct is the honest representation rather than a map pretending to
// be open-ended.
type CompilerConfig struct {
	// Output is the path to write generated C to. Empty means stdout.
	Output string

	// CC is the host C compiler command used when Run or CompileOnly
	// requests an actual build (spec section 6).
	CC string

	// Run, when true, compiles the generated C with CC and executes
	// the resulting binary.
	Run bool

	// CompileOnly, when true, stops after producing the host binary
	// without running it. The CLI does not reject CompileOnly together
	// with Run; when both are set, the binary is built and run.
	CompileOnly bool

	// Test, when true, runs the built-in scenario suite (selftest.go)
	// instead of compiling a source file.
	Test bool
}

// DefaultConfig mirrors the teacher's NewConfig in spirit -- a single
// place that primes every default -- scaled down to what Eightebed
// actually needs.
func DefaultConfig() *CompilerConfig {
	return &CompilerConfig{
		CC: "cc",
	}
}
