package eightebed

// Compile runs the full pipeline of spec section 7 over source text:
// Lex, Parse (which also builds and resolves TypeEnv/VarEnv), Type
// Check, Safety Check, and finally Emit. The first phase to return an
// error aborts the pipeline -- Eightebed never attempts to recover and
// keep checking after a failure, matching the teacher's
// GrammarFromBytes/GrammarFromFile wrapper in its original api.go,
// which likewise threaded a single error out of a fixed phase
// sequence rather than collecting multiple.
func Compile(file string, src []byte) (string, error) {
	prog, err := ParseProgram(file, src)
	if err != nil {
		return "", err
	}
	if err := TypeCheck(file, prog); err != nil {
		return "", err
	}
	if err := CheckSafety(file, prog); err != nil {
		return "", err
	}
	return Emit(prog)
}
