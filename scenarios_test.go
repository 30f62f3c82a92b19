package eightebed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarios checks each of spec section 8's worked scenarios
// against the Go-side pipeline (Compile, stopping at emitted C): the
// compile/reject outcome and, for SafetyError scenarios, the failing
// phase. Scenario A/C/E/F's actual runtime *output* is checked by
// RunSelfTest instead (see selftest.go), since confirming printed
// output requires a host C compiler, something a unit test shouldn't
// depend on being present.
func TestScenarios(t *testing.T) {
	for _, sc := range selfTestScenarios {
		sc := sc
		t.Run(sc.name, func(t *testing.T) {
			out, err := Compile("scenario.eb", []byte(sc.source))
			if sc.expectError {
				require.Error(t, err)
				ce, ok := err.(*CompileError)
				require.True(t, ok)
				require.Equal(t, sc.wantCompileErrorKind, ce.Kind)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, out)
			require.Contains(t, out, "int main(void) {")
		})
	}
}

func TestScenarioFCompilesWithNodeWalker(t *testing.T) {
	out, err := Compile("t.eb", []byte(selfTestScenarios[5].source))
	require.NoError(t, err)
	require.Contains(t, out, "eb_walk_node")
}
