package ion

import (
	"path/filepath"
	"testing"
)

// TestParseAllExamples parses and validates every shipped example program.
func TestParseAllExamples(t *testing.T) {
	examples := []string{
		"01-hello.ion",
		"02-results.ion",
		"03-modules.ion",
		"04-effects.ion",
		"05-match.ion",
		"06-registration.ion",
	}

	examplesDir := "../../examples"

	for _, example := range examples {
		t.Run(example, func(t *testing.T) {
			path := filepath.Join(examplesDir, example)
			prog, diags, err := ParseAndCheckFile(path)
			if err != nil {
				t.Errorf("failed to parse %s: %v", example, err)
				return
			}

			if diags.Count() != 0 {
				t.Errorf("%s: unexpected diagnostics:\n%v", example, diags)
			}
			if len(prog.Functions()) == 0 && len(prog.Modules()) == 0 {
				t.Errorf("%s: no declarations parsed", example)
			}

			t.Logf("%s: %d functions, %d modules", example, len(prog.Functions()), len(prog.Modules()))
		})
	}
}
