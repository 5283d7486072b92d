package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateEnv rewrites golden files instead of comparing when set.
const UpdateEnv = "TODO_GOLDEN_UPDATE"

// Golden compares output against testdata/<name>.golden and reports the
// first line that differs. Shell transcripts are long, so the whole text is
// only quoted alongside that line.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s (set %s=1 to create it): %v", path, UpdateEnv, err)
	}

	if line, w, g, ok := firstDiff(string(want), string(got)); !ok {
		t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q\nfull output:\n%q", name, line, w, g, got)
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

// firstDiff returns the 1-based number and contents of the first line where
// want and got disagree. A missing line is reported as "<eof>".
func firstDiff(want, got string) (line int, w, g string, equal bool) {
	if want == got {
		return 0, "", "", true
	}
	wl := strings.SplitAfter(want, "\n")
	gl := strings.SplitAfter(got, "\n")
	for i := 0; ; i++ {
		w, g = lineAt(wl, i), lineAt(gl, i)
		if w != g {
			return i + 1, w, g, false
		}
	}
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return "<eof>"
}
