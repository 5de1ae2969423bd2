package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const unformatted = "function run() {  \r\n  return 1;\t \n};\n\n\n"

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.zen")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

func TestFmtCommandRequiresPath(t *testing.T) {
	res := runCLI(t, "", "fmt")
	if res.code != 1 || !strings.Contains(res.stderr, "path required") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeSourceFile(t, unformatted)
	res := runCLI(t, "", "fmt", "--check", path)
	if res.code != 1 {
		t.Fatalf("expected formatting check failure, got %+v", res)
	}
	if !strings.Contains(res.stderr, "1 file(s) need formatting") {
		t.Fatalf("unexpected check error: %q", res.stderr)
	}
	if !strings.Contains(res.stdout, "script.zen") {
		t.Fatalf("check should list the file: %q", res.stdout)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeSourceFile(t, unformatted)
	if res := runCLI(t, "", "fmt", "-w", path); res.code != 0 {
		t.Fatalf("fmt -w failed: %+v", res)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if got := string(updated); got != "function run() {\n  return 1;\n};\n" {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeSourceFile(t, unformatted)
	res := runCLI(t, "", "fmt", path)
	if res.code != 0 {
		t.Fatalf("fmt failed: %+v", res)
	}
	if res.stdout != "function run() {\n  return 1;\n};\n" {
		t.Fatalf("unexpected stdout output: %q", res.stdout)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.zen")
	second := filepath.Join(root, "nested", "b.zen")
	skipped := filepath.Join(root, "notes.txt")
	if err := os.MkdirAll(filepath.Dir(second), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	for path, content := range map[string]string{
		first:   "x = 1;  \n",
		second:  "y = 2;\t\n",
		skipped: "keep  \n",
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	if res := runCLI(t, "", "fmt", "--write", root); res.code != 0 {
		t.Fatalf("fmt directory failed: %+v", res)
	}
	if res := runCLI(t, "", "fmt", "--check", root); res.code != 0 {
		t.Fatalf("expected no formatting diffs after write, got %+v", res)
	}
	data, err := os.ReadFile(skipped)
	if err != nil {
		t.Fatalf("read skipped: %v", err)
	}
	if string(data) != "keep  \n" {
		t.Fatalf("non-source file was rewritten: %q", data)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	path := writeScript(t, `
function run() {
  value = 1;
  return value;
};
`)
	res := runCLI(t, "", "analyze", path)
	if res.code != 0 {
		t.Fatalf("analyze failed: %+v", res)
	}
	if !strings.Contains(res.stdout, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", res.stdout)
	}
}

func TestAnalyzeCommandReportsUnreachableStatements(t *testing.T) {
	path := writeScript(t, `function run() {
  return 1;
  after = 2;
};
class Loop {
  public function spin() {
    while (true) {
      break;
      x = 1;
    }
    if (true) {
      return 1;
    } else {
      return 2;
    }
    return 3;
  }
}
`)
	res := runCLI(t, "", "analyze", path)
	if res.code != 1 {
		t.Fatalf("expected analyze to report lint failures: %+v", res)
	}
	if !strings.Contains(res.stderr, "analysis found 3 issue(s)") {
		t.Fatalf("unexpected analyze error: %q", res.stderr)
	}
	for _, want := range []string{":3:3: unreachable statement (run)", ":9:7: unreachable statement (Loop.spin)", ":16:5: unreachable statement (Loop.spin)"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("missing %q in %q", want, res.stdout)
		}
	}
}

func TestScriptPathsValidatesAndDedupes(t *testing.T) {
	dir := t.TempDir()
	got, err := scriptPaths([]string{dir, dir})
	if err != nil {
		t.Fatalf("scriptPaths: %v", err)
	}
	if len(got) != 1 || got[0] != dir {
		t.Fatalf("unexpected paths: %v", got)
	}

	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if _, err := scriptPaths([]string{file}); err == nil || !strings.Contains(err.Error(), "is not a directory") {
		t.Fatalf("expected non-directory error, got %v", err)
	}
}
