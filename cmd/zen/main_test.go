package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"zen"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.zen")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "", "version")
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "ZenLang v1.0.0\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestHelpWithoutCommand(t *testing.T) {
	res := runCLI(t, "")
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	for _, name := range []string{"run", "build", "repl", "install", "remove", "list", "version"} {
		if !strings.Contains(res.stdout, name) {
			t.Fatalf("help output missing %q:\n%s", name, res.stdout)
		}
	}
}

func TestRunCommandExecutesScript(t *testing.T) {
	path := writeScript(t, `
function greet(name) {
  return "hello " + name;
};
print(greet("zen"));
`)
	res := runCLI(t, "", "run", path)
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "hello zen\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestRunCommandPassesScriptArgs(t *testing.T) {
	path := writeScript(t, `.include <sys>
print(sys.args());
`)
	res := runCLI(t, "", "run", path, "one", "two")
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "[\"one\", \"two\"]\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestRunCommandReadsStdin(t *testing.T) {
	path := writeScript(t, `name = input("name? ");
print("hi " + name);
`)
	res := runCLI(t, "ada\n", "run", path)
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "name? hi ada\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestRunCommandExitStatus(t *testing.T) {
	path := writeScript(t, `.include <sys>
print("before");
sys.exit(3);
print("after");
`)
	res := runCLI(t, "", "run", path)
	if res.code != 3 {
		t.Fatalf("exit code %d, want 3", res.code)
	}
	if res.stdout != "before\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
	if res.stderr != "" {
		t.Fatalf("exit should not print a diagnostic: %q", res.stderr)
	}
}

func TestRunCommandReportsErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   func(t *testing.T) []string
		expect string
	}{
		{
			name:   "missing path",
			args:   func(*testing.T) []string { return []string{"run"} },
			expect: "script path required",
		},
		{
			name: "runtime error",
			args: func(t *testing.T) []string {
				return []string{"run", writeScript(t, "x = missing;\n")}
			},
			expect: "NameError",
		},
		{
			name: "syntax error",
			args: func(t *testing.T) []string {
				return []string{"run", writeScript(t, "x = (1 + ;\n")}
			},
			expect: "syntax error",
		},
		{
			name: "unknown package",
			args: func(t *testing.T) []string {
				return []string{"--package-dir", t.TempDir(), "run", writeScript(t, ".include <nope>\n")}
			},
			expect: "package not found: nope",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args(t)...)
			if res.code != 1 {
				t.Fatalf("exit code %d, want 1", res.code)
			}
			if !strings.Contains(res.stderr, tt.expect) {
				t.Fatalf("stderr %q does not mention %q", res.stderr, tt.expect)
			}
			if strings.Count(res.stderr, tt.expect) != 1 {
				t.Fatalf("diagnostic printed more than once: %q", res.stderr)
			}
		})
	}
}

func TestRecursionLimitFromConfigAndFlag(t *testing.T) {
	script := writeScript(t, `
function depth(n) {
  if (n == 0) {
    return 0;
  }
  return 1 + depth(n - 1);
};
print(depth(50));
`)
	cfgPath := filepath.Join(t.TempDir(), "zen.yaml")
	if err := os.WriteFile(cfgPath, []byte("recursion_limit: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	res := runCLI(t, "", "--config", cfgPath, "run", script)
	if res.code != 1 || !strings.Contains(res.stderr, "RecursionError") {
		t.Fatalf("config limit not applied: code %d stderr %q", res.code, res.stderr)
	}

	res = runCLI(t, "", "--config", cfgPath, "--recursion-limit", "200", "run", script)
	if res.code != 0 {
		t.Fatalf("flag should override config: code %d stderr %q", res.code, res.stderr)
	}
	if res.stdout != "50\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "zen.yaml")
	if err := os.WriteFile(cfgPath, []byte("bogus_key: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	res := runCLI(t, "", "--config", cfgPath, "run", writeScript(t, "x = 1;\n"))
	if res.code != 1 {
		t.Fatalf("exit code %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "bogus_key") {
		t.Fatalf("unexpected stderr: %q", res.stderr)
	}
}

func TestScriptPathFlag(t *testing.T) {
	lib := t.TempDir()
	if err := os.WriteFile(filepath.Join(lib, "helpers.zen"), []byte("function twice(x) { return x * 2; };\n"), 0o644); err != nil {
		t.Fatalf("write helper: %v", err)
	}
	script := writeScript(t, `.include <./helpers>
print(twice(21));
`)
	res := runCLI(t, "", "--script-path", lib, "run", script)
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "42\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestBuildCommand(t *testing.T) {
	good := writeScript(t, "x = 1 + 2;\nprint(x);\n")
	res := runCLI(t, "", "build", good)
	if res.code != 0 {
		t.Fatalf("exit code %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "✓ Build successful: "+good+"\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}

	bad := writeScript(t, "if (x {\n")
	res = runCLI(t, "", "build", bad)
	if res.code != 1 {
		t.Fatalf("exit code %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "syntax error") {
		t.Fatalf("unexpected stderr: %q", res.stderr)
	}
}

func TestPackageCommands(t *testing.T) {
	dir := t.TempDir()
	pkg := func(args ...string) cliResult {
		return runCLI(t, "", append([]string{"--package-dir", dir}, args...)...)
	}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"list"}, "No packages installed\n"},
		{[]string{"install", "utils"}, "✓ Installed package: utils\n"},
		{[]string{"install", "utils"}, "Package 'utils' already installed\n"},
		{[]string{"install", "charts"}, "✓ Installed package: charts\n"},
		{[]string{"list"}, "Installed packages:\n  - charts\n  - utils\n"},
		{[]string{"remove", "charts"}, "✓ Removed package: charts\n"},
		{[]string{"remove", "charts"}, "Package 'charts' not installed\n"},
		{[]string{"list"}, "Installed packages:\n  - utils\n"},
	}
	for _, step := range steps {
		res := pkg(step.args...)
		if res.code != 0 {
			t.Fatalf("%v: exit code %d, stderr %q", step.args, res.code, res.stderr)
		}
		if diff := cmp.Diff(step.want, res.stdout); diff != "" {
			t.Fatalf("%v output mismatch (-want +got):\n%s", step.args, diff)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "utils", "package.yaml"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var meta packageMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if diff := cmp.Diff(packageMeta{Name: "utils", Version: "1.0.0", Installed: true}, meta); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}

	res := pkg("run", writeScript(t, ".include <utils>\nprint(\"ok\");\n"))
	if res.code != 0 {
		t.Fatalf("installed package not accepted: code %d stderr %q", res.code, res.stderr)
	}
	if res.stdout != "ok\n" {
		t.Fatalf("unexpected stdout: %q", res.stdout)
	}
}

func TestPackageCommandsRejectBadNames(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{{"install"}, {"install", "../escape"}, {"remove", "a/b"}} {
		res := runCLI(t, "", append([]string{"--package-dir", dir}, args...)...)
		if res.code != 1 {
			t.Fatalf("%v: exit code %d, want 1", args, res.code)
		}
	}
}
