package stdlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

func TestFSCSV(t *testing.T) {
	h := newHarness(t, "")
	people := filepath.Join(h.dir, "people.csv")
	grid := filepath.Join(h.dir, "grid.csv")
	empty := filepath.Join(h.dir, "empty.csv")
	val := h.eval(t, fmt.Sprintf(`.include <fs>
wrote = fs.writeCSV(%s, [{name: "ada", age: 36}, {name: "bob, jr"}]);
fs.writeCSV(%s, [["a", "b"], [1, 2]], ["x", "y"]);
[wrote, fs.writeCSV(%s, []), fs.readCSV(%s), fs.readCSV(%s, false)];`, q(people), q(grid), q(empty), q(people), q(grid)))
	want := `[true, false, [{age: "36", name: "ada"}, {age: "", name: "bob, jr"}], [["x", "y"], ["a", "b"], ["1", "2"]]]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(people)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if string(data) != "age,name\n36,ada\n,\"bob, jr\"\n" {
		t.Fatalf("csv file = %q", string(data))
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Fatalf("empty data should not create a file, stat err = %v", err)
	}
}

func TestFSReadCSVShortRows(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(h.dir, "short.csv")
	if err := os.WriteFile(path, []byte("a,b\n1\n2,3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	val := h.eval(t, fmt.Sprintf(".include <fs>\nfs.readCSV(%s);", q(path)))
	if diff := cmp.Diff(`[{a: "1", b: null}, {a: "2", b: "3"}]`, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFSBinary(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(h.dir, "blob.bin")
	val := h.eval(t, fmt.Sprintf(`.include <fs>
fs.writeBinary(%s, [0, 255, 65]);
first = fs.readBinary(%s);
fs.writeBinary(%s, "hi");
[first, fs.readBinary(%s)];`, q(path), q(path), q(path), q(path)))
	if diff := cmp.Diff("[[0, 255, 65], [104, 105]]", val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	h.runtimeError(t, fmt.Sprintf(".include <fs>\nfs.writeBinary(%s, [256]);", q(path)), "binary write error")
	h.runtimeError(t, fmt.Sprintf(".include <fs>\nfs.writeBinary(%s, 7);", q(path)), "binary write error")
}

func TestFSChmod(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	h := newHarness(t, "")
	path := filepath.Join(h.dir, "script.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		mode string
		want os.FileMode
	}{
		{`"755"`, 0o755},
		{`384`, 0o600},
	} {
		h.eval(t, fmt.Sprintf(".include <fs>\nfs.chmod(%s, %s);", q(path), tt.mode))
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != tt.want {
			t.Fatalf("chmod %s: mode = %o, want %o", tt.mode, info.Mode().Perm(), tt.want)
		}
	}
	h.runtimeError(t, fmt.Sprintf(".include <fs>\nfs.chmod(%s, \"rwx\");", q(path)), "chmod error")
}

func TestFSCopyDir(t *testing.T) {
	h := newHarness(t, "")
	src := filepath.Join(h.dir, "src")
	dst := filepath.Join(h.dir, "dst")
	if err := os.MkdirAll(filepath.Join(src, "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "deep", "a.txt"), []byte("A"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.eval(t, fmt.Sprintf(".include <fs>\nfs.copyDir(%s, %s);", q(src), q(dst)))
	data, err := os.ReadFile(filepath.Join(dst, "deep", "a.txt"))
	if err != nil || string(data) != "A" {
		t.Fatalf("copied file = %q, %v", data, err)
	}
	h.runtimeError(t, fmt.Sprintf(".include <fs>\nfs.copyDir(%s, %s);", q(src), q(dst)), "directory copy error")
}

func TestFSTempFileAndChdir(t *testing.T) {
	h := newHarness(t, "")
	t.Chdir(h.dir)
	sub := filepath.Join(h.dir, "work")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	val := h.eval(t, fmt.Sprintf(".include <fs>\nfs.chdir(%s);\n[fs.cwd(), fs.tempFile(\".txt\")];", q(sub)))
	got := val.Elements()
	wantDir, _ := filepath.EvalSymlinks(sub)
	gotDir, _ := filepath.EvalSymlinks(got[0].String())
	if gotDir != wantDir {
		t.Fatalf("cwd = %s, want %s", gotDir, wantDir)
	}
	tmp := got[1].String()
	t.Cleanup(func() { os.Remove(tmp) })
	if !strings.HasSuffix(tmp, ".txt") {
		t.Fatalf("temp file %q should keep the suffix", tmp)
	}
	if _, err := os.Stat(tmp); err != nil {
		t.Fatalf("temp file should exist: %v", err)
	}
	h.runtimeError(t, fmt.Sprintf(".include <fs>\nfs.chdir(%s);", q(filepath.Join(h.dir, "nope"))), "chdir error")
}

func TestFSWatchReportsChanges(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(h.dir, "watched.txt")
	go func() {
		time.Sleep(60 * time.Millisecond)
		os.WriteFile(path, []byte("x"), 0o644)
		time.Sleep(60 * time.Millisecond)
		os.Remove(path)
	}()
	val := h.eval(t, fmt.Sprintf(`.include <fs>
seen = [];
n = fs.watch(%s, function(e) { push(seen, e.event); return length(seen) < 2; }, 0.01);
[n, seen];`, q(path)))
	if diff := cmp.Diff(`[2, ["created", "deleted"]]`, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFSWatchStopsOnCancel(t *testing.T) {
	h := newHarness(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := h.tryContext(ctx, fmt.Sprintf(".include <fs>\nfs.watch(%s, function(e) {}, 0.01);", q(filepath.Join(h.dir, "never"))))
	if !zen.IsInterrupt(err) {
		t.Fatalf("expected interrupt, got %v", err)
	}
	h.runtimeError(t, ".include <fs>\nfs.watch(\"x\", 1);", "watch expects a function")
}
