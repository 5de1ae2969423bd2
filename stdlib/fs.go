package stdlib

import (
	"archive/zip"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

type pathFunc func(path string) (zen.Value, error)

// onPath adapts a single-path operation; failures become runtime errors
// prefixed with what.
func onPath(what string, fn pathFunc) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		out, err := fn(zen.Arg(args, 0).String())
		if err != nil {
			return zen.NewNull(), zen.Errorf("%s error: %v", what, err)
		}
		return out, nil
	}
}

func pathValue(fn func(string) string) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		return zen.NewString(fn(zen.Arg(args, 0).String())), nil
	}
}

func statIs(check func(fs.FileInfo) bool) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		info, err := os.Stat(zen.Arg(args, 0).String())
		return zen.NewBool(err == nil && check(info)), nil
	}
}

func writeFile(path string, data []byte, flag int) error {
	f, err := os.OpenFile(path, flag|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (rt *Runtime) loadFS(_ *zen.Interpreter) (zen.Value, error) {
	ok := zen.NewBool(true)
	fns := funcs{
		"read": onPath("file read", func(path string) (zen.Value, error) {
			data, err := os.ReadFile(path)
			return zen.NewString(string(data)), err
		}),
		"write": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := writeFile(zen.Arg(args, 0).String(), []byte(zen.Arg(args, 1).String()), os.O_TRUNC); err != nil {
				return zen.NewNull(), zen.Errorf("file write error: %v", err)
			}
			return ok, nil
		},
		"append": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := writeFile(zen.Arg(args, 0).String(), []byte(zen.Arg(args, 1).String()), os.O_APPEND); err != nil {
				return zen.NewNull(), zen.Errorf("file append error: %v", err)
			}
			return ok, nil
		},
		"exists": statIs(func(fs.FileInfo) bool { return true }),
		"isFile": statIs(func(info fs.FileInfo) bool { return info.Mode().IsRegular() }),
		"isDir":  statIs(func(info fs.FileInfo) bool { return info.IsDir() }),
		"delete": onPath("file delete", func(path string) (zen.Value, error) {
			return ok, os.Remove(path)
		}),
		"rmdir": onPath("directory remove", func(path string) (zen.Value, error) {
			return ok, os.RemoveAll(path)
		}),
		"readJSON": onPath("JSON read", func(path string) (zen.Value, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.DecodeJSON(string(data))
		}),
		"writeJSON": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			data, err := json.MarshalIndent(zen.ToNative(zen.Arg(args, 1)), "", "  ")
			if err == nil {
				err = writeFile(zen.Arg(args, 0).String(), data, os.O_TRUNC)
			}
			if err != nil {
				return zen.NewNull(), zen.Errorf("JSON write error: %v", err)
			}
			return ok, nil
		},
		"listdir": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			entries, err := os.ReadDir(stringArg(args, 0, "."))
			if err != nil {
				return zen.NewNull(), zen.Errorf("directory list error: %v", err)
			}
			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name()
			}
			return zen.FromNative(names), nil
		},
		"mkdir": onPath("directory create", func(path string) (zen.Value, error) {
			return ok, os.MkdirAll(path, 0o755)
		}),
		"copy": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := copyFile(zen.Arg(args, 0).String(), zen.Arg(args, 1).String()); err != nil {
				return zen.NewNull(), zen.Errorf("file copy error: %v", err)
			}
			return ok, nil
		},
		"move": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := os.Rename(zen.Arg(args, 0).String(), zen.Arg(args, 1).String()); err != nil {
				return zen.NewNull(), zen.Errorf("file move error: %v", err)
			}
			return ok, nil
		},
		"size": onPath("file size", func(path string) (zen.Value, error) {
			info, err := os.Stat(path)
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.NewInt(info.Size()), nil
		}),
		"stat": onPath("stat", func(path string) (zen.Value, error) {
			info, err := os.Stat(path)
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.NewObject(map[string]zen.Value{
				"size":     zen.NewInt(info.Size()),
				"modified": zen.NewFloat(float64(info.ModTime().UnixNano()) / 1e9),
				"isFile":   zen.NewBool(info.Mode().IsRegular()),
				"isDir":    zen.NewBool(info.IsDir()),
			}), nil
		}),
		"extension": pathValue(filepath.Ext),
		"basename":  pathValue(filepath.Base),
		"dirname":   pathValue(filepath.Dir),
		"absolute": pathValue(func(p string) string {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}),
		"join": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.String()
			}
			return zen.NewString(filepath.Join(parts...)), nil
		},
		"readLines": onPath("file read", func(path string) (zen.Value, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return zen.NewNull(), err
			}
			text := strings.TrimSuffix(string(data), "\n")
			if text == "" {
				return zen.NewArray(nil), nil
			}
			lines := strings.Split(text, "\n")
			for i, l := range lines {
				lines[i] = strings.TrimSuffix(l, "\r")
			}
			return zen.FromNative(lines), nil
		}),
		"writeLines": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			var b strings.Builder
			for _, line := range zen.StringList(zen.Arg(args, 1)) {
				b.WriteString(line)
				b.WriteByte('\n')
			}
			if err := writeFile(zen.Arg(args, 0).String(), []byte(b.String()), os.O_TRUNC); err != nil {
				return zen.NewNull(), zen.Errorf("file write error: %v", err)
			}
			return ok, nil
		},
		"search": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			matches, err := filepath.Glob(filepath.Join(zen.Arg(args, 0).String(), zen.Arg(args, 1).String()))
			if err != nil {
				return zen.NewNull(), zen.Errorf("search error: %v", err)
			}
			return zen.FromNative(append([]string{}, matches...)), nil
		},
		"walk": onPath("walk", func(root string) (zen.Value, error) {
			var files []string
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					files = append(files, path)
				}
				return nil
			})
			sort.Strings(files)
			return zen.FromNative(append([]string{}, files...)), err
		}),
		"hash": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			sum, err := hashFile(zen.Arg(args, 0).String(), stringArg(args, 1, "sha256"))
			if err != nil {
				return zen.NewNull(), zen.Errorf("hash error: %v", err)
			}
			return zen.NewString(sum), nil
		},
		"compress": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := compress(zen.Arg(args, 0).String(), zen.Arg(args, 1).String()); err != nil {
				return zen.NewNull(), zen.Errorf("compression error: %v", err)
			}
			return ok, nil
		},
		"extract": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := extract(zen.Arg(args, 0).String(), zen.Arg(args, 1).String()); err != nil {
				return zen.NewNull(), zen.Errorf("extraction error: %v", err)
			}
			return ok, nil
		},
		"cwd": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			dir, err := os.Getwd()
			if err != nil {
				return zen.NewNull(), zen.Errorf("cwd error: %v", err)
			}
			return zen.NewString(dir), nil
		},
		"home": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			dir, err := os.UserHomeDir()
			if err != nil {
				return zen.NewNull(), zen.Errorf("home error: %v", err)
			}
			return zen.NewString(dir), nil
		},
		"tempDir": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			dir, err := os.MkdirTemp("", "zen-")
			if err != nil {
				return zen.NewNull(), zen.Errorf("temp dir error: %v", err)
			}
			return zen.NewString(dir), nil
		},
	}
	for name, fn := range rt.fsFormats() {
		fns[name] = fn
	}
	return object("fs", fns, nil), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}
	if st, err := os.Stat(dst); err == nil && st.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func hashFile(path, algorithm string) (string, error) {
	var h hash.Hash
	switch strings.ToLower(algorithm) {
	case "sha256":
		h = sha256.New()
	case "sha1":
		h = sha1.New()
	case "sha512":
		h = sha512.New()
	case "md5":
		h = md5.New()
	default:
		return "", fmt.Errorf("unsupported algorithm %q", algorithm)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// compress writes source, a file or a directory tree, into a zip archive.
// Entry names are relative to source.
func compress(source, destination string) error {
	if !strings.HasSuffix(destination, ".zip") {
		destination += ".zip"
	}
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	out, err := os.Create(destination)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)

	add := func(path, name string) error {
		w, err := zw.Create(filepath.ToSlash(name))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	}

	if info.IsDir() {
		err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(source, path)
			if err != nil {
				return err
			}
			return add(path, rel)
		})
	} else {
		err = add(source, filepath.Base(source))
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

var errUnsafeEntry = errors.New("archive entry escapes destination")

func extract(archive, destination string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()
	root, err := filepath.Abs(destination)
	if err != nil {
		return err
	}
	for _, f := range zr.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", errUnsafeEntry, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
