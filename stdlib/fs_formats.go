package stdlib

import (
	"bytes"
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

// fsFormats holds the fs members that deal with CSV and binary data,
// permissions, the working directory and change polling.
func (rt *Runtime) fsFormats() funcs {
	ok := zen.NewBool(true)
	return funcs{
		"readCSV": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			out, err := readCSV(zen.Arg(args, 0).String(), zen.Arg(args, 1).IsNull() || zen.Arg(args, 1).Truthy())
			if err != nil {
				return zen.NewNull(), zen.Errorf("CSV read error: %v", err)
			}
			return out, nil
		},
		"writeCSV": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			written, err := writeCSV(zen.Arg(args, 0).String(), zen.Arg(args, 1), zen.Arg(args, 2))
			if err != nil {
				return zen.NewNull(), zen.Errorf("CSV write error: %v", err)
			}
			return zen.NewBool(written), nil
		},
		"readBinary": onPath("binary read", func(path string) (zen.Value, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return zen.NewNull(), err
			}
			out := make([]zen.Value, len(data))
			for i, b := range data {
				out[i] = zen.NewInt(int64(b))
			}
			return zen.NewArray(out), nil
		}),
		"writeBinary": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			data, err := bytesOf(zen.Arg(args, 1))
			if err == nil {
				err = writeFile(zen.Arg(args, 0).String(), data, os.O_TRUNC)
			}
			if err != nil {
				return zen.NewNull(), zen.Errorf("binary write error: %v", err)
			}
			return ok, nil
		},
		"chmod": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			mode, err := fileMode(zen.Arg(args, 1))
			if err == nil {
				err = os.Chmod(zen.Arg(args, 0).String(), mode)
			}
			if err != nil {
				return zen.NewNull(), zen.Errorf("chmod error: %v", err)
			}
			return ok, nil
		},
		"copyDir": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			src, dst := zen.Arg(args, 0).String(), zen.Arg(args, 1).String()
			err := os.ErrExist
			if _, statErr := os.Stat(dst); os.IsNotExist(statErr) {
				err = os.CopyFS(dst, os.DirFS(src))
			}
			if err != nil {
				return zen.NewNull(), zen.Errorf("directory copy error: %v", err)
			}
			return ok, nil
		},
		"tempFile": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			f, err := os.CreateTemp("", "zen-*"+stringArg(args, 0, ""))
			if err != nil {
				return zen.NewNull(), zen.Errorf("temp file error: %v", err)
			}
			f.Close()
			return zen.NewString(f.Name()), nil
		},
		"chdir": onPath("chdir", func(path string) (zen.Value, error) {
			return ok, os.Chdir(path)
		}),
		"watch": rt.watch,
	}
}

// readCSV returns one object per data row keyed by the header row, or the
// raw rows when header is false. Short rows fill with null.
func readCSV(path string, header bool) (zen.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return zen.NewNull(), err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return zen.NewNull(), err
	}
	if !header {
		rows := make([]zen.Value, len(records))
		for i, rec := range records {
			rows[i] = zen.FromNative(rec)
		}
		return zen.NewArray(rows), nil
	}
	if len(records) == 0 {
		return zen.NewArray(nil), nil
	}
	names := records[0]
	rows := make([]zen.Value, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]zen.Value, len(names))
		for i, name := range names {
			row[name] = zen.NewNull()
			if i < len(rec) {
				row[name] = zen.NewString(rec[i])
			}
		}
		rows = append(rows, zen.NewObject(row))
	}
	return zen.NewArray(rows), nil
}

// writeCSV writes object rows under a header line (headers default to the
// sorted keys of the first row) or array rows as-is. It reports false for
// empty data.
func writeCSV(path string, data, headers zen.Value) (bool, error) {
	rows := data.Elements()
	if len(rows) == 0 {
		return false, nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if rows[0].Kind() == zen.KindObject {
		names := zen.StringList(headers)
		if headers.IsNull() {
			names = zen.ObjectKeys(rows[0])
		}
		if err := w.Write(names); err != nil {
			return false, err
		}
		for _, row := range rows {
			fields := row.Object()
			rec := make([]string, len(names))
			for i, name := range names {
				if v, ok := fields[name]; ok && !v.IsNull() {
					rec[i] = v.String()
				}
			}
			if err := w.Write(rec); err != nil {
				return false, err
			}
		}
	} else {
		if !headers.IsNull() {
			if err := w.Write(zen.StringList(headers)); err != nil {
				return false, err
			}
		}
		for _, row := range rows {
			if err := w.Write(zen.StringList(row)); err != nil {
				return false, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return false, err
	}
	return true, writeFile(path, buf.Bytes(), os.O_TRUNC)
}

func bytesOf(v zen.Value) ([]byte, error) {
	if v.Kind() == zen.KindString {
		return []byte(v.Str()), nil
	}
	if v.Kind() != zen.KindArray {
		return nil, zen.NewError(zen.ErrType, "expected string or array of bytes, got %s", v.TypeName())
	}
	elems := v.Elements()
	out := make([]byte, len(elems))
	for i, e := range elems {
		n := e.Int()
		if e.Kind() != zen.KindInt || n < 0 || n > 255 {
			return nil, zen.NewError(zen.ErrRuntime, "byte %d out of range: %s", i, e.Inspect())
		}
		out[i] = byte(n)
	}
	return out, nil
}

// fileMode accepts an integer or an octal string such as "755".
func fileMode(v zen.Value) (os.FileMode, error) {
	if v.Kind() == zen.KindString {
		n, err := strconv.ParseUint(v.Str(), 8, 32)
		if err != nil {
			return 0, zen.NewError(zen.ErrRuntime, "invalid mode %q", v.Str())
		}
		return os.FileMode(n), nil
	}
	return os.FileMode(v.Int()), nil
}

type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}
}

func (s fileState) change(next fileState) string {
	switch {
	case !s.exists && next.exists:
		return "created"
	case s.exists && !next.exists:
		return "deleted"
	case next.exists && (s.size != next.size || !s.modTime.Equal(next.modTime)):
		return "modified"
	}
	return ""
}

// watch polls path every interval seconds (default 1) and calls fn with an
// event object on each change. It returns the number of events once fn
// returns false; cancelling the evaluation ends it with the context error.
func (rt *Runtime) watch(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
	path, fn := zen.Arg(args, 0).String(), zen.Arg(args, 1)
	if !fn.IsCallable() {
		return zen.NewNull(), zen.NewError(zen.ErrType, "watch expects a function, got %s", fn.TypeName())
	}
	interval := time.Second
	if v := zen.Arg(args, 2); !v.IsNull() && v.Float() > 0 {
		interval = time.Duration(v.Float() * float64(time.Second))
	}
	last := statFile(path)
	var events int64
	for {
		if err := rt.sleep(in, interval); err != nil {
			return zen.NewInt(events), err
		}
		cur := statFile(path)
		kind := last.change(cur)
		last = cur
		if kind == "" {
			continue
		}
		events++
		res, err := in.CallFunc(fn, zen.NewObject(map[string]zen.Value{
			"path":  zen.NewString(path),
			"event": zen.NewString(kind),
			"size":  zen.NewInt(cur.size),
		}))
		if err != nil {
			return zen.NewInt(events), err
		}
		if res.Kind() == zen.KindBool && !res.Truthy() {
			return zen.NewInt(events), nil
		}
	}
}
