package stdlib

import (
	"bytes"
	"os"
	"os/exec"
	"runtime"

	"github.com/google/uuid"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

func (rt *Runtime) loadSys(in *zen.Interpreter) (zen.Value, error) {
	return object("sys", funcs{
		"exec": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			command := zen.Arg(args, 0).String()
			var stdout bytes.Buffer
			cmd := exec.CommandContext(in.Context(), "sh", "-c", command)
			cmd.Stdout = &stdout
			var runErr error
			rt.blocking(func() { runErr = cmd.Run() })
			if runErr != nil {
				if _, ok := runErr.(*exec.ExitError); !ok {
					return zen.NewNull(), zen.Errorf("command execution error: %v", runErr)
				}
				rt.log.Debug().Str("command", command).Err(runErr).Msg("sys.exec: non-zero exit")
			}
			return zen.NewString(stdout.String()), nil
		},
		"args": func(in *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.FromNative(append([]string{}, in.Args()...)), nil
		},
		"env": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			val, ok := os.LookupEnv(zen.Arg(args, 0).String())
			if !ok {
				return zen.NewNull(), nil
			}
			return zen.NewString(val), nil
		},
		"setenv": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if err := os.Setenv(zen.Arg(args, 0).String(), zen.Arg(args, 1).String()); err != nil {
				return zen.NewNull(), zen.Errorf("setenv: %v", err)
			}
			return zen.NewNull(), nil
		},
		"platform": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(runtime.GOOS), nil
		},
		"version": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(zen.Version), nil
		},
		"uuid": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(uuid.NewString()), nil
		},
		"exit": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewNull(), &zen.ExitError{Code: int(intArg(args, 0, 0))}
		},
	}, nil), nil
}
