package stdlib

import (
	"fmt"
	"strings"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

func (rt *Runtime) loadZenout(in *zen.Interpreter) (zen.Value, error) {
	tagged := func(tag string) zen.BuiltinFunc {
		return func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			line := joinValues(args)
			fmt.Fprintf(in.Stdout(), "[%s] %s\n", tag, line)
			rt.log.Debug().Str("package", "zenout").Str("tag", tag).Msg(line)
			return zen.NewNull(), nil
		}
	}
	return object("zenout", funcs{
		"console": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			in.Println(args)
			return zen.NewNull(), nil
		},
		"input": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			fmt.Fprint(in.Stdout(), stringArg(args, 0, ""))
			line, err := in.ReadLine()
			if err != nil {
				return zen.NewString(""), nil
			}
			return zen.NewString(line), nil
		},
		"log":   tagged("LOG"),
		"warn":  tagged("WARN"),
		"error": tagged("ERROR"),
	}, nil), nil
}

func joinValues(args []zen.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
