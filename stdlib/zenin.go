package stdlib

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

// prompt writes text without a newline and reads one line. End of input
// stops the program with status 0.
func prompt(in *zen.Interpreter, text string) (string, error) {
	fmt.Fprint(in.Stdout(), text)
	line, err := in.ReadLine()
	if err != nil {
		fmt.Fprintln(in.Stdout(), "\nInput cancelled")
		return "", &zen.ExitError{Code: 0}
	}
	return line, nil
}

// password reads a line without echo when the interpreter reads the
// process terminal; other inputs are read like any prompt.
func password(in *zen.Interpreter, text string) (string, error) {
	if f, ok := in.Stdin().(*os.File); !ok || f != os.Stdin || !liner.TerminalSupported() {
		return prompt(in, text)
	}
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	secret, err := ln.PasswordPrompt(text)
	if err != nil {
		fmt.Fprintln(in.Stdout(), "\nInput cancelled")
		return "", &zen.ExitError{Code: 0}
	}
	return secret, nil
}

func parseNumber(text string) (zen.Value, bool) {
	text = strings.TrimSpace(text)
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return zen.NewNull(), false
		}
		return zen.NewFloat(f), true
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return zen.NewNull(), false
	}
	return zen.NewInt(i), true
}

func (rt *Runtime) loadZenin(in *zen.Interpreter) (zen.Value, error) {
	console := func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		line, err := prompt(in, stringArg(args, 0, ""))
		if err != nil {
			return zen.NewNull(), err
		}
		return zen.NewString(line), nil
	}
	return object("zenin", funcs{
		"console": console,
		"text":    console,
		"password": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			secret, err := password(in, stringArg(args, 0, "Enter password: "))
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.NewString(secret), nil
		},
		"number": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			for {
				line, err := prompt(in, stringArg(args, 0, ""))
				if err != nil {
					return zen.NewNull(), err
				}
				if n, ok := parseNumber(line); ok {
					return n, nil
				}
				fmt.Fprintln(in.Stdout(), "Please enter a valid number")
			}
		},
		"yesno": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			for {
				line, err := prompt(in, stringArg(args, 0, "")+" (y/n): ")
				if err != nil {
					return zen.NewNull(), err
				}
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "y", "yes":
					return zen.NewInt(1), nil
				case "n", "no":
					return zen.NewInt(0), nil
				}
				fmt.Fprintln(in.Stdout(), "Please enter 'y' or 'n'")
			}
		},
		"choice": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			options := zen.Arg(args, 1).Elements()
			if len(options) == 0 {
				return zen.NewNull(), zen.NewError(zen.ErrType, "choice expects a non-empty array of options")
			}
			fmt.Fprintln(in.Stdout(), stringArg(args, 0, ""))
			for i, opt := range options {
				fmt.Fprintf(in.Stdout(), "  %d. %s\n", i+1, opt.String())
			}
			for {
				line, err := prompt(in, "Enter choice number: ")
				if err != nil {
					return zen.NewNull(), err
				}
				n, convErr := strconv.Atoi(strings.TrimSpace(line))
				switch {
				case convErr != nil:
					fmt.Fprintln(in.Stdout(), "Please enter a valid number")
				case n < 1 || n > len(options):
					fmt.Fprintf(in.Stdout(), "Please enter a number between 1 and %d\n", len(options))
				default:
					return options[n-1], nil
				}
			}
		},
	}, nil), nil
}
