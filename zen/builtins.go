package zen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Arg returns args[i], or null when the call supplied fewer arguments.
func Arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return NewNull()
}

// CallFunc invokes a callable from inside a built-in, sharing the current
// evaluation's context and call stack.
func (in *Interpreter) CallFunc(fn Value, args ...Value) (Value, error) {
	return in.callValue(fn, args, Position{})
}

type lineReader struct {
	r *bufio.Reader
}

// ReadLine reads one line from the configured stdin without its line
// ending. io.EOF is returned only when nothing was read.
func (in *Interpreter) ReadLine() (string, error) {
	if in.stdinReader == nil {
		in.stdinReader = &lineReader{r: bufio.NewReader(in.config.Stdin)}
	}
	line, err := in.stdinReader.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Println writes values separated by spaces to the configured stdout.
func (in *Interpreter) Println(args []Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(in.config.Stdout, strings.Join(parts, " "))
}

func registerCoreBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"str":   builtinStr,
		"int":   builtinInt,
		"float": builtinFloat,
		"bool":  builtinBool,

		"type":     builtinType,
		"isNumber": kindCheck(KindInt, KindFloat),
		"isString": kindCheck(KindString),
		"isArray":  kindCheck(KindArray),
		"isObject": kindCheck(KindObject),
		"isBool":   kindCheck(KindBool),
		"isNull":   kindCheck(KindNull),

		"print":     builtinPrint,
		"input":     builtinInput,
		"timestamp": builtinTimestamp,
		"sleep":     builtinSleep,
		"isEmpty":   builtinIsEmpty,
		"deepCopy":  builtinDeepCopy,
		"parseJSON": builtinParseJSON,
		"toJSON":    builtinToJSON,
	} {
		in.RegisterBuiltin(name, fn)
	}
	registerArrayBuiltins(in)
	registerStringBuiltins(in)
	registerNumericBuiltins(in)
	registerObjectBuiltins(in)
	registerCollectionBuiltins(in)
	registerFunctionalBuiltins(in)
}

func builtinStr(_ *Interpreter, args []Value) (Value, error) {
	return NewString(Arg(args, 0).String()), nil
}

// builtinInt converts leniently: unparseable strings become 0.
func builtinInt(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	if v.Kind() == KindString {
		s := strings.TrimSpace(v.Str())
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInt(i), nil
		}
		return NewInt(0), nil
	}
	return NewInt(v.Int()), nil
}

func builtinFloat(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	if v.Kind() == KindString {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64); err == nil {
			return NewFloat(f), nil
		}
		return NewFloat(0), nil
	}
	return NewFloat(v.Float()), nil
}

func builtinBool(_ *Interpreter, args []Value) (Value, error) {
	return NewBool(Arg(args, 0).Truthy()), nil
}

func builtinType(_ *Interpreter, args []Value) (Value, error) {
	return NewString(Arg(args, 0).TypeName()), nil
}

func kindCheck(kinds ...ValueKind) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		k := Arg(args, 0).Kind()
		for _, want := range kinds {
			if k == want {
				return NewBool(true), nil
			}
		}
		return NewBool(false), nil
	}
}

func builtinPrint(in *Interpreter, args []Value) (Value, error) {
	in.Println(args)
	return NewNull(), nil
}

func builtinInput(in *Interpreter, args []Value) (Value, error) {
	if len(args) > 0 {
		fmt.Fprint(in.config.Stdout, args[0].String())
	}
	line, err := in.ReadLine()
	if err == io.EOF {
		return NewString(""), nil
	}
	if err != nil {
		return NewNull(), err
	}
	return NewString(line), nil
}

func builtinTimestamp(_ *Interpreter, _ []Value) (Value, error) {
	return NewFloat(float64(time.Now().UnixNano()) / 1e9), nil
}

// builtinSleep pauses for a number of seconds. Cancelling the evaluation
// context ends the wait early with the context's error.
func builtinSleep(in *Interpreter, args []Value) (Value, error) {
	d := time.Duration(Arg(args, 0).Float() * float64(time.Second))
	if d <= 0 {
		return NewNull(), nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-in.Context().Done():
		return NewNull(), in.Context().Err()
	case <-timer.C:
		return NewNull(), nil
	}
}

func builtinIsEmpty(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	switch v.Kind() {
	case KindNull:
		return NewBool(true), nil
	case KindString, KindArray, KindObject:
		return NewBool(!v.Truthy()), nil
	default:
		return NewBool(false), nil
	}
}

func builtinDeepCopy(_ *Interpreter, args []Value) (Value, error) {
	return Arg(args, 0).DeepCopy(), nil
}
