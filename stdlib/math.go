package stdlib

import (
	"math"
	"math/rand/v2"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

func numberArg(name string, args []zen.Value, i int) (float64, error) {
	v := zen.Arg(args, i)
	if !v.IsNumber() {
		return 0, zen.NewError(zen.ErrType, "math.%s expects a number, got %s", name, v.TypeName())
	}
	return v.Float(), nil
}

func unary(name string, fn func(float64) (zen.Value, error)) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		x, err := numberArg(name, args, 0)
		if err != nil {
			return zen.NewNull(), err
		}
		return fn(x)
	}
}

func floatResult(fn func(float64) float64) func(float64) (zen.Value, error) {
	return func(x float64) (zen.Value, error) { return zen.NewFloat(fn(x)), nil }
}

func intResult(fn func(float64) float64) func(float64) (zen.Value, error) {
	return func(x float64) (zen.Value, error) { return zen.NewInt(int64(fn(x))), nil }
}

// extreme implements max and min over either the arguments or a single
// array argument.
func extreme(name string, better func(a, b zen.Value) bool) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		values := args
		if len(args) == 1 && args[0].Array() != nil {
			values = args[0].Elements()
		}
		if len(values) == 0 {
			return zen.NewNull(), zen.Errorf("math.%s expects at least one value", name)
		}
		best := values[0]
		for _, v := range values {
			if !v.IsNumber() {
				return zen.NewNull(), zen.NewError(zen.ErrType, "math.%s expects numbers, got %s", name, v.TypeName())
			}
			if better(v, best) {
				best = v
			}
		}
		return best, nil
	}
}

func (rt *Runtime) loadMath(_ *zen.Interpreter) (zen.Value, error) {
	return object("math", funcs{
		"abs": unary("abs", floatResult(math.Abs)),
		"sqrt": unary("sqrt", func(x float64) (zen.Value, error) {
			if x < 0 {
				return zen.NewNull(), zen.Errorf("math domain error: sqrt of %s", zen.NewFloat(x).String())
			}
			return zen.NewFloat(math.Sqrt(x)), nil
		}),
		"pow": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			x, err := numberArg("pow", args, 0)
			if err != nil {
				return zen.NewNull(), err
			}
			y, err := numberArg("pow", args, 1)
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.NewFloat(math.Pow(x, y)), nil
		},
		"floor": unary("floor", intResult(math.Floor)),
		"ceil":  unary("ceil", intResult(math.Ceil)),
		"round": unary("round", intResult(math.RoundToEven)),
		"sin":   unary("sin", floatResult(math.Sin)),
		"cos":   unary("cos", floatResult(math.Cos)),
		"tan":   unary("tan", floatResult(math.Tan)),
		"random": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewFloat(rand.Float64()), nil
		},
		"randint": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			lo, hi := zen.Arg(args, 0).Int(), zen.Arg(args, 1).Int()
			if hi < lo {
				return zen.NewNull(), zen.Errorf("math.randint: empty range %d..%d", lo, hi)
			}
			return zen.NewInt(lo + rand.Int64N(hi-lo+1)), nil
		},
		"max": extreme("max", func(a, b zen.Value) bool { return a.Float() > b.Float() }),
		"min": extreme("min", func(a, b zen.Value) bool { return a.Float() < b.Float() }),
	}, map[string]zen.Value{
		"PI": zen.NewFloat(math.Pi),
		"E":  zen.NewFloat(math.E),
	}), nil
}
