package zen

import (
	"math"
	"math/rand/v2"
	"strconv"
)

func registerNumericBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"sum":   builtinSum,
		"avg":   builtinAvg,
		"min":   extremum(-1),
		"max":   extremum(1),
		"abs":   builtinAbs,
		"round": builtinRound,
		"clamp": builtinClamp,

		"lerp":         builtinLerp,
		"sign":         builtinSign,
		"random":       builtinRandom,
		"randomInt":    builtinRandomInt,
		"formatNumber": builtinFormatNumber,
	} {
		in.RegisterBuiltin(name, fn)
	}
}

func numbersOf(name string, v Value) ([]Value, error) {
	arr, err := requireArray(name, v)
	if err != nil {
		return nil, err
	}
	for _, e := range arr.Elements {
		if !e.IsNumber() {
			return nil, NewError(ErrType, "%s expects numbers, got %s", name, e.Kind())
		}
	}
	return arr.Elements, nil
}

func builtinSum(_ *Interpreter, args []Value) (Value, error) {
	elems, err := numbersOf("sum", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	total := NewInt(0)
	for _, e := range elems {
		if total, err = addValues(total, e); err != nil {
			return NewNull(), err
		}
	}
	return total, nil
}

func builtinAvg(_ *Interpreter, args []Value) (Value, error) {
	elems, err := numbersOf("avg", Arg(args, 0))
	if err != nil || len(elems) == 0 {
		return NewInt(0), err
	}
	var total float64
	for _, e := range elems {
		total += e.Float()
	}
	return NewFloat(total / float64(len(elems))), nil
}

// extremum accepts either one array or several values. sign is -1 for min
// and 1 for max.
func extremum(sign int) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		candidates := args
		if len(args) == 1 && args[0].Kind() == KindArray {
			candidates = args[0].Elements()
		}
		if len(candidates) == 0 {
			return NewNull(), nil
		}
		best := candidates[0]
		for _, c := range candidates[1:] {
			cmp, ok := c.Compare(best)
			if !ok {
				return NewNull(), NewError(ErrType, "cannot compare %s with %s", c.Kind(), best.Kind())
			}
			if cmp*sign > 0 {
				best = c
			}
		}
		return best, nil
	}
}

func builtinAbs(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	switch v.Kind() {
	case KindInt:
		if n := v.Int(); n < 0 {
			return NewInt(-n), nil
		}
		return v, nil
	case KindFloat:
		return NewFloat(math.Abs(v.Float())), nil
	default:
		return NewNull(), NewError(ErrType, "abs expects a number, got %s", v.Kind())
	}
}

// builtinRound rounds half to even like Python's round. Without decimals
// the result is an int.
func builtinRound(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	if !v.IsNumber() {
		return NewNull(), NewError(ErrType, "round expects a number, got %s", v.Kind())
	}
	decimals := Arg(args, 1)
	if decimals.IsNull() {
		return NewInt(int64(math.RoundToEven(v.Float()))), nil
	}
	scale := math.Pow(10, float64(decimals.Int()))
	return NewFloat(math.RoundToEven(v.Float()*scale) / scale), nil
}

func builtinClamp(_ *Interpreter, args []Value) (Value, error) {
	v, lo, hi := Arg(args, 0), Arg(args, 1), Arg(args, 2)
	if c, ok := v.Compare(lo); ok && c < 0 {
		return lo, nil
	}
	if c, ok := v.Compare(hi); ok && c > 0 {
		return hi, nil
	}
	return v, nil
}

func requireNumbers(name string, args ...Value) error {
	for _, a := range args {
		if !a.IsNumber() {
			return NewError(ErrType, "%s expects numbers, got %s", name, a.Kind())
		}
	}
	return nil
}

// builtinLerp computes start + (end - start) * t with the usual int and
// float promotion.
func builtinLerp(_ *Interpreter, args []Value) (Value, error) {
	start, end, t := Arg(args, 0), Arg(args, 1), Arg(args, 2)
	if err := requireNumbers("lerp", start, end, t); err != nil {
		return NewNull(), err
	}
	span, err := arithmetic(tokenMinus, end, start)
	if err != nil {
		return NewNull(), err
	}
	scaled, err := arithmetic(tokenAsterisk, span, t)
	if err != nil {
		return NewNull(), err
	}
	return addValues(start, scaled)
}

func builtinSign(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	if err := requireNumbers("sign", v); err != nil {
		return NewNull(), err
	}
	switch f := v.Float(); {
	case f > 0:
		return NewInt(1), nil
	case f < 0:
		return NewInt(-1), nil
	default:
		return NewInt(0), nil
	}
}

// builtinRandom returns a float drawn uniformly from [min, max), by
// default [0, 1).
func builtinRandom(_ *Interpreter, args []Value) (Value, error) {
	lo, hi := 0.0, 1.0
	if v := Arg(args, 0); !v.IsNull() {
		lo = v.Float()
	}
	if v := Arg(args, 1); !v.IsNull() {
		hi = v.Float()
	}
	return NewFloat(lo + rand.Float64()*(hi-lo)), nil
}

// builtinRandomInt returns an int in [min, max], both ends included.
func builtinRandomInt(_ *Interpreter, args []Value) (Value, error) {
	lo, hi := Arg(args, 0).Int(), Arg(args, 1).Int()
	if lo > hi {
		return NewNull(), NewError(ErrRuntime, "randomInt: empty range [%d, %d]", lo, hi)
	}
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return NewInt(int64(rand.Uint64())), nil
	}
	return NewInt(lo + int64(rand.Uint64N(span+1))), nil
}

// builtinFormatNumber renders a number with a fixed count of decimals, two
// by default.
func builtinFormatNumber(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	if err := requireNumbers("formatNumber", v); err != nil {
		return NewNull(), err
	}
	decimals := int64(2)
	if d := Arg(args, 1); !d.IsNull() {
		decimals = min(max(d.Int(), 0), 20)
	}
	return NewString(strconv.FormatFloat(v.Float(), 'f', int(decimals), 64)), nil
}
