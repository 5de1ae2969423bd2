package zen

import "time"

func registerFunctionalBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"noop":     builtinNoop,
		"identity": builtinIdentity,
		"constant": builtinConstant,
		"negate":   builtinNegate,
		"once":     builtinOnce,
		"memoize":  builtinMemoize,
		"curry":    builtinCurry,
		"compose":  chainBuiltin("compose", true),
		"pipe":     chainBuiltin("pipe", false),
		"debounce": rateLimited("debounce"),
		"throttle": rateLimited("throttle"),
	} {
		in.RegisterBuiltin(name, fn)
	}
}

func requireCallable(name string, v Value) error {
	if !v.IsCallable() {
		return NewError(ErrType, "%s expects a function, got %s", name, v.Kind())
	}
	return nil
}

func builtinNoop(_ *Interpreter, _ []Value) (Value, error) {
	return NewNull(), nil
}

func builtinIdentity(_ *Interpreter, args []Value) (Value, error) {
	return Arg(args, 0), nil
}

func builtinConstant(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	return NewBuiltin("constant", func(*Interpreter, []Value) (Value, error) {
		return v, nil
	}), nil
}

func builtinNegate(_ *Interpreter, args []Value) (Value, error) {
	fn := Arg(args, 0)
	if err := requireCallable("negate", fn); err != nil {
		return NewNull(), err
	}
	return NewBuiltin("negated", func(in *Interpreter, args []Value) (Value, error) {
		res, err := in.CallFunc(fn, args...)
		if err != nil {
			return NewNull(), err
		}
		return NewBool(!res.Truthy()), nil
	}), nil
}

// builtinOnce wraps fn so only the first call runs it; later calls return
// the first result.
func builtinOnce(_ *Interpreter, args []Value) (Value, error) {
	fn := Arg(args, 0)
	if err := requireCallable("once", fn); err != nil {
		return NewNull(), err
	}
	called := false
	result := NewNull()
	return NewBuiltin("once", func(in *Interpreter, args []Value) (Value, error) {
		if called {
			return result, nil
		}
		called = true
		res, err := in.CallFunc(fn, args...)
		if err != nil {
			return NewNull(), err
		}
		result = res
		return result, nil
	}), nil
}

// builtinMemoize caches results keyed by the inspected argument list.
// Failed calls are not cached.
func builtinMemoize(_ *Interpreter, args []Value) (Value, error) {
	fn := Arg(args, 0)
	if err := requireCallable("memoize", fn); err != nil {
		return NewNull(), err
	}
	cache := make(map[string]Value)
	return NewBuiltin("memoized", func(in *Interpreter, args []Value) (Value, error) {
		key := NewArray(args).Inspect()
		if res, ok := cache[key]; ok {
			return res, nil
		}
		res, err := in.CallFunc(fn, args...)
		if err != nil {
			return NewNull(), err
		}
		cache[key] = res
		return res, nil
	}), nil
}

// builtinCurry collects arguments across calls until arity is reached. The
// arity defaults to the parameter count of a script function.
func builtinCurry(_ *Interpreter, args []Value) (Value, error) {
	fn := Arg(args, 0)
	if err := requireCallable("curry", fn); err != nil {
		return NewNull(), err
	}
	arity := 1
	if f := fn.Function(); f != nil {
		arity = len(f.Params)
	}
	if v := Arg(args, 1); !v.IsNull() {
		arity = int(v.Int())
	}
	return curried(fn, arity, nil), nil
}

func curried(fn Value, arity int, bound []Value) Value {
	return NewBuiltin("curried", func(in *Interpreter, args []Value) (Value, error) {
		all := append(append([]Value(nil), bound...), args...)
		if len(all) >= arity {
			return in.CallFunc(fn, all[:max(arity, 0)]...)
		}
		return curried(fn, arity, all), nil
	})
}

// chainBuiltin builds compose (right to left) and pipe (left to right).
func chainBuiltin(name string, reverse bool) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		fns := append([]Value(nil), args...)
		for _, fn := range fns {
			if err := requireCallable(name, fn); err != nil {
				return NewNull(), err
			}
		}
		if reverse {
			for i, j := 0, len(fns)-1; i < j; i, j = i+1, j-1 {
				fns[i], fns[j] = fns[j], fns[i]
			}
		}
		return NewBuiltin(name+"d", func(in *Interpreter, args []Value) (Value, error) {
			acc := Arg(args, 0)
			for _, fn := range fns {
				var err error
				if acc, err = in.CallFunc(fn, acc); err != nil {
					return NewNull(), err
				}
			}
			return acc, nil
		}), nil
	}
}

// rateLimited builds debounce and throttle. The wrapper runs fn at most once
// per interval (in seconds) and returns null for suppressed calls.
func rateLimited(name string) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		fn := Arg(args, 0)
		if err := requireCallable(name, fn); err != nil {
			return NewNull(), err
		}
		interval := time.Duration(Arg(args, 1).Float() * float64(time.Second))
		var last time.Time
		return NewBuiltin(name+"d", func(in *Interpreter, args []Value) (Value, error) {
			now := time.Now()
			if !last.IsZero() && now.Sub(last) < interval {
				return NewNull(), nil
			}
			last = now
			return in.CallFunc(fn, args...)
		}), nil
	}
}
