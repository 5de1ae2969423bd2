package zen

func registerObjectBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"keys":    builtinKeys,
		"values":  builtinValues,
		"hasKey":  builtinHasKey,
		"merge":   builtinMerge,
		"entries": builtinEntries,

		"pick":        keyFilter("pick", true),
		"omit":        keyFilter("omit", false),
		"fromEntries": builtinFromEntries,
		"isEqual":     builtinIsEqual,
		"clone":       builtinClone,
	} {
		in.RegisterBuiltin(name, fn)
	}
}

// objectFields returns the property map of an object or instance.
func objectFields(v Value) map[string]Value {
	if inst := v.Instance(); inst != nil {
		return inst.Properties
	}
	return v.Object()
}

func builtinKeys(_ *Interpreter, args []Value) (Value, error) {
	fields := objectFields(Arg(args, 0))
	keys := sortedKeys(fields)
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = NewString(k)
	}
	return NewArray(out), nil
}

func builtinValues(_ *Interpreter, args []Value) (Value, error) {
	fields := objectFields(Arg(args, 0))
	keys := sortedKeys(fields)
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = fields[k]
	}
	return NewArray(out), nil
}

func builtinHasKey(_ *Interpreter, args []Value) (Value, error) {
	_, ok := objectFields(Arg(args, 0))[Arg(args, 1).String()]
	return NewBool(ok), nil
}

// builtinMerge returns a new object; keys from later arguments win.
func builtinMerge(_ *Interpreter, args []Value) (Value, error) {
	out := make(map[string]Value)
	for _, a := range args {
		for k, v := range objectFields(a) {
			out[k] = v
		}
	}
	return NewObject(out), nil
}

func builtinEntries(_ *Interpreter, args []Value) (Value, error) {
	fields := objectFields(Arg(args, 0))
	keys := sortedKeys(fields)
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = NewArray([]Value{NewString(k), fields[k]})
	}
	return NewArray(out), nil
}

// keyFilter builds pick (keep only the listed keys) and omit (drop them).
func keyFilter(name string, keep bool) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		listed, err := requireArray(name, Arg(args, 1))
		if err != nil {
			return NewNull(), err
		}
		names := make(map[string]bool, len(listed.Elements))
		for _, k := range listed.Elements {
			names[k.String()] = true
		}
		out := make(map[string]Value)
		for k, v := range objectFields(Arg(args, 0)) {
			if names[k] == keep {
				out[k] = v
			}
		}
		return NewObject(out), nil
	}
}

// builtinFromEntries builds an object from [key, value] pairs, skipping
// pairs with fewer than two elements.
func builtinFromEntries(_ *Interpreter, args []Value) (Value, error) {
	pairs, err := requireArray("fromEntries", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	out := make(map[string]Value, len(pairs.Elements))
	for _, p := range pairs.Elements {
		if kv := p.Elements(); len(kv) >= 2 {
			out[kv[0].String()] = kv[1]
		}
	}
	return NewObject(out), nil
}

func builtinIsEqual(_ *Interpreter, args []Value) (Value, error) {
	return NewBool(Arg(args, 0).Equal(Arg(args, 1))), nil
}

// builtinClone makes a shallow copy of an array or object; other values are
// returned as they are.
func builtinClone(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	switch v.Kind() {
	case KindArray:
		return NewArray(append([]Value(nil), v.Elements()...)), nil
	case KindObject:
		out := make(map[string]Value, len(v.Object()))
		for k, e := range v.Object() {
			out[k] = e
		}
		return NewObject(out), nil
	default:
		return v, nil
	}
}
