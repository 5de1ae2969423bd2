package zen

import (
	"math/rand/v2"
	"sort"
)

func registerCollectionBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"chunk":        builtinChunk,
		"zip":          builtinZip,
		"compact":      builtinCompact,
		"difference":   setFilter("difference", false),
		"intersection": setFilter("intersection", true),
		"union":        builtinUnion,
		"every":        builtinEvery,
		"some":         builtinSome,
		"findIndex":    builtinFindIndex,
		"groupBy":      builtinGroupBy,
		"countBy":      builtinCountBy,
		"sortBy":       builtinSortBy,
		"take":         builtinTake,
		"drop":         builtinDrop,
		"takeWhile":    builtinTakeWhile,
		"dropWhile":    builtinDropWhile,
		"partition":    builtinPartition,
		"pluck":        builtinPluck,
		"sample":       builtinSample,
		"shuffle":      builtinShuffle,
		"times":        builtinTimes,
	} {
		in.RegisterBuiltin(name, fn)
	}
}

func builtinChunk(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("chunk", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	size := Arg(args, 1).Int()
	if size <= 0 {
		return NewNull(), NewError(ErrRuntime, "chunk size must be positive, got %d", size)
	}
	var out []Value
	for rest := arr.Elements; len(rest) > 0; {
		n := int(min(size, int64(len(rest))))
		out = append(out, NewArray(append([]Value(nil), rest[:n]...)))
		rest = rest[n:]
	}
	return NewArray(out), nil
}

// builtinZip pairs elements by position, stopping at the shortest array.
func builtinZip(_ *Interpreter, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewArray(nil), nil
	}
	n := -1
	for _, a := range args {
		arr, err := requireArray("zip", a)
		if err != nil {
			return NewNull(), err
		}
		if n < 0 || len(arr.Elements) < n {
			n = len(arr.Elements)
		}
	}
	out := make([]Value, n)
	for i := range out {
		row := make([]Value, len(args))
		for j, a := range args {
			row[j] = a.Elements()[i]
		}
		out[i] = NewArray(row)
	}
	return NewArray(out), nil
}

func builtinCompact(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("compact", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	var out []Value
	for _, e := range arr.Elements {
		if e.Truthy() {
			out = append(out, e)
		}
	}
	return NewArray(out), nil
}

// setFilter keeps the elements of the first array that are (keep) or are
// not (!keep) present in the second, in first-array order.
func setFilter(name string, keep bool) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		a, err := requireArray(name, Arg(args, 0))
		if err != nil {
			return NewNull(), err
		}
		b, err := requireArray(name, Arg(args, 1))
		if err != nil {
			return NewNull(), err
		}
		var out []Value
		for _, e := range a.Elements {
			if (indexOfValue(b.Elements, e) >= 0) == keep {
				out = append(out, e)
			}
		}
		return NewArray(out), nil
	}
}

func builtinUnion(_ *Interpreter, args []Value) (Value, error) {
	var out []Value
	for _, a := range args {
		arr, err := requireArray("union", a)
		if err != nil {
			return NewNull(), err
		}
		for _, e := range arr.Elements {
			if indexOfValue(out, e) < 0 {
				out = append(out, e)
			}
		}
	}
	return NewArray(out), nil
}

func builtinEvery(in *Interpreter, args []Value) (Value, error) {
	all := true
	err := eachElement(in, "every", Arg(args, 0), Arg(args, 1), func(_ int, _, res Value) bool {
		all = res.Truthy()
		return all
	})
	return NewBool(all), err
}

func builtinSome(in *Interpreter, args []Value) (Value, error) {
	found := false
	err := eachElement(in, "some", Arg(args, 0), Arg(args, 1), func(_ int, _, res Value) bool {
		found = res.Truthy()
		return !found
	})
	return NewBool(found), err
}

func builtinFindIndex(in *Interpreter, args []Value) (Value, error) {
	found := -1
	err := eachElement(in, "findIndex", Arg(args, 0), Arg(args, 1), func(i int, _, res Value) bool {
		if res.Truthy() {
			found = i
			return false
		}
		return true
	})
	return NewInt(int64(found)), err
}

// builtinGroupBy buckets elements under the display string of fn(elem).
func builtinGroupBy(in *Interpreter, args []Value) (Value, error) {
	groups := make(map[string]Value)
	err := eachElement(in, "groupBy", Arg(args, 0), Arg(args, 1), func(_ int, elem, res Value) bool {
		key := res.String()
		bucket, ok := groups[key]
		if !ok {
			bucket = NewArray(nil)
			groups[key] = bucket
		}
		bucket.Array().Elements = append(bucket.Array().Elements, elem)
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewObject(groups), nil
}

func builtinCountBy(in *Interpreter, args []Value) (Value, error) {
	counts := make(map[string]Value)
	err := eachElement(in, "countBy", Arg(args, 0), Arg(args, 1), func(_ int, _, res Value) bool {
		key := res.String()
		counts[key] = NewInt(counts[key].Int() + 1)
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewObject(counts), nil
}

// builtinSortBy returns a copy ordered by fn(elem), stable for equal keys.
func builtinSortBy(in *Interpreter, args []Value) (Value, error) {
	var elems, keys []Value
	err := eachElement(in, "sortBy", Arg(args, 0), Arg(args, 1), func(_ int, elem, res Value) bool {
		elems = append(elems, elem)
		keys = append(keys, res)
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	var cmpErr error
	sort.SliceStable(order, func(i, j int) bool {
		c, ok := keys[order[i]].Compare(keys[order[j]])
		if !ok && cmpErr == nil {
			cmpErr = NewError(ErrType, "cannot compare %s with %s", keys[order[i]].Kind(), keys[order[j]].Kind())
		}
		return c < 0
	})
	if cmpErr != nil {
		return NewNull(), cmpErr
	}
	out := make([]Value, len(order))
	for i, idx := range order {
		out[i] = elems[idx]
	}
	return NewArray(out), nil
}

func builtinTake(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("take", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	start, end := sliceBounds(len(arr.Elements), NewNull(), Arg(args, 1))
	return NewArray(append([]Value(nil), arr.Elements[start:end]...)), nil
}

func builtinDrop(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("drop", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	start, end := sliceBounds(len(arr.Elements), Arg(args, 1), NewNull())
	return NewArray(append([]Value(nil), arr.Elements[start:end]...)), nil
}

func builtinTakeWhile(in *Interpreter, args []Value) (Value, error) {
	var out []Value
	err := eachElement(in, "takeWhile", Arg(args, 0), Arg(args, 1), func(_ int, elem, res Value) bool {
		if !res.Truthy() {
			return false
		}
		out = append(out, elem)
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewArray(out), nil
}

func builtinDropWhile(in *Interpreter, args []Value) (Value, error) {
	snapshot := append([]Value(nil), Arg(args, 0).Elements()...)
	start := len(snapshot)
	err := eachElement(in, "dropWhile", Arg(args, 0), Arg(args, 1), func(i int, _, res Value) bool {
		if !res.Truthy() {
			start = i
			return false
		}
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewArray(snapshot[start:]), nil
}

// builtinPartition splits into [passing, failing].
func builtinPartition(in *Interpreter, args []Value) (Value, error) {
	var pass, fail []Value
	err := eachElement(in, "partition", Arg(args, 0), Arg(args, 1), func(_ int, elem, res Value) bool {
		if res.Truthy() {
			pass = append(pass, elem)
		} else {
			fail = append(fail, elem)
		}
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewArray([]Value{NewArray(pass), NewArray(fail)}), nil
}

// builtinPluck collects one property from every object or instance that
// has it.
func builtinPluck(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("pluck", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	key := Arg(args, 1).String()
	var out []Value
	for _, e := range arr.Elements {
		if v, ok := objectFields(e)[key]; ok {
			out = append(out, v)
		}
	}
	return NewArray(out), nil
}

// builtinSample returns one random element, or an array of up to n
// distinct positions when n is not 1.
func builtinSample(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("sample", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	n := int64(1)
	if v := Arg(args, 1); !v.IsNull() {
		n = v.Int()
	}
	if n == 1 {
		if len(arr.Elements) == 0 {
			return NewNull(), nil
		}
		return arr.Elements[rand.IntN(len(arr.Elements))], nil
	}
	picked := shuffled(arr.Elements)
	return NewArray(picked[:min(max(n, 0), int64(len(picked)))]), nil
}

func builtinShuffle(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("shuffle", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	return NewArray(shuffled(arr.Elements)), nil
}

func shuffled(elems []Value) []Value {
	out := append([]Value(nil), elems...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// builtinTimes collects fn(i) for i from 0 to n-1.
func builtinTimes(in *Interpreter, args []Value) (Value, error) {
	n, fn := Arg(args, 0).Int(), Arg(args, 1)
	if !fn.IsCallable() {
		return NewNull(), NewError(ErrType, "times expects a function, got %s", fn.Kind())
	}
	var out []Value
	for i := int64(0); i < n; i++ {
		res, err := in.CallFunc(fn, NewInt(i))
		if err != nil {
			return NewNull(), err
		}
		out = append(out, res)
	}
	return NewArray(out), nil
}
