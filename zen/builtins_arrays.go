package zen

import (
	"sort"
	"strings"
)

func registerArrayBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"length":   builtinLength,
		"push":     builtinPush,
		"pop":      builtinPop,
		"shift":    builtinShift,
		"unshift":  builtinUnshift,
		"slice":    builtinSlice,
		"indexOf":  builtinIndexOf,
		"includes": builtinIncludes,
		"reverse":  builtinReverse,
		"sort":     builtinSort,
		"join":     builtinJoin,
		"filter":   builtinFilter,
		"map":      builtinMap,
		"reduce":   builtinReduce,
		"forEach":  builtinForEach,
		"find":     builtinFind,
		"range":    builtinRange,
		"flatten":  builtinFlatten,
		"unique":   builtinUnique,
	} {
		in.RegisterBuiltin(name, fn)
	}
}

func requireArray(name string, v Value) (*Array, error) {
	arr := v.Array()
	if arr == nil {
		return nil, NewError(ErrType, "%s expects an array, got %s", name, v.Kind())
	}
	return arr, nil
}

func builtinLength(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	switch v.Kind() {
	case KindString:
		return NewInt(int64(len([]rune(v.Str())))), nil
	case KindArray:
		return NewInt(int64(len(v.Elements()))), nil
	case KindObject:
		return NewInt(int64(len(v.Object()))), nil
	default:
		return NewNull(), NewError(ErrType, "length expects a string, array or object, got %s", v.Kind())
	}
}

// builtinPush appends in place and returns the same array.
func builtinPush(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("push", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	arr.Elements = append(arr.Elements, args[1:]...)
	return args[0], nil
}

func builtinPop(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("pop", Arg(args, 0))
	if err != nil || len(arr.Elements) == 0 {
		return NewNull(), err
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last, nil
}

func builtinShift(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("shift", Arg(args, 0))
	if err != nil || len(arr.Elements) == 0 {
		return NewNull(), err
	}
	first := arr.Elements[0]
	arr.Elements = append([]Value(nil), arr.Elements[1:]...)
	return first, nil
}

func builtinUnshift(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("unshift", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	arr.Elements = append([]Value{Arg(args, 1)}, arr.Elements...)
	return args[0], nil
}

// sliceBounds clamps start and end the way Python slicing does, with
// negative offsets counted from the end.
func sliceBounds(length int, startArg, endArg Value) (int, int) {
	clamp := func(v Value, def int) int {
		if v.IsNull() {
			return def
		}
		i := int(v.Int())
		if i < 0 {
			i += length
		}
		return min(max(i, 0), length)
	}
	start, end := clamp(startArg, 0), clamp(endArg, length)
	if end < start {
		end = start
	}
	return start, end
}

func builtinSlice(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	switch v.Kind() {
	case KindString:
		runes := []rune(v.Str())
		start, end := sliceBounds(len(runes), Arg(args, 1), Arg(args, 2))
		return NewString(string(runes[start:end])), nil
	case KindArray:
		elems := v.Elements()
		start, end := sliceBounds(len(elems), Arg(args, 1), Arg(args, 2))
		return NewArray(append([]Value(nil), elems[start:end]...)), nil
	default:
		return NewNull(), NewError(ErrType, "slice expects a string or array, got %s", v.Kind())
	}
}

func indexOfValue(elems []Value, target Value) int {
	for i, e := range elems {
		if e.Equal(target) {
			return i
		}
	}
	return -1
}

func builtinIndexOf(_ *Interpreter, args []Value) (Value, error) {
	v, target := Arg(args, 0), Arg(args, 1)
	if v.Kind() == KindString {
		idx := strings.Index(v.Str(), target.String())
		if idx < 0 {
			return NewInt(-1), nil
		}
		return NewInt(int64(len([]rune(v.Str()[:idx])))), nil
	}
	arr, err := requireArray("indexOf", v)
	if err != nil {
		return NewNull(), err
	}
	return NewInt(int64(indexOfValue(arr.Elements, target))), nil
}

func builtinIncludes(_ *Interpreter, args []Value) (Value, error) {
	v, target := Arg(args, 0), Arg(args, 1)
	switch v.Kind() {
	case KindString:
		return NewBool(strings.Contains(v.Str(), target.String())), nil
	case KindObject:
		_, ok := v.Object()[target.String()]
		return NewBool(ok), nil
	}
	arr, err := requireArray("includes", v)
	if err != nil {
		return NewNull(), err
	}
	return NewBool(indexOfValue(arr.Elements, target) >= 0), nil
}

func builtinReverse(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	switch v.Kind() {
	case KindString:
		runes := []rune(v.Str())
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return NewString(string(runes)), nil
	case KindArray:
		elems := v.Elements()
		out := make([]Value, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		return NewArray(out), nil
	default:
		return v, nil
	}
}

// builtinSort returns a sorted copy. An optional comparator returning a
// negative, zero or positive number overrides natural ordering.
func builtinSort(in *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("sort", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	out := append([]Value(nil), arr.Elements...)
	cmpFn := Arg(args, 1)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		if cmpFn.IsCallable() {
			res, err := in.CallFunc(cmpFn, out[i], out[j])
			if err != nil {
				sortErr = err
				return false
			}
			return res.Float() < 0
		}
		c, ok := out[i].Compare(out[j])
		if !ok {
			sortErr = NewError(ErrType, "cannot compare %s with %s", out[i].Kind(), out[j].Kind())
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return NewNull(), sortErr
	}
	return NewArray(out), nil
}

func builtinJoin(_ *Interpreter, args []Value) (Value, error) {
	v := Arg(args, 0)
	if v.Kind() != KindArray {
		return NewString(v.String()), nil
	}
	sep := ""
	if len(args) > 1 {
		sep = args[1].String()
	}
	return NewString(strings.Join(StringList(v), sep)), nil
}

// eachElement calls fn on every element, stopping early when visit
// returns false.
func eachElement(in *Interpreter, name string, arrVal, fn Value, visit func(i int, elem, result Value) bool) error {
	arr, err := requireArray(name, arrVal)
	if err != nil {
		return err
	}
	if !fn.IsCallable() {
		return NewError(ErrType, "%s expects a function, got %s", name, fn.Kind())
	}
	for i, elem := range append([]Value(nil), arr.Elements...) {
		res, err := in.CallFunc(fn, elem)
		if err != nil {
			return err
		}
		if !visit(i, elem, res) {
			break
		}
	}
	return nil
}

func builtinFilter(in *Interpreter, args []Value) (Value, error) {
	var out []Value
	err := eachElement(in, "filter", Arg(args, 0), Arg(args, 1), func(_ int, elem, res Value) bool {
		if res.Truthy() {
			out = append(out, elem)
		}
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewArray(out), nil
}

func builtinMap(in *Interpreter, args []Value) (Value, error) {
	var out []Value
	err := eachElement(in, "map", Arg(args, 0), Arg(args, 1), func(_ int, _, res Value) bool {
		out = append(out, res)
		return true
	})
	if err != nil {
		return NewNull(), err
	}
	return NewArray(out), nil
}

func builtinForEach(in *Interpreter, args []Value) (Value, error) {
	err := eachElement(in, "forEach", Arg(args, 0), Arg(args, 1), func(int, Value, Value) bool { return true })
	return NewNull(), err
}

func builtinFind(in *Interpreter, args []Value) (Value, error) {
	found := NewNull()
	err := eachElement(in, "find", Arg(args, 0), Arg(args, 1), func(_ int, elem, res Value) bool {
		if res.Truthy() {
			found = elem
			return false
		}
		return true
	})
	return found, err
}

// builtinReduce folds with fn(acc, elem). Without an initial value the
// first element seeds the accumulator.
func builtinReduce(in *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("reduce", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	fn := Arg(args, 1)
	if !fn.IsCallable() {
		return NewNull(), NewError(ErrType, "reduce expects a function, got %s", fn.Kind())
	}
	elems := append([]Value(nil), arr.Elements...)
	var acc Value
	if len(args) > 2 {
		acc = args[2]
	} else {
		if len(elems) == 0 {
			return NewNull(), nil
		}
		acc, elems = elems[0], elems[1:]
	}
	for _, elem := range elems {
		if acc, err = in.CallFunc(fn, acc, elem); err != nil {
			return NewNull(), err
		}
	}
	return acc, nil
}

// builtinRange mirrors range(end) and range(start, end, step).
func builtinRange(_ *Interpreter, args []Value) (Value, error) {
	var start, end, step int64 = 0, 0, 1
	switch len(args) {
	case 0:
		return NewNull(), NewError(ErrType, "range expects at least one argument")
	case 1:
		end = args[0].Int()
	default:
		start, end = args[0].Int(), args[1].Int()
		if len(args) > 2 {
			step = args[2].Int()
		}
	}
	if step == 0 {
		return NewNull(), NewError(ErrRuntime, "range step must not be zero")
	}
	n := rangeLength(start, end, step)
	if n > maxRangeLength {
		return NewNull(), NewError(ErrRuntime, "range too large: %d elements", n)
	}
	out := make([]Value, n)
	for k := range out {
		out[k] = NewInt(start + int64(k)*step)
	}
	return NewArray(out), nil
}

const maxRangeLength = 1 << 25

// rangeLength counts the values start, start+step, ... strictly before end
// without overflowing near the int64 limits.
func rangeLength(start, end, step int64) uint64 {
	var span, stride uint64
	switch {
	case step > 0 && start < end:
		span, stride = uint64(end)-uint64(start), uint64(step)
	case step < 0 && start > end:
		span, stride = uint64(start)-uint64(end), uint64(-(step+1))+1
	default:
		return 0
	}
	return (span-1)/stride + 1
}

func builtinFlatten(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("flatten", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	depth := -1
	if d := Arg(args, 1); !d.IsNull() {
		depth = int(d.Int())
	}
	var out []Value
	var walk func(elems []Value, level int)
	walk = func(elems []Value, level int) {
		for _, e := range elems {
			if e.Kind() == KindArray && (depth < 0 || level < depth) {
				walk(e.Elements(), level+1)
				continue
			}
			out = append(out, e)
		}
	}
	walk(arr.Elements, 0)
	return NewArray(out), nil
}

func builtinUnique(_ *Interpreter, args []Value) (Value, error) {
	arr, err := requireArray("unique", Arg(args, 0))
	if err != nil {
		return NewNull(), err
	}
	var out []Value
	for _, e := range arr.Elements {
		if indexOfValue(out, e) < 0 {
			out = append(out, e)
		}
	}
	return NewArray(out), nil
}
