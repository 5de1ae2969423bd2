package zen

import (
	"fmt"
	"math"
)

// ToNative converts a value to plain Go data: nil, bool, int64, float64,
// string, []any and map[string]any. Callables and classes become their
// display string; instances become a map of their properties. A container
// reached again through itself converts to nil.
func ToNative(v Value) any {
	return toNative(v, nil)
}

func toNative(v Value, seen map[any]struct{}) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat:
		return v.Float()
	case KindString:
		return v.Str()
	case KindArray:
		key := v.ref()
		if _, ok := seen[key]; ok {
			return nil
		}
		seen = enter(seen, key)
		defer delete(seen, key)
		elems := v.Elements()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toNative(e, seen)
		}
		return out
	case KindObject:
		key := v.ref()
		if _, ok := seen[key]; ok {
			return nil
		}
		seen = enter(seen, key)
		defer delete(seen, key)
		return nativeMap(v.Object(), seen)
	case KindInstance:
		inst := v.Instance()
		if _, ok := seen[inst]; ok {
			return nil
		}
		seen = enter(seen, inst)
		defer delete(seen, inst)
		return nativeMap(inst.Properties, seen)
	default:
		return v.String()
	}
}

func nativeMap(src map[string]Value, seen map[any]struct{}) map[string]any {
	out := make(map[string]any, len(src))
	for k, e := range src {
		out[k] = toNative(e, seen)
	}
	return out
}

// FromNative converts decoded Go data back into a value. Whole float64
// numbers become ints so JSON integers round-trip.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return NewNull()
	case Value:
		return t
	case bool:
		return NewBool(t)
	case int:
		return NewInt(int64(t))
	case int32:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case uint64:
		return NewInt(int64(t))
	case float32:
		return FromNative(float64(t))
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return NewInt(int64(t))
		}
		return NewFloat(t)
	case string:
		return NewString(t)
	case []byte:
		return NewString(string(t))
	case []string:
		out := make([]Value, len(t))
		for i, s := range t {
			out[i] = NewString(s)
		}
		return NewArray(out)
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = FromNative(e)
		}
		return NewArray(out)
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = FromNative(e)
		}
		return NewObject(out)
	case map[string]string:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = NewString(e)
		}
		return NewObject(out)
	default:
		return NewString(fmt.Sprint(t))
	}
}

// StringList converts an array of values to their display strings.
func StringList(v Value) []string {
	elems := v.Elements()
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.String()
	}
	return out
}

// ObjectKeys returns an object's keys in sorted order.
func ObjectKeys(v Value) []string {
	return sortedKeys(v.Object())
}
