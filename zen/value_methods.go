package zen

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction, KindBuiltin, KindBoundMethod:
		return "function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TypeName is the name reported by the type() built-in; instances report
// their class name.
func (v Value) TypeName() string {
	if inst := v.Instance(); inst != nil {
		return inst.Class.Name
	}
	return v.kind.String()
}

// String renders the display form used by print and string concatenation.
// An array or object that contains itself renders the inner reference as
// [...] or {...}.
func (v Value) String() string {
	return v.render(nil)
}

// Inspect is like String but quotes strings, so nested values stay
// unambiguous.
func (v Value) Inspect() string {
	return v.inspect(nil)
}

func (v Value) inspect(seen map[any]struct{}) string {
	if v.kind == KindString {
		return strconv.Quote(v.data.(string))
	}
	return v.render(seen)
}

func (v Value) render(seen map[any]struct{}) string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return formatFloat(v.data.(float64))
	case KindArray:
		key := v.ref()
		if _, ok := seen[key]; ok {
			return "[...]"
		}
		seen = enter(seen, key)
		defer delete(seen, key)
		elems := v.Elements()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.inspect(seen)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		key := v.ref()
		if _, ok := seen[key]; ok {
			return "{...}"
		}
		seen = enter(seen, key)
		defer delete(seen, key)
		entries := v.Object()
		keys := sortedKeys(entries)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + entries[k].inspect(seen)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		fn := v.Function()
		if fn.Name == "" {
			return "<function>"
		}
		return fmt.Sprintf("<function %s>", fn.Name)
	case KindBuiltin:
		return fmt.Sprintf("<builtin %s>", v.Builtin().Name)
	case KindBoundMethod:
		m := v.BoundMethod()
		return fmt.Sprintf("<bound method %s.%s>", m.Class.Name, m.Name)
	case KindClass:
		return fmt.Sprintf("<class %s>", v.Class().Name)
	case KindInstance:
		return fmt.Sprintf("<%s instance>", v.Instance().Class.Name)
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// ref is the identity of an array or object's shared storage; nil for
// every other kind.
func (v Value) ref() any {
	switch v.kind {
	case KindArray:
		return v.data.(*Array)
	case KindObject:
		return reflect.ValueOf(v.data).UnsafePointer()
	default:
		return nil
	}
}

func enter(seen map[any]struct{}, key any) map[any]struct{} {
	if seen == nil {
		seen = make(map[any]struct{})
	}
	seen[key] = struct{}{}
	return seen
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Truthy reports whether the value counts as true in a condition. Null,
// false, zero, and empty strings, arrays and objects are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.data.(int64) != 0
	case KindFloat:
		return v.data.(float64) != 0
	case KindString:
		return v.data.(string) != ""
	case KindArray:
		return len(v.Elements()) > 0
	case KindObject:
		return len(v.Object()) > 0
	default:
		return true
	}
}

// Equal compares numbers by value across int and float, arrays and objects
// structurally, and reference values by identity. Two containers that are
// the same storage are always equal, and a pair already under comparison
// further up a cyclic structure is assumed equal.
func (v Value) Equal(other Value) bool {
	return v.equal(other, nil)
}

type refPair struct{ a, b any }

func (v Value) equal(other Value, active map[refPair]struct{}) bool {
	if v.IsNumber() && other.IsNumber() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.data.(int64) == other.data.(int64)
		}
		return v.Float() == other.Float()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray, KindObject:
		pair := refPair{v.ref(), other.ref()}
		if pair.a == pair.b {
			return true
		}
		if _, ok := active[pair]; ok {
			return true
		}
		if active == nil {
			active = make(map[refPair]struct{})
		}
		active[pair] = struct{}{}
		defer delete(active, pair)
		if v.kind == KindArray {
			return equalElements(v.Elements(), other.Elements(), active)
		}
		return equalEntries(v.Object(), other.Object(), active)
	case KindBoundMethod:
		a, b := v.BoundMethod(), other.BoundMethod()
		return a.Instance == b.Instance && a.Class == b.Class && a.Name == b.Name
	default:
		return v.data == other.data
	}
}

func equalElements(a, b []Value, active map[refPair]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i], active) {
			return false
		}
	}
	return true
}

func equalEntries(a, b map[string]Value, active map[refPair]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.equal(bv, active) {
			return false
		}
	}
	return true
}

// Compare orders numbers and strings. ok is false for any other pairing.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	switch {
	case v.IsNumber() && other.IsNumber():
		if v.kind == KindInt && other.kind == KindInt {
			a, b := v.data.(int64), other.data.(int64)
			switch {
			case a < b:
				return -1, true
			case a > b:
				return 1, true
			}
			return 0, true
		}
		a, b := v.Float(), other.Float()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case v.kind == KindString && other.kind == KindString:
		return strings.Compare(v.Str(), other.Str()), true
	default:
		return 0, false
	}
}

// DeepCopy clones arrays and objects recursively. Other values are shared.
// Shared and cyclic references keep their shape in the copy.
func (v Value) DeepCopy() Value {
	return v.deepCopy(make(map[any]Value))
}

func (v Value) deepCopy(memo map[any]Value) Value {
	switch v.kind {
	case KindArray:
		if done, ok := memo[v.ref()]; ok {
			return done
		}
		elems := v.Elements()
		copied := NewArray(make([]Value, len(elems)))
		memo[v.ref()] = copied
		out := copied.Elements()
		for i, e := range elems {
			out[i] = e.deepCopy(memo)
		}
		return copied
	case KindObject:
		if done, ok := memo[v.ref()]; ok {
			return done
		}
		src := v.Object()
		copied := NewObject(make(map[string]Value, len(src)))
		memo[v.ref()] = copied
		out := copied.Object()
		for k, e := range src {
			out[k] = e.deepCopy(memo)
		}
		return copied
	default:
		return v
	}
}
