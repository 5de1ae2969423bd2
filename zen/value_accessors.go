package zen

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) IsCallable() bool {
	switch v.kind {
	case KindFunction, KindBuiltin, KindBoundMethod:
		return true
	default:
		return false
	}
}

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	case KindBool:
		if v.data.(bool) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	case KindBool:
		if v.data.(bool) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Str returns the raw text of a string value and "" for anything else. Use
// String for the printable form of arbitrary values.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.data.(string)
}

func (v Value) Array() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*Array)
}

// Elements returns the array's elements, or nil for non-arrays.
func (v Value) Elements() []Value {
	if arr := v.Array(); arr != nil {
		return arr.Elements
	}
	return nil
}

func (v Value) Object() map[string]Value {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(map[string]Value)
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

func (v Value) Builtin() *Builtin {
	if v.kind != KindBuiltin {
		return nil
	}
	return v.data.(*Builtin)
}

func (v Value) BoundMethod() *BoundMethod {
	if v.kind != KindBoundMethod {
		return nil
	}
	return v.data.(*BoundMethod)
}

func (v Value) Class() *Class {
	if v.kind != KindClass {
		return nil
	}
	return v.data.(*Class)
}

func (v Value) Instance() *Instance {
	if v.kind != KindInstance {
		return nil
	}
	return v.data.(*Instance)
}
