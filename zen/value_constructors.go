package zen

func NewNull() Value           { return Value{kind: KindNull} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewArray(a []Value) Value { return Value{kind: KindArray, data: &Array{Elements: a}} }
func NewObject(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindObject, data: m}
}

func NewFunction(fn *Function) Value   { return Value{kind: KindFunction, data: fn} }
func NewClass(c *Class) Value          { return Value{kind: KindClass, data: c} }
func NewInstance(inst *Instance) Value { return Value{kind: KindInstance, data: inst} }

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}

func newBoundMethod(m *BoundMethod) Value {
	return Value{kind: KindBoundMethod, data: m}
}
