package zen

// ValueKind identifies the dynamic type of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindFunction
	KindBuiltin
	KindBoundMethod
	KindClass
	KindInstance
)

// Value is a dynamically typed runtime value. The zero Value is null.
type Value struct {
	kind ValueKind
	data any
}

// Array is the shared backing store of an array value; copies of the Value
// alias the same elements.
type Array struct {
	Elements []Value
}

// Function is a user-defined closure.
type Function struct {
	Name   string
	Params []string
	Body   *Block
	Env    *Env
	Pos    Position
	source string
}

// BuiltinFunc is the callable-value protocol for host functions.
type BuiltinFunc func(in *Interpreter, args []Value) (Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// BoundMethod pairs a method name with its receiver. Instance is nil for
// static methods bound to Class.
type BoundMethod struct {
	Instance *Instance
	Class    *Class
	Name     string
	Internal bool
}
