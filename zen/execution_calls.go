package zen

func (in *Interpreter) evalCall(n *CallExpr, env *Env) (Value, error) {
	callee, err := in.evalExpr(n.Callee, env)
	if err != nil {
		return NewNull(), err
	}
	args, err := in.evalArgs(n.Args, env)
	if err != nil {
		return NewNull(), err
	}
	return in.callValue(callee, args, n.position)
}

func (in *Interpreter) callValue(callee Value, args []Value, pos Position) (Value, error) {
	if err := in.step(); err != nil {
		return NewNull(), err
	}
	switch callee.Kind() {
	case KindFunction:
		return in.callFunction(callee.Function(), args, pos)
	case KindBuiltin:
		b := callee.Builtin()
		val, err := b.Fn(in, args)
		if err != nil {
			return NewNull(), in.wrapError(err, pos)
		}
		return val, nil
	case KindBoundMethod:
		m := callee.BoundMethod()
		if m.Instance != nil {
			return in.callMethod(m.Instance, m.Name, args, m.Internal, pos)
		}
		return in.callStaticMethod(m.Class, m.Name, args, pos)
	default:
		return NewNull(), in.errorAt(ErrType, pos, "'%s' (%s) is not callable", callee.String(), callee.Kind())
	}
}

// bindParams binds parameters positionally; missing arguments are null and
// extra arguments are ignored.
func bindParams(env *Env, params []string, args []Value) {
	for i, name := range params {
		if i < len(args) {
			env.Define(name, args[i])
		} else {
			env.Define(name, NewNull())
		}
	}
}

func (in *Interpreter) callFunction(fn *Function, args []Value, pos Position) (Value, error) {
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	if err := in.pushFrame(name, pos); err != nil {
		return NewNull(), err
	}
	defer in.popFrame()

	prevSource := in.source
	in.source = fn.source
	defer func() { in.source = prevSource }()

	env := newEnv(fn.Env)
	bindParams(env, fn.Params, args)
	f, err := in.execStatements(fn.Body.Statements, env)
	if err != nil {
		return NewNull(), err
	}
	return in.callResult(f)
}

func (in *Interpreter) callResult(f flow) (Value, error) {
	switch f.kind {
	case flowReturn:
		return f.value, nil
	case flowNormal:
		return NewNull(), nil
	default:
		return NewNull(), in.strayFlowError(f)
	}
}

// callMethod dispatches an instance method. internal is true when the call
// site's receiver was literally `this`.
func (in *Interpreter) callMethod(inst *Instance, name string, args []Value, internal bool, pos Position) (Value, error) {
	method, owner := inst.Class.FindMethod(name, len(args))
	if method == nil {
		return NewNull(), in.errorAt(ErrLookup, pos, "method '%s' not found on %s", name, inst.Class.Name)
	}
	if method.Access == AccessPrivate && !internal {
		return NewNull(), in.errorAt(ErrAccess, pos, "cannot access private method '%s' of %s", name, inst.Class.Name)
	}
	return in.invokeMethod(method, owner, inst, args, pos)
}

func (in *Interpreter) callStaticMethod(class *Class, name string, args []Value, pos Position) (Value, error) {
	method, owner := class.FindStaticMethod(name, len(args))
	if method == nil {
		return NewNull(), in.errorAt(ErrLookup, pos, "static method '%s' not found on %s", name, class.Name)
	}
	if method.Access == AccessPrivate && !in.insideClass(class) {
		return NewNull(), in.errorAt(ErrAccess, pos, "cannot access private method '%s' of %s", name, class.Name)
	}
	return in.invokeMethod(method, owner, nil, args, pos)
}

// insideClass reports whether the running method belongs to class or to a
// class on the same inheritance line.
func (in *Interpreter) insideClass(class *Class) bool {
	if in.methodOwner == nil {
		return false
	}
	return in.methodOwner.inherits(class) || class.inherits(in.methodOwner)
}

// invokeMethod runs a method body in a fresh child of the global scope,
// with `this` bound when inst is non-nil.
func (in *Interpreter) invokeMethod(method *MethodDef, owner *Class, inst *Instance, args []Value, pos Position) (Value, error) {
	if err := in.pushFrame(owner.Name+"."+method.Name, pos); err != nil {
		return NewNull(), err
	}
	defer in.popFrame()

	prevSource, prevOwner := in.source, in.methodOwner
	in.source, in.methodOwner = owner.source, owner
	defer func() { in.source, in.methodOwner = prevSource, prevOwner }()

	env := newEnv(in.globals)
	if inst != nil {
		env.Define("this", NewInstance(inst))
	}
	bindParams(env, method.Params, args)
	f, err := in.execStatements(method.Body.Statements, env)
	if err != nil {
		return NewNull(), err
	}
	return in.callResult(f)
}
