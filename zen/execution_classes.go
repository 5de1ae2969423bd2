package zen

// defineClass builds the class descriptor and binds it in env. Property
// defaults are evaluated once, here, not per instance.
func (in *Interpreter) defineClass(n *ClassDef, env *Env) error {
	var parent *Class
	if n.Parent != "" {
		val, ok := env.Get(n.Parent)
		if !ok {
			return in.errorAt(ErrName, n.position, "parent class '%s' is not defined", n.Parent)
		}
		if parent = val.Class(); parent == nil {
			return in.errorAt(ErrType, n.position, "'%s' is not a class", n.Parent)
		}
	}

	class := newClass(n.Name, parent, in.source)
	for _, m := range n.Methods {
		class.addMethod(m)
	}
	for _, p := range n.Properties {
		val := NewNull()
		if p.Default != nil {
			var err error
			if val, err = in.evalExpr(p.Default, env); err != nil {
				return err
			}
		}
		class.addProperty(&Property{Name: p.Name, Access: p.Access, Static: p.Static, Value: val})
	}
	env.Define(n.Name, NewClass(class))
	return nil
}

// evalNew allocates an instance and runs the constructor: a method named
// after the class whose parameter count equals the argument count. Its
// return value is discarded.
func (in *Interpreter) evalNew(n *NewExpr, env *Env) (Value, error) {
	val, ok := env.Get(n.Class)
	if !ok {
		return NewNull(), in.errorAt(ErrName, n.position, "class '%s' is not defined", n.Class)
	}
	class := val.Class()
	if class == nil {
		return NewNull(), in.errorAt(ErrType, n.position, "'%s' is not a class", n.Class)
	}

	inst := newInstance(class)
	args, err := in.evalArgs(n.Args, env)
	if err != nil {
		return NewNull(), err
	}
	if ctor := constructorFor(class, len(args)); ctor != nil {
		if _, err := in.invokeMethod(ctor, class, inst, args, n.position); err != nil {
			return NewNull(), err
		}
	}
	return NewInstance(inst), nil
}

func constructorFor(class *Class, argc int) *MethodDef {
	for _, m := range class.Methods[class.Name] {
		if len(m.Params) == argc {
			return m
		}
	}
	return nil
}
